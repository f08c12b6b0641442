package flows

import (
	"slices"

	"github.com/specialistvlad/flowgrid/internal/diag"
	"github.com/specialistvlad/flowgrid/internal/model"
)

// nested splices every instance of a referenced end-to-end flow into t.
// The pending connections of t followed by the alternative's leading
// connections must resolve to a connection instance whenever t already
// has elements; the alternative's trailing connections become pending.
// Each branch also records the in-modes of the referenced declaration.
func (x *instantiation) nested(t *traversal, seg model.FlowSegment) []*traversal {
	decl := seg.Element.(*model.EndToEndFlow)
	key := memoKey{t.ci, decl}
	if x.p.inProgress[key] || (t.ci.Implementation != nil && x.p.cyclicFlows(t.ci.Implementation)[decl]) {
		return x.fail(t, diag.CyclicNestedFlow, decl.Name,
			"end-to-end flow %q references itself through nested flows", decl.Name)
	}

	alts := x.p.instantiate(t.ci, decl)
	if len(alts) == 0 {
		return x.fail(t, diag.EmptyNestedFlow, decl.Name,
			"nested end-to-end flow %q has no instances in %s", decl.Name, t.ci)
	}

	type choice struct {
		alt   *record
		match *connMatch
	}
	var choices []choice
	for _, alt := range alts {
		seq := append(slices.Clone(t.pending), alt.preConns...)
		if len(t.rec.inst.Elements) == 0 || len(seq) == 0 {
			choices = append(choices, choice{alt: alt})
			continue
		}
		for _, m := range x.p.resolveConnections(seq, t.rec.inst) {
			choices = append(choices, choice{alt: alt, match: &m})
		}
	}
	if len(choices) == 0 {
		return x.fail(t, diag.MissingConnectionInstance, connectionNames(append(slices.Clone(t.pending), alts[0].preConns...)),
			"missing connection instance into nested flow %s", decl.Name)
	}

	modes := modeInstances(t.ci, decl)
	branches := x.fork(t, len(choices))
	for i, b := range branches {
		ch := choices[i]
		b.rec.modeLists = append(b.rec.modeLists, modes)
		if len(b.rec.inst.Elements) == 0 {
			b.rec.preConns = append(b.rec.preConns, ch.alt.preConns...)
		}
		if ch.match != nil {
			b.rec.inst.Elements = append(b.rec.inst.Elements, ch.match.conn)
		}
		b.rec.inst.Elements = append(b.rec.inst.Elements, ch.alt.inst)
		b.pending = slices.Clone(ch.alt.postConns)
	}
	return branches
}
