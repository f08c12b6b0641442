package flows

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/flowgrid/internal/instance"
)

// fork returns n branches that share t's progress so far. The first is t
// itself. Every other one is a deep copy named after the declaration with
// the next clone suffix and registered on the same owner.
func (x *instantiation) fork(t *traversal, n int) []*traversal {
	out := make([]*traversal, 0, n)
	out = append(out, t)
	for i := 1; i < n; i++ {
		name := fmt.Sprintf("%s_%d", x.decl.Name, x.counter)
		x.counter++
		out = append(out, x.clone(t, name))
	}
	if n > 1 {
		x.p.summary.Branches += n - 1
		x.p.engine.metrics.RecordBranches(n - 1)
		x.log.Debug("Forked flow instance.", "instance", t.rec.inst.Name, "branches", n)
	}
	return out
}

// clone copies t and its record. Declarations, component instances and
// connection instances are shared; every slice is copied.
func (x *instantiation) clone(t *traversal, name string) *traversal {
	rec := &record{
		inst: &instance.EndToEndFlowInstance{
			Name:     name,
			Decl:     t.rec.inst.Decl,
			Owner:    t.rec.inst.Owner,
			Elements: slices.Clone(t.rec.inst.Elements),
		},
		preConns:  slices.Clone(t.rec.preConns),
		modeLists: slices.Clone(t.rec.modeLists),
	}
	x.owner.AddEndToEndFlow(rec.inst)
	x.created = append(x.created, rec)

	return &traversal{
		rec:     rec,
		ci:      t.ci,
		cur:     t.cur,
		pending: slices.Clone(t.pending),
		stack:   slices.Clone(t.stack),
	}
}
