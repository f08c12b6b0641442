package flows

import (
	"strings"

	"github.com/specialistvlad/flowgrid/internal/diag"
	"github.com/specialistvlad/flowgrid/internal/instance"
	"github.com/specialistvlad/flowgrid/internal/model"
)

// flowSpec handles a flow specification segment. With a subcomponent
// context it descends into every matching flow implementation, or treats
// the subcomponent as a leaf when there is none. Without a context it is the
// current component's own specification.
func (x *instantiation) flowSpec(t *traversal, seg model.FlowSegment) []*traversal {
	spec := seg.Element.(*model.FlowSpecification)
	if seg.Context == nil {
		return x.leaf(t, x.flowSpecInstance(t, t.ci, spec), t.ci, spec.Name)
	}

	sci := t.ci.SubcomponentInstance(seg.Context)
	if sci == nil {
		return x.fail(t, diag.MissingComponentInstance, seg.String(),
			"no component instance for subcomponent %q in %s", seg.Context.Name, t.ci)
	}

	var impls []*model.FlowImplementation
	if sci.Implementation != nil {
		impls = sci.Implementation.FlowImplementationsFor(spec)
	}
	if len(impls) == 0 {
		fsi := x.flowSpecInstance(t, sci, spec)
		out := x.leaf(t, fsi, sci, seg.String())
		if fsi != nil && sci.Implementation != nil && sci.Implementation.HasPortSubcomponents() && !x.p.incomplete[fsi] {
			x.p.incomplete[fsi] = true
			x.p.report(diag.Diagnostic{
				Kind:     diag.IncompleteFlowPath,
				Severity: diag.Warning,
				Element:  seg.String(),
				Instance: t.rec.inst.String(),
				Message:  "component " + sci.String() + " has subcomponents, but no flow implementation of " + spec.Name + " through them",
				Subject:  x.decl.Range.Ptr(),
			})
		}
		return out
	}

	var out []*traversal
	for i, b := range x.fork(t, len(impls)) {
		fi := impls[i]
		b.rec.modeLists = append(b.rec.modeLists, modeInstances(sci, fi))
		if len(fi.Segments) < 2 {
			// Too short to reach a subcomponent.
			out = append(out, x.leaf(b, x.flowSpecInstance(b, sci, spec), sci, seg.String())...)
			continue
		}
		b.stack = append(b.stack, frame{cur: b.cur, owner: b.ci})
		b.ci = sci
		b.cur = newCursor(fi.Segments, listFlowImpl)
		out = append(out, b)
	}
	return out
}

// flowSpecInstance looks up spec on ci. A missing instance is reported and
// the element is left out of the flow.
func (x *instantiation) flowSpecInstance(t *traversal, ci *instance.ComponentInstance, spec *model.FlowSpecification) *instance.FlowSpecInstance {
	fsi := ci.FlowSpec(spec)
	if fsi == nil {
		x.p.report(diag.Diagnostic{
			Kind:     diag.MissingFlowSpecInstance,
			Element:  spec.Name,
			Instance: t.rec.inst.String(),
			Message:  "could not find flow specification " + spec.Name + " of component " + ci.String(),
			Subject:  x.decl.Range.Ptr(),
		})
	}
	return fsi
}

// subcomponent handles a bare subcomponent segment.
func (x *instantiation) subcomponent(t *traversal, seg model.FlowSegment) []*traversal {
	sub := seg.Element.(*model.Subcomponent)
	sci := t.ci.SubcomponentInstance(sub)
	if sci == nil {
		return x.fail(t, diag.MissingComponentInstance, sub.Name,
			"no component instance for subcomponent %q in %s", sub.Name, t.ci)
	}
	return x.leaf(t, sci, sci, sub.Name)
}

// leaf appends a leaf element, first resolving any pending connections
// into it, and continues one level above comp. elem may be nil when the
// element could not be resolved; the flow then continues without it.
func (x *instantiation) leaf(t *traversal, elem instance.FlowElementInstance, comp *instance.ComponentInstance, name string) []*traversal {
	if len(t.pending) == 0 {
		appendElement(t, elem)
		return x.climb(t, comp, name)
	}

	matches := x.p.resolveConnections(t.pending, t.rec.inst)
	if len(matches) == 0 {
		return x.fail(t, diag.MissingConnectionInstance, connectionNames(t.pending),
			"missing connection instance to %s", name)
	}

	var out []*traversal
	for i, b := range x.fork(t, len(matches)) {
		b.rec.inst.Elements = append(b.rec.inst.Elements, matches[i].conn)
		appendElement(b, elem)
		b.pending = nil
		out = append(out, x.climb(b, comp, name)...)
	}
	return out
}

// climb continues t at the component containing comp.
func (x *instantiation) climb(t *traversal, comp *instance.ComponentInstance, name string) []*traversal {
	if comp.Parent == nil {
		return x.fail(t, diag.FlowLeavesSystem, name,
			"flow instance leaves the system instance after %s", name)
	}
	t.ci = comp.Parent
	return []*traversal{t}
}

// dataAccess handles a data access segment. The accessed data component,
// not the access feature, becomes the leaf, and traversal stays at the
// current level.
func (x *instantiation) dataAccess(t *traversal, seg model.FlowSegment) []*traversal {
	da := seg.Element.(*model.DataAccess)
	holder := t.ci
	if seg.Context != nil {
		if holder = t.ci.SubcomponentInstance(seg.Context); holder == nil {
			return x.fail(t, diag.MissingComponentInstance, seg.String(),
				"no component instance for subcomponent %q in %s", seg.Context.Name, t.ci)
		}
	}
	feature := holder.FeatureFor(da.Feature)
	if feature == nil {
		return x.fail(t, diag.UnreachableDataComponent, seg.String(),
			"component %s has no data access feature %s", holder, da.Feature.Name)
	}

	var candidates []connMatch
	var lastDecl *model.Connection
	if len(t.pending) > 0 {
		candidates = x.p.resolveConnections(t.pending, t.rec.inst)
		if len(candidates) == 0 {
			return x.fail(t, diag.MissingConnectionInstance, connectionNames(t.pending),
				"missing connection instance to %s", seg.String())
		}
		lastDecl = t.pending[len(t.pending)-1]
	} else {
		for _, c := range x.p.sys.ConnectionsAt(feature) {
			candidates = append(candidates, connMatch{conn: c, reversed: c.Destination == instance.ConnectionEnd(feature)})
		}
	}

	type target struct {
		match connMatch
		data  *instance.ComponentInstance
	}
	var targets []target
	rejected := len(candidates) == 0
	for _, m := range candidates {
		if ci, ok := m.destination().(*instance.ComponentInstance); ok && ci.Category == model.CategoryData {
			targets = append(targets, target{match: m, data: ci})
			continue
		}
		rejected = true
	}
	if rejected && !x.p.unreachable[feature] {
		x.p.unreachable[feature] = true
		x.p.report(diag.Diagnostic{
			Kind:     diag.UnreachableDataComponent,
			Element:  seg.String(),
			Instance: t.rec.inst.String(),
			Message:  "data access feature " + feature.String() + " is not a proxy for a data component",
			Subject:  x.decl.Range.Ptr(),
		})
	}
	if len(targets) == 0 {
		x.drop(t)
		return nil
	}

	branches := x.fork(t, len(targets))
	for i, b := range branches {
		tg := targets[i]
		if lastDecl != nil {
			b.rec.inst.Elements = append(b.rec.inst.Elements, tg.match.conn)
		}
		b.rec.inst.Elements = append(b.rec.inst.Elements, tg.data)
		b.pending = nil
		if lastDecl != nil && b.cur.atConnection() {
			b.pending = referenceTail(tg.match, lastDecl)
		}
	}
	return branches
}

func appendElement(t *traversal, elem instance.FlowElementInstance) {
	switch e := elem.(type) {
	case nil:
		return
	case *instance.FlowSpecInstance:
		if e == nil {
			return
		}
	case *instance.ComponentInstance:
		if e == nil {
			return
		}
	}
	t.rec.inst.Elements = append(t.rec.inst.Elements, elem)
}

func connectionNames(conns []*model.Connection) string {
	names := make([]string, len(conns))
	for i, c := range conns {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}
