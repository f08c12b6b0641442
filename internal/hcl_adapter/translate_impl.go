// This file translates the bodies of component_implementation blocks:
// subcomponents, connections, modes, flow implementations and end-to-end
// flows.

package hcl_adapter

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/flowgrid/internal/ctxlog"
	"github.com/specialistvlad/flowgrid/internal/model"
)

// translateStructure fills in subcomponents, modes and connections.
func (t *translator) translateStructure(b *componentImplBlock, impl *model.ComponentImplementation) hcl.Diagnostics {
	var diags hcl.Diagnostics
	ctxlog.FromContext(t.ctx).Debug("Translating implementation structure.", "implementation", impl.Name)

	for _, sb := range b.Subcomponents {
		rng := blockRange(sb.Body)
		if impl.Subcomponent(sb.Name) != nil {
			diags = append(diags, errorf(rng, "Duplicate subcomponent", "Subcomponent %q is declared twice in %q.", sb.Name, impl.Name))
			continue
		}
		ct, subImpl, clsDiags := t.implementationFor(sb.Classifier)
		diags = append(diags, clsDiags...)
		if clsDiags.HasErrors() {
			continue
		}
		inModes, modeDiags := modeNames(t.ctx, sb.InModes)
		diags = append(diags, modeDiags...)
		impl.Subcomponents = append(impl.Subcomponents, &model.Subcomponent{
			Name:           sb.Name,
			Category:       ct.Category,
			Type:           ct,
			Implementation: subImpl,
			InModes:        inModes,
			Range:          rng,
		})
	}

	for _, mb := range b.Modes {
		rng := blockRange(mb.Body)
		if impl.Mode(mb.Name) != nil {
			diags = append(diags, errorf(rng, "Duplicate mode", "Mode %q is declared twice in %q.", mb.Name, impl.Name))
			continue
		}
		impl.Modes = append(impl.Modes, &model.Mode{Name: mb.Name, Initial: mb.Initial, Range: rng})
	}

	for _, cb := range b.Connections {
		rng := blockRange(cb.Body)
		if impl.Connection(cb.Name) != nil {
			diags = append(diags, errorf(rng, "Duplicate connection", "Connection %q is declared twice in %q.", cb.Name, impl.Name))
			continue
		}
		src, srcDiags := t.connectedElement(impl, cb.Source)
		dst, dstDiags := t.connectedElement(impl, cb.Destination)
		diags = append(diags, srcDiags...)
		diags = append(diags, dstDiags...)
		inModes, modeDiags := modeNames(t.ctx, cb.InModes)
		diags = append(diags, modeDiags...)
		impl.Connections = append(impl.Connections, &model.Connection{
			Name:          cb.Name,
			Source:        src,
			Destination:   dst,
			Bidirectional: cb.Bidirectional,
			InModes:       inModes,
			Range:         rng,
		})
	}
	return diags
}

// connectedElement resolves `sub`, `feature` or `sub.feature`. A single name
// refers to a subcomponent when one exists, otherwise to a feature of the
// implemented type.
func (t *translator) connectedElement(impl *model.ComponentImplementation, expr hcl.Expression) (model.ConnectedElement, hcl.Diagnostics) {
	parts, diags := traversalNames(expr)
	if diags.HasErrors() {
		return model.ConnectedElement{}, diags
	}
	switch len(parts) {
	case 1:
		if impl.Subcomponent(parts[0]) != nil {
			return model.ConnectedElement{Context: parts[0]}, nil
		}
		if impl.Type.Feature(parts[0]) == nil {
			return model.ConnectedElement{}, hcl.Diagnostics{errorf(expr.Range(), "Unknown connection end",
				"%q is neither a subcomponent of %q nor a feature of %q.", parts[0], impl.Name, impl.Type.Name)}
		}
		return model.ConnectedElement{Feature: parts[0]}, nil
	case 2:
		sub := impl.Subcomponent(parts[0])
		if sub == nil {
			return model.ConnectedElement{}, hcl.Diagnostics{errorf(expr.Range(), "Unknown subcomponent",
				"Implementation %q has no subcomponent %q.", impl.Name, parts[0])}
		}
		if sub.Type.Feature(parts[1]) == nil {
			return model.ConnectedElement{}, hcl.Diagnostics{errorf(expr.Range(), "Unknown feature",
				"Subcomponent %q has no feature %q.", parts[0], parts[1])}
		}
		return model.ConnectedElement{Context: parts[0], Feature: parts[1]}, nil
	default:
		return model.ConnectedElement{}, hcl.Diagnostics{errorf(expr.Range(), "Invalid connection end",
			"A connection end is written as feature, subcomponent or subcomponent.feature.")}
	}
}

// translateFlows fills in flow implementations and end-to-end flows.
// End-to-end flow shells are created before any segment is resolved so that
// flows can reference each other in any order.
func (t *translator) translateFlows(b *componentImplBlock, impl *model.ComponentImplementation) hcl.Diagnostics {
	var diags hcl.Diagnostics

	e2eBlocks := make([]*endToEndFlowBlock, 0, len(b.EndToEndFlows))
	for _, eb := range b.EndToEndFlows {
		rng := blockRange(eb.Body)
		if impl.EndToEndFlow(eb.Name) != nil {
			diags = append(diags, errorf(rng, "Duplicate end-to-end flow", "End-to-end flow %q is declared twice in %q.", eb.Name, impl.Name))
			continue
		}
		inModes, modeDiags := modeNames(t.ctx, eb.InModes)
		diags = append(diags, modeDiags...)
		impl.EndToEndFlows = append(impl.EndToEndFlows, &model.EndToEndFlow{Name: eb.Name, InModes: inModes, Range: rng})
		e2eBlocks = append(e2eBlocks, eb)
	}

	for _, fb := range b.FlowImpls {
		rng := blockRange(fb.Body)
		spec := impl.Type.FlowSpec(fb.Spec)
		if spec == nil {
			diags = append(diags, errorf(rng, "Unknown flow specification", "Type %q has no flow specification %q.", impl.Type.Name, fb.Spec))
			continue
		}
		kind := spec.FlowKind
		if fb.Kind != "" {
			kind = model.FlowKind(fb.Kind)
		}
		if kind != spec.FlowKind {
			diags = append(diags, errorf(rng, "Flow kind mismatch", "Flow implementation of %q is a %s but the specification is a %s.", fb.Spec, kind, spec.FlowKind))
			continue
		}
		segs, segDiags := t.segments(impl, fb.Segments, false)
		diags = append(diags, segDiags...)
		inModes, modeDiags := modeNames(t.ctx, fb.InModes)
		diags = append(diags, modeDiags...)
		impl.FlowImpls = append(impl.FlowImpls, &model.FlowImplementation{
			Spec:     spec,
			FlowKind: kind,
			Segments: segs,
			InModes:  inModes,
			Range:    rng,
		})
	}

	for i, eb := range e2eBlocks {
		segs, segDiags := t.segments(impl, eb.Segments, true)
		diags = append(diags, segDiags...)
		impl.EndToEndFlows[i].Segments = segs
	}
	return diags
}

// segments resolves a segment list against impl. Single names are looked up
// as connection, subcomponent, end-to-end flow (when allowed), own data
// access feature and own flow specification, in that order. Dotted names
// resolve within a subcomponent's type: a flow specification first, then a
// data access feature.
func (t *translator) segments(impl *model.ComponentImplementation, expr hcl.Expression, allowNested bool) ([]model.FlowSegment, hcl.Diagnostics) {
	refs, ranges, diags := referenceList(expr)
	out := make([]model.FlowSegment, 0, len(refs))
	for i, parts := range refs {
		seg, ok := t.segment(impl, parts, allowNested)
		if !ok {
			diags = append(diags, errorf(ranges[i], "Unknown flow segment",
				"%q does not name a flow element of %q.", strings.Join(parts, "."), impl.Name))
			continue
		}
		out = append(out, seg)
	}
	return out, diags
}

func (t *translator) segment(impl *model.ComponentImplementation, parts []string, allowNested bool) (model.FlowSegment, bool) {
	switch len(parts) {
	case 1:
		name := parts[0]
		if c := impl.Connection(name); c != nil {
			return model.FlowSegment{Element: c}, true
		}
		if s := impl.Subcomponent(name); s != nil {
			return model.FlowSegment{Element: s}, true
		}
		if allowNested {
			if e := impl.EndToEndFlow(name); e != nil {
				return model.FlowSegment{Element: e}, true
			}
		}
		if f := impl.Type.Feature(name); f != nil && f.Kind == model.FeatureDataAccess {
			return model.FlowSegment{Element: &model.DataAccess{Feature: f}}, true
		}
		if fs := impl.Type.FlowSpec(name); fs != nil {
			return model.FlowSegment{Element: fs}, true
		}
	case 2:
		sub := impl.Subcomponent(parts[0])
		if sub == nil {
			return model.FlowSegment{}, false
		}
		if fs := sub.Type.FlowSpec(parts[1]); fs != nil {
			return model.FlowSegment{Context: sub, Element: fs}, true
		}
		if f := sub.Type.Feature(parts[1]); f != nil && f.Kind == model.FeatureDataAccess {
			return model.FlowSegment{Context: sub, Element: &model.DataAccess{Feature: f}}, true
		}
	}
	return model.FlowSegment{}, false
}
