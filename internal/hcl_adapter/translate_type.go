// This file translates component_type blocks into model.ComponentType values.

package hcl_adapter

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/flowgrid/internal/ctxlog"
	"github.com/specialistvlad/flowgrid/internal/model"
)

func (t *translator) translateType(ctx context.Context, b *componentTypeBlock) (*model.ComponentType, hcl.Diagnostics) {
	rng := blockRange(b.Body)
	var diags hcl.Diagnostics
	ctxlog.FromContext(ctx).Debug("Translating component type.", "type", b.Name)

	ct := &model.ComponentType{
		Name:     b.Name,
		Category: model.Category(b.Category),
		Range:    rng,
	}
	if !ct.Category.Valid() {
		diags = append(diags, errorf(rng, "Unknown category", "Component type %q has unknown category %q.", b.Name, b.Category))
	}

	for _, fb := range b.Features {
		f, fDiags := translateFeature(fb)
		diags = append(diags, fDiags...)
		if ct.Feature(f.Name) != nil {
			diags = append(diags, errorf(f.Range, "Duplicate feature", "Feature %q is declared twice on %q.", f.Name, b.Name))
			continue
		}
		ct.Features = append(ct.Features, f)
	}

	for _, sb := range b.FlowSpecs {
		fs, fsDiags := t.translateFlowSpec(ctx, ct, sb)
		diags = append(diags, fsDiags...)
		if fs == nil {
			continue
		}
		if ct.FlowSpec(fs.Name) != nil {
			diags = append(diags, errorf(fs.Range, "Duplicate flow specification", "Flow specification %q is declared twice on %q.", fs.Name, b.Name))
			continue
		}
		ct.FlowSpecs = append(ct.FlowSpecs, fs)
	}
	return ct, diags
}

func translateFeature(b *featureBlock) (*model.Feature, hcl.Diagnostics) {
	rng := blockRange(b.Body)
	var diags hcl.Diagnostics

	f := &model.Feature{
		Name:      b.Name,
		Kind:      model.FeaturePort,
		Direction: model.DirectionInOut,
		Range:     rng,
	}
	if b.Kind != "" {
		f.Kind = model.FeatureKind(b.Kind)
	}
	if b.Direction != "" {
		f.Direction = model.Direction(b.Direction)
	}

	switch f.Kind {
	case model.FeaturePort, model.FeatureDataAccess, model.FeatureBusAccess, model.FeatureFeatureGroup, model.FeatureAbstractShape:
	default:
		diags = append(diags, errorf(rng, "Unknown feature kind", "Feature %q has unknown kind %q.", b.Name, b.Kind))
	}
	switch f.Direction {
	case model.DirectionIn, model.DirectionOut, model.DirectionInOut:
	default:
		diags = append(diags, errorf(rng, "Unknown direction", "Feature %q has unknown direction %q.", b.Name, b.Direction))
	}
	return f, diags
}

func (t *translator) translateFlowSpec(ctx context.Context, ct *model.ComponentType, b *flowSpecBlock) (*model.FlowSpecification, hcl.Diagnostics) {
	rng := blockRange(b.Body)
	var diags hcl.Diagnostics

	fs := &model.FlowSpecification{
		Name:     b.Name,
		FlowKind: model.FlowKind(b.Kind),
		Range:    rng,
	}
	switch fs.FlowKind {
	case model.FlowSource, model.FlowSink, model.FlowPath:
	default:
		diags = append(diags, errorf(rng, "Unknown flow kind", "Flow specification %q has unknown kind %q.", b.Name, b.Kind))
		return nil, diags
	}

	var endDiags hcl.Diagnostics
	fs.In, endDiags = flowEnd(ctx, b.In, "in")
	diags = append(diags, endDiags...)
	fs.Out, endDiags = flowEnd(ctx, b.Out, "out")
	diags = append(diags, endDiags...)

	if fs.FlowKind != model.FlowSource && fs.In == nil {
		diags = append(diags, errorf(rng, "Missing flow end", "Flow specification %q of %q needs an \"in\" end.", b.Name, ct.Name))
	}
	if fs.FlowKind != model.FlowSink && fs.Out == nil {
		diags = append(diags, errorf(rng, "Missing flow end", "Flow specification %q of %q needs an \"out\" end.", b.Name, ct.Name))
	}

	inModes, modeDiags := modeNames(ctx, b.InModes)
	fs.InModes = inModes
	return fs, append(diags, modeDiags...)
}

// flowEnd decodes `feature` or `group.feature`.
func flowEnd(ctx context.Context, expr hcl.Expression, attr string) (*model.FlowEnd, hcl.Diagnostics) {
	if !isExprDefined(ctx, expr, attr) {
		return nil, nil
	}
	parts, diags := traversalNames(expr)
	if diags.HasErrors() {
		return nil, diags
	}
	switch len(parts) {
	case 1:
		return &model.FlowEnd{Feature: parts[0]}, nil
	case 2:
		return &model.FlowEnd{Context: parts[0], Feature: parts[1]}, nil
	default:
		return nil, hcl.Diagnostics{errorf(expr.Range(), "Invalid flow end", "Flow end %q must be a feature or group.feature.", strings.Join(parts, "."))}
	}
}
