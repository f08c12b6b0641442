// This file contains the logic for translating decoded HCL blocks into the
// format-agnostic declarative model defined in the model package.

package hcl_adapter

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/flowgrid/internal/ctxlog"
	"github.com/specialistvlad/flowgrid/internal/model"
)

type translator struct {
	ctx   context.Context
	model *model.Model
}

func newTranslator(ctx context.Context) *translator {
	return &translator{ctx: ctx, model: model.New()}
}

// translate merges the blocks of every file into one Model. Types come
// first, then implementation shells, then implementation bodies, so that
// references resolve regardless of file or declaration order.
func (t *translator) translate(roots []*fileRoot) (*model.Model, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	logger := ctxlog.FromContext(t.ctx)

	for _, root := range roots {
		for _, b := range root.Types {
			ct, tDiags := t.translateType(t.ctx, b)
			diags = append(diags, tDiags...)
			if _, dup := t.model.Types[ct.Name]; dup {
				diags = append(diags, errorf(ct.Range, "Duplicate component type", "Component type %q is declared more than once.", ct.Name))
				continue
			}
			t.model.Types[ct.Name] = ct
		}
	}

	type pendingImpl struct {
		block *componentImplBlock
		impl  *model.ComponentImplementation
	}
	var impls []pendingImpl
	for _, root := range roots {
		for _, b := range root.Implementations {
			rng := blockRange(b.Body)
			ct, ok := t.model.Types[b.TypeName]
			if !ok {
				diags = append(diags, errorf(rng, "Unknown component type", "Implementation %s.%s refers to undeclared type %q.", b.TypeName, b.Name, b.TypeName))
				continue
			}
			impl := &model.ComponentImplementation{Name: b.TypeName + "." + b.Name, Type: ct, Range: rng}
			if _, dup := t.model.Implementations[impl.Name]; dup {
				diags = append(diags, errorf(rng, "Duplicate implementation", "Implementation %q is declared more than once.", impl.Name))
				continue
			}
			t.model.Implementations[impl.Name] = impl
			impls = append(impls, pendingImpl{block: b, impl: impl})
		}
	}

	// Subcomponents first everywhere: flow segments look into the types of
	// subcomponents only, but connections and flows of one implementation
	// need all of its own subcomponents.
	for _, p := range impls {
		diags = append(diags, t.translateStructure(p.block, p.impl)...)
	}
	for _, p := range impls {
		diags = append(diags, t.translateFlows(p.block, p.impl)...)
	}

	for _, root := range roots {
		for _, b := range root.Systems {
			diags = append(diags, t.translateSystem(b)...)
		}
		for _, b := range root.ConnectionInstances {
			diags = append(diags, t.translateConnectionInstance(b)...)
		}
		for _, b := range root.SystemOperationModes {
			diags = append(diags, t.translateSOM(b)...)
		}
	}

	logger.Debug("Model translation finished.", "diagnostics", len(diags))
	return t.model, diags
}

// implementationFor resolves a classifier such as `radar` or `radar.impl`.
func (t *translator) implementationFor(expr hcl.Expression) (*model.ComponentType, *model.ComponentImplementation, hcl.Diagnostics) {
	parts, diags := traversalNames(expr)
	if diags.HasErrors() {
		return nil, nil, diags
	}
	switch len(parts) {
	case 1:
		ct, ok := t.model.Types[parts[0]]
		if !ok {
			return nil, nil, hcl.Diagnostics{errorf(expr.Range(), "Unknown component type", "No component type named %q.", parts[0])}
		}
		return ct, nil, nil
	case 2:
		name := strings.Join(parts, ".")
		impl, ok := t.model.Implementations[name]
		if !ok {
			return nil, nil, hcl.Diagnostics{errorf(expr.Range(), "Unknown implementation", "No component implementation named %q.", name)}
		}
		return impl.Type, impl, nil
	default:
		return nil, nil, hcl.Diagnostics{errorf(expr.Range(), "Invalid classifier", "A classifier is written as type or type.implementation.")}
	}
}

func (t *translator) translateSystem(b *systemBlock) hcl.Diagnostics {
	rng := blockRange(b.Body)
	var diags hcl.Diagnostics
	_, impl, implDiags := t.implementationFor(b.Implementation)
	diags = append(diags, implDiags...)
	if implDiags.HasErrors() {
		return diags
	}
	if impl == nil {
		return append(diags, errorf(b.Implementation.Range(), "Invalid system", "System %q must name an implementation, not a type.", b.Name))
	}
	if _, dup := t.model.Systems[b.Name]; dup {
		return append(diags, errorf(rng, "Duplicate system", "System %q is declared more than once.", b.Name))
	}
	t.model.Systems[b.Name] = &model.System{Name: b.Name, Implementation: impl, Range: rng}
	return diags
}

func (t *translator) translateConnectionInstance(b *connectionInstanceBlock) hcl.Diagnostics {
	rng := blockRange(b.Body)
	var diags hcl.Diagnostics

	src, srcDiags := traversalNames(b.Source)
	dst, dstDiags := traversalNames(b.Destination)
	diags = append(diags, srcDiags...)
	diags = append(diags, dstDiags...)

	decl := &model.ConnectionInstanceDecl{
		Name:        b.Name,
		Source:      strings.Join(src, "."),
		Destination: strings.Join(dst, "."),
		Range:       rng,
	}
	if len(b.References) == 0 {
		diags = append(diags, errorf(rng, "Missing reference", "Connection instance %q needs at least one reference block.", b.Name))
	}
	for _, rb := range b.References {
		var ref model.ReferenceDecl
		if isExprDefined(t.ctx, rb.Context, "context") {
			parts, ctxDiags := traversalNames(rb.Context)
			diags = append(diags, ctxDiags...)
			ref.Context = strings.Join(parts, ".")
		}
		parts, connDiags := traversalNames(rb.Connection)
		diags = append(diags, connDiags...)
		if len(parts) != 1 && !connDiags.HasErrors() {
			diags = append(diags, errorf(rb.Connection.Range(), "Invalid connection reference", "A reference names a single declared connection."))
			continue
		}
		if len(parts) == 1 {
			ref.Connection = parts[0]
		}
		decl.References = append(decl.References, ref)
	}

	soms, somDiags := modeNames(t.ctx, b.InModes)
	decl.InSOMs = soms
	diags = append(diags, somDiags...)

	t.model.ConnectionInstances = append(t.model.ConnectionInstances, decl)
	return diags
}

func (t *translator) translateSOM(b *systemOperationModeBlock) hcl.Diagnostics {
	rng := blockRange(b.Body)
	var diags hcl.Diagnostics
	refs, _, refDiags := referenceList(b.Modes)
	diags = append(diags, refDiags...)

	decl := &model.SOMDecl{Name: b.Name, Range: rng}
	for _, parts := range refs {
		decl.Modes = append(decl.Modes, strings.Join(parts, "."))
	}
	for _, other := range t.model.SystemOperationModes {
		if other.Name == decl.Name {
			return append(diags, errorf(rng, "Duplicate system operation mode", "System operation mode %q is declared more than once.", b.Name))
		}
	}
	t.model.SystemOperationModes = append(t.model.SystemOperationModes, decl)
	return diags
}
