package instance

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/flowgrid/internal/model"
	"github.com/specialistvlad/flowgrid/internal/nodeid"
)

// ImplicitSOMName names the single mode of a system without declared
// system operation modes.
const ImplicitSOMName = "no_modes"

// ErrUnknownSystem is returned by Build for an undeclared system name.
var ErrUnknownSystem = errors.New("unknown system")

// Build instantiates the declared system systemName and resolves the
// declared connection instances and system operation modes against it.
func Build(m *model.Model, systemName string) (*System, error) {
	decl, ok := m.Systems[systemName]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSystem, systemName)
	}

	root, err := instantiate(decl.Name, nil, decl.Implementation.Type, decl.Implementation, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate system %q: %w", systemName, err)
	}
	sys := &System{Name: systemName, Root: root}

	if err := sys.buildSOMs(m.SystemOperationModes); err != nil {
		return nil, err
	}
	for _, cd := range m.ConnectionInstances {
		conn, err := sys.buildConnection(cd)
		if err != nil {
			return nil, fmt.Errorf("connection instance %q: %w", cd.Name, err)
		}
		sys.Connections = append(sys.Connections, conn)
	}
	return sys, nil
}

// instantiate creates the instance for one subcomponent (or the root) and
// recurses into its implementation. ancestors guards against an
// implementation that contains itself.
func instantiate(name string, sub *model.Subcomponent, ct *model.ComponentType, impl *model.ComponentImplementation, parent *ComponentInstance, ancestors []*model.ComponentImplementation) (*ComponentInstance, error) {
	ci := &ComponentInstance{
		Name:           name,
		Category:       ct.Category,
		Subcomponent:   sub,
		Type:           ct,
		Implementation: impl,
		Parent:         parent,
	}

	for _, f := range ct.Features {
		ci.Features = append(ci.Features, &FeatureInstance{Feature: f, Owner: ci})
	}
	if impl != nil {
		for _, md := range impl.Modes {
			ci.Modes = append(ci.Modes, &ModeInstance{Mode: md, Owner: ci})
		}
	}
	if sub != nil {
		modes, err := resolveModes(parent, sub.InModes)
		if err != nil {
			return nil, fmt.Errorf("subcomponent %q: %w", ci.Address(), err)
		}
		ci.InModes = modes
	}
	for _, spec := range ct.FlowSpecs {
		fs := &FlowSpecInstance{Spec: spec, Owner: ci}
		if spec.In != nil {
			fs.Source = flowEndFeature(ci, spec.In)
		}
		if spec.Out != nil {
			fs.Destination = flowEndFeature(ci, spec.Out)
		}
		modes, err := resolveModes(ci, spec.InModes)
		if err != nil {
			return nil, fmt.Errorf("flow specification %q: %w", fs, err)
		}
		fs.InModes = modes
		ci.FlowSpecs = append(ci.FlowSpecs, fs)
	}

	if impl == nil {
		return ci, nil
	}
	for _, a := range ancestors {
		if a == impl {
			return nil, fmt.Errorf("implementation %q contains itself at %q", impl.Name, ci)
		}
	}
	ancestors = append(ancestors, impl)
	for _, s := range impl.Subcomponents {
		child, err := instantiate(s.Name, s, s.Type, s.Implementation, ci, ancestors)
		if err != nil {
			return nil, err
		}
		ci.Children = append(ci.Children, child)
	}
	return ci, nil
}

// flowEndFeature returns the feature a flow end passes through. For an end
// inside a feature group the group itself is returned.
func flowEndFeature(ci *ComponentInstance, end *model.FlowEnd) *FeatureInstance {
	if end.Context != "" {
		return ci.Feature(end.Context)
	}
	return ci.Feature(end.Feature)
}

// resolveModes looks up mode names on the instance that declares them.
func resolveModes(ci *ComponentInstance, names []string) ([]*ModeInstance, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]*ModeInstance, 0, len(names))
	for _, name := range names {
		if ci == nil {
			return nil, fmt.Errorf("mode %q referenced without a modal container", name)
		}
		m := ci.Mode(name)
		if m == nil {
			return nil, fmt.Errorf("unknown mode %q on %q", name, ci)
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *System) buildSOMs(decls []*model.SOMDecl) error {
	if len(decls) == 0 {
		s.SOMs = []*SystemOperationMode{{Name: ImplicitSOMName}}
		return nil
	}
	for _, d := range decls {
		som := &SystemOperationMode{Name: d.Name}
		for _, raw := range d.Modes {
			addr, err := nodeid.Parse(raw)
			if err != nil {
				return fmt.Errorf("system operation mode %q: %w", d.Name, err)
			}
			owner := s.Root.Lookup(addr.Parent())
			if owner == nil {
				return fmt.Errorf("system operation mode %q: no component instance %q", d.Name, addr.Parent())
			}
			m := owner.Mode(addr.Last())
			if m == nil {
				return fmt.Errorf("system operation mode %q: unknown mode %q", d.Name, raw)
			}
			som.CurrentModes = append(som.CurrentModes, m)
		}
		s.SOMs = append(s.SOMs, som)
	}
	return nil
}

func (s *System) buildConnection(d *model.ConnectionInstanceDecl) (*ConnectionInstance, error) {
	src, err := s.resolveEnd(d.Source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	dst, err := s.resolveEnd(d.Destination)
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}
	conn := &ConnectionInstance{Name: d.Name, Source: src, Destination: dst, Range: d.Range}

	for _, ref := range d.References {
		addr, err := nodeid.Parse(ref.Context)
		if err != nil {
			return nil, fmt.Errorf("reference context: %w", err)
		}
		ctx := s.Root.Lookup(addr)
		if ctx == nil {
			return nil, fmt.Errorf("no component instance %q", ref.Context)
		}
		if ctx.Implementation == nil {
			return nil, fmt.Errorf("component instance %q has no implementation declaring %q", ctx, ref.Connection)
		}
		decl := ctx.Implementation.Connection(ref.Connection)
		if decl == nil {
			return nil, fmt.Errorf("implementation %q declares no connection %q", ctx.Implementation.Name, ref.Connection)
		}
		conn.References = append(conn.References, ConnectionReference{Connection: decl, Context: ctx})
	}

	for _, name := range d.InSOMs {
		som := s.SOM(name)
		if som == nil {
			return nil, fmt.Errorf("unknown system operation mode %q", name)
		}
		conn.InSOMs = append(conn.InSOMs, som)
	}
	return conn, nil
}

// resolveEnd resolves a path to a component instance, or else to a feature
// of the component named by all but the last segment.
func (s *System) resolveEnd(raw string) (ConnectionEnd, error) {
	addr, err := nodeid.Parse(raw)
	if err != nil {
		return nil, err
	}
	if !addr.IsRoot() {
		if ci := s.Root.Lookup(addr); ci != nil {
			return ci, nil
		}
	}
	owner := s.Root.Lookup(addr.Parent())
	if owner == nil {
		return nil, fmt.Errorf("no component instance %q", addr.Parent())
	}
	if f := owner.Feature(addr.Last()); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%q is neither a component instance nor a feature", raw)
}
