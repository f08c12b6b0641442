package instance

import (
	"github.com/specialistvlad/flowgrid/internal/model"
	"github.com/specialistvlad/flowgrid/internal/nodeid"
)

// ComponentInstance is one node of the instance tree.
type ComponentInstance struct {
	Name     string
	Category model.Category
	// Subcomponent is the declaration this instance was created from. It is
	// nil for the system root.
	Subcomponent   *model.Subcomponent
	Type           *model.ComponentType
	Implementation *model.ComponentImplementation
	Parent         *ComponentInstance
	Children       []*ComponentInstance
	Features       []*FeatureInstance
	FlowSpecs      []*FlowSpecInstance
	Modes          []*ModeInstance
	// InModes are modes of the parent in which this instance exists. Empty
	// means always.
	InModes []*ModeInstance

	EndToEndFlows []*EndToEndFlowInstance
}

// IsRoot reports whether ci is the system root.
func (ci *ComponentInstance) IsRoot() bool { return ci.Parent == nil }

// Address returns the path of ci below the root.
func (ci *ComponentInstance) Address() nodeid.Address {
	if ci.IsRoot() {
		return nodeid.Address{}
	}
	return ci.Parent.Address().Child(ci.Name)
}

// String returns the address, or the system name for the root.
func (ci *ComponentInstance) String() string {
	if ci.IsRoot() {
		return ci.Name
	}
	return ci.Address().String()
}

// Component returns ci itself.
func (ci *ComponentInstance) Component() *ComponentInstance { return ci }

// SubcomponentInstance returns the child instance created from sub, or nil.
func (ci *ComponentInstance) SubcomponentInstance(sub *model.Subcomponent) *ComponentInstance {
	for _, c := range ci.Children {
		if c.Subcomponent == sub {
			return c
		}
	}
	return nil
}

// Child returns the child called name, or nil.
func (ci *ComponentInstance) Child(name string) *ComponentInstance {
	for _, c := range ci.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Lookup resolves addr relative to ci.
func (ci *ComponentInstance) Lookup(addr nodeid.Address) *ComponentInstance {
	cur := ci
	for _, name := range addr.Path {
		if cur = cur.Child(name); cur == nil {
			return nil
		}
	}
	return cur
}

// Feature returns the feature instance called name, or nil.
func (ci *ComponentInstance) Feature(name string) *FeatureInstance {
	for _, f := range ci.Features {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// FeatureFor returns the instance of the declared feature f, or nil.
func (ci *ComponentInstance) FeatureFor(f *model.Feature) *FeatureInstance {
	for _, fi := range ci.Features {
		if fi.Feature == f {
			return fi
		}
	}
	return nil
}

// FlowSpec returns the instance of spec on ci, or nil.
func (ci *ComponentInstance) FlowSpec(spec *model.FlowSpecification) *FlowSpecInstance {
	for _, fs := range ci.FlowSpecs {
		if fs.Spec == spec {
			return fs
		}
	}
	return nil
}

// Mode returns the mode instance called name, or nil.
func (ci *ComponentInstance) Mode(name string) *ModeInstance {
	for _, m := range ci.Modes {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

// IsDescendantOf reports whether ci is other or lies below it.
func (ci *ComponentInstance) IsDescendantOf(other *ComponentInstance) bool {
	for cur := ci; cur != nil; cur = cur.Parent {
		if cur == other {
			return true
		}
	}
	return false
}

// IsActive reports whether ci exists in som. A component exists when its
// parent does and, if it is restricted to modes, one of them is current.
func (ci *ComponentInstance) IsActive(som *SystemOperationMode) bool {
	for cur := ci; cur != nil; cur = cur.Parent {
		if !som.ContainsAny(cur.InModes) {
			return false
		}
	}
	return true
}

// Walk visits ci and every descendant in pre-order. Returning false from fn
// skips the subtree.
func (ci *ComponentInstance) Walk(fn func(*ComponentInstance) bool) {
	if !fn(ci) {
		return
	}
	for _, c := range ci.Children {
		c.Walk(fn)
	}
}

// AddEndToEndFlow registers fi on ci.
func (ci *ComponentInstance) AddEndToEndFlow(fi *EndToEndFlowInstance) {
	ci.EndToEndFlows = append(ci.EndToEndFlows, fi)
}

// RemoveEndToEndFlow unregisters fi. It reports whether fi was registered.
func (ci *ComponentInstance) RemoveEndToEndFlow(fi *EndToEndFlowInstance) bool {
	for i, cur := range ci.EndToEndFlows {
		if cur == fi {
			ci.EndToEndFlows = append(ci.EndToEndFlows[:i], ci.EndToEndFlows[i+1:]...)
			return true
		}
	}
	return false
}

// FeatureInstance is a feature of one component instance.
type FeatureInstance struct {
	Feature *model.Feature
	Owner   *ComponentInstance
}

// Name returns the declared feature name.
func (f *FeatureInstance) Name() string { return f.Feature.Name }

// Component returns the owning component instance.
func (f *FeatureInstance) Component() *ComponentInstance { return f.Owner }

func (f *FeatureInstance) String() string {
	if f.Owner.IsRoot() {
		return f.Name()
	}
	return f.Owner.Address().Child(f.Name()).String()
}

// ModeInstance is a mode of one component instance.
type ModeInstance struct {
	Mode  *model.Mode
	Owner *ComponentInstance
}

// Name returns the declared mode name.
func (m *ModeInstance) Name() string { return m.Mode.Name }

func (m *ModeInstance) String() string {
	if m.Owner.IsRoot() {
		return m.Name()
	}
	return m.Owner.Address().Child(m.Name()).String()
}

// FlowSpecInstance is a flow specification of one component instance.
type FlowSpecInstance struct {
	Spec        *model.FlowSpecification
	Owner       *ComponentInstance
	Source      *FeatureInstance
	Destination *FeatureInstance
	InModes     []*ModeInstance
}

func (fs *FlowSpecInstance) String() string {
	return fs.Owner.Address().Child(fs.Spec.Name).String()
}

// Component returns the owning component instance.
func (fs *FlowSpecInstance) Component() *ComponentInstance { return fs.Owner }

// IsActive reports whether the owner exists in som and, for a mode
// restricted flow, one of its modes is current.
func (fs *FlowSpecInstance) IsActive(som *SystemOperationMode) bool {
	return som.ContainsAny(fs.InModes) && fs.Owner.IsActive(som)
}
