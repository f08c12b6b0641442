package instance

import (
	"github.com/specialistvlad/flowgrid/internal/model"
)

// FlowElementInstance is implemented by *ComponentInstance,
// *FlowSpecInstance, *ConnectionInstance and *EndToEndFlowInstance only.
type FlowElementInstance interface {
	String() string
	flowElementInstance()
}

func (*ComponentInstance) flowElementInstance()    {}
func (*FlowSpecInstance) flowElementInstance()     {}
func (*ConnectionInstance) flowElementInstance()   {}
func (*EndToEndFlowInstance) flowElementInstance() {}

// EndToEndFlowInstance is one concrete realization of a declared end-to-end
// flow.
type EndToEndFlowInstance struct {
	Name     string
	Decl     *model.EndToEndFlow
	Owner    *ComponentInstance
	Elements []FlowElementInstance
	// InSOMs lists the modes in which the flow is active. It is left empty
	// when the system has at most one mode.
	InSOMs []*SystemOperationMode
}

// String returns the qualified flow name.
func (fi *EndToEndFlowInstance) String() string {
	if fi.Owner == nil || fi.Owner.IsRoot() {
		return fi.Name
	}
	return fi.Owner.Address().Child(fi.Name).String()
}

// ElementNames renders every element, e.g. [Radar c1 Radar.in_to_out].
func (fi *EndToEndFlowInstance) ElementNames() []string {
	out := make([]string, len(fi.Elements))
	for i, e := range fi.Elements {
		out[i] = e.String()
	}
	return out
}

// SOMNames renders InSOMs.
func (fi *EndToEndFlowInstance) SOMNames() []string {
	out := make([]string, len(fi.InSOMs))
	for i, s := range fi.InSOMs {
		out[i] = s.Name
	}
	return out
}

// LastElement returns the final element, following nested flows to their
// own final element. It returns nil for an empty flow.
func (fi *EndToEndFlowInstance) LastElement() FlowElementInstance {
	if len(fi.Elements) == 0 {
		return nil
	}
	last := fi.Elements[len(fi.Elements)-1]
	if nested, ok := last.(*EndToEndFlowInstance); ok {
		return nested.LastElement()
	}
	return last
}
