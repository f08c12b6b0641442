package instance

// System is the elaborated form of one declared system.
type System struct {
	Name        string
	Root        *ComponentInstance
	Connections []*ConnectionInstance
	SOMs        []*SystemOperationMode
}

// Components returns every component instance in pre-order.
func (s *System) Components() []*ComponentInstance {
	var out []*ComponentInstance
	s.Root.Walk(func(ci *ComponentInstance) bool {
		out = append(out, ci)
		return true
	})
	return out
}

// SOM returns the system operation mode called name, or nil.
func (s *System) SOM(name string) *SystemOperationMode {
	for _, som := range s.SOMs {
		if som.Name == name {
			return som
		}
	}
	return nil
}

// ConnectionsAt returns the connection instances with an end at feature f,
// in declaration order.
func (s *System) ConnectionsAt(f *FeatureInstance) []*ConnectionInstance {
	var out []*ConnectionInstance
	for _, c := range s.Connections {
		if c.Source == ConnectionEnd(f) || c.Destination == ConnectionEnd(f) {
			out = append(out, c)
		}
	}
	return out
}

// EndToEndFlows returns every registered flow instance, owner by owner in
// pre-order.
func (s *System) EndToEndFlows() []*EndToEndFlowInstance {
	var out []*EndToEndFlowInstance
	s.Root.Walk(func(ci *ComponentInstance) bool {
		out = append(out, ci.EndToEndFlows...)
		return true
	})
	return out
}

// ClearEndToEndFlows drops every registered flow instance.
func (s *System) ClearEndToEndFlows() {
	s.Root.Walk(func(ci *ComponentInstance) bool {
		ci.EndToEndFlows = nil
		return true
	})
}
