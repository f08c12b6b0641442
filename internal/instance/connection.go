package instance

import (
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/flowgrid/internal/model"
)

// ConnectionEnd is either a *ComponentInstance or a *FeatureInstance.
type ConnectionEnd interface {
	Component() *ComponentInstance
	String() string
}

// ConnectionReference is one declared connection crossed by a connection
// instance, together with the component whose implementation declares it.
type ConnectionReference struct {
	Connection *model.Connection
	Context    *ComponentInstance
}

// ConnectionInstance is a semantic connection from an ultimate source to an
// ultimate destination. References are ordered from source to destination.
type ConnectionInstance struct {
	Name        string
	Source      ConnectionEnd
	Destination ConnectionEnd
	References  []ConnectionReference
	// InSOMs is empty when the connection exists in every mode.
	InSOMs []*SystemOperationMode
	Range  hcl.Range
}

func (c *ConnectionInstance) String() string { return c.Name }

// Connections returns the declared connections of the reference chain.
func (c *ConnectionInstance) Connections() []*model.Connection {
	out := make([]*model.Connection, len(c.References))
	for i, r := range c.References {
		out[i] = r.Connection
	}
	return out
}

// ActiveIn reports whether c exists in som.
func (c *ConnectionInstance) ActiveIn(som *SystemOperationMode) bool {
	return len(c.InSOMs) == 0 || slices.Contains(c.InSOMs, som)
}

// SystemOperationMode is one consistent combination of current modes.
type SystemOperationMode struct {
	Name         string
	CurrentModes []*ModeInstance
}

func (s *SystemOperationMode) String() string { return s.Name }

// Contains reports whether m is current in s.
func (s *SystemOperationMode) Contains(m *ModeInstance) bool {
	return slices.Contains(s.CurrentModes, m)
}

// ContainsAny reports whether any of modes is current in s. An empty list
// does not constrain and yields true.
func (s *SystemOperationMode) ContainsAny(modes []*ModeInstance) bool {
	if len(modes) == 0 {
		return true
	}
	for _, m := range modes {
		if s.Contains(m) {
			return true
		}
	}
	return false
}
