package flows

import (
	"github.com/specialistvlad/flowgrid/internal/instance"
	"github.com/specialistvlad/flowgrid/internal/model"
)

// connMatch is a connection instance realizing a pending connection
// sequence. A reversed match is traversed from its declared destination to
// its declared source.
type connMatch struct {
	conn     *instance.ConnectionInstance
	reversed bool
}

func (m connMatch) source() instance.ConnectionEnd {
	if m.reversed {
		return m.conn.Destination
	}
	return m.conn.Source
}

func (m connMatch) destination() instance.ConnectionEnd {
	if m.reversed {
		return m.conn.Source
	}
	return m.conn.Destination
}

// resolveConnections returns every connection instance whose reference
// chain contains pending as a contiguous run, in declaration order.
//
// A single pending connection is ambiguous about where along the chain the
// flow enters, so its source must additionally lie at or below the
// component the flow currently ends at. A bidirectional connection that
// fails that check is retried from its destination and matched reversed.
func (p *pass) resolveConnections(pending []*model.Connection, inst *instance.EndToEndFlowInstance) []connMatch {
	if len(pending) == 0 {
		return nil
	}
	var last *instance.ComponentInstance
	if len(pending) == 1 {
		last = lastComponent(inst)
	}

	var out []connMatch
	for _, c := range p.sys.Connections {
		if !containsRun(c.Connections(), pending) {
			continue
		}
		if len(pending) > 1 {
			out = append(out, connMatch{conn: c})
			continue
		}
		switch {
		case startsWithin(c.Source, last):
			out = append(out, connMatch{conn: c})
		case pending[0].Bidirectional && startsWithin(c.Destination, last):
			out = append(out, connMatch{conn: c, reversed: true})
		}
	}
	return out
}

// containsRun reports whether refs contains run as a contiguous
// subsequence.
func containsRun(refs, run []*model.Connection) bool {
	if len(run) == 0 || len(run) > len(refs) {
		return false
	}
outer:
	for start := 0; start+len(run) <= len(refs); start++ {
		for i, c := range run {
			if refs[start+i] != c {
				continue outer
			}
		}
		return true
	}
	return false
}

// startsWithin reports whether end belongs to flowCI or to a component
// below it. The system root never qualifies.
func startsWithin(end instance.ConnectionEnd, flowCI *instance.ComponentInstance) bool {
	if end == nil || flowCI == nil {
		return false
	}
	for ci := end.Component(); ci != nil && !ci.IsRoot(); ci = ci.Parent {
		if ci == flowCI {
			return true
		}
	}
	return false
}

// lastComponent is the component the flow currently ends at.
func lastComponent(inst *instance.EndToEndFlowInstance) *instance.ComponentInstance {
	switch e := inst.LastElement().(type) {
	case *instance.ComponentInstance:
		return e
	case *instance.FlowSpecInstance:
		return e.Owner
	default:
		return nil
	}
}

// referenceTail returns the declared connections of m's reference chain
// after last, from the end of the chain backwards, excluding the first
// reference. It is what remains to be crossed when a flow leaves a data
// component back through the same connection instance.
func referenceTail(m connMatch, last *model.Connection) []*model.Connection {
	refs := m.conn.References
	var tail []*model.Connection
	for i := len(refs) - 1; i > 0; i-- {
		c := refs[i].Connection
		if c == last {
			break
		}
		tail = append(tail, c)
	}
	return tail
}
