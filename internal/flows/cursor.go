package flows

import (
	"github.com/specialistvlad/flowgrid/internal/instance"
	"github.com/specialistvlad/flowgrid/internal/model"
)

// listKind tags which declaration a cursor walks.
type listKind int

const (
	listEndToEnd listKind = iota + 1
	listFlowImpl
)

func (k listKind) String() string {
	if k == listFlowImpl {
		return "flow_impl"
	}
	return "end_to_end_flow"
}

// cursor is a position in an immutable segment list. It is a plain value,
// so copying a traversal copies its cursors.
type cursor struct {
	segs  []model.FlowSegment
	index int
	list  listKind
}

func newCursor(segs []model.FlowSegment, list listKind) cursor {
	return cursor{segs: segs, list: list}
}

func (c cursor) done() bool { return c.index >= len(c.segs) }

func (c cursor) segment() model.FlowSegment { return c.segs[c.index] }

func (c cursor) advance() cursor {
	c.index++
	return c
}

// atConnection reports whether the segment under the cursor is a connection.
func (c cursor) atConnection() bool {
	return !c.done() && c.segment().Element.Kind() == model.KindConnection
}

// frame is a suspended outer level: where to resume and at which component.
type frame struct {
	cur   cursor
	owner *instance.ComponentInstance
}
