// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines FlowElement, the closed set of declarations a flow
// segment can reference. The set is sealed by the unexported flowElement
// method, so a switch over Kind() that covers all five kinds is exhaustive.
package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// ElementKind tags each FlowElement variant.
type ElementKind int

const (
	KindConnection ElementKind = iota + 1
	KindFlowSpecification
	KindSubcomponent
	KindDataAccess
	KindEndToEndFlow
)

func (k ElementKind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindFlowSpecification:
		return "flow_spec"
	case KindSubcomponent:
		return "subcomponent"
	case KindDataAccess:
		return "data_access"
	case KindEndToEndFlow:
		return "end_to_end_flow"
	default:
		return fmt.Sprintf("ElementKind(%d)", int(k))
	}
}

// FlowElement is implemented by *Connection, *FlowSpecification,
// *Subcomponent, *DataAccess and *EndToEndFlow only.
type FlowElement interface {
	Kind() ElementKind
	ElementName() string
	SourceRange() hcl.Range
	flowElement()
}

// Modal is implemented by declarations that can be restricted to modes.
type Modal interface {
	// ModeNames returns the declared in-modes. An empty result means the
	// element is not restricted.
	ModeNames() []string
}

// FlowSegment is one step of a flow implementation or end-to-end flow.
type FlowSegment struct {
	// Context is the subcomponent the element is scoped under, or nil.
	Context *Subcomponent
	Element FlowElement
}

// String renders the segment the way it is written in a model file.
func (s FlowSegment) String() string {
	if s.Context != nil {
		return s.Context.Name + "." + s.Element.ElementName()
	}
	return s.Element.ElementName()
}

// DataAccess references a data access feature inside a flow.
type DataAccess struct {
	Feature *Feature
}

func (c *Connection) Kind() ElementKind      { return KindConnection }
func (c *Connection) ElementName() string    { return c.Name }
func (c *Connection) SourceRange() hcl.Range { return c.Range }
func (c *Connection) ModeNames() []string    { return c.InModes }
func (*Connection) flowElement()             {}

func (f *FlowSpecification) Kind() ElementKind      { return KindFlowSpecification }
func (f *FlowSpecification) ElementName() string    { return f.Name }
func (f *FlowSpecification) SourceRange() hcl.Range { return f.Range }
func (f *FlowSpecification) ModeNames() []string    { return f.InModes }
func (*FlowSpecification) flowElement()             {}

func (s *Subcomponent) Kind() ElementKind      { return KindSubcomponent }
func (s *Subcomponent) ElementName() string    { return s.Name }
func (s *Subcomponent) SourceRange() hcl.Range { return s.Range }
func (s *Subcomponent) ModeNames() []string    { return s.InModes }
func (*Subcomponent) flowElement()             {}

func (d *DataAccess) Kind() ElementKind      { return KindDataAccess }
func (d *DataAccess) ElementName() string    { return d.Feature.Name }
func (d *DataAccess) SourceRange() hcl.Range { return d.Feature.Range }
func (*DataAccess) flowElement()             {}

func (e *EndToEndFlow) Kind() ElementKind      { return KindEndToEndFlow }
func (e *EndToEndFlow) ElementName() string    { return e.Name }
func (e *EndToEndFlow) SourceRange() hcl.Range { return e.Range }
func (e *EndToEndFlow) ModeNames() []string    { return e.InModes }
func (*EndToEndFlow) flowElement()             {}

// InModesOf returns the declared in-modes of v, or nil when v is not modal.
func InModesOf(v any) []string {
	if m, ok := v.(Modal); ok {
		return m.ModeNames()
	}
	return nil
}
