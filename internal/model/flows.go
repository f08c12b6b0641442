// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the three flow declarations: specifications on types,
// and implementations and end-to-end flows on implementations.
package model

import (
	"github.com/hashicorp/hcl/v2"
)

// FlowKind is the kind of a flow specification or implementation.
type FlowKind string

const (
	FlowSource FlowKind = "source"
	FlowSink   FlowKind = "sink"
	FlowPath   FlowKind = "path"
)

// FlowEnd names the feature a flow specification enters or leaves through.
type FlowEnd struct {
	Context string
	Feature string
}

// FlowSpecification is a declared source, sink or path through one
// component's externally visible features.
type FlowSpecification struct {
	Name     string
	FlowKind FlowKind
	In       *FlowEnd
	Out      *FlowEnd
	InModes  []string
	Range    hcl.Range
}

// FlowImplementation realizes a FlowSpecification inside an implementation.
type FlowImplementation struct {
	Spec     *FlowSpecification
	FlowKind FlowKind
	Segments []FlowSegment
	InModes  []string
	Range    hcl.Range
}

// ModeNames implements Modal.
func (f *FlowImplementation) ModeNames() []string { return f.InModes }

// Name returns the name of the realized specification.
func (f *FlowImplementation) Name() string { return f.Spec.Name }

// EndToEndFlow is a declared path across subcomponents, connections and,
// possibly, other end-to-end flows of the same implementation.
type EndToEndFlow struct {
	Name     string
	Segments []FlowSegment
	InModes  []string
	Range    hcl.Range
}

// NestedFlows returns the end-to-end flows referenced directly by e, in
// segment order and without duplicates.
func (e *EndToEndFlow) NestedFlows() []*EndToEndFlow {
	var out []*EndToEndFlow
	seen := make(map[*EndToEndFlow]struct{})
	for _, seg := range e.Segments {
		nested, ok := seg.Element.(*EndToEndFlow)
		if !ok {
			continue
		}
		if _, dup := seen[nested]; dup {
			continue
		}
		seen[nested] = struct{}{}
		out = append(out, nested)
	}
	return out
}
