// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"github.com/hashicorp/hcl/v2"
)

// ConnectedElement is one end of a declared connection: a feature of the
// enclosing component (Context == ""), a feature of a subcomponent, or a
// subcomponent itself (Feature == "").
type ConnectedElement struct {
	Context string
	Feature string
}

// String renders the end as written in a model file.
func (e ConnectedElement) String() string {
	switch {
	case e.Context == "":
		return e.Feature
	case e.Feature == "":
		return e.Context
	default:
		return e.Context + "." + e.Feature
	}
}

// Connection is a declared connection inside a component implementation.
type Connection struct {
	Name          string
	Source        ConnectedElement
	Destination   ConnectedElement
	Bidirectional bool
	InModes       []string
	Range         hcl.Range
}
