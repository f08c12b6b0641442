// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Model root and the Loader contract.
package model

import (
	"context"
	"sort"

	"github.com/hashicorp/hcl/v2"
)

// Model is the unified representation of every declaration loaded from one
// or more model files.
type Model struct {
	Types           map[string]*ComponentType
	Implementations map[string]*ComponentImplementation
	Systems         map[string]*System

	// ConnectionInstances and SystemOperationModes are the declared
	// instance overlay. They are produced by an external instantiation step
	// and only resolved, never derived, by this program.
	ConnectionInstances  []*ConnectionInstanceDecl
	SystemOperationModes []*SOMDecl
}

// New returns an empty, initialized Model.
func New() *Model {
	return &Model{
		Types:           make(map[string]*ComponentType),
		Implementations: make(map[string]*ComponentImplementation),
		Systems:         make(map[string]*System),
	}
}

// SystemNames returns the declared system names in sorted order.
func (m *Model) SystemNames() []string {
	names := make([]string, 0, len(m.Systems))
	for name := range m.Systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// System is a root to instantiate.
type System struct {
	Name           string
	Implementation *ComponentImplementation
	Range          hcl.Range
}

// ConnectionInstanceDecl declares one connection instance. Paths are
// nodeid-formatted and relative to the system root.
type ConnectionInstanceDecl struct {
	Name        string
	Source      string
	Destination string
	References  []ReferenceDecl
	InSOMs      []string
	Range       hcl.Range
}

// ReferenceDecl names one declared connection crossed by a connection
// instance, and the component instance whose implementation declares it.
type ReferenceDecl struct {
	Context    string
	Connection string
}

// SOMDecl declares one system operation mode as the set of mode instances
// active in it, written as "<component path>.<mode>".
type SOMDecl struct {
	Name  string
	Modes []string
	Range hcl.Range
}

// Sources maps file names to parsed files, for rendering diagnostics.
type Sources map[string]*hcl.File

// Loader reads model files from the given paths and translates them into a
// Model.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, Sources, error)
}
