// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines component types, implementations, features,
// subcomponents and modes.
package model

import (
	"github.com/hashicorp/hcl/v2"
)

// Category is the AADL component category.
type Category string

const (
	CategorySystem          Category = "system"
	CategoryProcess         Category = "process"
	CategoryThread          Category = "thread"
	CategoryThreadGroup     Category = "thread_group"
	CategoryProcessor       Category = "processor"
	CategoryVirtualProc     Category = "virtual_processor"
	CategoryMemory          Category = "memory"
	CategoryBus             Category = "bus"
	CategoryVirtualBus      Category = "virtual_bus"
	CategoryDevice          Category = "device"
	CategoryData            Category = "data"
	CategorySubprogram      Category = "subprogram"
	CategorySubprogramGroup Category = "subprogram_group"
	CategoryAbstract        Category = "abstract"
)

var knownCategories = map[Category]struct{}{
	CategorySystem: {}, CategoryProcess: {}, CategoryThread: {}, CategoryThreadGroup: {},
	CategoryProcessor: {}, CategoryVirtualProc: {}, CategoryMemory: {}, CategoryBus: {},
	CategoryVirtualBus: {}, CategoryDevice: {}, CategoryData: {}, CategorySubprogram: {},
	CategorySubprogramGroup: {}, CategoryAbstract: {},
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := knownCategories[c]
	return ok
}

// Direction of a feature.
type Direction string

const (
	DirectionIn    Direction = "in"
	DirectionOut   Direction = "out"
	DirectionInOut Direction = "in_out"
)

// FeatureKind distinguishes ports from access features.
type FeatureKind string

const (
	FeaturePort          FeatureKind = "port"
	FeatureDataAccess    FeatureKind = "data_access"
	FeatureBusAccess     FeatureKind = "bus_access"
	FeatureFeatureGroup  FeatureKind = "feature_group"
	FeatureAbstractShape FeatureKind = "abstract"
)

// Feature is a named interaction point of a component type.
type Feature struct {
	Name      string
	Kind      FeatureKind
	Direction Direction
	Range     hcl.Range
}

// IsPort reports whether the feature carries data or events between components.
func (f *Feature) IsPort() bool {
	return f.Kind == FeaturePort
}

// Mode is a mode declared by a component implementation.
type Mode struct {
	Name    string
	Initial bool
	Range   hcl.Range
}

// ComponentType is the externally visible contract of a component.
type ComponentType struct {
	Name      string
	Category  Category
	Features  []*Feature
	FlowSpecs []*FlowSpecification
	Range     hcl.Range
}

// Feature returns the feature called name, or nil.
func (t *ComponentType) Feature(name string) *Feature {
	for _, f := range t.Features {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FlowSpec returns the flow specification called name, or nil.
func (t *ComponentType) FlowSpec(name string) *FlowSpecification {
	for _, fs := range t.FlowSpecs {
		if fs.Name == name {
			return fs
		}
	}
	return nil
}

// ComponentImplementation holds the internals of a component type.
type ComponentImplementation struct {
	// Name is the qualified implementation name, e.g. "radar.impl".
	Name          string
	Type          *ComponentType
	Subcomponents []*Subcomponent
	Connections   []*Connection
	Modes         []*Mode
	FlowImpls     []*FlowImplementation
	EndToEndFlows []*EndToEndFlow
	Range         hcl.Range
}

// Category is the category of the implemented type.
func (ci *ComponentImplementation) Category() Category {
	return ci.Type.Category
}

// Subcomponent returns the subcomponent called name, or nil.
func (ci *ComponentImplementation) Subcomponent(name string) *Subcomponent {
	for _, s := range ci.Subcomponents {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Connection returns the connection called name, or nil.
func (ci *ComponentImplementation) Connection(name string) *Connection {
	for _, c := range ci.Connections {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Mode returns the mode called name, or nil.
func (ci *ComponentImplementation) Mode(name string) *Mode {
	for _, m := range ci.Modes {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// EndToEndFlow returns the end-to-end flow called name, or nil.
func (ci *ComponentImplementation) EndToEndFlow(name string) *EndToEndFlow {
	for _, e := range ci.EndToEndFlows {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// FlowImplementationsFor returns every flow implementation of spec, in
// declaration order.
func (ci *ComponentImplementation) FlowImplementationsFor(spec *FlowSpecification) []*FlowImplementation {
	var out []*FlowImplementation
	for _, fi := range ci.FlowImpls {
		if fi.Spec == spec {
			out = append(out, fi)
		}
	}
	return out
}

// HasPortSubcomponents reports whether any subcomponent exposes at least one port.
func (ci *ComponentImplementation) HasPortSubcomponents() bool {
	for _, s := range ci.Subcomponents {
		if s.Type == nil {
			continue
		}
		for _, f := range s.Type.Features {
			if f.IsPort() {
				return true
			}
		}
	}
	return false
}

// Subcomponent declares a contained component.
type Subcomponent struct {
	Name     string
	Category Category
	Type     *ComponentType
	// Implementation is nil when the subcomponent is classified by a type only.
	Implementation *ComponentImplementation
	InModes        []string
	Range          hcl.Range
}
