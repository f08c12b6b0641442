// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model is the format-agnostic, declarative view of a component
// architecture: component types with their features and flow
// specifications, component implementations with subcomponents,
// connections, modes, flow implementations and end-to-end flows.
//
// # Core Concepts
//
//   - ComponentType: the externally visible contract of a component, its
//     features and flow specifications.
//
//   - ComponentImplementation: the internals of a component type. This is
//     where flow implementations and end-to-end flows are declared, as ordered
//     lists of FlowSegment values.
//
//   - FlowElement: the closed set of things a flow segment may reference.
//     Connection, FlowSpecification, Subcomponent, DataAccess and EndToEndFlow
//     are its only implementations; consumers switch on Kind().
//
//   - Model: the root, aggregating every declaration found across all loaded
//     files together with the declared instance overlay (connection instances
//     and system operation modes) that the instance builder resolves.
//
// Everything in this package is immutable once a Loader has returned it. The
// instance builder and the flow engine only read from it.
package model
