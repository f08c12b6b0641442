// Package diag defines the diagnostics emitted while instantiating flows and
// the Reporter they are delivered to. Reporting never aborts a pass.
package diag

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// Kind classifies a diagnostic.
type Kind string

const (
	MissingComponentInstance  Kind = "missing_component_instance"
	MissingConnectionInstance Kind = "missing_connection_instance"
	MissingFlowSpecInstance   Kind = "missing_flow_spec_instance"
	UnreachableDataComponent  Kind = "unreachable_data_component"
	FlowLeavesSystem          Kind = "flow_leaves_system"
	EmptyNestedFlow           Kind = "empty_nested_flow"
	CyclicNestedFlow          Kind = "cyclic_nested_flow"
	IncompleteFlowPath        Kind = "incomplete_flow_path"
)

// Kinds lists every kind in a stable order.
var Kinds = []Kind{
	MissingComponentInstance,
	MissingConnectionInstance,
	MissingFlowSpecInstance,
	UnreachableDataComponent,
	FlowLeavesSystem,
	EmptyNestedFlow,
	CyclicNestedFlow,
	IncompleteFlowPath,
}

// Severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic names the offending declaration and, when known, the component
// instance it was evaluated on.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	// Element is the name of the offending declaration, e.g. "c2" or
	// "radar.in_to_out".
	Element string
	// Instance is the component instance the declaration was evaluated on.
	Instance string
	Message  string
	Subject  *hcl.Range
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// HCL converts d for rendering with an hcl.DiagnosticWriter.
func (d Diagnostic) HCL() *hcl.Diagnostic {
	sev := hcl.DiagError
	if d.Severity == Warning {
		sev = hcl.DiagWarning
	}
	detail := d.Message
	if d.Instance != "" {
		detail = fmt.Sprintf("%s (in %s)", d.Message, d.Instance)
	}
	return &hcl.Diagnostic{
		Severity: sev,
		Summary:  summaries[d.Kind],
		Detail:   detail,
		Subject:  d.Subject,
	}
}

var summaries = map[Kind]string{
	MissingComponentInstance:  "Missing component instance",
	MissingConnectionInstance: "Missing connection instance",
	MissingFlowSpecInstance:   "Missing flow specification instance",
	UnreachableDataComponent:  "Unreachable data component",
	FlowLeavesSystem:          "Flow leaves the system",
	EmptyNestedFlow:           "Empty nested flow",
	CyclicNestedFlow:          "Cyclic nested flow",
	IncompleteFlowPath:        "Incomplete flow path",
}

// Reporter receives diagnostics.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Diagnostic)

// Report calls f(d).
func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// Collector accumulates diagnostics in emission order.
type Collector struct {
	Diagnostics []Diagnostic
}

// Report implements Reporter.
func (c *Collector) Report(d Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}

// Count returns the number of collected diagnostics of kind k.
func (c *Collector) Count(k Kind) int {
	n := 0
	for _, d := range c.Diagnostics {
		if d.Kind == k {
			n++
		}
	}
	return n
}

// HasErrors reports whether any error-severity diagnostic was collected.
func (c *Collector) HasErrors() bool {
	for _, d := range c.Diagnostics {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// HCLDiagnostics converts every collected diagnostic.
func (c *Collector) HCLDiagnostics() hcl.Diagnostics {
	out := make(hcl.Diagnostics, 0, len(c.Diagnostics))
	for _, d := range c.Diagnostics {
		out = append(out, d.HCL())
	}
	return out
}

// Tee reports every diagnostic to each of rs in turn.
func Tee(rs ...Reporter) Reporter {
	return ReporterFunc(func(d Diagnostic) {
		for _, r := range rs {
			r.Report(d)
		}
	})
}
