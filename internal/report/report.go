// Package report renders the outcome of an elaboration pass: every produced
// end-to-end flow instance and every diagnostic, as a text table or JSON.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/flowgrid/internal/diag"
	"github.com/specialistvlad/flowgrid/internal/flows"
	"github.com/specialistvlad/flowgrid/internal/instance"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned by Write for a format other than text or json.
var ErrUnknownFormat = errors.New("unknown report format")

// Report is a snapshot of one elaborated system.
type Report struct {
	System      string
	Summary     flows.Summary
	Flows       []*instance.EndToEndFlowInstance
	Diagnostics []diag.Diagnostic
}

// New collects the flow instances currently registered on sys.
func New(sys *instance.System, sum flows.Summary, diags []diag.Diagnostic) *Report {
	return &Report{
		System:      sys.Name,
		Summary:     sum,
		Flows:       sys.EndToEndFlows(),
		Diagnostics: diags,
	}
}

// Write renders r in the given format.
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case FormatText, "":
		return r.WriteText(w)
	case FormatJSON:
		return r.WriteJSON(w)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteText writes one table row per flow instance followed by a summary
// line.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "System: %s\n\n", r.System)
	fmt.Fprintln(tw, "FLOW\tMODES\tELEMENTS")
	fmt.Fprintln(tw, "----\t-----\t--------")
	for _, fi := range r.Flows {
		modes := "-"
		if len(fi.InSOMs) > 0 {
			modes = strings.Join(fi.SOMNames(), ",")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", fi.String(), modes, strings.Join(fi.ElementNames(), " -> "))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	s := r.Summary
	_, err := fmt.Fprintf(w, "\n%d flow instances (%d dropped, %d branches), %d diagnostics, %d components visited\n",
		len(r.Flows), s.Dropped, s.Branches, len(r.Diagnostics), s.Components)
	return err
}

var (
	flowType = cty.Object(map[string]cty.Type{
		"name":     cty.String,
		"owner":    cty.String,
		"elements": cty.List(cty.String),
		"modes":    cty.List(cty.String),
	})
	diagnosticType = cty.Object(map[string]cty.Type{
		"kind":     cty.String,
		"severity": cty.String,
		"element":  cty.String,
		"instance": cty.String,
		"message":  cty.String,
	})
)

// Value returns r as a cty object.
func (r *Report) Value() cty.Value {
	flowVals := make([]cty.Value, 0, len(r.Flows))
	for _, fi := range r.Flows {
		flowVals = append(flowVals, cty.ObjectVal(map[string]cty.Value{
			"name":     cty.StringVal(fi.String()),
			"owner":    cty.StringVal(fi.Owner.String()),
			"elements": stringList(fi.ElementNames()),
			"modes":    stringList(fi.SOMNames()),
		}))
	}
	diagVals := make([]cty.Value, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		diagVals = append(diagVals, cty.ObjectVal(map[string]cty.Value{
			"kind":     cty.StringVal(string(d.Kind)),
			"severity": cty.StringVal(d.Severity.String()),
			"element":  cty.StringVal(d.Element),
			"instance": cty.StringVal(d.Instance),
			"message":  cty.StringVal(d.Message),
		}))
	}

	s := r.Summary
	return cty.ObjectVal(map[string]cty.Value{
		"system":  cty.StringVal(r.System),
		"pass_id": cty.StringVal(s.PassID),
		"summary": cty.ObjectVal(map[string]cty.Value{
			"components":  cty.NumberIntVal(int64(s.Components)),
			"completed":   cty.NumberIntVal(int64(s.Completed)),
			"dropped":     cty.NumberIntVal(int64(s.Dropped)),
			"branches":    cty.NumberIntVal(int64(s.Branches)),
			"diagnostics": cty.NumberIntVal(int64(s.Diagnostics)),
		}),
		"flows":       listOf(flowType, flowVals),
		"diagnostics": listOf(diagnosticType, diagVals),
	})
}

// WriteJSON writes r as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	v := r.Value()
	raw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to indent report: %w", err)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}

func stringList(ss []string) cty.Value {
	vals := make([]cty.Value, len(ss))
	for i, s := range ss {
		vals[i] = cty.StringVal(s)
	}
	return listOf(cty.String, vals)
}

func listOf(ty cty.Type, vals []cty.Value) cty.Value {
	if len(vals) == 0 {
		return cty.ListValEmpty(ty)
	}
	return cty.ListVal(vals)
}
