package testutil

import (
	"strings"
	"testing"

	"github.com/specialistvlad/flowgrid/internal/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Flows maps every produced flow instance to its rendered elements.
func Flows(t *testing.T, result *HarnessResult) map[string][]string {
	t.Helper()
	require.NotNil(t, result.Result, "run failed: %v", result.Err)
	out := make(map[string][]string)
	for _, fi := range result.Result.System.EndToEndFlows() {
		out[fi.String()] = fi.ElementNames()
	}
	return out
}

// AssertFlow checks that the named flow instance exists with exactly the
// given elements, in order.
func AssertFlow(t *testing.T, result *HarnessResult, name string, elements ...string) {
	t.Helper()
	got, ok := Flows(t, result)[name]
	require.True(t, ok, "flow instance %q was not produced", name)
	assert.Equal(t, elements, got, "elements of flow instance %q", name)
}

// AssertDiagnostics checks how many diagnostics of kind were reported.
func AssertDiagnostics(t *testing.T, result *HarnessResult, kind diag.Kind, want int) {
	t.Helper()
	require.NotNil(t, result.Result, "run failed: %v", result.Err)
	got := 0
	for _, d := range result.Result.Diagnostics {
		if d.Kind == kind {
			got++
		}
	}
	assert.Equal(t, want, got, "number of %s diagnostics", kind)
}

// AssertLogged checks that the log output contains substr.
func AssertLogged(t *testing.T, result *HarnessResult, substr string) {
	t.Helper()
	require.True(t,
		strings.Contains(result.LogOutput, substr),
		"expected log output %q was not found in logs", substr,
	)
}
