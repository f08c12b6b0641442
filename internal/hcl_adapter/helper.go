package hcl_adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/flowgrid/internal/ctxlog"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder populates omitted optional fields with non-nil,
// zero-width expression objects, so a simple nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// blockRange recovers the source range of a decoded block from its body.
func blockRange(body hcl.Body) hcl.Range {
	if body == nil {
		return hcl.Range{}
	}
	if sb, ok := body.(*hclsyntax.Body); ok {
		return sb.SrcRange
	}
	return body.MissingItemRange()
}

// traversalKey renders a traversal in its canonical source form, e.g.
// "Radar.in_to_out".
func traversalKey(t hcl.Traversal) string {
	return strings.TrimSpace(string(hclwrite.TokensForTraversal(t).Bytes()))
}

// traversalNames turns a reference such as `a.b.c` into its dotted parts.
// Index steps and splats are rejected.
func traversalNames(expr hcl.Expression) ([]string, hcl.Diagnostics) {
	t, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() {
		return nil, diags
	}
	parts := make([]string, 0, len(t))
	for _, step := range t {
		switch s := step.(type) {
		case hcl.TraverseRoot:
			parts = append(parts, s.Name)
		case hcl.TraverseAttr:
			parts = append(parts, s.Name)
		default:
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid reference",
				Detail:   fmt.Sprintf("The reference %q may only use dotted names.", traversalKey(t)),
				Subject:  step.SourceRange().Ptr(),
			}}
		}
	}
	return parts, nil
}

// referenceList decodes a list of references, e.g. `[a, b.c]`.
func referenceList(expr hcl.Expression) ([][]string, []hcl.Range, hcl.Diagnostics) {
	exprs, diags := hcl.ExprList(expr)
	if diags.HasErrors() {
		return nil, nil, diags
	}
	out := make([][]string, 0, len(exprs))
	ranges := make([]hcl.Range, 0, len(exprs))
	for _, e := range exprs {
		parts, partDiags := traversalNames(e)
		diags = append(diags, partDiags...)
		if partDiags.HasErrors() {
			continue
		}
		out = append(out, parts)
		ranges = append(ranges, e.Range())
	}
	return out, ranges, diags
}

// modeNames decodes an optional `in_modes` attribute. Each entry is joined
// with dots, so `[on]` yields "on" and `[Radar.on]` yields "Radar.on".
func modeNames(ctx context.Context, expr hcl.Expression) ([]string, hcl.Diagnostics) {
	if !isExprDefined(ctx, expr, "in_modes") {
		return nil, nil
	}
	refs, _, diags := referenceList(expr)
	names := make([]string, 0, len(refs))
	for _, parts := range refs {
		names = append(names, strings.Join(parts, "."))
	}
	return names, diags
}

// errorf builds a single error diagnostic anchored at subject.
func errorf(subject hcl.Range, summary, format string, args ...any) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   fmt.Sprintf(format, args...),
		Subject:  subject.Ptr(),
	}
}
