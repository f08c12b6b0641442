package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/flowgrid/internal/ctxlog"
	"github.com/specialistvlad/flowgrid/internal/diag"
	"github.com/specialistvlad/flowgrid/internal/flows"
	"github.com/specialistvlad/flowgrid/internal/instance"
	"github.com/specialistvlad/flowgrid/internal/metrics"
	"github.com/specialistvlad/flowgrid/internal/model"
	"github.com/specialistvlad/flowgrid/internal/report"
)

// ErrDiagnostics is returned by Run in strict mode when the pass emitted at
// least one error diagnostic.
var ErrDiagnostics = errors.New("elaboration reported errors")

// Result is what one Run produced.
type Result struct {
	System      *instance.System
	Summary     flows.Summary
	Diagnostics []diag.Diagnostic
}

// Run loads the model, instantiates the selected system, elaborates its
// end-to-end flows and writes the report.
func (a *App) Run(ctx context.Context) (*Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "model_path", a.config.ModelPath)

	m, sources, err := a.loader.Load(ctx, a.config.ModelPath)
	if err != nil {
		a.writeHCLDiagnostics(sources, err)
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	name, err := a.selectSystem(m)
	if err != nil {
		return nil, err
	}
	sys, err := instance.Build(m, name)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate system %q: %w", name, err)
	}
	a.logger.Info("System instantiated.", "system", name, "connections", len(sys.Connections), "soms", len(sys.SOMs))

	var met *metrics.Metrics
	if a.config.MetricsFile != "" {
		if met, err = metrics.New(); err != nil {
			return nil, err
		}
	}

	collector := &diag.Collector{}
	sum, err := flows.New(collector, flows.WithMetrics(met)).Elaborate(ctx, sys)
	if err != nil {
		return nil, fmt.Errorf("elaboration failed: %w", err)
	}

	if len(collector.Diagnostics) > 0 {
		wr := hcl.NewDiagnosticTextWriter(a.errW, sources, 78, false)
		if err := wr.WriteDiagnostics(collector.HCLDiagnostics()); err != nil {
			a.logger.Warn("Failed to write diagnostics.", "error", err)
		}
	}

	if err := report.New(sys, sum, collector.Diagnostics).Write(a.outW, a.config.Format); err != nil {
		return nil, err
	}
	if err := met.WriteFile(a.config.MetricsFile); err != nil {
		return nil, err
	}

	res := &Result{System: sys, Summary: sum, Diagnostics: collector.Diagnostics}
	a.logger.Debug("App.Run method finished.")
	if a.config.Strict && collector.HasErrors() {
		return res, ErrDiagnostics
	}
	return res, nil
}

// selectSystem returns the configured system, or the only one declared.
func (a *App) selectSystem(m *model.Model) (string, error) {
	if a.config.System != "" {
		return a.config.System, nil
	}
	names := m.SystemNames()
	switch len(names) {
	case 0:
		return "", errors.New("model declares no system")
	case 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("model declares %d systems (%s): choose one with --system", len(names), strings.Join(names, ", "))
	}
}

// writeHCLDiagnostics renders err with source snippets when it carries HCL
// diagnostics.
func (a *App) writeHCLDiagnostics(sources model.Sources, err error) {
	var diags hcl.Diagnostics
	if !errors.As(err, &diags) || sources == nil {
		return
	}
	wr := hcl.NewDiagnosticTextWriter(a.errW, sources, 78, false)
	if werr := wr.WriteDiagnostics(diags); werr != nil {
		a.logger.Warn("Failed to write diagnostics.", "error", werr)
	}
}
