package flows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/flowgrid/internal/ctxlog"
	"github.com/specialistvlad/flowgrid/internal/dag"
	"github.com/specialistvlad/flowgrid/internal/diag"
	"github.com/specialistvlad/flowgrid/internal/instance"
	"github.com/specialistvlad/flowgrid/internal/metrics"
	"github.com/specialistvlad/flowgrid/internal/model"
)

// ErrNoSystem is returned by Elaborate when given a nil system or root.
var ErrNoSystem = errors.New("flows: system has no root component instance")

// Engine instantiates end-to-end flows.
type Engine struct {
	reporter diag.Reporter
	metrics  *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics makes the engine record into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New returns an engine that delivers diagnostics to reporter.
func New(reporter diag.Reporter, opts ...Option) *Engine {
	e := &Engine{reporter: reporter}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Summary describes one elaboration pass.
type Summary struct {
	PassID      string
	Components  int
	Completed   int
	Dropped     int
	Branches    int
	Diagnostics int
	Duration    time.Duration
}

// Elaborate discards every flow instance registered on sys and instantiates
// all declared end-to-end flows again. Cancellation is checked between
// component instances only; on cancellation every instance registered so far
// is complete and ctx.Err() is returned with the partial summary.
func (e *Engine) Elaborate(ctx context.Context, sys *instance.System) (Summary, error) {
	if sys == nil || sys.Root == nil {
		return Summary{}, ErrNoSystem
	}

	p := newPass(ctx, e, sys)
	logger := p.log
	logger.Info("Elaboration pass started.", "system", sys.Name, "soms", len(sys.SOMs), "connections", len(sys.Connections))

	sys.ClearEndToEndFlows()
	start := time.Now()

	var err error
	for _, ci := range sys.Components() {
		if err = ctx.Err(); err != nil {
			logger.Warn("Elaboration pass cancelled.", "error", err)
			break
		}
		p.component(ci)
	}

	p.summary.Duration = time.Since(start)
	e.metrics.ObservePass(p.summary.Duration)
	logger.Info("Elaboration pass finished.",
		"components", p.summary.Components,
		"completed", p.summary.Completed,
		"dropped", p.summary.Dropped,
		"branches", p.summary.Branches,
		"diagnostics", p.summary.Diagnostics,
		"duration", p.summary.Duration,
	)
	return p.summary, err
}

type memoKey struct {
	owner *instance.ComponentInstance
	decl  *model.EndToEndFlow
}

// pass holds the state shared by every instantiation of one Elaborate call.
type pass struct {
	ctx     context.Context
	engine  *Engine
	sys     *instance.System
	log     *slog.Logger
	summary Summary

	memo       map[memoKey][]*record
	inProgress map[memoKey]bool
	cyclic     map[*model.ComponentImplementation]map[*model.EndToEndFlow]bool

	unreachable map[*instance.FeatureInstance]bool
	incomplete  map[*instance.FlowSpecInstance]bool
}

func newPass(ctx context.Context, e *Engine, sys *instance.System) *pass {
	id := uuid.NewString()
	ctx = ctxlog.With(ctx, "pass_id", id)
	return &pass{
		ctx:         ctx,
		engine:      e,
		sys:         sys,
		log:         ctxlog.FromContext(ctx),
		summary:     Summary{PassID: id},
		memo:        make(map[memoKey][]*record),
		inProgress:  make(map[memoKey]bool),
		cyclic:      make(map[*model.ComponentImplementation]map[*model.EndToEndFlow]bool),
		unreachable: make(map[*instance.FeatureInstance]bool),
		incomplete:  make(map[*instance.FlowSpecInstance]bool),
	}
}

// component instantiates every end-to-end flow declared for ci that was not
// already instantiated as a nested reference.
func (p *pass) component(ci *instance.ComponentInstance) {
	p.summary.Components++
	p.engine.metrics.RecordComponent()

	impl := ci.Implementation
	if impl == nil || len(impl.EndToEndFlows) == 0 {
		return
	}
	cyclic := p.cyclicFlows(impl)
	for _, decl := range impl.EndToEndFlows {
		if _, done := p.memo[memoKey{ci, decl}]; done {
			continue
		}
		if cyclic[decl] {
			p.report(diag.Diagnostic{
				Kind:     diag.CyclicNestedFlow,
				Element:  decl.Name,
				Instance: ci.String(),
				Message:  fmt.Sprintf("end-to-end flow %q is part of a nested flow cycle and is not instantiated", decl.Name),
				Subject:  decl.Range.Ptr(),
			})
			continue
		}
		p.instantiate(ci, decl)
	}
}

// cyclicFlows returns the end-to-end flows of impl that reference themselves,
// directly or through other flows of impl.
func (p *pass) cyclicFlows(impl *model.ComponentImplementation) map[*model.EndToEndFlow]bool {
	if set, ok := p.cyclic[impl]; ok {
		return set
	}
	set := make(map[*model.EndToEndFlow]bool)
	g := dag.New()
	for _, decl := range impl.EndToEndFlows {
		g.AddNode(decl.Name)
	}
	for _, decl := range impl.EndToEndFlows {
		for _, nested := range decl.NestedFlows() {
			if nested == decl {
				set[decl] = true
				continue
			}
			if err := g.AddEdge(decl.Name, nested.Name); err != nil {
				p.log.Debug("Skipping nested flow edge.", "from", decl.Name, "to", nested.Name, "error", err)
			}
		}
	}
	for _, name := range g.CyclicNodes() {
		set[impl.EndToEndFlow(name)] = true
	}
	if len(set) > 0 {
		p.log.Debug("Found nested flow cycles.", "implementation", impl.Name, "flows", len(set))
	}
	p.cyclic[impl] = set
	return set
}

// report delivers d and updates the pass counters.
func (p *pass) report(d diag.Diagnostic) {
	p.summary.Diagnostics++
	p.engine.metrics.RecordDiagnostic(string(d.Kind))
	level := slog.LevelWarn
	if d.Severity == diag.Warning {
		level = slog.LevelInfo
	}
	p.log.Log(p.ctx, level, "Flow diagnostic.", "kind", d.Kind, "element", d.Element, "instance", d.Instance, "message", d.Message)
	if p.engine.reporter != nil {
		p.engine.reporter.Report(d)
	}
}
