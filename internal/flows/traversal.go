package flows

import (
	"fmt"
	"log/slog"

	"github.com/specialistvlad/flowgrid/internal/diag"
	"github.com/specialistvlad/flowgrid/internal/instance"
	"github.com/specialistvlad/flowgrid/internal/metrics"
	"github.com/specialistvlad/flowgrid/internal/model"
)

// record is a flow instance under construction together with the
// connection lists needed to splice it into an enclosing flow.
type record struct {
	inst *instance.EndToEndFlowInstance
	// preConns are declared connections seen before the first element.
	preConns []*model.Connection
	// postConns are the declared connections left pending at the end.
	postConns []*model.Connection
	// modeLists holds one mode list per consumed modal choice. It is
	// discarded once the active modes are computed.
	modeLists [][]*instance.ModeInstance
	dropped   bool
}

// traversal is the complete mutable state of one branch.
type traversal struct {
	rec     *record
	ci      *instance.ComponentInstance
	cur     cursor
	pending []*model.Connection
	stack   []frame
}

// instantiation drives every branch of one declaration on one owner.
type instantiation struct {
	p       *pass
	owner   *instance.ComponentInstance
	decl    *model.EndToEndFlow
	counter int
	created []*record
	log     *slog.Logger
}

// instantiate returns the completed instances of decl on owner, computing
// them on first use.
func (p *pass) instantiate(owner *instance.ComponentInstance, decl *model.EndToEndFlow) []*record {
	key := memoKey{owner, decl}
	if recs, ok := p.memo[key]; ok {
		return recs
	}

	x := &instantiation{
		p:       p,
		owner:   owner,
		decl:    decl,
		counter: 2,
		log:     p.log.With("flow", decl.Name, "owner", owner.String()),
	}
	x.log.Debug("Instantiating end-to-end flow.", "segments", len(decl.Segments))

	p.inProgress[key] = true
	rec := x.newRecord(decl.Name)
	rec.modeLists = [][]*instance.ModeInstance{modeInstances(owner, decl)}
	x.drive(&traversal{rec: rec, ci: owner, cur: newCursor(decl.Segments, listEndToEnd)})
	delete(p.inProgress, key)

	var live []*record
	for _, r := range x.created {
		if !r.dropped {
			live = append(live, r)
		}
	}
	p.memo[key] = live
	x.log.Debug("End-to-end flow instantiated.", "instances", len(live), "created", len(x.created))
	return live
}

// newRecord creates an empty instance and registers it on the owner.
func (x *instantiation) newRecord(name string) *record {
	rec := &record{inst: &instance.EndToEndFlowInstance{Name: name, Decl: x.decl, Owner: x.owner}}
	x.owner.AddEndToEndFlow(rec.inst)
	x.created = append(x.created, rec)
	return rec
}

// drive runs t and every branch forked from it to completion, depth first.
func (x *instantiation) drive(t *traversal) {
	work := []*traversal{t}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		next := x.step(cur)
		for i := len(next) - 1; i >= 0; i-- {
			work = append(work, next[i])
		}
	}
}

// step consumes one segment, or one exhausted level, and returns the
// branches that continue.
func (x *instantiation) step(t *traversal) []*traversal {
	if t.cur.done() {
		if len(t.stack) == 0 {
			x.finalize(t)
			return nil
		}
		top := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.cur, t.ci = top.cur, top.owner
		return []*traversal{t}
	}

	seg := t.cur.segment()
	t.cur = t.cur.advance()
	kind := seg.Element.Kind()
	x.log.Debug("Dispatching flow segment.",
		"instance", t.rec.inst.Name,
		"segment", seg.String(),
		"kind", kind,
		"list", t.cur.list,
		"level", t.ci.String(),
		"depth", len(t.stack),
	)

	switch kind {
	case model.KindConnection:
		x.connection(t, seg.Element.(*model.Connection))
		return []*traversal{t}
	case model.KindFlowSpecification:
		return x.flowSpec(t, seg)
	case model.KindSubcomponent:
		return x.subcomponent(t, seg)
	case model.KindDataAccess:
		return x.dataAccess(t, seg)
	case model.KindEndToEndFlow:
		return x.nested(t, seg)
	default:
		panic(fmt.Sprintf("flows: unhandled flow element kind %v", kind))
	}
}

// connection records a declared connection. Before the first element it
// belongs to the pre-connections, afterwards to the pending sequence.
func (x *instantiation) connection(t *traversal, c *model.Connection) {
	if len(t.rec.inst.Elements) == 0 {
		t.rec.preConns = append(t.rec.preConns, c)
		return
	}
	t.pending = append(t.pending, c)
}

// finalize computes the active modes and keeps the trailing connections.
func (x *instantiation) finalize(t *traversal) {
	rec := t.rec
	rec.inst.InSOMs = x.p.resolveModes(rec)
	rec.postConns = t.pending
	rec.modeLists = nil
	t.pending = nil

	x.p.summary.Completed++
	x.p.engine.metrics.RecordInstance(metrics.OutcomeCompleted)
	x.log.Debug("Flow instance completed.",
		"instance", rec.inst.Name,
		"elements", rec.inst.ElementNames(),
		"soms", rec.inst.SOMNames(),
	)
}

// drop unregisters the branch's instance.
func (x *instantiation) drop(t *traversal) {
	t.rec.dropped = true
	x.owner.RemoveEndToEndFlow(t.rec.inst)
	x.p.summary.Dropped++
	x.p.engine.metrics.RecordInstance(metrics.OutcomeDropped)
	x.log.Debug("Flow instance dropped.", "instance", t.rec.inst.Name)
}

// fail reports a branch-local error and drops the branch.
func (x *instantiation) fail(t *traversal, kind diag.Kind, element, format string, args ...any) []*traversal {
	x.p.report(diag.Diagnostic{
		Kind:     kind,
		Element:  element,
		Instance: t.rec.inst.String(),
		Message:  fmt.Sprintf(format, args...),
		Subject:  x.decl.Range.Ptr(),
	})
	x.drop(t)
	return nil
}
