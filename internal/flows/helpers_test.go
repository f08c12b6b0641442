package flows

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/flowgrid/internal/ctxlog"
	"github.com/specialistvlad/flowgrid/internal/diag"
	"github.com/specialistvlad/flowgrid/internal/hcl_adapter"
	"github.com/specialistvlad/flowgrid/internal/instance"
	"github.com/stretchr/testify/require"
)

func testCtx() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func buildSystem(t *testing.T, src string) *instance.System {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.hcl"), []byte(src), 0o644))
	m, _, err := hcl_adapter.NewLoader().Load(testCtx(), dir)
	require.NoError(t, err)
	sys, err := instance.Build(m, "top")
	require.NoError(t, err)
	return sys
}

func elaborate(t *testing.T, src string, opts ...Option) (*instance.System, *diag.Collector, Summary) {
	t.Helper()
	sys := buildSystem(t, src)
	c := &diag.Collector{}
	sum, err := New(c, opts...).Elaborate(testCtx(), sys)
	require.NoError(t, err)
	return sys, c, sum
}

// snapshot renders every registered flow instance as its element names.
func snapshot(sys *instance.System) map[string][]string {
	out := make(map[string][]string)
	for _, fi := range sys.EndToEndFlows() {
		out[fi.String()] = fi.ElementNames()
	}
	return out
}

func flowNamed(t *testing.T, sys *instance.System, name string) *instance.EndToEndFlowInstance {
	t.Helper()
	for _, fi := range sys.EndToEndFlows() {
		if fi.String() == name {
			return fi
		}
	}
	require.Failf(t, "flow instance not found", "no flow instance %q", name)
	return nil
}

const deviceTypesHCL = `
component_type "top" { category = "system" }

component_type "sensor" {
  category = "device"
  feature "out" { direction = "out" }
  flow_spec "src" {
    kind = "source"
    out  = out
  }
}

component_type "sink" {
  category = "device"
  feature "inp" { direction = "in" }
  flow_spec "snk" {
    kind = "sink"
    in   = inp
  }
}

component_type "relay" {
  category = "device"
  feature "inp" { direction = "in" }
  feature "out" { direction = "out" }
  flow_spec "pass" {
    kind = "path"
    in   = inp
    out  = out
  }
}

component_type "stage" {
  category = "thread"
  feature "inp" { direction = "in" }
  feature "out" { direction = "out" }
  flow_spec "through" {
    kind = "path"
    in   = inp
    out  = out
  }
}

component_type "filter" {
  category = "process"
  feature "inp" { direction = "in" }
  feature "out" { direction = "out" }
  flow_spec "through" {
    kind = "path"
    in   = inp
    out  = out
  }
}

system "top" { implementation = top.impl }
`

const radarHCL = `
component_type "top" { category = "system" }

component_type "radar" {
  category = "device"
  feature "inp" { direction = "in" }
  feature "out" { direction = "out" }
  flow_spec "in_to_out" {
    kind = "path"
    in   = inp
    out  = out
  }
}

component_type "display" {
  category = "device"
  feature "inp" { direction = "in" }
}

component_implementation "top" "impl" {
  subcomponent "Radar" { classifier = radar }
  subcomponent "Display" { classifier = display }
  connection "c1" {
    source      = Radar.out
    destination = Radar.inp
  }
  connection "c2" {
    source      = Radar.out
    destination = Display.inp
  }
  end_to_end_flow "etef" {
    segments = [Radar, c1, Radar.in_to_out, c2, Display]
  }
}

system "top" { implementation = top.impl }

connection_instance "c1" {
  source      = Radar.out
  destination = Radar.inp
  reference { connection = c1 }
}

connection_instance "c2" {
  source      = Radar.out
  destination = Display.inp
  reference { connection = c2 }
}
`

// filterImplsHCL gives filter.impl two implementations of through, one per
// stage.
const filterImplsHCL = `
component_implementation "filter" "impl" {
  subcomponent "a" { classifier = stage }
  subcomponent "b" { classifier = stage }
  connection "ia" {
    source      = inp
    destination = a.inp
  }
  connection "oa" {
    source      = a.out
    destination = out
  }
  connection "ib" {
    source      = inp
    destination = b.inp
  }
  connection "ob" {
    source      = b.out
    destination = out
  }
  flow_impl "through" {
    segments = [ia, a.through, oa]
  }
  flow_impl "through" {
    segments = [ib, b.through, ob]
  }
}

component_implementation "top" "impl" {
  subcomponent "s" { classifier = sensor }
  subcomponent "f" { classifier = filter.impl }
  subcomponent "d" { classifier = sink }
  connection "c1" {
    source      = s.out
    destination = f.inp
  }
  connection "c2" {
    source      = f.out
    destination = d.inp
  }
  end_to_end_flow "flow" {
    segments = [s.src, c1, f.through, c2, d.snk]
  }
}

connection_instance "s.out->f.a.inp" {
  source      = s.out
  destination = f.a.inp
  reference { connection = c1 }
  reference {
    context    = f
    connection = ia
  }
}

connection_instance "s.out->f.b.inp" {
  source      = s.out
  destination = f.b.inp
  reference { connection = c1 }
  reference {
    context    = f
    connection = ib
  }
}

connection_instance "f.a.out->d.inp" {
  source      = f.a.out
  destination = d.inp
  reference {
    context    = f
    connection = oa
  }
  reference { connection = c2 }
}
`

const filterBOutHCL = `
connection_instance "f.b.out->d.inp" {
  source      = f.b.out
  destination = d.inp
  reference {
    context    = f
    connection = ob
  }
  reference { connection = c2 }
}
`

const fanOutHCL = `
component_implementation "top" "impl" {
  subcomponent "s" { classifier = sensor }
  subcomponent "d" { classifier = sink }
  connection "c1" {
    source      = s.out
    destination = d.inp
  }
  end_to_end_flow "flow" {
    segments = [s.src, c1, d.snk]
  }
}

connection_instance "primary" {
  source      = s.out
  destination = d.inp
  reference { connection = c1 }
}

connection_instance "backup" {
  source      = s.out
  destination = d.inp
  reference { connection = c1 }
}
`

const chainHCL = `
component_implementation "top" "impl" {
  subcomponent "s" { classifier = sensor }
  subcomponent "m" { classifier = relay }
  subcomponent "d" { classifier = sink }
  connection "c1" {
    source      = s.out
    destination = m.inp
  }
  connection "c2" {
    source      = m.out
    destination = d.inp
  }
  end_to_end_flow "whole" {
    segments = [head, c2, d.snk]
  }
  end_to_end_flow "head" {
    segments = [s.src, c1, m.pass]
  }
  end_to_end_flow "tail" {
    segments = [s.src, c1]
  }
  end_to_end_flow "joined" {
    segments = [tail, m.pass, c2, d.snk]
  }
}

connection_instance "c1" {
  source      = s.out
  destination = m.inp
  reference { connection = c1 }
}

connection_instance "c2" {
  source      = m.out
  destination = d.inp
  reference { connection = c2 }
}
`

// threeStagesHCL gives filter.impl three implementations of through. The
// flow "tail" starts with a declared connection, so every instance of it
// has pre-connections.
const threeStagesHCL = `
component_implementation "filter" "impl" {
  subcomponent "a" { classifier = stage }
  subcomponent "b" { classifier = stage }
  subcomponent "c" { classifier = stage }
  connection "ia" {
    source      = inp
    destination = a.inp
  }
  connection "oa" {
    source      = a.out
    destination = out
  }
  connection "ib" {
    source      = inp
    destination = b.inp
  }
  connection "ob" {
    source      = b.out
    destination = out
  }
  connection "ic" {
    source      = inp
    destination = c.inp
  }
  connection "oc" {
    source      = c.out
    destination = out
  }
  flow_impl "through" {
    segments = [ia, a.through, oa]
  }
  flow_impl "through" {
    segments = [ib, b.through, ob]
  }
  flow_impl "through" {
    segments = [ic, c.through, oc]
  }
}

component_implementation "top" "impl" {
  subcomponent "s" { classifier = sensor }
  subcomponent "f" { classifier = filter.impl }
  subcomponent "d" { classifier = sink }
  connection "c1" {
    source      = s.out
    destination = f.inp
  }
  connection "c2" {
    source      = f.out
    destination = d.inp
  }
  end_to_end_flow "flow" {
    segments = [s.src, c1, f.through, c2, d.snk]
  }
  end_to_end_flow "tail" {
    segments = [c1, f.through, c2, d.snk]
  }
}

connection_instance "s.out->f.a.inp" {
  source      = s.out
  destination = f.a.inp
  reference { connection = c1 }
  reference {
    context    = f
    connection = ia
  }
}

connection_instance "s.out->f.b.inp" {
  source      = s.out
  destination = f.b.inp
  reference { connection = c1 }
  reference {
    context    = f
    connection = ib
  }
}

connection_instance "s.out->f.c.inp" {
  source      = s.out
  destination = f.c.inp
  reference { connection = c1 }
  reference {
    context    = f
    connection = ic
  }
}

connection_instance "f.a.out->d.inp" {
  source      = f.a.out
  destination = d.inp
  reference {
    context    = f
    connection = oa
  }
  reference { connection = c2 }
}

connection_instance "f.b.out->d.inp" {
  source      = f.b.out
  destination = d.inp
  reference {
    context    = f
    connection = ob
  }
  reference { connection = c2 }
}

connection_instance "f.c.out->d.inp" {
  source      = f.c.out
  destination = d.inp
  reference {
    context    = f
    connection = oc
  }
  reference { connection = c2 }
}
`
