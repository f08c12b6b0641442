package instance

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/flowgrid/internal/ctxlog"
	"github.com/specialistvlad/flowgrid/internal/hcl_adapter"
	"github.com/specialistvlad/flowgrid/internal/model"
	"github.com/specialistvlad/flowgrid/internal/nodeid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadModel(t *testing.T, src string) *model.Model {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.hcl"), []byte(src), 0o644))
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	m, _, err := hcl_adapter.NewLoader().Load(ctx, dir)
	require.NoError(t, err)
	return m
}

const plantHCL = `
component_type "pump" {
  category = "device"
  feature "out" { direction = "out" }
  flow_spec "src" {
    kind     = "source"
    out      = out
    in_modes = [running]
  }
}

component_implementation "pump" "impl" {
  mode "running" { initial = true }
  mode "idle" {}
}

component_type "tank" {
  category = "data"
  feature "fill" { direction = "in" }
}

component_type "plant" {
  category = "system"
}

component_implementation "plant" "impl" {
  mode "day" { initial = true }
  mode "night" {}
  subcomponent "p" { classifier = pump.impl }
  subcomponent "t" {
    classifier = tank
    in_modes   = [day]
  }
  connection "c" {
    source      = p.out
    destination = t.fill
  }
}

system "plant" { implementation = plant.impl }

system_operation_mode "s_day" { modes = [day, p.running] }
system_operation_mode "s_night" { modes = [night, p.idle] }

connection_instance "p.out->t.fill" {
  source      = p.out
  destination = t.fill
  reference { connection = c }
  in_modes = [s_day]
}
`

func TestBuild(t *testing.T) {
	sys, err := Build(loadModel(t, plantHCL), "plant")
	require.NoError(t, err)

	root := sys.Root
	assert.True(t, root.IsRoot())
	assert.Equal(t, "plant", root.String())
	require.Len(t, root.Children, 2)

	p := root.Lookup(nodeid.MustParse("p"))
	require.NotNil(t, p)
	assert.Equal(t, model.CategoryDevice, p.Category)
	assert.Same(t, root, p.Parent)
	assert.Equal(t, "p", p.Address().String())
	require.NotNil(t, p.Mode("running"))
	assert.Equal(t, "p.running", p.Mode("running").String())

	tank := root.Child("t")
	require.NotNil(t, tank)
	assert.Nil(t, tank.Implementation)
	require.Len(t, tank.InModes, 1)
	assert.Same(t, root.Mode("day"), tank.InModes[0])

	require.Len(t, p.FlowSpecs, 1)
	fs := p.FlowSpecs[0]
	assert.Equal(t, "p.src", fs.String())
	assert.Same(t, p.Feature("out"), fs.Destination)
	assert.Nil(t, fs.Source)

	require.Len(t, sys.SOMs, 2)
	day, night := sys.SOM("s_day"), sys.SOM("s_night")
	assert.True(t, day.Contains(p.Mode("running")))
	assert.True(t, tank.IsActive(day))
	assert.False(t, tank.IsActive(night))
	assert.True(t, fs.IsActive(day))
	assert.False(t, fs.IsActive(night))

	require.Len(t, sys.Connections, 1)
	conn := sys.Connections[0]
	assert.Same(t, p.Feature("out"), conn.Source)
	assert.Same(t, tank.Feature("fill"), conn.Destination)
	require.Len(t, conn.References, 1)
	assert.Same(t, root, conn.References[0].Context)
	assert.Same(t, root.Implementation.Connection("c"), conn.References[0].Connection)
	assert.True(t, conn.ActiveIn(day))
	assert.False(t, conn.ActiveIn(night))
	assert.Equal(t, []*ConnectionInstance{conn}, sys.ConnectionsAt(tank.Feature("fill")))
	assert.Empty(t, sys.ConnectionsAt(&FeatureInstance{Owner: p}))

	assert.Equal(t, []*ComponentInstance{root, p, tank}, sys.Components())
}

func TestBuild_ImplicitSOM(t *testing.T) {
	src := `
component_type "a" { category = "system" }
component_implementation "a" "impl" {}
system "a" { implementation = a.impl }
`
	sys, err := Build(loadModel(t, src), "a")
	require.NoError(t, err)
	require.Len(t, sys.SOMs, 1)
	assert.Equal(t, ImplicitSOMName, sys.SOMs[0].Name)
	assert.True(t, sys.Root.IsActive(sys.SOMs[0]))
}

func TestBuild_Errors(t *testing.T) {
	base := `
component_type "a" { category = "system" }
component_type "b" {
  category = "device"
  feature "x" {}
}
component_implementation "a" "impl" {
  mode "m" {}
  subcomponent "b" { classifier = b }
  connection "c" {
    source      = b.x
    destination = b.x
  }
}
system "a" { implementation = a.impl }
`
	testCases := []struct {
		name    string
		extra   string
		system  string
		wantErr string
	}{
		{name: "unknown system", system: "zzz", wantErr: "unknown system"},
		{
			name:    "unknown end",
			extra: `connection_instance "x" {
  source      = nope.x
  destination = b.x
  reference { connection = c }
}`,
			wantErr: "no component instance",
		},
		{
			name: "unknown referenced connection",
			extra: `connection_instance "x" {
  source      = b.x
  destination = b.x
  reference { connection = zz }
}`,
			wantErr: "declares no connection",
		},
		{
			name:    "unknown SOM mode",
			extra:   `system_operation_mode "s" { modes = [b.m] }`,
			wantErr: "unknown mode",
		},
		{
			name: "unknown SOM in connection",
			extra: `connection_instance "x" {
  source      = b.x
  destination = b.x
  reference { connection = c }
  in_modes = [nope]
}`,
			wantErr: "unknown system operation mode",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			system := tc.system
			if system == "" {
				system = "a"
			}
			_, err := Build(loadModel(t, base+tc.extra), system)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestBuild_SelfContainingImplementation(t *testing.T) {
	src := `
component_type "a" { category = "system" }
component_implementation "a" "impl" {
  subcomponent "again" { classifier = a.impl }
}
system "a" { implementation = a.impl }
`
	_, err := Build(loadModel(t, src), "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contains itself")
}

func TestComponentInstance_EndToEndFlowRegistry(t *testing.T) {
	ci := &ComponentInstance{Name: "root"}
	a := &EndToEndFlowInstance{Name: "a", Owner: ci}
	b := &EndToEndFlowInstance{Name: "b", Owner: ci}
	ci.AddEndToEndFlow(a)
	ci.AddEndToEndFlow(b)

	assert.True(t, ci.RemoveEndToEndFlow(a))
	assert.False(t, ci.RemoveEndToEndFlow(a))
	assert.Equal(t, []*EndToEndFlowInstance{b}, ci.EndToEndFlows)
}

func TestEndToEndFlowInstance_LastElement(t *testing.T) {
	root := &ComponentInstance{Name: "root"}
	child := &ComponentInstance{Name: "c", Parent: root}
	inner := &EndToEndFlowInstance{Name: "inner", Elements: []FlowElementInstance{root, child}}
	outer := &EndToEndFlowInstance{Name: "outer", Elements: []FlowElementInstance{root, inner}}

	assert.Same(t, child, outer.LastElement())
	assert.Nil(t, (&EndToEndFlowInstance{}).LastElement())
	assert.Equal(t, []string{"root", "inner"}, outer.ElementNames())
}
