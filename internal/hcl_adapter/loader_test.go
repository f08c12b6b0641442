package hcl_adapter

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/flowgrid/internal/ctxlog"
	"github.com/specialistvlad/flowgrid/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

const typesHCL = `
component_type "sensor" {
  category = "device"
  feature "out" { direction = "out" }
  flow_spec "src" {
    kind = "source"
    out  = out
  }
}

component_type "filter" {
  category = "process"
  feature "inp" { direction = "in" }
  feature "out" { direction = "out" }
  feature "store" { kind = "data_access" }
  flow_spec "through" {
    kind     = "path"
    in       = inp
    out      = out
    in_modes = [fast]
  }
}

component_type "top" {
  category = "system"
}
`

const implsHCL = `
component_implementation "filter" "impl" {
  subcomponent "stage" {
    classifier = filter
  }
  mode "fast" { initial = true }
  mode "slow" {}
  connection "c_in" {
    source      = inp
    destination = stage.inp
  }
  connection "c_out" {
    source      = stage.out
    destination = out
  }
  flow_impl "through" {
    segments = [c_in, stage.through, c_out]
    in_modes = [fast]
  }
}

component_implementation "top" "impl" {
  subcomponent "s" { classifier = sensor }
  subcomponent "f" {
    classifier = filter.impl
    in_modes   = [op]
  }
  mode "op" { initial = true }
  connection "c1" {
    source        = s.out
    destination   = f.inp
    bidirectional = true
  }
  end_to_end_flow "inner" {
    segments = [s.src, c1, f.through]
  }
  end_to_end_flow "outer" {
    segments = [inner, f]
    in_modes = [op]
  }
}

system "main" {
  implementation = top.impl
}

connection_instance "s.out->f.inp" {
  source      = s.out
  destination = f.inp
  reference { connection = c1 }
  in_modes = [som_a]
}

system_operation_mode "som_a" {
  modes = [op, f.fast]
}
`

func TestLoader_Load(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"types.hcl":        typesHCL,
		"nested/impls.hcl": implsHCL,
		"README.md":        "ignored",
	})

	m, sources, err := NewLoader().Load(testCtx(), dir)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Len(t, sources, 2)

	require.Contains(t, m.Types, "filter")
	filter := m.Types["filter"]
	assert.Equal(t, model.CategoryProcess, filter.Category)
	require.Len(t, filter.Features, 3)
	assert.Equal(t, model.FeaturePort, filter.Feature("inp").Kind)
	assert.Equal(t, model.DirectionIn, filter.Feature("inp").Direction)
	assert.Equal(t, model.FeatureDataAccess, filter.Feature("store").Kind)
	through := filter.FlowSpec("through")
	require.NotNil(t, through)
	assert.Equal(t, model.FlowPath, through.FlowKind)
	assert.Equal(t, &model.FlowEnd{Feature: "inp"}, through.In)
	assert.Equal(t, []string{"fast"}, through.InModes)
	assert.Nil(t, m.Types["sensor"].FlowSpec("src").In)

	require.Contains(t, m.Implementations, "filter.impl")
	fimpl := m.Implementations["filter.impl"]
	require.Len(t, fimpl.FlowImpls, 1)
	fi := fimpl.FlowImpls[0]
	assert.Same(t, through, fi.Spec)
	assert.Equal(t, model.FlowPath, fi.FlowKind)
	require.Len(t, fi.Segments, 3)
	assert.Equal(t, model.KindConnection, fi.Segments[0].Element.Kind())
	assert.Equal(t, model.KindFlowSpecification, fi.Segments[1].Element.Kind())
	assert.Same(t, fimpl.Subcomponent("stage"), fi.Segments[1].Context)
	assert.Equal(t, "stage.through", fi.Segments[1].String())
	assert.Equal(t, []*model.FlowImplementation{fi}, fimpl.FlowImplementationsFor(through))
	assert.Equal(t, model.ConnectedElement{Context: "stage", Feature: "inp"}, fimpl.Connection("c_in").Destination)
	assert.Equal(t, model.ConnectedElement{Feature: "inp"}, fimpl.Connection("c_in").Source)

	top := m.Implementations["top.impl"]
	f := top.Subcomponent("f")
	require.NotNil(t, f)
	assert.Same(t, fimpl, f.Implementation)
	assert.Nil(t, top.Subcomponent("s").Implementation)
	assert.Equal(t, []string{"op"}, f.InModes)
	assert.True(t, top.Connection("c1").Bidirectional)

	outer := top.EndToEndFlow("outer")
	require.NotNil(t, outer)
	require.Len(t, outer.Segments, 2)
	assert.Same(t, top.EndToEndFlow("inner"), outer.Segments[0].Element)
	assert.Equal(t, model.KindSubcomponent, outer.Segments[1].Element.Kind())
	assert.Equal(t, []*model.EndToEndFlow{top.EndToEndFlow("inner")}, outer.NestedFlows())

	require.Contains(t, m.Systems, "main")
	assert.Same(t, top, m.Systems["main"].Implementation)
	assert.Equal(t, []string{"main"}, m.SystemNames())

	require.Len(t, m.ConnectionInstances, 1)
	ci := m.ConnectionInstances[0]
	assert.Equal(t, "s.out", ci.Source)
	assert.Equal(t, "f.inp", ci.Destination)
	assert.Equal(t, []model.ReferenceDecl{{Connection: "c1"}}, ci.References)
	assert.Equal(t, []string{"som_a"}, ci.InSOMs)

	require.Len(t, m.SystemOperationModes, 1)
	assert.Equal(t, []string{"op", "f.fast"}, m.SystemOperationModes[0].Modes)
}

func TestLoader_DataAccessSegment(t *testing.T) {
	dir := writeFiles(t, map[string]string{"m.hcl": typesHCL + `
component_implementation "top" "impl" {
  subcomponent "f" { classifier = filter }
  end_to_end_flow "e" {
    segments = [f.store]
  }
}
`})
	m, _, err := NewLoader().Load(testCtx(), dir)
	require.NoError(t, err)

	seg := m.Implementations["top.impl"].EndToEndFlow("e").Segments[0]
	require.Equal(t, model.KindDataAccess, seg.Element.Kind())
	da := seg.Element.(*model.DataAccess)
	assert.Same(t, m.Types["filter"].Feature("store"), da.Feature)
	assert.Equal(t, "f", seg.Context.Name)
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown category",
			content: `component_type "x" { category = "gizmo" }`,
			wantErr: "unknown category",
		},
		{
			name:    "implementation of undeclared type",
			content: `component_implementation "nope" "impl" {}`,
			wantErr: "undeclared type",
		},
		{
			name: "unknown segment",
			content: typesHCL + `
component_implementation "top" "impl" {
  end_to_end_flow "e" { segments = [ghost] }
}`,
			wantErr: "does not name a flow element",
		},
		{
			name: "nested flow inside flow implementation",
			content: typesHCL + `
component_implementation "filter" "impl" {
  end_to_end_flow "e" { segments = [] }
  flow_impl "through" { segments = [e] }
}`,
			wantErr: "does not name a flow element",
		},
		{
			name: "flow kind mismatch",
			content: typesHCL + `
component_implementation "filter" "impl" {
  flow_impl "through" {
    kind     = "sink"
    segments = []
  }
}`,
			wantErr: "Flow kind mismatch",
		},
		{
			name:    "unsupported argument",
			content: "component_type \"x\" {\n  category = \"system\"\n  colour   = \"red\"\n}\n",
			wantErr: "Unsupported argument",
		},
		{
			name:    "unsupported block",
			content: "component_type \"x\" {\n  category = \"system\"\n  port \"p\" {}\n}\n",
			wantErr: "Unsupported block type",
		},
		{
			name:    "system naming a type",
			content: typesHCL + `system "s" { implementation = top }`,
			wantErr: "must name an implementation",
		},
		{
			name: "index reference",
			content: typesHCL + `
component_implementation "top" "impl" {
  end_to_end_flow "e" { segments = [a[0]] }
}`,
			wantErr: "Invalid reference",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{"m.hcl": tc.content})
			_, _, err := NewLoader().Load(testCtx(), dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoader_BlocksDecodeWithoutLeftovers(t *testing.T) {
	src := `component_type "top" { category = "system" }

component_type "dev" {
  category = "device"
  feature "out" { direction = "out" }
  flow_spec "src" {
    kind = "source"
    out  = out
  }
}

component_implementation "top" "impl" {
  subcomponent "d" { classifier = dev }
}

system "top" { implementation = top.impl }
`
	dir := writeFiles(t, map[string]string{"m.hcl": src})
	m, _, err := NewLoader().Load(testCtx(), dir)
	require.NoError(t, err)

	top := m.Types["top"]
	require.NotNil(t, top)
	assert.Equal(t, 1, top.Range.Start.Line)
	assert.Equal(t, "m.hcl", filepath.Base(top.Range.Filename))

	dev := m.Types["dev"]
	require.NotNil(t, dev)
	require.NotNil(t, dev.Feature("out"))
	assert.Equal(t, 5, dev.Feature("out").Range.Start.Line)
	require.NotNil(t, dev.FlowSpec("src"))
	assert.Equal(t, model.FlowSource, dev.FlowSpec("src").FlowKind)
	assert.NotNil(t, m.Implementations["top.impl"].Subcomponent("d"))
}

func TestLoader_NoFiles(t *testing.T) {
	_, _, err := NewLoader().Load(testCtx(), t.TempDir(), "/does/not/exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .hcl model files")
}

func TestFindAllHCLFiles_Deduplicates(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.hcl": "", "sub/b.hcl": "", "c.txt": ""})
	l := NewLoader()
	files, err := l.findAllHCLFiles([]string{dir, filepath.Join(dir, "a.hcl")})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
