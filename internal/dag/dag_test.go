package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// build returns a graph holding nodes and, for every pair, an edge from the
// referencing flow to the referenced one.
func build(t *testing.T, nodes []string, edges [][2]string) *Graph {
	t.Helper()
	g := New()
	for _, id := range nodes {
		g.AddNode(id)
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e[0], e[1]))
	}
	return g
}

func TestAddNode_Idempotent(t *testing.T) {
	g := New()
	g.AddNode("sense")
	g.AddNode("sense")
	g.AddNode("show")

	require.Len(t, g.nodes, 2)
	n := g.nodes["sense"]
	assert.Equal(t, "sense", n.id)
	assert.Empty(t, n.deps)
	assert.Empty(t, n.dependents)
}

func TestAddEdge(t *testing.T) {
	g := build(t, []string{"whole", "head"}, [][2]string{{"whole", "head"}})

	assert.Same(t, g.nodes["head"], g.nodes["whole"].dependents["head"])
	assert.Same(t, g.nodes["whole"], g.nodes["head"].deps["whole"])

	testCases := []struct {
		name     string
		from, to string
		wantErr  string
	}{
		{name: "unknown source", from: "tail", to: "head", wantErr: "source node not found: tail"},
		{name: "unknown destination", from: "head", to: "tail", wantErr: "destination node not found: tail"},
		{name: "self reference", from: "head", to: "head", wantErr: "self-referential edge"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorContains(t, g.AddEdge(tc.from, tc.to), tc.wantErr)
		})
	}
}

func TestDetectCycles(t *testing.T) {
	testCases := []struct {
		name    string
		nodes   []string
		edges   [][2]string
		wantErr string
	}{
		{name: "no flows"},
		{name: "unrelated flows", nodes: []string{"a", "b", "c"}},
		{
			name:  "shared nested flow",
			nodes: []string{"whole", "head", "tail", "joined"},
			edges: [][2]string{{"whole", "head"}, {"whole", "tail"}, {"joined", "whole"}, {"joined", "head"}},
		},
		{
			name:    "mutual reference",
			nodes:   []string{"a", "b"},
			edges:   [][2]string{{"a", "b"}, {"b", "a"}},
			wantErr: "cycle detected involving node 'a'",
		},
		{
			name:    "long cycle",
			nodes:   []string{"a", "b", "c", "d"},
			edges:   [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "b"}},
			wantErr: "cycle detected involving node 'b'",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := build(t, tc.nodes, tc.edges).DetectCycles()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tc.wantErr)
		})
	}
}

func TestCyclicNodes(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c", "x", "y", "z"} {
		g.AddNode(id)
	}
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "a"))
	require.NoError(t, g.AddEdge("c", "a")) // reaches the cycle, not on it
	require.NoError(t, g.AddEdge("x", "y"))
	require.NoError(t, g.AddEdge("y", "z"))

	assert.Equal(t, []string{"a", "b"}, g.CyclicNodes())
	assert.ErrorContains(t, g.DetectCycles(), "'a'")

	require.NoError(t, g.AddEdge("z", "x"))
	assert.Equal(t, []string{"a", "b", "x", "y", "z"}, g.CyclicNodes())
}

func TestDependencies(t *testing.T) {
	g := New()
	g.AddNode("a")
	g.AddNode("b")
	g.AddNode("c")
	require.NoError(t, g.AddEdge("b", "a"))
	require.NoError(t, g.AddEdge("c", "a"))

	deps, err := g.Dependencies("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, deps)

	dependents, err := g.Dependents("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, dependents)

	_, err = g.Dependencies("nope")
	assert.ErrorContains(t, err, "node not found")
}
