package dag

import (
	"fmt"
	"sort"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{
		id:         id,
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
}

// AddEdge adds an edge from fromID to toID. Both nodes must exist and be
// distinct.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode

	return nil
}

// Dependencies returns the sorted IDs of the nodes the given node depends on.
func (g *Graph) Dependencies(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedIDs(n.deps), nil
}

// Dependents returns the sorted IDs of the nodes that depend on the given node.
func (g *Graph) Dependents(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedIDs(n.dependents), nil
}

// DetectCycles checks the graph for any cycles. It returns a non-nil error
// naming the first node, in ID order, found on a cycle.
func (g *Graph) DetectCycles() error {
	cyclic := g.CyclicNodes()
	if len(cyclic) == 0 {
		return nil
	}
	return fmt.Errorf("cycle detected involving node '%s'", cyclic[0])
}

// CyclicNodes returns the sorted IDs of every node that lies on at least one
// cycle. Nodes that merely reach a cycle are not included.
func (g *Graph) CyclicNodes() []string {
	// Tarjan's strongly connected components; every component with more than
	// one node is a cycle, since self edges are rejected by AddEdge.
	var (
		index   = 0
		indices = make(map[string]int, len(g.nodes))
		lowlink = make(map[string]int, len(g.nodes))
		onStack = make(map[string]bool, len(g.nodes))
		stack   []string
		cyclic  []string
	)

	var strongConnect func(n *node)
	strongConnect = func(n *node) {
		indices[n.id] = index
		lowlink[n.id] = index
		index++
		stack = append(stack, n.id)
		onStack[n.id] = true

		for _, id := range sortedIDs(n.dependents) {
			if _, seen := indices[id]; !seen {
				strongConnect(g.nodes[id])
				lowlink[n.id] = min(lowlink[n.id], lowlink[id])
			} else if onStack[id] {
				lowlink[n.id] = min(lowlink[n.id], indices[id])
			}
		}

		if lowlink[n.id] != indices[n.id] {
			return
		}
		var component []string
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top] = false
			component = append(component, top)
			if top == n.id {
				break
			}
		}
		if len(component) > 1 {
			cyclic = append(cyclic, component...)
		}
	}

	for _, id := range sortedIDs(g.nodes) {
		if _, seen := indices[id]; !seen {
			strongConnect(g.nodes[id])
		}
	}

	sort.Strings(cyclic)
	return cyclic
}

func sortedIDs(nodes map[string]*node) []string {
	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
