package dag

// Graph is a directed graph over string IDs. It is not safe for concurrent
// use.
type Graph struct {
	nodes map[string]*node
}

type node struct {
	id         string
	deps       map[string]*node // sources of edges into this node
	dependents map[string]*node // targets of edges out of this node
}
