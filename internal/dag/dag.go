// Package dag implements a small directed acyclic graph over labeled string nodes. Node
// and edge iteration follows insertion order.
package dag

import (
	"slices"
)

// Graph is a directed graph. The zero value is not usable, call New.
type Graph struct {
	Nodes  []string
	byID   map[string]int
	labels map[string]string
	edges  map[string]map[string]bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		byID:   map[string]int{},
		labels: map[string]string{},
		edges:  map[string]map[string]bool{},
	}
}

// AddNode adds a node with a label. It returns false if the node already exists.
func (g *Graph) AddNode(id, label string) bool {
	if _, ok := g.byID[id]; ok {
		return false
	}
	g.byID[id] = len(g.Nodes)
	g.Nodes = append(g.Nodes, id)
	g.labels[id] = label
	g.edges[id] = map[string]bool{}
	return true
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.byID[id]
	return ok
}

// Label returns the label of a node.
func (g *Graph) Label(id string) string { return g.labels[id] }

// AddEdge adds an edge between existing nodes.
func (g *Graph) AddEdge(from, to string) {
	if !g.HasNode(from) || !g.HasNode(to) {
		return
	}
	g.edges[from][to] = true
}

func (g *Graph) DelEdge(from, to string) {
	delete(g.edges[from], to)
}

func (g *Graph) HasEdge(from, to string) bool {
	return g.edges[from] != nil && g.edges[from][to]
}

// Edges returns the successors of a node in node insertion order.
func (g *Graph) Edges(from string) []string {
	ret := make([]string, 0, len(g.edges[from]))
	for k := range g.edges[from] {
		ret = append(ret, k)
	}
	slices.SortFunc(ret, func(a, b string) int { return g.byID[a] - g.byID[b] })
	return ret
}

// Roots returns the nodes without an incoming edge.
func (g *Graph) Roots() []string {
	return g.filter(func(j string) bool {
		for _, i := range g.Nodes {
			if g.HasEdge(i, j) {
				return false
			}
		}
		return true
	})
}

// Leaves returns the nodes without an outgoing edge.
func (g *Graph) Leaves() []string {
	return g.filter(func(i string) bool { return len(g.edges[i]) == 0 })
}

func (g *Graph) filter(pred func(string) bool) []string {
	ret := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if pred(n) {
			ret = append(ret, n)
		}
	}
	return ret
}
