// Package visualize renders the lineage of a sequence as a diagram.
package visualize

import (
	"fmt"

	"github.com/emicklei/dot"

	"github.com/l7mp/linq/internal/dag"
	"github.com/l7mp/linq/pkg/linq"
)

// Graph is the visualization graph of a lineage. Edges point in the direction of the data
// flow, from the inputs of an operator to the operator.
type Graph struct {
	Title string
	Sink  string
	dag   *dag.Graph
}

// BuildGraph constructs a visualization graph from a lineage. Lineage nodes shared by several
// operators appear once.
func BuildGraph(title string, l *linq.Lineage) *Graph {
	g := &Graph{Title: title, dag: dag.New()}
	if l == nil {
		return g
	}
	ids := map[*linq.Lineage]string{}
	g.Sink = g.add(l, ids)
	return g
}

func (g *Graph) add(l *linq.Lineage, ids map[*linq.Lineage]string) string {
	if id, ok := ids[l]; ok {
		return id
	}
	id := fmt.Sprintf("n%d", len(ids))
	ids[l] = id
	g.dag.AddNode(id, l.Label())
	for _, in := range l.Inputs {
		g.dag.AddEdge(g.add(in, ids), id)
	}
	return id
}

// Nodes returns the node ids in the order they were discovered, the sink first.
func (g *Graph) Nodes() []string { return g.dag.Nodes }

// Label returns the label of a node.
func (g *Graph) Label(id string) string { return g.dag.Label(id) }

// Sources returns the nodes without inputs.
func (g *Graph) Sources() []string { return g.dag.Roots() }

// Edges returns the consumers of a node.
func (g *Graph) Edges(id string) []string { return g.dag.Edges(id) }

// BuildDotGraph creates a dot.Graph from the visualization graph. The result can be rendered
// in different formats (DOT, Mermaid, etc.).
func BuildDotGraph(g *Graph) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "LR") // Left to right layout.
	if g.Title != "" {
		graph.Attr("label", g.Title)
		graph.Attr("labelloc", "t")
		graph.Attr("fontsize", "16")
	}

	sources := map[string]bool{}
	for _, id := range g.Sources() {
		sources[id] = true
	}

	nodes := make(map[string]dot.Node, len(g.Nodes()))
	for _, id := range g.Nodes() {
		node := graph.Node(id).Attr("label", g.Label(id)).Attr("fontname", "helvetica")
		switch {
		case sources[id]:
			node.Attr("shape", "ellipse").
				Attr("style", "filled").
				Attr("fillcolor", "lightgreen")
		case id == g.Sink:
			node.Attr("shape", "box").
				Attr("style", "filled,rounded").
				Attr("fillcolor", "lightcyan")
		default:
			node.Attr("shape", "box").
				Attr("style", "filled,rounded").
				Attr("fillcolor", "lightblue").
				Attr("color", "darkblue")
		}
		nodes[id] = node
	}

	for _, id := range g.Nodes() {
		for _, to := range g.Edges(id) {
			graph.Edge(nodes[id], nodes[to])
		}
	}

	return graph
}
