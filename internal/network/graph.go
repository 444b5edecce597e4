// Package network builds a directed product graph from association rules.
package network

import (
	"fmt"
	"io"
	"strings"

	"github.com/PUSHPAK-96/cartwise/internal/model"
)

// DefaultTopK is the number of rules drawn when unspecified.
const DefaultTopK = 40

// Edge links an antecedent product to a consequent product.
type Edge struct {
	From       string  `json:"source"`
	To         string  `json:"target"`
	Lift       float64 `json:"lift"`
	Confidence float64 `json:"confidence"`
}

// Graph is a simple directed graph: at most one edge per ordered pair.
type Graph struct {
	edgeIndex map[[2]string]int
	nodeIndex map[string]struct{}
	nodes     []string
	edges     []Edge
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		edgeIndex: make(map[[2]string]int),
		nodeIndex: make(map[string]struct{}),
	}
}

// Build adds an edge for every antecedent item and consequent item pair of
// the first topK rules, in the order the rules arrive. A pair produced by
// several rules keeps the attributes of the last one.
func Build(rules []model.Rule, topK int) *Graph {
	g := New()
	if topK >= 0 && topK < len(rules) {
		rules = rules[:topK]
	}
	for _, r := range rules {
		for _, a := range r.Antecedents.Items() {
			for _, c := range r.Consequents.Items() {
				g.SetEdge(a, c, r.Lift, r.Confidence)
			}
		}
	}
	return g
}

// SetEdge adds or overwrites the edge from -> to.
func (g *Graph) SetEdge(from, to string, lift, confidence float64) {
	g.addNode(from)
	g.addNode(to)

	key := [2]string{from, to}
	e := Edge{From: from, To: to, Lift: lift, Confidence: confidence}
	if i, ok := g.edgeIndex[key]; ok {
		g.edges[i] = e
		return
	}
	g.edgeIndex[key] = len(g.edges)
	g.edges = append(g.edges, e)
}

func (g *Graph) addNode(n string) {
	if _, ok := g.nodeIndex[n]; ok {
		return
	}
	g.nodeIndex[n] = struct{}{}
	g.nodes = append(g.nodes, n)
}

// Nodes returns node names in first-seen order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

// Edges returns edges in first-insertion order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// Edge looks up the edge from -> to.
func (g *Graph) Edge(from, to string) (Edge, bool) {
	i, ok := g.edgeIndex[[2]string{from, to}]
	if !ok {
		return Edge{}, false
	}
	return g.edges[i], true
}

// Empty reports whether the graph has no nodes.
func (g *Graph) Empty() bool {
	return len(g.nodes) == 0
}

// WriteDOT renders the graph in Graphviz DOT so any Graphviz layout engine
// can draw it. Edge width follows lift.
func (g *Graph) WriteDOT(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString("digraph rules {\n")
	sb.WriteString("  graph [overlap=false, splines=true];\n")
	sb.WriteString("  node [shape=ellipse, fontsize=10];\n")
	for _, n := range g.nodes {
		fmt.Fprintf(&sb, "  %s;\n", dotQuote(n))
	}
	for _, e := range g.edges {
		fmt.Fprintf(&sb, "  %s -> %s [label=%s, penwidth=%.2f, lift=%.4f, confidence=%.4f];\n",
			dotQuote(e.From), dotQuote(e.To),
			dotQuote(fmt.Sprintf("%.2f", e.Lift)),
			penWidth(e.Lift), e.Lift, e.Confidence)
	}
	sb.WriteString("}\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// dotQuote makes a DOT double-quoted ID. DOT only knows \" and \\, so every
// other byte is written verbatim.
func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

func penWidth(lift float64) float64 {
	return min(max(lift, 0.5), 5)
}
