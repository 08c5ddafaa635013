package graph

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for graph operations.
var (
	// ErrEmptyNodeID indicates an empty node identifier.
	ErrEmptyNodeID = errors.New("graph: node ID is empty")

	// ErrNodeNotFound indicates an operation referenced a non-existent node.
	ErrNodeNotFound = errors.New("graph: node not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("graph: edge not found")

	// ErrSelfLoop indicates a self-loop was attempted.
	ErrSelfLoop = errors.New("graph: self-loop not allowed")

	// ErrEdgeExists indicates an edge between the pair already exists.
	ErrEdgeExists = errors.New("graph: edge already exists between pair")
)

// EdgeKind distinguishes the edge marks of a mixed graph.
type EdgeKind uint8

const (
	// Directed is a one-way causal edge From -> To.
	Directed EdgeKind = iota
	// Undirected is an edge whose orientation is unknown.
	Undirected
	// Bidirected marks a latent-confounder candidate between endpoints.
	Bidirected
)

func (k EdgeKind) String() string {
	switch k {
	case Directed:
		return "directed"
	case Undirected:
		return "undirected"
	case Bidirected:
		return "bidirected"
	}
	return "unknown"
}

// Edge connects two nodes. For Undirected and Bidirected edges From/To
// carry no orientation meaning and are stored in insertion order.
// Marked flags a directed edge as genuinely causal (IC* asterisk).
type Edge struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Kind   EdgeKind `json:"kind"`
	Marked bool     `json:"marked,omitempty"`
}

// Graph is a simple mixed graph: at most one edge per node pair.
// Node and edge listing order is insertion order, so output is
// deterministic for a deterministic build sequence.
type Graph struct {
	nodes []string
	index map[string]bool
	adj   map[string]map[string]*Edge
	order []*Edge
}

func New() *Graph {
	return &Graph{
		nodes: make([]string, 0),
		index: make(map[string]bool),
		adj:   make(map[string]map[string]*Edge),
	}
}

func (g *Graph) AddNode(id string) error {
	if id == "" {
		return ErrEmptyNodeID
	}
	if g.index[id] {
		return nil
	}
	g.index[id] = true
	g.nodes = append(g.nodes, id)
	g.adj[id] = make(map[string]*Edge)
	return nil
}

func (g *Graph) HasNode(id string) bool { return g.index[id] }

func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

func (g *Graph) NumNodes() int { return len(g.nodes) }

func (g *Graph) addEdge(from, to string, kind EdgeKind) error {
	if from == to {
		return ErrSelfLoop
	}
	if !g.index[from] {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, from)
	}
	if !g.index[to] {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, to)
	}
	if _, ok := g.adj[from][to]; ok {
		return fmt.Errorf("%w: %s, %s", ErrEdgeExists, from, to)
	}
	e := &Edge{From: from, To: to, Kind: kind}
	g.adj[from][to] = e
	g.adj[to][from] = e
	g.order = append(g.order, e)
	return nil
}

// AddDirected adds a causal edge from -> to.
func (g *Graph) AddDirected(from, to string) error {
	return g.addEdge(from, to, Directed)
}

// AddUndirected adds an orientation-unknown edge between a and b.
func (g *Graph) AddUndirected(a, b string) error {
	return g.addEdge(a, b, Undirected)
}

// AddBidirected adds a latent-confounder candidate edge between a and b.
func (g *Graph) AddBidirected(a, b string) error {
	return g.addEdge(a, b, Bidirected)
}

// EdgeBetween returns the edge touching both a and b, if any.
func (g *Graph) EdgeBetween(a, b string) (*Edge, bool) {
	m, ok := g.adj[a]
	if !ok {
		return nil, false
	}
	e, ok := m[b]
	return e, ok
}

// HasAdjacency reports whether any edge connects a and b.
func (g *Graph) HasAdjacency(a, b string) bool {
	_, ok := g.EdgeBetween(a, b)
	return ok
}

// HasDirected reports whether a directed edge from -> to exists.
func (g *Graph) HasDirected(from, to string) bool {
	e, ok := g.EdgeBetween(from, to)
	return ok && e.Kind == Directed && e.From == from
}

// RemoveEdge deletes the edge between a and b.
func (g *Graph) RemoveEdge(a, b string) error {
	e, ok := g.EdgeBetween(a, b)
	if !ok {
		return fmt.Errorf("%w: %s, %s", ErrEdgeNotFound, a, b)
	}
	delete(g.adj[a], b)
	delete(g.adj[b], a)
	for i, oe := range g.order {
		if oe == e {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return nil
}

// Orient turns the undirected edge between from and to into from -> to.
func (g *Graph) Orient(from, to string) error {
	e, ok := g.EdgeBetween(from, to)
	if !ok {
		return fmt.Errorf("%w: %s, %s", ErrEdgeNotFound, from, to)
	}
	if e.Kind != Undirected {
		return fmt.Errorf("graph: edge %s-%s is not undirected", from, to)
	}
	e.From = from
	e.To = to
	e.Kind = Directed
	return nil
}

// AddArrowhead places an arrowhead at the `to` endpoint of the edge
// between from and to: an undirected edge becomes directed from -> to,
// a directed edge pointing the other way becomes bidirected, and edges
// already arrowed at `to` are unchanged.
func (g *Graph) AddArrowhead(from, to string) error {
	e, ok := g.EdgeBetween(from, to)
	if !ok {
		return fmt.Errorf("%w: %s, %s", ErrEdgeNotFound, from, to)
	}
	switch e.Kind {
	case Undirected:
		e.From = from
		e.To = to
		e.Kind = Directed
	case Directed:
		if e.To != to {
			e.Kind = Bidirected
			e.Marked = false
		}
	case Bidirected:
	}
	return nil
}

// Mark flags the directed edge from -> to as genuinely causal.
func (g *Graph) Mark(from, to string) error {
	if !g.HasDirected(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrEdgeNotFound, from, to)
	}
	e, _ := g.EdgeBetween(from, to)
	e.Marked = true
	return nil
}

// Parents returns nodes with a directed edge into v, sorted.
func (g *Graph) Parents(v string) []string {
	var out []string
	for n, e := range g.adj[v] {
		if e.Kind == Directed && e.To == v {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Children returns nodes v has a directed edge into, sorted.
func (g *Graph) Children(v string) []string {
	var out []string
	for n, e := range g.adj[v] {
		if e.Kind == Directed && e.From == v {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Adjacent returns every node sharing an edge with v, in edge insertion order.
func (g *Graph) Adjacent(v string) []string {
	var out []string
	for _, e := range g.order {
		if e.From == v {
			out = append(out, e.To)
		} else if e.To == v {
			out = append(out, e.From)
		}
	}
	return out
}

// Edges returns every edge once, in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.order))
	for i, e := range g.order {
		out[i] = *e
	}
	return out
}

func (g *Graph) NumEdges() int { return len(g.order) }

// HasPath reports whether a directed path from -> to exists.
func (g *Graph) HasPath(from, to string) bool {
	if !g.index[from] || !g.index[to] {
		return false
	}
	visited := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range g.Children(v) {
			if c == to {
				return true
			}
			if !visited[c] {
				visited[c] = true
				stack = append(stack, c)
			}
		}
	}
	return false
}

// Ancestors returns every node with a directed path into v.
func (g *Graph) Ancestors(v string) []string {
	var out []string
	visited := map[string]bool{v: true}
	stack := []string{v}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range g.Parents(n) {
			if !visited[p] {
				visited[p] = true
				out = append(out, p)
				stack = append(stack, p)
			}
		}
	}
	return out
}

// Clone returns a deep copy.
func (g *Graph) Clone() *Graph {
	c := New()
	for _, n := range g.nodes {
		c.AddNode(n)
	}
	for _, e := range g.order {
		c.addEdge(e.From, e.To, e.Kind)
		ce := c.adj[e.From][e.To]
		ce.Marked = e.Marked
	}
	return c
}
