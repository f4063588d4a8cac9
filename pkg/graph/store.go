// Package graph holds the component dependency graph of a monorepo and the
// read-only views ("subgraphs") layered over it.
//
// A Graph is built once from an adjacency description and never changes.
// Vertices live in a flat arena, sorted by identifier and addressed by a
// stable uint32 index; edges refer to their destination by that index.
// Every transformation (filtering, roots, expansion) returns a Subgraph,
// which is a pair of masks over the same arena and never copies vertex or
// edge data.
package graph

import (
	"cmp"
	"slices"
)

// Strength is the kind of a dependency edge.
type Strength int

const (
	// Weak edges only propagate impact: a change in the dependency marks the
	// dependent as affected, but both may build in parallel.
	Weak Strength = iota
	// Strong edges are build-order constraints and force co-rebuilding.
	Strong
)

func (s Strength) String() string {
	if s == Strong {
		return "strong"
	}
	return "weak"
}

// Dependency is one outgoing edge in an adjacency description, and the
// element yielded when iterating a view.
type Dependency struct {
	Component string
	Strength  Strength
}

// Pair is one entry of an ordered adjacency description.
type Pair struct {
	Component    string
	Dependencies []Dependency
}

// Edge is an outgoing edge as stored in the arena.
type Edge struct {
	TargetID uint32
	Strength Strength
}

// Graph is an immutable directed graph with string vertices.
type Graph struct {
	vertices []string
	idMap    map[string]uint32

	// edges[i] holds the outgoing edges of vertex i sorted by TargetID,
	// which is also ascending destination identifier order.
	edges [][]Edge

	// offsets[i] is the arena slot of edges[i][0]. Subgraph edge masks are
	// addressed by slot.
	offsets   []int
	edgeCount int
}

// New builds a Graph from an unordered adjacency description. Destinations
// that never appear as a key still become vertices. Repeated edges between
// the same pair collapse into one; if they disagree on strength, Strong wins.
func New(adjacency map[string][]Dependency) *Graph {
	pairs := make([]Pair, 0, len(adjacency))
	for component, deps := range adjacency {
		pairs = append(pairs, Pair{Component: component, Dependencies: deps})
	}
	return build(pairs)
}

// FromPairs is New for an ordered adjacency description. A component may be
// listed more than once; its dependencies are merged.
func FromPairs(pairs ...Pair) *Graph {
	return build(pairs)
}

func build(pairs []Pair) *Graph {
	// Collect every source and destination.
	seen := make(map[string]struct{})
	for _, p := range pairs {
		seen[p.Component] = struct{}{}
		for _, d := range p.Dependencies {
			seen[d.Component] = struct{}{}
		}
	}

	vertices := make([]string, 0, len(seen))
	for v := range seen {
		vertices = append(vertices, v)
	}
	slices.Sort(vertices)

	idMap := make(map[string]uint32, len(vertices))
	for i, v := range vertices {
		idMap[v] = uint32(i)
	}

	// Deduplicate by destination.
	targets := make([]map[uint32]Strength, len(vertices))
	for _, p := range pairs {
		from := idMap[p.Component]
		if targets[from] == nil {
			targets[from] = make(map[uint32]Strength, len(p.Dependencies))
		}
		for _, d := range p.Dependencies {
			to := idMap[d.Component]
			if current, ok := targets[from][to]; !ok || d.Strength > current {
				targets[from][to] = d.Strength
			}
		}
	}

	g := &Graph{
		vertices: vertices,
		idMap:    idMap,
		edges:    make([][]Edge, len(vertices)),
		offsets:  make([]int, len(vertices)),
	}
	for i, ts := range targets {
		edges := make([]Edge, 0, len(ts))
		for to, s := range ts {
			edges = append(edges, Edge{TargetID: to, Strength: s})
		}
		slices.SortFunc(edges, func(a, b Edge) int {
			return cmp.Compare(a.TargetID, b.TargetID)
		})

		g.edges[i] = edges
		g.offsets[i] = g.edgeCount
		g.edgeCount += len(edges)
	}

	return g
}

// Len returns the number of vertices.
func (g *Graph) Len() int {
	return len(g.vertices)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return g.edgeCount
}

// Index returns the arena index of a vertex.
func (g *Graph) Index(v string) (uint32, bool) {
	idx, ok := g.idMap[v]
	return idx, ok
}

// Has reports whether v is a vertex of the graph.
func (g *Graph) Has(v string) bool {
	_, ok := g.idMap[v]
	return ok
}

// Vertex returns the identifier stored at an arena index.
func (g *Graph) Vertex(idx uint32) (string, bool) {
	if int(idx) >= len(g.vertices) {
		return "", false
	}
	return g.vertices[idx], true
}

// Reverse returns a new Graph with every edge flipped. The vertex arena is
// shared, so indices stay valid across the two graphs.
func (g *Graph) Reverse() *Graph {
	reversed := make([][]Edge, len(g.vertices))
	// Sources are visited in ascending order, so each reversed list comes
	// out sorted by TargetID.
	for from, edges := range g.edges {
		for _, e := range edges {
			reversed[e.TargetID] = append(reversed[e.TargetID], Edge{
				TargetID: uint32(from),
				Strength: e.Strength,
			})
		}
	}

	r := &Graph{
		vertices: g.vertices,
		idMap:    g.idMap,
		edges:    reversed,
		offsets:  make([]int, len(g.vertices)),
	}
	for i, edges := range reversed {
		r.offsets[i] = r.edgeCount
		r.edgeCount += len(edges)
	}
	return r
}

// full returns a Subgraph including everything.
func (g *Graph) full() *Subgraph {
	return &Subgraph{
		graph:      g,
		vertexMask: fill(len(g.vertices)),
		edgeMask:   fill(g.edgeCount),
	}
}

func fill(n int) []bool {
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	return mask
}

// FilterVertices keeps the vertices matching keep and the edges between them.
func (g *Graph) FilterVertices(keep func(string) bool) *Subgraph {
	return g.full().FilterVertices(keep)
}

// FilterEdges keeps the edges whose strength matches keep. No vertex is
// removed.
func (g *Graph) FilterEdges(keep func(Strength) bool) *Subgraph {
	return g.full().FilterEdges(keep)
}

// Roots returns the vertices nothing depends on, without edges.
func (g *Graph) Roots() *Subgraph {
	return g.full().Roots()
}
