package graph

import "slices"

// Subgraph is a read-only view of a Graph. It includes a subset of the
// graph's vertices and a subset of its edges, and every included edge has
// both endpoints included.
type Subgraph struct {
	graph      *Graph
	vertexMask []bool
	edgeMask   []bool
}

// Graph returns the graph this view is layered over.
func (s *Subgraph) Graph() *Graph {
	return s.graph
}

// Has reports whether v is included in the view.
func (s *Subgraph) Has(v string) bool {
	idx, ok := s.graph.idMap[v]
	return ok && s.vertexMask[idx]
}

// Len returns the number of included vertices.
func (s *Subgraph) Len() int {
	n := 0
	for _, in := range s.vertexMask {
		if in {
			n++
		}
	}
	return n
}

// EdgeCount returns the number of included edges.
func (s *Subgraph) EdgeCount() int {
	n := 0
	for _, in := range s.edgeMask {
		if in {
			n++
		}
	}
	return n
}

// FilterVertices keeps the included vertices matching keep, and the included
// edges whose endpoints both survive.
func (s *Subgraph) FilterVertices(keep func(string) bool) *Subgraph {
	vm := make([]bool, len(s.vertexMask))
	for i, in := range s.vertexMask {
		vm[i] = in && keep(s.graph.vertices[i])
	}

	return &Subgraph{
		graph:      s.graph,
		vertexMask: vm,
		edgeMask:   s.maskEdges(vm, nil),
	}
}

// FilterEdges keeps the included edges whose strength matches keep. The
// vertex set is unchanged.
func (s *Subgraph) FilterEdges(keep func(Strength) bool) *Subgraph {
	vm := slices.Clone(s.vertexMask)

	return &Subgraph{
		graph:      s.graph,
		vertexMask: vm,
		edgeMask:   s.maskEdges(vm, keep),
	}
}

// maskEdges derives an edge mask from the current one: an edge stays when
// both endpoints are in vm and, if keep is set, its strength matches.
func (s *Subgraph) maskEdges(vm []bool, keep func(Strength) bool) []bool {
	em := make([]bool, len(s.edgeMask))
	for from, edges := range s.graph.edges {
		if !vm[from] {
			continue
		}
		base := s.graph.offsets[from]
		for i, e := range edges {
			slot := base + i
			if !s.edgeMask[slot] || !vm[e.TargetID] {
				continue
			}
			if keep != nil && !keep(e.Strength) {
				continue
			}
			em[slot] = true
		}
	}
	return em
}

// Roots returns the included vertices that are not the destination of any
// included edge. The result has no edges.
func (s *Subgraph) Roots() *Subgraph {
	vm := slices.Clone(s.vertexMask)
	for from, edges := range s.graph.edges {
		base := s.graph.offsets[from]
		for i, e := range edges {
			if s.edgeMask[base+i] {
				vm[e.TargetID] = false
			}
		}
	}

	return &Subgraph{
		graph:      s.graph,
		vertexMask: vm,
		edgeMask:   make([]bool, len(s.edgeMask)),
	}
}

// ExpandVia grows the view along edges of the underlying graph whose strength
// matches follow, until nothing more can be added. Edges already in the view
// are not followed again, and each vertex is expanded at most once, so cycles
// terminate.
func (s *Subgraph) ExpandVia(follow func(Strength) bool) *Subgraph {
	vm := slices.Clone(s.vertexMask)
	em := slices.Clone(s.edgeMask)
	expanded := make([]bool, len(vm))

	var frontier []uint32
	for i, in := range vm {
		if in {
			frontier = append(frontier, uint32(i))
		}
	}

	for len(frontier) > 0 {
		var next []uint32
		for _, from := range frontier {
			if expanded[from] {
				continue
			}
			expanded[from] = true

			base := s.graph.offsets[from]
			for i, e := range s.graph.edges[from] {
				slot := base + i
				if em[slot] || !follow(e.Strength) {
					continue
				}
				vm[e.TargetID] = true
				em[slot] = true
				if !expanded[e.TargetID] {
					next = append(next, e.TargetID)
				}
			}
		}
		frontier = next
	}

	return &Subgraph{
		graph:      s.graph,
		vertexMask: vm,
		edgeMask:   em,
	}
}

// Expand is ExpandVia following every edge.
func (s *Subgraph) Expand() *Subgraph {
	return s.ExpandVia(func(Strength) bool { return true })
}

// ExpandVia on a Graph returns the whole graph: nothing can be added.
func (g *Graph) ExpandVia(follow func(Strength) bool) *Subgraph {
	return g.full().ExpandVia(follow)
}

// Expand on a Graph returns the whole graph as a Subgraph.
func (g *Graph) Expand() *Subgraph {
	return g.full().Expand()
}
