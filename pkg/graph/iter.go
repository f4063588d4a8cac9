package graph

import "iter"

// View is the read side shared by Graph and Subgraph. Vertices come in
// ascending identifier order; dependencies of a vertex come in ascending
// destination order.
type View interface {
	Vertices() iter.Seq[string]
	Dependencies(v string) iter.Seq[Dependency]
	All() iter.Seq2[string, iter.Seq[Dependency]]
}

var (
	_ View = (*Graph)(nil)
	_ View = (*Subgraph)(nil)
)

// Vertices yields every vertex in ascending order.
func (g *Graph) Vertices() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, v := range g.vertices {
			if !yield(v) {
				return
			}
		}
	}
}

// Dependencies yields the outgoing edges of v. Unknown vertices yield nothing.
func (g *Graph) Dependencies(v string) iter.Seq[Dependency] {
	return func(yield func(Dependency) bool) {
		from, ok := g.idMap[v]
		if !ok {
			return
		}
		for _, e := range g.edges[from] {
			if !yield(Dependency{Component: g.vertices[e.TargetID], Strength: e.Strength}) {
				return
			}
		}
	}
}

// All yields each vertex with its dependencies.
func (g *Graph) All() iter.Seq2[string, iter.Seq[Dependency]] {
	return func(yield func(string, iter.Seq[Dependency]) bool) {
		for _, v := range g.vertices {
			if !yield(v, g.Dependencies(v)) {
				return
			}
		}
	}
}

// Vertices yields the included vertices in ascending order.
func (s *Subgraph) Vertices() iter.Seq[string] {
	return func(yield func(string) bool) {
		for i, v := range s.graph.vertices {
			if !s.vertexMask[i] {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Dependencies yields the included outgoing edges of v. Vertices outside the
// view yield nothing.
func (s *Subgraph) Dependencies(v string) iter.Seq[Dependency] {
	return func(yield func(Dependency) bool) {
		from, ok := s.graph.idMap[v]
		if !ok || !s.vertexMask[from] {
			return
		}
		base := s.graph.offsets[from]
		for i, e := range s.graph.edges[from] {
			if !s.edgeMask[base+i] {
				continue
			}
			if !yield(Dependency{Component: s.graph.vertices[e.TargetID], Strength: e.Strength}) {
				return
			}
		}
	}
}

// All yields each included vertex with its included dependencies.
func (s *Subgraph) All() iter.Seq2[string, iter.Seq[Dependency]] {
	return func(yield func(string, iter.Seq[Dependency]) bool) {
		for i, v := range s.graph.vertices {
			if !s.vertexMask[i] {
				continue
			}
			if !yield(v, s.Dependencies(v)) {
				return
			}
		}
	}
}
