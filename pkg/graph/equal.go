package graph

import (
	"fmt"
	"slices"
	"strings"
)

type row struct {
	vertex string
	deps   []Dependency
}

func rows(v View) []row {
	var out []row
	for vertex, deps := range v.All() {
		out = append(out, row{vertex: vertex, deps: slices.Collect(deps)})
	}
	return out
}

// Equal reports whether two views hold the same vertices and, for each
// vertex, the same dependencies with the same strengths. A Graph and a
// Subgraph can be compared.
func Equal(a, b View) bool {
	ra, rb := rows(a), rows(b)
	return slices.EqualFunc(ra, rb, func(x, y row) bool {
		return x.vertex == y.vertex && slices.Equal(x.deps, y.deps)
	})
}

func (g *Graph) String() string {
	return describe("Graph", g)
}

func (s *Subgraph) String() string {
	return describe("Subgraph", s)
}

func describe(kind string, v View) string {
	var edges []string
	for vertex, deps := range v.All() {
		for d := range deps {
			edges = append(edges, fmt.Sprintf("%s->%s(%s)", vertex, d.Component, d.Strength))
		}
	}
	return fmt.Sprintf("%s{vertices: [%s], edges: [%s]}",
		kind,
		strings.Join(slices.Collect(v.Vertices()), " "),
		strings.Join(edges, " "))
}
