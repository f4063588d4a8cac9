// Package impact decides which components need rebuilding after a change.
package impact

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/charypar/monobuild/pkg/graph"
)

// ErrUnknownScope is returned when a selection is scoped to a component the
// graph does not contain.
var ErrUnknownScope = errors.New("unknown component")

// Options control how the affected set is turned into a build schedule.
type Options struct {
	// RebuildStrong also rebuilds everything an affected component strongly
	// depends on.
	RebuildStrong bool
	// Dependencies keeps every edge. Otherwise only strong edges are kept and
	// the result is a build schedule.
	Dependencies bool
}

func strong(s graph.Strength) bool {
	return s == graph.Strong
}

func set(names []string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// Affected returns the changed components together with every component that
// depends on one of them, directly or transitively. The edges are those of
// the reversed graph. Names missing from the graph are ignored.
func Affected(g *graph.Graph, changed []string) *graph.Subgraph {
	changedSet := set(changed)

	return g.Reverse().
		FilterVertices(func(v string) bool {
			_, ok := changedSet[v]
			return ok
		}).
		Expand()
}

// Analyze narrows base to the components affected by changed and applies the
// rebuild policy in opts.
func Analyze(base *graph.Subgraph, changed []string, opts Options) *graph.Subgraph {
	affected := Affected(base.Graph(), changed)

	result := base.FilterVertices(affected.Has)
	if opts.RebuildStrong {
		result = result.ExpandVia(strong)
	}
	if !opts.Dependencies {
		result = result.FilterEdges(strong)
	}

	slog.Debug("impact analysed",
		"changed", len(changed),
		"affected", affected.Len(),
		"scheduled", result.Len(),
		"rebuild_strong", opts.RebuildStrong)

	return result
}

// Selection restricts which part of the graph is considered.
type Selection struct {
	// Scope limits the view to one component and what it depends on.
	Scope string
	// TopLevel limits the view to components nothing depends on.
	TopLevel bool
	// Where is an extra per-component predicate.
	Where func(component string) bool
}

// Apply returns the selected part of g. When strongOnly is set, Scope only
// follows strong dependencies.
func (sel Selection) Apply(g *graph.Graph, strongOnly bool) (*graph.Subgraph, error) {
	view := g.FilterVertices(func(string) bool { return true })

	if sel.TopLevel {
		view = view.FilterVertices(g.Roots().Has)
	}

	if sel.Scope != "" {
		if !g.Has(sel.Scope) {
			return nil, fmt.Errorf("cannot scope to %q: %w", sel.Scope, ErrUnknownScope)
		}

		seed := g.FilterVertices(func(v string) bool { return v == sel.Scope })
		var tree *graph.Subgraph
		if strongOnly {
			tree = seed.ExpandVia(strong)
		} else {
			tree = seed.Expand()
		}
		view = view.FilterVertices(tree.Has)
	}

	if sel.Where != nil {
		view = view.FilterVertices(sel.Where)
	}

	return view, nil
}

// Plan builds the view printed by the print command: the selection, reduced
// to strong edges unless dependencies is set.
func Plan(g *graph.Graph, sel Selection, dependencies bool) (*graph.Subgraph, error) {
	view, err := sel.Apply(g, !dependencies)
	if err != nil {
		return nil, err
	}
	if !dependencies {
		view = view.FilterEdges(strong)
	}
	return view, nil
}
