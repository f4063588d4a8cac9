// Package manifest reads component dependency manifests into a graph.
//
// A component is a directory holding a manifest file (Dependencies by
// default). Each non-blank, non-comment line names another component the
// directory depends on; a leading "!" marks a strong dependency.
package manifest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charypar/monobuild/pkg/graph"
)

// Warning is a non-fatal problem found while reading manifests.
type Warning interface {
	fmt.Stringer
	warning()
}

// UnknownDependency is a dependency on something that is not a component.
// The dependency is dropped.
type UnknownDependency struct {
	Component  string
	Dependency string
}

func (UnknownDependency) warning() {}

func (w UnknownDependency) String() string {
	return fmt.Sprintf("Unknown dependency %s of %s.", w.Dependency, w.Component)
}

// BadLineFormat is a repository manifest line that could not be parsed.
type BadLineFormat struct {
	Line int
	Text string
}

func (BadLineFormat) warning() {}

func (w BadLineFormat) String() string {
	return fmt.Sprintf("Bad line format: %d: '%s' expected 'component: dependency, dependency, ...'", w.Line, w.Text)
}

func parseDependency(entry string) (graph.Dependency, bool) {
	name := strings.TrimRight(strings.TrimSpace(entry), "/")
	if name == "" || strings.HasPrefix(name, "#") {
		return graph.Dependency{}, false
	}
	if rest, ok := strings.CutPrefix(name, "!"); ok {
		return graph.Dependency{Component: rest, Strength: graph.Strong}, true
	}
	return graph.Dependency{Component: name, Strength: graph.Weak}, true
}

// ParseDependencies parses the contents of a single manifest. Entries keep
// their order; exact duplicates are dropped.
func ParseDependencies(text string) []graph.Dependency {
	var deps []graph.Dependency
	for _, line := range strings.Split(text, "\n") {
		dep, ok := parseDependency(line)
		if !ok || slices.Contains(deps, dep) {
			continue
		}
		deps = append(deps, dep)
	}
	return deps
}

// Read builds a graph from manifest contents keyed by component path.
// Dependencies on paths that are not components are dropped with a warning.
func Read(manifests map[string]string) (*graph.Graph, []Warning) {
	components := make([]string, 0, len(manifests))
	for c := range manifests {
		components = append(components, c)
	}
	slices.Sort(components)

	var warnings []Warning
	pairs := make([]graph.Pair, 0, len(components))
	for _, c := range components {
		var known []graph.Dependency
		var unknown []string
		for _, d := range ParseDependencies(manifests[c]) {
			if _, ok := manifests[d.Component]; !ok {
				unknown = append(unknown, d.Component)
				continue
			}
			known = append(known, d)
		}

		slices.Sort(unknown)
		for _, u := range slices.Compact(unknown) {
			warnings = append(warnings, UnknownDependency{Component: c, Dependency: u})
		}
		pairs = append(pairs, graph.Pair{Component: c, Dependencies: known})
	}

	return graph.FromPairs(pairs...), warnings
}
