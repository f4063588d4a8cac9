package manifest

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/charypar/monobuild/pkg/graph"
)

// ParseRepoManifest reads a whole-repository manifest in the format printed by
// "monobuild print --full":
//
//	app: lib1, !lib2
//	lib1:
//
// Dependencies do not need their own line. Lines without a colon are skipped
// with a warning carrying their 1-based line number.
func ParseRepoManifest(text string) (*graph.Graph, []Warning) {
	var warnings []Warning
	var pairs []graph.Pair

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		component, list, ok := strings.Cut(line, ":")
		if !ok {
			warnings = append(warnings, BadLineFormat{Line: i + 1, Text: line})
			continue
		}

		var deps []graph.Dependency
		for _, entry := range strings.Split(list, ",") {
			if dep, ok := parseDependency(entry); ok {
				deps = append(deps, dep)
			}
		}
		pairs = append(pairs, graph.Pair{Component: strings.TrimSpace(component), Dependencies: deps})
	}

	return graph.FromPairs(pairs...), warnings
}

// ParseRepoManifestYAML reads a whole-repository manifest written as a YAML
// mapping from component to a list of dependencies. Strong dependencies are
// quoted strings with a leading "!".
func ParseRepoManifestYAML(data []byte) (*graph.Graph, error) {
	var doc map[string][]string
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse repository manifest: %w", err)
	}

	components := make([]string, 0, len(doc))
	for c := range doc {
		components = append(components, c)
	}
	slices.Sort(components)

	pairs := make([]graph.Pair, 0, len(components))
	for _, c := range components {
		var deps []graph.Dependency
		for _, entry := range doc[c] {
			if dep, ok := parseDependency(entry); ok {
				deps = append(deps, dep)
			}
		}
		pairs = append(pairs, graph.Pair{Component: c, Dependencies: deps})
	}

	return graph.FromPairs(pairs...), nil
}
