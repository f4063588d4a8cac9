// Package output renders dependency graphs and build schedules.
package output

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/charypar/monobuild/pkg/graph"
)

// TextFormat selects how dependencies are written in text output.
type TextFormat int

const (
	// Simple lists dependency names only.
	Simple TextFormat = iota
	// Full marks strong dependencies with "!", the manifest syntax. Output
	// in this format can be read back as a repository manifest.
	Full
)

// DotFormat selects the graphviz graph header.
type DotFormat int

const (
	Dependencies DotFormat = iota
	Schedule
)

func dependencyName(d graph.Dependency, format TextFormat) string {
	if format == Full && d.Strength == graph.Strong {
		return "!" + d.Component
	}
	return d.Component
}

// Text writes one line per component:
//
//	app: lib1, lib2
//	lib1:
func Text(w io.Writer, v graph.View, format TextFormat) error {
	var b strings.Builder
	for component, deps := range v.All() {
		var names []string
		for d := range deps {
			names = append(names, dependencyName(d, format))
		}
		fmt.Fprintf(&b, "%s: %s\n", component, strings.Join(names, ", "))
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write text output: %w", err)
	}
	return nil
}

// Dot writes the view as a graphviz digraph. Components without edges are
// listed on their own; weak edges are dashed.
func Dot(w io.Writer, v graph.View, format DotFormat) error {
	var b strings.Builder
	switch format {
	case Schedule:
		b.WriteString("digraph schedule {\n  rankdir=\"LR\"\n  node [shape=box]\n")
	default:
		b.WriteString("digraph dependencies {\n")
	}

	for component, deps := range v.All() {
		empty := true
		for d := range deps {
			empty = false
			fmt.Fprintf(&b, "  %q -> %q", component, d.Component)
			if d.Strength == graph.Weak {
				b.WriteString(" [style=dashed]")
			}
			b.WriteString("\n")
		}
		if empty {
			fmt.Fprintf(&b, "  %q\n", component)
		}
	}
	b.WriteString("}\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write dot output: %w", err)
	}
	return nil
}

// YAML writes the view as a mapping from component to its dependencies in
// full format.
func YAML(w io.Writer, v graph.View) error {
	doc := make(map[string][]string)
	for component, deps := range v.All() {
		names := []string{}
		for d := range deps {
			names = append(names, dependencyName(d, Full))
		}
		doc[component] = names
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write yaml output: %w", err)
	}
	return enc.Close()
}
