// Package selector compiles component filter expressions.
//
// Expressions are CEL and see three string variables:
//
//	component  the component path, e.g. "services/api"
//	name       its last path segment, "api"
//	dir        its parent path, "services" ("." at the top level)
//
// For example: dir == "services" && !name.startsWith("legacy-").
package selector

import (
	"fmt"
	"log/slog"
	"path"

	"github.com/google/cel-go/cel"
)

// Predicate reports whether a component is selected.
type Predicate func(component string) bool

func newEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("component", cel.StringType),
		cel.Variable("name", cel.StringType),
		cel.Variable("dir", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}
	return env, nil
}

// Compile turns a boolean CEL expression into a Predicate.
func Compile(expr string) (Predicate, error) {
	env, err := newEnv()
	if err != nil {
		return nil, err
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("selector %q must be a boolean expression, got %s", expr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("selector %q program creation error: %w", expr, err)
	}

	return func(component string) bool {
		out, _, err := prg.Eval(map[string]any{
			"component": component,
			"name":      path.Base(component),
			"dir":       path.Dir(component),
		})
		if err != nil {
			slog.Debug("selector evaluation failed", "component", component, "error", err)
			return false
		}
		match, ok := out.Value().(bool)
		return ok && match
	}, nil
}
