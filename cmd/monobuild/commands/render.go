package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/charypar/monobuild/pkg/graph"
	"github.com/charypar/monobuild/pkg/impact"
	"github.com/charypar/monobuild/pkg/output"
	"github.com/charypar/monobuild/pkg/selector"
	"github.com/charypar/monobuild/pkg/telemetry"
)

// outputOptions are the selection and format flags shared by print and diff.
type outputOptions struct {
	dependencies bool
	dot          bool
	yaml         bool
	full         bool
	scope        string
	topLevel     bool
	where        string
}

func (o *outputOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	o.addFlags(flags)
	cmd.MarkFlagsMutuallyExclusive("dot", "yaml")
}

func (o *outputOptions) addFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&o.dependencies, "dependencies", false, "output the dependencies, not the build schedule")
	flags.BoolVar(&o.dot, "dot", false, "output in graphviz dot format")
	flags.BoolVar(&o.yaml, "yaml", false, "output as a YAML repository manifest")
	flags.BoolVar(&o.full, "full", false, "output the full manifest, marking strong dependencies with '!' (implies --dependencies)")
	flags.StringVar(&o.scope, "scope", "", "only consider this component and what it depends on")
	flags.BoolVar(&o.topLevel, "top-level", false, "only consider components nothing depends on")
	flags.StringVar(&o.where, "where", "", "only consider components matching a CEL expression over component, name and dir")
}

// showDependencies reports whether every edge is kept, as opposed to the
// strong edges of a build schedule.
func (o *outputOptions) showDependencies() bool {
	return o.dependencies || o.full || o.yaml
}

func (o *outputOptions) selection() (impact.Selection, error) {
	sel := impact.Selection{Scope: o.scope, TopLevel: o.topLevel}
	if o.where != "" {
		pred, err := selector.Compile(o.where)
		if err != nil {
			return impact.Selection{}, err
		}
		sel.Where = pred
	}
	return sel, nil
}

func (o *outputOptions) render(ctx context.Context, w io.Writer, view graph.View) (err error) {
	_, span := telemetry.Start(ctx, "render")
	defer func() { telemetry.End(span, err) }()

	switch {
	case o.yaml:
		return output.YAML(w, view)
	case o.dot:
		format := output.Schedule
		if o.showDependencies() {
			format = output.Dependencies
		}
		return output.Dot(w, view, format)
	default:
		format := output.Simple
		if o.full {
			format = output.Full
		}
		return output.Text(w, view, format)
	}
}
