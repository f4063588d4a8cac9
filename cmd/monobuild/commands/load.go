package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/charypar/monobuild/pkg/graph"
	"github.com/charypar/monobuild/pkg/manifest"
	"github.com/charypar/monobuild/pkg/telemetry"
)

// loadGraph reads the dependency graph and reports manifest warnings.
func (a *app) loadGraph(cmd *cobra.Command) (*graph.Graph, error) {
	ctx, span := telemetry.Start(cmd.Context(), "load")
	g, warnings, err := a.readGraph(ctx, cmd)
	telemetry.End(span, err)
	if err != nil {
		return nil, err
	}

	printWarnings(cmd.ErrOrStderr(), warnings)
	a.logger.Debug("graph loaded", "components", g.Len(), "edges", g.EdgeCount(), "warnings", len(warnings))
	return g, nil
}

func (a *app) readGraph(ctx context.Context, cmd *cobra.Command) (*graph.Graph, []manifest.Warning, error) {
	file, err := cmd.Flags().GetString("file")
	if err != nil {
		return nil, nil, err
	}

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot read repository manifest: %w", err)
		}

		switch strings.ToLower(filepath.Ext(file)) {
		case ".yaml", ".yml":
			g, err := manifest.ParseRepoManifestYAML(data)
			return g, nil, err
		default:
			g, warnings := manifest.ParseRepoManifest(string(data))
			return g, warnings, nil
		}
	}

	manifests, err := manifest.Discover(ctx, a.cfg.Root, a.cfg.DependencyFiles)
	if err != nil {
		return nil, nil, err
	}
	g, warnings := manifest.Read(manifests)
	return g, warnings, nil
}
