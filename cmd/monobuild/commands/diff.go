package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/charypar/monobuild/pkg/config"
	"github.com/charypar/monobuild/pkg/impact"
	"github.com/charypar/monobuild/pkg/manifest"
	"github.com/charypar/monobuild/pkg/telemetry"
	"github.com/charypar/monobuild/pkg/vcs"
)

type diffOptions struct {
	patch         string
	mainBranch    bool
	rebuildStrong bool
}

func newDiffCmd(a *app) *cobra.Command {
	var out outputOptions
	var opts diffOptions

	cmd := &cobra.Command{
		Use:   "diff [-]",
		Short: "Print the build schedule for changed components",
		Long: `Find the components affected by a change and print their build schedule.

Changed files come from git: on a feature branch, everything changed since the
merge base with --base-branch; with --main-branch, everything changed since
--base-commit. Pass "-" to read changed files from standard input, one per
line, or --patch to read them from a unified diff.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return err
			}
			if len(args) == 1 && args[0] != "-" {
				return fmt.Errorf("unexpected argument %q, only '-' (read changes from stdin) is accepted", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadGraph(cmd)
			if err != nil {
				return err
			}

			ctx, span := telemetry.Start(cmd.Context(), "changes")
			files, err := a.changedFiles(ctx, cmd.InOrStdin(), len(args) == 1, opts)
			telemetry.End(span, err)
			if err != nil {
				return err
			}
			changed := manifest.Resolve(slices.Collect(g.Vertices()), files)
			a.logger.Debug("changes resolved", "files", len(files), "components", changed)

			sel, err := out.selection()
			if err != nil {
				return err
			}

			_, span = telemetry.Start(cmd.Context(), "analyze")
			base, err := sel.Apply(g, false)
			telemetry.End(span, err)
			if err != nil {
				return err
			}
			result := impact.Analyze(base, changed, impact.Options{
				RebuildStrong: opts.rebuildStrong,
				Dependencies:  out.showDependencies(),
			})

			return out.render(cmd.Context(), cmd.OutOrStdout(), result)
		},
	}
	out.register(cmd)

	flags := cmd.Flags()
	flags.StringVar(&opts.patch, "patch", "", "read changed files from a unified diff ('-' for stdin)")
	flags.String("base-branch", config.DefaultBaseBranch, "base branch to compare a feature branch against")
	flags.String("base-commit", config.DefaultBaseCommit, "commit to compare against with --main-branch")
	flags.BoolVar(&opts.mainBranch, "main-branch", false, "run in main branch mode, comparing against --base-commit")
	flags.BoolVar(&opts.rebuildStrong, "rebuild-strong", false, "also rebuild strong dependencies of affected components")
	bindFlag(a.v, "base_branch", flags.Lookup("base-branch"))
	bindFlag(a.v, "base_commit", flags.Lookup("base-commit"))

	return cmd
}

func (a *app) changedFiles(ctx context.Context, stdin io.Reader, fromStdin bool, opts diffOptions) ([]string, error) {
	switch {
	case fromStdin:
		return vcs.ReadFileList(stdin)
	case opts.patch == "-":
		return vcs.ParsePatch(stdin)
	case opts.patch != "":
		f, err := os.Open(opts.patch)
		if err != nil {
			return nil, fmt.Errorf("cannot open patch: %w", err)
		}
		defer f.Close()
		return vcs.ParsePatch(f)
	}

	git := vcs.NewGit(vcs.ExecGit(a.cfg.Root))
	return git.ChangedFiles(ctx, vcs.Mode{
		MainBranch: opts.mainBranch,
		BaseBranch: a.cfg.BaseBranch,
		BaseCommit: a.cfg.BaseCommit,
	})
}
