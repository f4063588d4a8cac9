package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/charypar/monobuild/pkg/config"
	"github.com/charypar/monobuild/pkg/telemetry"
	"github.com/charypar/monobuild/pkg/version"
)

// app carries state shared by the commands of one invocation.
type app struct {
	v        *viper.Viper
	cfgFile  string
	cfg      config.Config
	logger   *slog.Logger
	shutdown func(context.Context) error
}

func Execute() {
	root := NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		printError(root.ErrOrStderr(), err)
		os.Exit(1)
	}
}

// NewRootCmd builds the monobuild command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: slog.Default()}

	root := &cobra.Command{
		Use:   "monobuild",
		Short: "Build orchestration for monorepos",
		Long: `monobuild reads the dependency manifests of a monorepo and works out
which components need building after a change, and in which order.`,
		Version:            version.Current,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default .monobuild.yaml in the working or home directory)")
	flags.String("dependency-files", config.DefaultDependencyFiles, "glob matching dependency manifests, relative to --root")
	flags.String("root", ".", "repository root to search for manifests")
	flags.StringP("file", "f", "", "read a full repository manifest (as printed by 'print --full') instead of searching for manifests")
	bindFlag(a.v, "dependency_files", flags.Lookup("dependency-files"))
	bindFlag(a.v, "root", flags.Lookup("root"))

	root.SetHelpFunc(renderHelp)

	root.AddCommand(newPrintCmd(a))
	root.AddCommand(newDiffCmd(a))

	return root
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag.Name, err))
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := cfg.Log.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger = logger
	slog.SetDefault(logger)

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(cmd.Context(), telemetry.Options{
			ServiceName:    version.AppName,
			ServiceVersion: version.Current,
			Endpoint:       cfg.Telemetry.Endpoint,
		})
		if err != nil {
			return err
		}
		a.shutdown = shutdown
	}

	a.logger.Debug("configuration loaded",
		"config_file", a.v.ConfigFileUsed(),
		"root", cfg.Root,
		"dependency_files", cfg.DependencyFiles)
	return nil
}

func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	if a.shutdown == nil {
		return nil
	}
	if err := a.shutdown(cmd.Context()); err != nil {
		a.logger.Warn("failed to flush traces", "error", err)
	}
	return nil
}

func renderHelp(cmd *cobra.Command, _ []string) {
	w := cmd.OutOrStdout()
	r := lipgloss.NewRenderer(w)
	titleStyle := r.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99"))
	flagStyle := r.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	long := cmd.Long
	if long == "" {
		long = cmd.Short
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s %s", version.AppName, version.Current)))
	fmt.Fprintf(w, "%s\n\n", long)

	fmt.Fprintln(w, titleStyle.Render("USAGE"))
	fmt.Fprintf(w, "  %s\n\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(w, titleStyle.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Fprintf(w, "  %-12s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, titleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		line := fmt.Sprintf("  --%-18s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" {
			line += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Fprintln(w, flagStyle.Render(line))
	})
	if cmd.HasAvailableInheritedFlags() {
		cmd.InheritedFlags().VisitAll(func(f *pflag.Flag) {
			if f.Hidden {
				return
			}
			fmt.Fprintln(w, flagStyle.Render(fmt.Sprintf("  --%-18s %s", f.Name, f.Usage)))
		})
	}
}
