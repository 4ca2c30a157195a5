// Package cli provides the gitsuggest commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gitsuggest/internal/config"
	"gitsuggest/internal/logger"
	"gitsuggest/internal/version"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configPath  string
	logFile     string
	logLevel    string
	metricsAddr string
}

// app carries what PersistentPreRunE prepared for the command
type app struct {
	opts globalOptions
	cfg  *config.Config
	log  logger.Logger
}

// NewRootCmd creates the root command. Without a subcommand it runs the
// interactive widget.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "gitsuggest",
		Short: "Search GitHub users and repositories as you type",
		Long: `gitsuggest queries the GitHub user and repository search APIs while you
type and shows one merged list of suggestions, ordered by name.

Searches start once the input has enough characters. Pick a suggestion with
the arrow keys and enter, or click it.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), a)
		},
	}
	cmd.SetVersionTemplate("gitsuggest version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&a.opts.configPath, "config", "c", "", "Config file (.toml, .yaml); defaults to $GITSUGGEST_CONFIG or the user config dir")
	cmd.PersistentFlags().StringVar(&a.opts.logFile, "log-file", "", "Log file (overrides log.file)")
	cmd.PersistentFlags().StringVar(&a.opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides log.level)")
	cmd.PersistentFlags().StringVar(&a.opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9100 (overrides metrics.addr)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return a.setup(cmd)
	}
	cmd.PersistentPostRunE = func(*cobra.Command, []string) error {
		return logger.Close()
	}

	cmd.AddCommand(newQueryCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setup loads configuration, applies flag overrides and opens the log
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.opts.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-file") {
		cfg.Log.File = a.opts.logFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.opts.logLevel
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = a.opts.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := logger.Init(cfg.Log.File, cfg.Log.Level); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.Named("cli")
	return nil
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}
