package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gitsuggest/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigInitCmd(a))
	cmd.AddCommand(newConfigPathCmd(a))

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), a.cfg.String())
			return err
		},
	}
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Long: `Write the default configuration to --config, or to the user config
directory when no path is given. An existing file is kept unless --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := configPath(a)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			if err := config.SaveToPath(config.Default(), path); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	// The file may not exist yet, so skip loading it
	cmd.PersistentPreRunE = skipSetup
	cmd.PersistentPostRunE = skipSetup

	return cmd
}

func newConfigPathCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), configPath(a))
			return err
		},
	}
	cmd.PersistentPreRunE = skipSetup
	cmd.PersistentPostRunE = skipSetup

	return cmd
}

func configPath(a *app) string {
	if a.opts.configPath != "" {
		return a.opts.configPath
	}
	if p := os.Getenv(config.EnvConfigPath); p != "" {
		return p
	}
	return config.DefaultPath()
}

func skipSetup(*cobra.Command, []string) error { return nil }
