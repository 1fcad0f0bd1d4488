package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"heightmap-converter/internal/config"
)

const starterHistoryDB = "heightmap-history.db"

func newConfigCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}
	cmd.AddCommand(newConfigShowCommand(opts), newConfigInitCommand(opts))
	return cmd
}

func newConfigShowCommand(opts *rootOptions) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOut {
				return printJSON(out, map[string]any{
					"config_path": opts.configPath,
					"config":      cfg,
				})
			}
			fmt.Fprintf(out, "config: %s\n", opts.configPath)
			fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
			fmt.Fprintf(out, "log_file: %s\n", valueOrNone(cfg.LogFile))
			fmt.Fprintf(out, "history_db: %s\n", valueOrNone(cfg.HistoryDB))
			fmt.Fprintf(out, "default_formats: %s\n", valueOrNone(strings.Join(cfg.DefaultFormats, ", ")))
			fmt.Fprintf(out, "write_manifest: %t\n", cfg.WriteManifest)
			fmt.Fprintf(out, "load_modules: %t\n", cfg.LoadModules)
			fmt.Fprintf(out, "startup_script: %s\n", valueOrNone(cfg.StartupScript))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON output")
	return cmd
}

func newConfigInitCommand(opts *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := strings.TrimSpace(opts.configPath)
			if _, err := os.Stat(path); err == nil && !force {
				in, _ := cmd.InOrStdin().(*os.File)
				ok, err := promptConfirm(in, cmd.OutOrStdout(), fmt.Sprintf("%s exists, overwrite? [y/N] ", path))
				if err != nil {
					return err
				}
				if !ok {
					return errors.New("config init cancelled")
				}
			}
			cfg := config.Default()
			cfg.HistoryDB = starterHistoryDB
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func valueOrNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
