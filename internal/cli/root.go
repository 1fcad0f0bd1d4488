package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"heightmap-converter/internal/command"
	"heightmap-converter/internal/config"
	"heightmap-converter/internal/console"
	"heightmap-converter/internal/heightmap"
	"heightmap-converter/internal/history"
	"heightmap-converter/internal/logging"
	"heightmap-converter/internal/modules"
	"heightmap-converter/internal/session"
)

const noModulesArg = "nomodules"

type rootOptions struct {
	configPath string
	scriptPath string
	noModules  bool
	verbose    bool
	logFile    string
}

// Run executes the command line against the process's standard streams.
func Run(args []string) error {
	cmd := newRootCommand(os.Stdin, os.Stdout, os.Stderr)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func newRootCommand(stdin *os.File, stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "heightmap-converter [nomodules]",
		Short: "Interactive batch converter for elevation grids",
		Long: `heightmap-converter reads elevation grids, applies a chain of modifications
and writes them in one or more output formats. Commands are typed at the prompt
or queued from script files with 'exec' or --script.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			for _, a := range args {
				if a != noModulesArg {
					return fmt.Errorf("unknown argument %q", a)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.noModules = true
			}
			return runInteractive(*opts, stdin, stdout, stderr)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "configuration file path")
	root.Flags().StringVar(&opts.scriptPath, "script", "", "queue the commands of a script file at start")
	root.Flags().BoolVar(&opts.noModules, "nomodules", false, "start without the built-in command modules")
	root.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "write debug logs to stderr")
	root.Flags().StringVar(&opts.logFile, "log-file", "", "write JSON logs to this file")

	root.AddCommand(newHistoryCommand(opts))
	root.AddCommand(newConfigCommand(opts))
	return root
}

func runInteractive(opts rootOptions, stdin *os.File, stdout, stderr io.Writer) (err error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.noModules {
		cfg.LoadModules = false
	}
	if v := strings.TrimSpace(opts.logFile); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(opts.scriptPath); v != "" {
		cfg.StartupScript = v
	}

	logger, closeLog, err := logging.Setup(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Verbose: opts.verbose,
		Stderr:  stderr,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	defer func() {
		if r := recover(); r != nil {
			err = reportFatal(r, stdin, stderr, logger)
		}
	}()

	out := console.New(stdout, logger)
	codec := heightmap.NewCodec()

	var store *history.Store
	if strings.TrimSpace(cfg.HistoryDB) != "" {
		store, err = history.Open(cfg.HistoryDB)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.HistoryDB).Msg("history disabled")
			store = nil
		} else {
			defer store.Close()
		}
	}

	reg := command.NewRegistry()
	if cfg.LoadModules {
		deps := modules.Deps{Exporter: codec}
		if store != nil {
			deps.History = store
		}
		if err := modules.RegisterCore(reg, deps); err != nil {
			return fmt.Errorf("load core commands: %w", err)
		}
		if err := modules.RegisterModifiers(reg); err != nil {
			return fmt.Errorf("load modifiers: %w", err)
		}
		logger.Debug().Int("commands", len(reg.Commands(command.ContextAny))).Int("modifiers", len(reg.Modifiers())).Msg("modules loaded")
	}

	sopts := session.Options{
		Console:        out,
		Reader:         console.NewLineReader(stdin, stdout),
		Registry:       reg,
		Importer:       codec,
		Exporter:       codec,
		Log:            logger,
		DefaultFormats: cfg.DefaultFormats,
		WriteManifest:  cfg.WriteManifest,
	}
	if store != nil {
		sopts.History = store
	}
	sess, err := session.New(sopts)
	if err != nil {
		return err
	}
	if cfg.StartupScript != "" {
		if err := sess.Exec(cfg.StartupScript); err != nil {
			out.Error(err.Error())
		}
	}

	if err := sess.Run(); err != nil {
		return reportFatal(err, stdin, stderr, logger)
	}
	return nil
}

// FatalError is returned when the session loop could not continue.
type FatalError struct {
	Cause any
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %v", e.Cause)
}

func (e *FatalError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}
