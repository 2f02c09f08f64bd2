package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	mode        string
	modeSet     bool
	dryRun      bool
	mockIO      bool
	quarantine  string
	metricsAddr string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "automator <workflow-file>",
		Short:         "Run a declarative DAG workflow to completion",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.modeSet = cmd.Flags().Changed("mode")
			exitCode = runWorkflow(args[0], flags)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.mode, "mode", "", "Execution mode: explore, verify, or prod (default from AUTOMATOR_MODE, else explore)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Skip resolution and handler invocation; populate placeholders and exit 0 on a clean graph")
	cmd.Flags().BoolVar(&flags.mockIO, "mock-io", false, "Force the mock-IO overlay for this run")
	cmd.Flags().StringVar(&flags.quarantine, "quarantine-file", "", "Path to a newline-delimited JSON quarantine deny-list (default from AUTOMATOR_QUARANTINE_FILE)")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "If set, serve Prometheus metrics at this address (e.g. :9090) for the duration of the run")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug-level logging")

	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose || os.Getenv("AUTOMATOR_DEBUG_REF") == "1" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()
}
