package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nodeflowrun/automator/internal/driver"
	"github.com/nodeflowrun/automator/internal/ir"
	"github.com/nodeflowrun/automator/internal/metrics"
	"github.com/nodeflowrun/automator/internal/registry"
	"github.com/nodeflowrun/automator/internal/runconfig"
)

// runWorkflow loads and executes the workflow at path, returning the
// process exit code spec.md §6.1 prescribes.
func runWorkflow(path string, flags *rootFlags) int {
	logger := newLogger(flags.verbose)

	wf, err := ir.LoadWorkflow(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "NODE_FAILED: %s\n", err.Error())
		return driver.ExitInvalidIR
	}

	quarantinePath := flags.quarantine
	if quarantinePath == "" {
		quarantinePath = os.Getenv("AUTOMATOR_QUARANTINE_FILE")
	}

	cfg, err := runconfig.FromEnvAndFlags(flags.mode, flags.modeSet, flags.dryRun, flags.mockIO, quarantinePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "NODE_FAILED: %s\n", err.Error())
		return driver.ExitInvalidIR
	}

	quarantine, err := registry.LoadQuarantine(cfg.Quarantine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "NODE_FAILED: %s\n", err.Error())
		return driver.ExitInvalidIR
	}

	journal, err := metrics.NewJournal(cfg.RunsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "NODE_FAILED: %s\n", err.Error())
		return driver.ExitInvalidIR
	}

	var prom *metrics.PrometheusExporter
	if flags.metricsAddr != "" {
		promRegistry := prometheus.NewRegistry()
		prom = metrics.NewPrometheusExporter(promRegistry)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
		server := &http.Server{Addr: flags.metricsAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn().Err(err).Msg("metrics server stopped")
			}
		}()
		defer server.Close()
	}

	d := driver.New(cfg, quarantine, journal, prom, logger, os.Stdout)
	logger.Debug().Str("mode", cfg.Mode.String()).Bool("mockIO", cfg.MockIO).Msg("starting run")

	return d.Run(path, wf)
}
