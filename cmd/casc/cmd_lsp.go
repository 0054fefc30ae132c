package main

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/casc/cascade/codebase"
	"github.com/dhamidi/casc/project"
)

func newLSPCmd() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("metrics-addr") {
				if p, err := project.Discover("."); err == nil {
					metricsAddr = p.Metrics.Address
				}
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector())
			metrics := codebase.NewMetrics(registry)
			if metricsAddr != "" {
				go serveMetrics(metricsAddr, registry)
			}

			server := codebase.NewLSPServer(version, codebase.WithMetrics(metrics))
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (default from project)")

	return cmd
}

func serveMetrics(addr string, registry *prometheus.Registry) {
	log := commonlog.GetLogger("cascade.lsp")
	mux := http.NewServeMux()
	mux.Handle("/metrics", codebase.MetricsHandler(registry))

	log.Infof("serving metrics on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("metrics server: %s", err)
	}
}
