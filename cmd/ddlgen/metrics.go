package main

import (
	"log"
	"os"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/config"
	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/metrics"
	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/metrics/datadog"
	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/metrics/prompush"
)

// setupMetrics installs the configured backend and returns the function
// that flushes it at exit.
func setupMetrics(cfg config.Config, verbose bool) func() {
	// Decide metrics backend: flag/config → env → default.
	backendName := cfg.Metrics.Backend
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}

	jobName := cfg.Job
	if jobName == "" {
		jobName = config.DefaultJob
	}

	var (
		b   metrics.Backend
		err error
	)
	switch backendName {
	case "pushgateway":
		gwURL := cfg.Metrics.PushgatewayURL
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err = prompush.NewBackend(jobName, gwURL)
		if err == nil {
			log.Printf("metrics: url=%v, backend=%v, job_name=%v", gwURL, backendName, jobName)
		}

	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       cfg.Metrics.DatadogAddr,
			Namespace:  "ddlgen.",
			GlobalTags: []string{"job:" + jobName},
		})
		if err == nil && verbose {
			log.Printf("metrics: backend=%v, addr=%q, job_name=%v", backendName, cfg.Metrics.DatadogAddr, jobName)
		}

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}
		return func() {}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
		return func() {}
	}

	if err != nil {
		log.Printf("metrics: failed to init %s backend: %v; using nop", backendName, err)
		return func() {}
	}
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}
