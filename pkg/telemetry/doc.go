// Package telemetry groups the observability packages of schedconf.
//
// # Components
//
//   - logging: slog logger construction and context propagation
//   - metrics: Prometheus counters for loads and reloads
//   - tracing: OpenTelemetry spans for configuration loads
//   - health: liveness and readiness endpoints of the watch command
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	collector := metrics.NewCollector(metrics.Config{Enabled: true}, nil)
//	loader := config.NewLoader(config.WithLogger(logger), config.WithRecorder(collector))
//
//	checker := health.New(0)
//	checker.RegisterCheck("configuration", check)
//	checker.Register(mux)
package telemetry
