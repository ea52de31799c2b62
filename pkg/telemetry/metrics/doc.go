// Package metrics exports Prometheus metrics about configuration loading.
//
// # Metrics
//
//   - schedconf_config_loads_total{format,outcome}: loads by format read and
//     outcome ("success", "fallback", "error")
//   - schedconf_config_load_duration_seconds{format}: load latency
//   - schedconf_config_reloads_total{trigger,outcome}: watcher reloads by
//     trigger ("file", "schedule") and outcome
//   - schedconf_config_stations: stations in the last good configuration
//
// # Usage
//
//	collector := metrics.NewCollector(metrics.Config{Enabled: true}, nil)
//	loader := config.NewLoader(config.WithRecorder(collector))
//	http.Handle("/metrics", collector.Handler())
//
// The Collector satisfies config.Recorder and watch.Observer.
package metrics
