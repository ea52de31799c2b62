package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"pytroll-hq/schedconf/pkg/config"
)

// Config contains configuration for the Collector.
type Config struct {
	// Enabled turns recording on; a disabled collector ignores all calls
	Enabled bool

	// Namespace and Subsystem prefix every metric name
	Namespace string
	Subsystem string

	// DurationBuckets are the load duration histogram buckets in seconds
	DurationBuckets []float64
}

// Collector records configuration load metrics on a Prometheus registry.
type Collector struct {
	config   Config
	registry *prometheus.Registry

	loadsTotal   *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
	reloadsTotal *prometheus.CounterVec
	stations     prometheus.Gauge
}

// NewCollector creates a collector and registers its metrics. If registry
// is nil a fresh registry is created.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "schedconf"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "config"
	}
	if len(cfg.DurationBuckets) == 0 {
		// Local file reads: 100µs to ~1.6s
		cfg.DurationBuckets = prometheus.ExponentialBuckets(0.0001, 2, 15)
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "loads_total",
				Help:      "Total number of configuration loads by format and outcome",
			},
			[]string{"format", "outcome"},
		),

		loadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "load_duration_seconds",
				Help:      "Duration of configuration loads in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"format"},
		),

		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reloads_total",
				Help:      "Total number of configuration reloads by trigger and outcome",
			},
			[]string{"trigger", "outcome"},
		),

		stations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "stations",
				Help:      "Number of stations in the last successfully loaded configuration",
			},
		),
	}

	registry.MustRegister(
		c.loadsTotal,
		c.loadDuration,
		c.reloadsTotal,
		c.stations,
	)

	return c
}

// RecordLoad implements config.Recorder.
func (c *Collector) RecordLoad(format config.Format, outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.loadsTotal.WithLabelValues(string(format), outcome).Inc()
	c.loadDuration.WithLabelValues(string(format)).Observe(duration.Seconds())
}

// RecordReload records a reload attempt started by trigger.
func (c *Collector) RecordReload(trigger string, err error) {
	if !c.config.Enabled {
		return
	}
	outcome := config.OutcomeSuccess
	if err != nil {
		outcome = config.OutcomeError
	}
	c.reloadsTotal.WithLabelValues(trigger, outcome).Inc()
}

// SetStations records the station count of the current configuration.
func (c *Collector) SetStations(n int) {
	if !c.config.Enabled {
		return
	}
	c.stations.Set(float64(n))
}

// Registry returns the registry the metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
