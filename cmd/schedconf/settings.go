package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings are the command settings that can come from the environment.
// Command line flags override them.
type Settings struct {
	// Config lists configuration files, comma separated
	Config []string `env:"SCHEDCONF_CONFIG" envSeparator:","`

	LogLevel  string `env:"SCHEDCONF_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"SCHEDCONF_LOG_FORMAT" envDefault:"text"`

	// MetricsAddr is the listen address of the watch command's metrics
	// endpoint, empty to disable it
	MetricsAddr string `env:"SCHEDCONF_METRICS_ADDR"`

	// ReloadSchedule is the cron expression of the watch command's
	// periodic reload, empty to disable it
	ReloadSchedule string `env:"SCHEDCONF_RELOAD_SCHEDULE"`

	// HistoryDB is the SQLite database of reload history; empty keeps the
	// watch command's history in memory
	HistoryDB            string        `env:"SCHEDCONF_HISTORY_DB"`
	HistoryMaxAge        time.Duration `env:"SCHEDCONF_HISTORY_MAX_AGE" envDefault:"720h"`
	HistoryMaxRecords    int           `env:"SCHEDCONF_HISTORY_MAX_RECORDS" envDefault:"10000"`
	HistoryPruneSchedule string        `env:"SCHEDCONF_HISTORY_PRUNE_SCHEDULE" envDefault:"@hourly"`

	// OTLPEndpoint is the host:port of an OTLP gRPC collector receiving
	// load spans, empty to disable tracing
	OTLPEndpoint string  `env:"SCHEDCONF_OTLP_ENDPOINT"`
	OTLPInsecure bool    `env:"SCHEDCONF_OTLP_INSECURE"`
	TraceSampler string  `env:"SCHEDCONF_TRACE_SAMPLER" envDefault:"always"`
	TraceRatio   float64 `env:"SCHEDCONF_TRACE_RATIO" envDefault:"1"`
}

// loadSettings reads Settings from the environment.
func loadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return s, fmt.Errorf("error reading environment settings: %w", err)
	}
	return s, nil
}
