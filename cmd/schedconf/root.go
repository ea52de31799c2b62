package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pytroll-hq/schedconf/pkg/cli"
	"pytroll-hq/schedconf/pkg/telemetry/logging"
	"pytroll-hq/schedconf/pkg/telemetry/tracing"
)

var (
	// Global flags
	cfgFiles  []string
	verbose   bool
	logLevel  string
	logFormat string

	// settings holds the effective settings once flags and environment
	// have been combined
	settings Settings

	// tracer exports load spans when SCHEDCONF_OTLP_ENDPOINT is set
	tracer *tracing.Tracer
)

var rootCmd = &cobra.Command{
	Use:   "schedconf",
	Short: "Ground station scheduling configuration tool",
	Long: `schedconf reads ground station scheduling configuration in either the
hierarchical format (YAML or TOML, merged across files) or the legacy flat
format, and checks that it assembles into a scheduler.

Settings may also be given through SCHEDCONF_CONFIG, SCHEDCONF_LOG_LEVEL,
SCHEDCONF_LOG_FORMAT, SCHEDCONF_METRICS_ADDR and SCHEDCONF_RELOAD_SCHEDULE.
SCHEDCONF_HISTORY_DB names the reload history database shared by the watch
and history commands. Flags take precedence over the environment.

Setting SCHEDCONF_OTLP_ENDPOINT exports a span per configuration load to
that OTLP gRPC collector.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	shutdownTracer()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&cfgFiles, "config", "c", nil, "configuration file, repeat to merge several")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
}

// setup combines environment settings with flags and installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return cli.NewConfigError("environment", err.Error())
	}

	flags := cmd.Flags()
	if flags.Changed("config") {
		s.Config = cfgFiles
	}
	if flags.Changed("log-level") {
		s.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		s.LogFormat = logFormat
	}
	if verbose {
		s.LogLevel = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:  s.LogLevel,
		Format: s.LogFormat,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return cli.NewConfigError("log", err.Error())
	}
	slog.SetDefault(logger)

	t, err := tracing.New(tracing.Config{
		Enabled:        s.OTLPEndpoint != "",
		Endpoint:       s.OTLPEndpoint,
		ServiceVersion: Version,
		Sampler:        s.TraceSampler,
		SampleRatio:    s.TraceRatio,
		Insecure:       s.OTLPInsecure,
	})
	if err != nil {
		return cli.NewConfigError("tracing", err.Error())
	}
	tracer = t

	settings = s
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
	return nil
}

func shutdownTracer() {
	if tracer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tracer.Shutdown(ctx); err != nil {
		slog.Warn("failed to flush spans", "error", err)
	}
}

// configPaths returns the configuration files to read.
func configPaths() ([]string, error) {
	if len(settings.Config) == 0 {
		return nil, cli.NewConfigError("config", "no configuration file given (use --config or SCHEDCONF_CONFIG)")
	}
	return settings.Config, nil
}
