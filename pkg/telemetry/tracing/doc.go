// Package tracing exports OpenTelemetry spans to an OTLP gRPC collector.
//
// New installs the configured provider globally, so the configuration
// loader's spans (config.ReadConfig, config.Read) are exported without
// further wiring:
//
//	tracer, err := tracing.New(tracing.Config{
//	    Enabled:  true,
//	    Endpoint: "localhost:4317",
//	    Insecure: true,
//	})
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
// # Sampling
//
// All samplers are parent based. The strategy is one of "always" (the
// default), "never" or "ratio" with SampleRatio between 0 and 1.
package tracing
