package tracing

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		wantEnabled bool
	}{
		{
			name:   "disabled",
			config: Config{},
		},
		{
			name: "enabled",
			config: Config{
				Enabled:  true,
				Endpoint: "localhost:4317",
				Insecure: true,
				Timeout:  time.Second,
			},
			wantEnabled: true,
		},
		{
			name:    "enabled without endpoint",
			config:  Config{Enabled: true},
			wantErr: true,
		},
		{
			name: "bad sampler",
			config: Config{
				Enabled:  true,
				Endpoint: "localhost:4317",
				Sampler:  "sometimes",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = tracer.Shutdown(ctx)
			}()

			if tracer.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", tracer.Enabled(), tt.wantEnabled)
			}
		})
	}
}

func TestDisabledTracer(t *testing.T) {
	tracer, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, span := tracer.Start(context.Background(), "config.read")
	defer span.End()

	if span.IsRecording() {
		t.Error("disabled tracer returned a recording span")
	}
	if got := TraceID(ctx); got != "" {
		t.Errorf("TraceID() = %q, want empty", got)
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestTraceID(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	if got := TraceID(context.Background()); got != "" {
		t.Errorf("TraceID() without span = %q, want empty", got)
	}

	ctx, span := tp.Tracer("test").Start(context.Background(), "config.read")
	span.End()

	got := TraceID(ctx)
	if len(got) != 32 {
		t.Errorf("TraceID() = %q, want 32 hex characters", got)
	}
	if ended := sr.Ended(); len(ended) != 1 || ended[0].SpanContext().TraceID().String() != got {
		t.Errorf("recorded spans do not carry trace id %s", got)
	}
}

func TestSetStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   codes.Code
		wantEvents int
	}{
		{name: "success", wantCode: codes.Ok},
		{name: "failure", err: errors.New("missing key"), wantCode: codes.Error, wantEvents: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := tracetest.NewSpanRecorder()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
			defer func() { _ = tp.Shutdown(context.Background()) }()

			_, span := tp.Tracer("test").Start(context.Background(), "config.read")
			SetStatus(span, tt.err)
			span.End()

			ended := sr.Ended()
			if len(ended) != 1 {
				t.Fatalf("got %d spans, want 1", len(ended))
			}
			if got := ended[0].Status().Code; got != tt.wantCode {
				t.Errorf("status = %v, want %v", got, tt.wantCode)
			}
			if got := len(ended[0].Events()); got != tt.wantEvents {
				t.Errorf("events = %d, want %d", got, tt.wantEvents)
			}
		})
	}
}
