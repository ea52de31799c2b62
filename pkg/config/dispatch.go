package config

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pytroll-hq/schedconf/pkg/area"
)

// Format identifies the on-disk configuration format that was read.
type Format string

const (
	// FormatHierarchical is the structured, mergeable format (YAML or TOML).
	FormatHierarchical Format = "hierarchical"
	// FormatFlat is the legacy sectioned key/value format.
	FormatFlat Format = "flat"
)

// Load outcomes reported to a Recorder.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

// Result is the outcome of reading configuration. It is either a
// *HierarchicalResult or a *FlatResult; callers switch on the concrete type.
type Result interface {
	// Format reports which format was read.
	Format() Format

	isResult()
}

// HierarchicalResult holds the merged tree read from hierarchical files.
type HierarchicalResult struct {
	Paths  []string
	Config Fragment
}

// Format implements Result.
func (r *HierarchicalResult) Format() Format { return FormatHierarchical }

func (r *HierarchicalResult) isResult() {}

// FlatResult holds the configuration read from a flat file.
type FlatResult struct {
	Path   string
	Config *FlatConfig
}

// Format implements Result.
func (r *FlatResult) Format() Format { return FormatFlat }

func (r *FlatResult) isResult() {}

// Recorder receives load outcomes, typically to export them as metrics.
type Recorder interface {
	RecordLoad(format Format, outcome string, duration time.Duration)
}

// Loader reads configuration files. It holds no state between calls; the
// zero value is not usable, create one with NewLoader.
type Loader struct {
	resolver area.Resolver
	logger   *slog.Logger
	recorder Recorder
	tracer   trace.Tracer
}

// Option configures a Loader.
type Option func(*Loader)

// WithResolver sets the area resolver used by the flat format.
func WithResolver(r area.Resolver) Option {
	return func(l *Loader) {
		l.resolver = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithRecorder sets the recorder notified after every load.
func WithRecorder(r Recorder) Option {
	return func(l *Loader) {
		l.recorder = r
	}
}

// WithTracer sets the tracer that records a span per load.
func WithTracer(t trace.Tracer) Option {
	return func(l *Loader) {
		if t != nil {
			l.tracer = t
		}
	}
}

// NewLoader creates a Loader. Without options, area files are read from
// disk relative to the working directory, logs go to slog.Default() and
// spans go to the global tracer provider.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		resolver: area.NewFileResolver(""),
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("component", "config.loader")
	return l
}

// ReadConfig reads path with a default Loader. See Loader.ReadConfig.
func ReadConfig(path string, opts ...Option) (Result, error) {
	return NewLoader(opts...).ReadConfig(path)
}

// ReadConfig reads path in whichever format it holds. The hierarchical
// format is tried first; only when the content fails to parse is the same
// path read again as a flat file. I/O errors and flat format errors are
// returned as they are, and after a fallback the hierarchical parse error
// is never returned.
//
// Callers that know the format should use LoadHierarchical or LoadFlat.
func (l *Loader) ReadConfig(path string) (Result, error) {
	started := time.Now()
	loadID := uuid.NewString()
	log := l.logger.With("load_id", loadID, "path", path)
	span := l.startSpan("config.ReadConfig", loadID, attribute.StringSlice("config.paths", []string{path}))
	defer span.End()

	fragment, err := LoadHierarchical(path)
	if err == nil {
		log.Debug("read hierarchical configuration")
		l.finish(span, FormatHierarchical, OutcomeSuccess, started, nil)
		return &HierarchicalResult{Paths: []string{path}, Config: fragment}, nil
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		log.Error("failed to read configuration", "error", err)
		l.finish(span, FormatHierarchical, OutcomeError, started, err)
		return nil, err
	}

	log.Debug("not a hierarchical configuration, reading as flat format", "reason", parseErr.Error())
	span.AddEvent("fallback", trace.WithAttributes(attribute.String("reason", parseErr.Error())))

	flat, err := loadFlat(path, l.resolver, log)
	if err != nil {
		log.Error("failed to read flat configuration", "error", err)
		l.finish(span, FormatFlat, OutcomeError, started, err)
		return nil, err
	}

	log.Debug("read flat configuration", "stations", len(flat.Stations))
	l.finish(span, FormatFlat, OutcomeFallback, started, nil)
	return &FlatResult{Path: path, Config: flat}, nil
}

// Read reads one or more paths. A single path is dispatched like
// ReadConfig; several paths are always read as hierarchical fragments and
// merged, since the flat format cannot be split over files.
func (l *Loader) Read(paths ...string) (Result, error) {
	if len(paths) == 1 {
		return l.ReadConfig(paths[0])
	}

	started := time.Now()
	loadID := uuid.NewString()
	log := l.logger.With("load_id", loadID, "paths", paths)
	span := l.startSpan("config.Read", loadID, attribute.StringSlice("config.paths", paths))
	defer span.End()

	fragment, err := LoadHierarchical(paths...)
	if err != nil {
		log.Error("failed to read configuration", "error", err)
		l.finish(span, FormatHierarchical, OutcomeError, started, err)
		return nil, err
	}

	log.Debug("read hierarchical configuration", "files", len(paths))
	l.finish(span, FormatHierarchical, OutcomeSuccess, started, nil)
	return &HierarchicalResult{Paths: paths, Config: fragment}, nil
}

// LoadFlat reads a flat file with the Loader's resolver and logger.
func (l *Loader) LoadFlat(path string) (*FlatConfig, error) {
	return loadFlat(path, l.resolver, l.logger)
}

const tracerName = "pytroll-hq/schedconf/pkg/config"

func (l *Loader) startSpan(name, loadID string, attrs ...attribute.KeyValue) trace.Span {
	attrs = append(attrs, attribute.String("config.load_id", loadID))
	_, span := l.tracer.Start(context.Background(), name, trace.WithAttributes(attrs...))
	return span
}

// finish reports the load outcome to the span and the recorder.
func (l *Loader) finish(span trace.Span, format Format, outcome string, started time.Time, err error) {
	span.SetAttributes(
		attribute.String("config.format", string(format)),
		attribute.String("config.outcome", outcome),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	if l.recorder == nil {
		return
	}
	l.recorder.RecordLoad(format, outcome, time.Since(started))
}
