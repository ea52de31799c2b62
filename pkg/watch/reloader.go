package watch

import (
	"log/slog"
	"sync"
	"time"

	"pytroll-hq/schedconf/pkg/config"
)

// Reload triggers.
const (
	TriggerStartup  = "startup"
	TriggerFile     = "file"
	TriggerSchedule = "schedule"
)

// LoadFunc reads configuration from paths.
type LoadFunc func(paths ...string) (config.Result, error)

// Observer is notified of reload outcomes.
type Observer interface {
	RecordReload(trigger string, err error)
	SetStations(n int)
}

// Event describes one reload attempt.
type Event struct {
	Trigger  string
	Paths    []string
	Started  time.Time
	Duration time.Duration

	// Format, Stations and Generation are set when the reload succeeded
	Format     config.Format
	Stations   int
	Generation int

	Err error
}

// Reloader holds the latest good configuration read from a fixed set of
// paths.
type Reloader struct {
	paths    []string
	load     LoadFunc
	observer Observer
	logger   *slog.Logger

	// reloadMu serializes reloads
	reloadMu sync.Mutex

	mu         sync.RWMutex
	current    config.Result
	generation int
	loadedAt   time.Time
	lastErr    error
	onChange   []func(config.Result)
	onReload   []func(Event)
}

// NewReloader creates a reloader. observer may be nil.
func NewReloader(paths []string, load LoadFunc, observer Observer, logger *slog.Logger) *Reloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reloader{
		paths:    append([]string(nil), paths...),
		load:     load,
		observer: observer,
		logger:   logger.With("component", "watch.reloader"),
	}
}

// OnChange registers fn to be called with every newly loaded configuration.
func (r *Reloader) OnChange(fn func(config.Result)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = append(r.onChange, fn)
}

// OnReload registers fn to be called after every reload attempt,
// successful or not.
func (r *Reloader) OnReload(fn func(Event)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onReload = append(r.onReload, fn)
}

// Reload reads the configuration again. On failure the previous
// configuration is kept and the error returned.
func (r *Reloader) Reload(trigger string) error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	ev := Event{Trigger: trigger, Paths: r.paths, Started: time.Now()}

	res, err := r.load(r.paths...)
	ev.Duration = time.Since(ev.Started)
	if r.observer != nil {
		r.observer.RecordReload(trigger, err)
	}
	if err != nil {
		r.mu.Lock()
		r.lastErr = err
		listeners := append([]func(Event){}, r.onReload...)
		r.mu.Unlock()

		r.logger.Error("configuration reload failed",
			"trigger", trigger,
			"error", err,
		)

		ev.Err = err
		for _, fn := range listeners {
			fn(ev)
		}
		return err
	}

	r.mu.Lock()
	r.current = res
	r.lastErr = nil
	r.generation++
	r.loadedAt = time.Now()
	generation := r.generation
	callbacks := append([]func(config.Result){}, r.onChange...)
	listeners := append([]func(Event){}, r.onReload...)
	r.mu.Unlock()

	stations := StationCount(res)
	if r.observer != nil {
		r.observer.SetStations(stations)
	}

	r.logger.Info("configuration reloaded",
		"trigger", trigger,
		"format", res.Format(),
		"generation", generation,
		"stations", stations,
	)

	for _, fn := range callbacks {
		fn(res)
	}

	ev.Format = res.Format()
	ev.Stations = stations
	ev.Generation = generation
	for _, fn := range listeners {
		fn(ev)
	}
	return nil
}

// Current returns the latest good configuration, nil before the first
// successful reload.
func (r *Reloader) Current() config.Result {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Generation returns how many reloads have succeeded.
func (r *Reloader) Generation() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// LoadedAt returns when the current configuration was loaded.
func (r *Reloader) LoadedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadedAt
}

// LastError returns the error of the latest reload, nil when it succeeded.
func (r *Reloader) LastError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// StationCount returns the number of stations a result defines.
func StationCount(res config.Result) int {
	switch r := res.(type) {
	case *config.HierarchicalResult:
		stations, ok := r.Config.Section("stations")
		if !ok {
			return 0
		}
		return len(stations)
	case *config.FlatResult:
		return len(r.Config.Stations)
	default:
		return 0
	}
}
