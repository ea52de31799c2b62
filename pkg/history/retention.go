package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionConfig bounds the size of the reload history.
type RetentionConfig struct {
	// MaxAge removes records older than this; zero keeps them forever
	MaxAge time.Duration

	// MaxRecords keeps at most this many of the newest records; zero means
	// unlimited. Records sharing the start time of the oldest kept record
	// are kept too.
	MaxRecords int

	// Schedule is the cron expression of automatic pruning; empty
	// disables it
	Schedule string
}

// Pruner enforces a RetentionConfig on a Store.
type Pruner struct {
	store  Store
	config RetentionConfig
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewPruner creates a pruner for store.
func NewPruner(store Store, cfg RetentionConfig, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		store:  store,
		config: cfg,
		logger: logger.With("component", "history.retention"),
		now:    time.Now,
		cron:   cron.New(),
	}
}

// Prune deletes records older than MaxAge, then the oldest records beyond
// MaxRecords. It returns the total number of records deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.MaxAge > 0 {
		cutoff := p.now().Add(-p.config.MaxAge)
		deleted, err := p.store.DeleteBefore(ctx, cutoff)
		if err != nil {
			return total, fmt.Errorf("prune by age failed: %w", err)
		}
		total += deleted
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return total, fmt.Errorf("prune by count failed: %w", err)
		}
		total += deleted
	}

	if total > 0 {
		p.logger.Info("reload history pruned",
			"deleted_count", total,
			"max_age", p.config.MaxAge,
			"max_records", p.config.MaxRecords,
		)
	}
	return total, nil
}

func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.store.Count(ctx, nil)
	if err != nil {
		return 0, err
	}
	if count <= int64(p.config.MaxRecords) {
		return 0, nil
	}

	kept, err := p.store.Query(ctx, &Query{Limit: p.config.MaxRecords})
	if err != nil {
		return 0, err
	}
	if len(kept) == 0 {
		return 0, nil
	}
	return p.store.DeleteBefore(ctx, kept[len(kept)-1].Started)
}

// Start schedules Prune on the configured cron schedule until ctx is done.
// An empty schedule does nothing.
func (p *Pruner) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.config.Schedule == "" {
		return nil
	}
	if _, err := cron.ParseStandard(p.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", p.config.Schedule, err)
	}

	_, err := p.cron.AddFunc(p.config.Schedule, func() {
		if _, err := p.Prune(ctx); err != nil {
			p.logger.Error("scheduled pruning failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	p.cron.Start()
	p.running = true
	p.logger.Debug("retention scheduler started", "schedule", p.config.Schedule)

	go func() {
		<-ctx.Done()
		p.Stop()
	}()
	return nil
}

// Stop stops scheduled pruning and waits for a running prune to finish.
func (p *Pruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	<-p.cron.Stop().Done()
	p.running = false
}

// IsRunning reports whether pruning is scheduled.
func (p *Pruner) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
