package retention

import (
	"context"
	"log/slog"
	"time"

	"hydroforce/forcing/pkg/ledger"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is how long records are kept. 0 keeps them forever.
	RetentionDays int

	// PruneSchedule is a standard five-field cron expression.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string
}

// Pruner deletes ledger records older than the retention period.
type Pruner struct {
	storage ledger.Storage
	config  *Config
	logger  *slog.Logger
	now     func() time.Time

	// onPrune, if set, observes every pass (e.g. for metrics).
	onPrune func(deleted int64, err error)
}

// Option configures a Pruner.
type Option func(*Pruner)

// WithObserver registers fn to be called after every pruning pass.
func WithObserver(fn func(deleted int64, err error)) Option {
	return func(p *Pruner) { p.onPrune = fn }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pruner) { p.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pruner) { p.logger = logger }
}

// NewPruner creates a pruner over storage.
func NewPruner(storage ledger.Storage, config *Config, opts ...Option) *Pruner {
	if config == nil {
		config = &Config{}
	}
	p := &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "ledger.retention")
	return p
}

// Prune deletes every record recorded before now minus RetentionDays and
// returns how many were removed. With RetentionDays 0 nothing is deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	deleted, err := p.prune(ctx)
	if p.onPrune != nil {
		p.onPrune(deleted, err)
	}
	return deleted, err
}

func (p *Pruner) prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		p.logger.Debug("retention disabled, nothing pruned")
		return 0, nil
	}

	// Until is inclusive; step back one nanosecond so a record exactly at
	// the cutoff survives.
	cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays).Add(-time.Nanosecond)
	deleted, err := p.storage.Delete(ctx, &ledger.Query{Until: &cutoff})
	if err != nil {
		return 0, ledger.NewRetentionError(p.config.RetentionDays, err)
	}

	if deleted > 0 {
		p.logger.Info("pruned ledger records",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
		)
	} else {
		p.logger.Debug("no ledger records pruned", "retention_days", p.config.RetentionDays)
	}
	return deleted, nil
}
