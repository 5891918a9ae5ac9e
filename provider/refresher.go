package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/market-bubbles/market"
	"github.com/lixenwraith/market-bubbles/parameter"
)

// RefreshObserver receives fetch telemetry
type RefreshObserver interface {
	ObserveRefresh(elapsed time.Duration, markets int, err error)
}

// RefresherConfig holds refresh configuration
type RefresherConfig struct {
	Interval    time.Duration // Time between fetches (default: 60s)
	Timeout     time.Duration // Per-fetch timeout (default: 20s)
	PerCategory int           // Cap per category (default: 10)
}

// DefaultRefresherConfig returns the standard cadence
func DefaultRefresherConfig() RefresherConfig {
	return RefresherConfig{
		Interval:    parameter.RefreshInterval,
		Timeout:     20 * time.Second,
		PerCategory: parameter.MaxMarketsPerCategory,
	}
}

// Refresher periodically fetches from a Source and delivers categorized snapshots
// A failed fetch is logged and reported, the next attempt happens on the next tick
type Refresher struct {
	cfg      RefresherConfig
	source   Source
	onSnap   func(market.Snapshot)
	onError  func(error)
	observer RefreshObserver
	trigger  <-chan struct{}
	log      zerolog.Logger
}

// RefresherOption configures a Refresher
type RefresherOption func(*Refresher)

// OnError registers a callback for failed fetches
func OnError(fn func(error)) RefresherOption { return func(r *Refresher) { r.onError = fn } }

// WithRefreshObserver attaches telemetry
func WithRefreshObserver(o RefreshObserver) RefresherOption {
	return func(r *Refresher) { r.observer = o }
}

// WithTrigger adds an out-of-band fetch signal, such as a file watcher
func WithTrigger(ch <-chan struct{}) RefresherOption { return func(r *Refresher) { r.trigger = ch } }

// WithRefreshLogger sets the refresher logger
func WithRefreshLogger(l zerolog.Logger) RefresherOption { return func(r *Refresher) { r.log = l } }

// NewRefresher creates a refresher delivering to onSnap, zero config fields take defaults
func NewRefresher(cfg RefresherConfig, source Source, onSnap func(market.Snapshot), opts ...RefresherOption) *Refresher {
	def := DefaultRefresherConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.PerCategory <= 0 {
		cfg.PerCategory = def.PerCategory
	}

	r := &Refresher{
		cfg:     cfg,
		source:  source,
		onSnap:  onSnap,
		onError: func(error) {},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refresh performs one fetch and returns the snapshot without delivering it
func (r *Refresher) Refresh(ctx context.Context) (market.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	start := time.Now()
	items, err := r.source.Fetch(ctx)
	elapsed := time.Since(start)
	if err != nil {
		if r.observer != nil {
			r.observer.ObserveRefresh(elapsed, 0, err)
		}
		return market.Snapshot{}, fmt.Errorf("fetch markets: %w", err)
	}

	snap := BuildSnapshot(items, r.cfg.PerCategory)
	if r.observer != nil {
		r.observer.ObserveRefresh(elapsed, snap.Len(), nil)
	}
	return snap, nil
}

// Run fetches every interval until ctx is cancelled, the first tick fires after one interval
// Callers load the initial snapshot with Refresh before Run
func (r *Refresher) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.log.Info().Dur("interval", r.cfg.Interval).Msg("market refresher started")
	defer r.log.Info().Msg("market refresher stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.poll(ctx)
		case _, ok := <-r.trigger:
			if !ok {
				r.trigger = nil
				continue
			}
			r.poll(ctx)
			ticker.Reset(r.cfg.Interval)
		}
	}
}

func (r *Refresher) poll(ctx context.Context) {
	snap, err := r.Refresh(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.log.Warn().Err(err).Msg("market refresh failed")
		r.onError(err)
		return
	}

	r.log.Info().Int("markets", snap.Len()).Int("categories", len(snap.Markets)).Msg("market snapshot refreshed")
	r.onSnap(snap)
}
