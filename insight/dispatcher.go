package insight

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/market-bubbles/core"
	"github.com/lixenwraith/market-bubbles/market"
	"github.com/lixenwraith/market-bubbles/parameter"
)

// Outcome labels a finished request for telemetry
type Outcome string

const (
	OutcomeOK        Outcome = "ok"
	OutcomeFallback  Outcome = "fallback"
	OutcomeError     Outcome = "error"
	OutcomeCancelled Outcome = "cancelled"
)

// Result is published once per request that was not superseded
type Result struct {
	MarketID string
	Text     string
	Err      error
	Fallback bool // Text came from the fallback service after the primary failed
	Elapsed  time.Duration
}

// Observer receives per-request outcomes
type Observer interface {
	ObserveInsight(outcome Outcome, elapsed time.Duration)
}

// Dispatcher runs one insight request at a time off the caller's goroutine
// A new request cancels the one in flight, whose result is then dropped
type Dispatcher struct {
	service  Service
	fallback Service
	timeout  time.Duration
	publish  func(Result)
	observer Observer
	log      zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	seq    uint64
	closed bool
	wg     sync.WaitGroup
}

// DispatcherOption configures a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithFallback sets the service used when the primary fails
func WithFallback(s Service) DispatcherOption { return func(d *Dispatcher) { d.fallback = s } }

// WithTimeout bounds each request
func WithTimeout(t time.Duration) DispatcherOption { return func(d *Dispatcher) { d.timeout = t } }

// WithObserver attaches telemetry
func WithObserver(o Observer) DispatcherOption { return func(d *Dispatcher) { d.observer = o } }

// WithLogger sets the dispatcher logger
func WithLogger(l zerolog.Logger) DispatcherOption { return func(d *Dispatcher) { d.log = l } }

// NewDispatcher creates a dispatcher publishing results through publish
func NewDispatcher(service Service, publish func(Result), opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		service: service,
		timeout: parameter.InsightTimeout,
		publish: publish,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Request starts generating insight for m and returns immediately
func (d *Dispatcher) Request(ctx context.Context, m market.Market) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	d.cancel = cancel
	d.seq++
	seq := d.seq
	d.wg.Add(1)
	d.mu.Unlock()

	core.Go(func() { d.run(ctx, cancel, seq, m) })
}

// Cancel aborts the in-flight request, if any
func (d *Dispatcher) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.seq++
}

// Close cancels outstanding work and waits for it, later requests are ignored
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.Cancel()
	d.wg.Wait()
}

func (d *Dispatcher) current(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq == seq
}

func (d *Dispatcher) run(ctx context.Context, cancel context.CancelFunc, seq uint64, m market.Market) {
	defer d.wg.Done()
	defer cancel()

	start := time.Now()
	req := RequestFor(m)
	text, err := d.service.Generate(ctx, req)

	// Superseded or cancelled requests never publish
	if !d.current(seq) || errors.Is(ctx.Err(), context.Canceled) {
		d.observe(OutcomeCancelled, start)
		return
	}

	res := Result{MarketID: m.ID, Text: text}
	switch {
	case err == nil:
		d.observe(OutcomeOK, start)
	case d.fallback != nil:
		d.log.Warn().Err(err).Str("market", m.ID).Msg("insight failed, using fallback")
		fb, fbErr := d.fallback.Generate(context.WithoutCancel(ctx), req)
		if fbErr != nil {
			res.Err = err
			d.observe(OutcomeError, start)
			break
		}
		res.Text = fb
		res.Fallback = true
		d.observe(OutcomeFallback, start)
	default:
		d.log.Warn().Err(err).Str("market", m.ID).Msg("insight failed")
		res.Err = err
		d.observe(OutcomeError, start)
	}

	res.Elapsed = time.Since(start)
	if !d.current(seq) {
		return
	}
	d.publish(res)
}

func (d *Dispatcher) observe(o Outcome, start time.Time) {
	if d.observer != nil {
		d.observer.ObserveInsight(o, time.Since(start))
	}
}
