package engine

import "time"

// Ticker requests frames, each receive on C schedules one frame
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker for the frame interval
type TickerFactory func(interval time.Duration) Ticker

// NewTimeTicker is the default factory backed by time.Ticker
func NewTimeTicker(interval time.Duration) Ticker {
	return &timeTicker{t: time.NewTicker(interval)}
}

type timeTicker struct {
	t *time.Ticker
}

func (t *timeTicker) C() <-chan time.Time { return t.t.C }
func (t *timeTicker) Stop()               { t.t.Stop() }

// ManualTicker delivers ticks only when Tick is called, for deterministic tests
type ManualTicker struct {
	ch      chan time.Time
	stopped chan struct{}
}

// NewManualTicker creates an unbuffered manual ticker
func NewManualTicker() *ManualTicker {
	return &ManualTicker{
		ch:      make(chan time.Time),
		stopped: make(chan struct{}),
	}
}

// Factory returns a TickerFactory that always yields this ticker
func (m *ManualTicker) Factory() TickerFactory {
	return func(time.Duration) Ticker { return m }
}

// Tick blocks until the loop accepts the tick, returns false if the ticker was stopped
func (m *ManualTicker) Tick(t time.Time) bool {
	select {
	case m.ch <- t:
		return true
	case <-m.stopped:
		return false
	}
}

func (m *ManualTicker) C() <-chan time.Time { return m.ch }

func (m *ManualTicker) Stop() {
	select {
	case <-m.stopped:
	default:
		close(m.stopped)
	}
}
