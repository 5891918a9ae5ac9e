package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/market-bubbles/core"
	"github.com/lixenwraith/market-bubbles/input"
	"github.com/lixenwraith/market-bubbles/market"
	"github.com/lixenwraith/market-bubbles/parameter"
	"github.com/lixenwraith/market-bubbles/physics"
	"github.com/lixenwraith/market-bubbles/terminal"
	"github.com/lixenwraith/market-bubbles/vmath"
)

var (
	// ErrNoSurface is returned by Start when the surface has no drawable area
	ErrNoSurface = errors.New("no drawable surface")
	// ErrAlreadyRunning is returned by Start on a running loop
	ErrAlreadyRunning = errors.New("loop already running")
	// ErrStopped is returned by Start after Stop, a loop is single-use
	ErrStopped = errors.New("loop stopped")
)

// State is the orchestrator lifecycle state
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateResizing // Transient while bounds are recomputed, frames keep running
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateResizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Surface reports the drawable size in terminal cells
type Surface interface {
	Size() (cols, rows int)
}

// Frame is the read-only view handed to the renderer once per frame
type Frame struct {
	Bodies     []physics.Body
	Bounds     physics.Bounds
	Cols, Rows int
	Now        time.Time
	Number     uint64
	Generation string
	Selected   string // Market ID of the current selection, empty if none
}

// FrameRenderer draws one frame, it must not retain Bodies past the call
type FrameRenderer interface {
	RenderFrame(f Frame)
}

// FrameRendererFunc adapts a function to FrameRenderer
type FrameRendererFunc func(Frame)

func (f FrameRendererFunc) RenderFrame(fr Frame) { f(fr) }

// Observer receives loop telemetry, implemented by the metrics recorder
type Observer interface {
	ObserveFrame(stats physics.StepStats, bodies int, elapsed time.Duration)
	ObserveSwap(bodies int)
	ObserveSelection(category market.Category)
}

type nopObserver struct{}

func (nopObserver) ObserveFrame(physics.StepStats, int, time.Duration) {}
func (nopObserver) ObserveSwap(int)                                    {}
func (nopObserver) ObserveSelection(market.Category)                   {}

// Selection is emitted when a click lands on a body
type Selection struct {
	Market market.Market
	Index  int
	At     time.Time
}

type click struct {
	col, row int
}

// Loop orchestrates the frame cycle: Step then Render on every tick
// All store mutation happens on the loop goroutine; resize, data replacement and clicks are
// delivered over channels and handled between frames, so frames never overlap
type Loop struct {
	surface  Surface
	renderer FrameRenderer
	metrics  terminal.Metrics

	interval  time.Duration
	newTicker TickerFactory
	rng       RandSource
	clock     TimeProvider
	observer  Observer
	onSelect  func(Selection)
	log       zerolog.Logger

	state atomic.Int32
	store atomic.Pointer[Store]

	// Owned by the loop goroutine after Start
	bounds     physics.Bounds
	cols, rows int
	frameNum   uint64
	selected   string

	// Coalesced control inputs, the channel only signals that a pending value exists
	pendingSnap   atomic.Pointer[market.Snapshot]
	replaceCh     chan struct{}
	pendingResize atomic.Bool
	resizeCh      chan struct{}
	clickCh       chan click

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
	stopped  atomic.Bool
}

// Option configures a Loop
type Option func(*Loop)

// WithTicker replaces the frame scheduler
func WithTicker(f TickerFactory) Option { return func(l *Loop) { l.newTicker = f } }

// WithInterval sets the frame interval
func WithInterval(d time.Duration) Option { return func(l *Loop) { l.interval = d } }

// WithRand injects the placement random source
func WithRand(r RandSource) Option { return func(l *Loop) { l.rng = r } }

// WithClock injects the time provider
func WithClock(c TimeProvider) Option { return func(l *Loop) { l.clock = c } }

// WithObserver attaches telemetry
func WithObserver(o Observer) Option { return func(l *Loop) { l.observer = o } }

// WithMetrics sets the cell to pixel density
func WithMetrics(m terminal.Metrics) Option { return func(l *Loop) { l.metrics = m } }

// WithLogger sets the loop logger
func WithLogger(log zerolog.Logger) Option { return func(l *Loop) { l.log = log } }

// OnSelect registers the selection callback, it runs on the loop goroutine and must not block
func OnSelect(fn func(Selection)) Option { return func(l *Loop) { l.onSelect = fn } }

// NewLoop creates an idle loop drawing onto surface through renderer
func NewLoop(surface Surface, renderer FrameRenderer, opts ...Option) *Loop {
	l := &Loop{
		surface:   surface,
		renderer:  renderer,
		metrics:   terminal.Metrics{CellWidth: parameter.DefaultCellWidth, CellHeight: parameter.DefaultCellHeight},
		interval:  parameter.FrameUpdateInterval,
		newTicker: NewTimeTicker,
		rng:       vmath.NewFastRand(uint64(time.Now().UnixNano())),
		clock:     NewMonotonicTimeProvider(),
		observer:  nopObserver{},
		onSelect:  func(Selection) {},
		log:       zerolog.Nop(),
		replaceCh: make(chan struct{}, 1),
		resizeCh:  make(chan struct{}, 1),
		clickCh:   make(chan click, parameter.ControlChannelSize),
		stopChan:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the current lifecycle state
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Store returns the current snapshot generation
func (l *Loop) Store() *Store {
	return l.store.Load()
}

// Start sizes the surface, builds the initial store from snap and begins the frame loop
func (l *Loop) Start(ctx context.Context, snap market.Snapshot) error {
	if l.stopped.Load() {
		return ErrStopped
	}
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	cols, rows := l.surface.Size()
	if cols <= 0 || rows <= 0 {
		l.running.Store(false)
		return ErrNoSurface
	}
	l.applySize(cols, rows)
	// Replacements queued before Start are older than snap
	l.pendingSnap.Store(nil)
	l.install(NewStoreFromSnapshot(snap, l.bounds, l.rng))

	ticker := l.newTicker(l.interval)
	l.state.Store(int32(StateRunning))
	l.log.Info().
		Int("cols", cols).
		Int("rows", rows).
		Float64("width", l.bounds.Width).
		Float64("height", l.bounds.Height).
		Msg("frame loop started")

	l.wg.Add(1)
	core.Go(func() { l.run(ctx, ticker) })
	return nil
}

// Stop cancels the scheduled frame and waits for the loop to exit, no frame runs after return
// Cancelling the Start context has the same effect on frames but leaves the loop restartable
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.stopped.Store(true)
		close(l.stopChan)
		l.wg.Wait()
		l.running.Store(false)
		l.state.Store(int32(StateIdle))
	})
}

// Resize notifies the loop that the surface changed size, bodies are not repositioned
func (l *Loop) Resize() {
	l.pendingResize.Store(true)
	select {
	case l.resizeCh <- struct{}{}:
	default:
	}
}

// Replace swaps in a new snapshot, the current store is discarded on the next loop turn
// Consecutive replacements before the loop turn coalesce to the latest
func (l *Loop) Replace(snap market.Snapshot) {
	l.pendingSnap.Store(&snap)
	select {
	case l.replaceCh <- struct{}{}:
	default:
	}
}

// Click queues a pointer press at a terminal cell, dropped if the queue is full
func (l *Loop) Click(col, row int) {
	select {
	case l.clickCh <- click{col: col, row: row}:
	default:
		l.log.Warn().Int("col", col).Int("row", row).Msg("click dropped")
	}
}

func (l *Loop) run(ctx context.Context, ticker Ticker) {
	defer func() {
		ticker.Stop()
		l.state.Store(int32(StateIdle))
		l.running.Store(false)
		l.wg.Done()
	}()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C():
			// A tick that raced shutdown must not produce a frame
			select {
			case <-l.stopChan:
				return
			case <-ctx.Done():
				return
			default:
			}
			// Control requests that raced the tick are applied before the frame
			l.drainControl()
			l.frame()
		case <-l.resizeCh:
			l.applyResize()
		case <-l.replaceCh:
			l.applyReplace()
		case c := <-l.clickCh:
			l.handleClick(c)
		}
	}
}

// drainControl handles all pending control inputs without blocking
func (l *Loop) drainControl() {
	for {
		select {
		case <-l.resizeCh:
			l.applyResize()
		case <-l.replaceCh:
			l.applyReplace()
		case c := <-l.clickCh:
			l.handleClick(c)
		default:
			return
		}
	}
}

func (l *Loop) applyResize() {
	if !l.pendingResize.Swap(false) {
		return
	}
	l.state.Store(int32(StateResizing))
	cols, rows := l.surface.Size()
	l.applySize(cols, rows)
	l.state.Store(int32(StateRunning))
}

func (l *Loop) applyReplace() {
	if snap := l.pendingSnap.Swap(nil); snap != nil {
		l.install(NewStoreFromSnapshot(*snap, l.bounds, l.rng))
	}
}

func (l *Loop) frame() {
	start := l.clock.Now()
	store := l.store.Load()
	bodies := store.Bodies()

	stats := physics.Step(bodies, l.bounds)

	l.frameNum++
	l.renderer.RenderFrame(Frame{
		Bodies:     bodies,
		Bounds:     l.bounds,
		Cols:       l.cols,
		Rows:       l.rows,
		Now:        start,
		Number:     l.frameNum,
		Generation: store.Generation,
		Selected:   l.selected,
	})

	l.observer.ObserveFrame(stats, len(bodies), l.clock.Now().Sub(start))
}

func (l *Loop) applySize(cols, rows int) {
	l.cols, l.rows = cols, rows
	w, h := l.metrics.SurfaceSize(cols, rows)
	l.bounds = physics.Bounds{Width: w, Height: h}
	l.log.Debug().Int("cols", cols).Int("rows", rows).Msg("surface resized")
}

func (l *Loop) install(s *Store) {
	old := l.store.Swap(s)
	l.selected = ""
	l.observer.ObserveSwap(s.Len())

	ev := l.log.Info().Str("generation", s.Generation).Int("bodies", s.Len())
	if old != nil {
		ev = ev.Str("previous", old.Generation)
	}
	ev.Msg("snapshot installed")
}

func (l *Loop) handleClick(c click) {
	x, y := input.PointerMapper{Metrics: l.metrics}.Map(c.col, c.row)
	bodies := l.store.Load().Bodies()

	idx, ok := input.HitTest(x, y, bodies)
	if !ok {
		l.selected = ""
		return
	}

	m := bodies[idx].Market
	l.selected = m.ID
	l.observer.ObserveSelection(m.Category)
	l.log.Debug().Str("market", m.ID).Int("index", idx).Msg("market selected")
	l.onSelect(Selection{Market: m, Index: idx, At: l.clock.Now()})
}
