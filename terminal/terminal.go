package terminal

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Attr represents text attributes (bitmask)
type Attr uint8

const (
	AttrNone Attr = 0
	AttrBold Attr = 1 << 0
	AttrDim  Attr = 1 << 1
)

// Cell represents a single terminal cell
type Cell struct {
	Rune  rune
	Fg    RGB
	Bg    RGB
	Attrs Attr
}

// EventType identifies the event payload
type EventType uint8

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventInterrupt
	EventClosed
)

// Event is a terminal input event flattened from tcell
type Event struct {
	Type   EventType
	Key    Key
	Rune   rune
	Width  int // For EventResize
	Height int // For EventResize

	MouseX   int
	MouseY   int
	MouseBtn MouseButton

	Data any // For EventInterrupt
}

// ErrNotInitialized is returned by operations that need an initialized screen
var ErrNotInitialized = errors.New("terminal not initialized")

// Terminal provides the drawing surface and input stream
type Terminal interface {
	// Init enters the alternate screen, enables mouse reporting, hides cursor
	Init() error

	// Fini restores terminal state. Safe to call multiple times
	Fini()

	// Size returns current terminal dimensions in cells
	Size() (width, height int)

	// Flush writes cell buffer to terminal
	// Cells are row-major: cells[y*width + x]
	Flush(cells []Cell, width, height int)

	// PollEvent blocks until next input event, returns EventClosed after Fini
	PollEvent() Event

	// Interrupt wakes PollEvent with an EventInterrupt carrying data
	Interrupt(data any)
}

// tcellTerm implements Terminal over a tcell screen
type tcellTerm struct {
	screen tcell.Screen

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// New creates a Terminal backed by the process tty
func New() (Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return &tcellTerm{screen: screen}, nil
}

// NewWithScreen wraps an existing tcell screen, used with tcell.NewSimulationScreen in tests
func NewWithScreen(screen tcell.Screen) Terminal {
	return &tcellTerm{screen: screen}
}

func (t *tcellTerm) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	t.screen.EnableMouse(tcell.MouseButtonEvents)
	t.screen.HideCursor()
	t.screen.Clear()
	t.initialized = true
	return nil
}

func (t *tcellTerm) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	t.finalized = true
	t.screen.DisableMouse()
	t.screen.Fini()
}

func (t *tcellTerm) Size() (int, int) {
	return t.screen.Size()
}

func (t *tcellTerm) Flush(cells []Cell, width, height int) {
	sw, sh := t.screen.Size()
	if width > sw {
		width = sw
	}
	if height > sh {
		height = sh
	}

	for y := 0; y < height; y++ {
		row := y * width
		for x := 0; x < width; x++ {
			c := &cells[row+x]
			r := c.Rune
			if r == 0 {
				r = ' '
			}
			style := tcell.StyleDefault.Foreground(c.Fg.Color()).Background(c.Bg.Color())
			if c.Attrs&AttrBold != 0 {
				style = style.Bold(true)
			}
			if c.Attrs&AttrDim != 0 {
				style = style.Dim(true)
			}
			t.screen.SetContent(x, y, r, nil, style)
		}
	}
	t.screen.Show()
}

func (t *tcellTerm) PollEvent() Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Event{Type: EventClosed}
		}

		switch e := ev.(type) {
		case *tcell.EventKey:
			k, r := convertKey(e)
			return Event{Type: EventKey, Key: k, Rune: r}
		case *tcell.EventMouse:
			x, y := e.Position()
			return Event{Type: EventMouse, MouseX: x, MouseY: y, MouseBtn: mouseButton(e.Buttons())}
		case *tcell.EventResize:
			t.screen.Sync()
			w, h := e.Size()
			return Event{Type: EventResize, Width: w, Height: h}
		case *tcell.EventInterrupt:
			return Event{Type: EventInterrupt, Data: e.Data()}
		}
		// Focus, paste and other events are not consumed
	}
}

func (t *tcellTerm) Interrupt(data any) {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(data))
}
