package render

import (
	"sync"
	"time"

	"github.com/lixenwraith/market-bubbles/engine"
	"github.com/lixenwraith/market-bubbles/market"
	"github.com/lixenwraith/market-bubbles/terminal"
)

// Flusher receives composed cells, satisfied by terminal.Terminal
type Flusher interface {
	Flush(cells []terminal.Cell, width, height int)
}

// Scene adapts the renderer to engine.FrameRenderer and owns overlay state
// RenderFrame runs on the loop goroutine; overlay setters may be called from any goroutine
type Scene struct {
	out      Flusher
	renderer *Renderer
	canvas   *Canvas

	mu     sync.Mutex
	detail *Detail
	status Status
}

// NewScene creates a scene flushing to out
func NewScene(out Flusher, r *Renderer) *Scene {
	return &Scene{
		out:      out,
		renderer: r,
		canvas:   NewCanvas(0, 0),
	}
}

// RenderFrame draws bodies, selection ring, detail panel and status bar, then flushes
func (s *Scene) RenderFrame(f engine.Frame) {
	s.canvas.Resize(f.Cols, f.Rows)
	s.renderer.Draw(s.canvas, f.Bodies, f.Now)

	s.mu.Lock()
	var detail *Detail
	if s.detail != nil && s.detail.Market.ID == f.Selected {
		d := *s.detail
		detail = &d
	}
	status := s.status
	s.mu.Unlock()

	if detail != nil {
		for i := range f.Bodies {
			if f.Bodies[i].Market.ID == f.Selected {
				s.renderer.DrawSelection(s.canvas, f.Bodies[i])
				break
			}
		}
		DrawPanel(s.canvas, detail, f.Now)
	}

	status.Bodies = len(f.Bodies)
	status.Frame = f.Number
	DrawStatus(s.canvas, status)

	s.out.Flush(s.canvas.Compose(), s.canvas.Cols(), s.canvas.Rows())
}

// ShowDetail opens the panel for m with a pending insight
func (s *Scene) ShowDetail(m market.Market, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detail = &Detail{Market: m, Insight: InsightPending, Selected: at}
}

// SetInsight attaches an insight result, ignored if the panel moved to another market
func (s *Scene) SetInsight(marketID, text string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detail == nil || s.detail.Market.ID != marketID {
		return
	}
	if err != nil {
		s.detail.Insight = InsightFailed
		s.detail.Err = err.Error()
		s.detail.Text = text
		return
	}
	s.detail.Insight = InsightReady
	s.detail.Text = text
}

// ClearDetail closes the panel
func (s *Scene) ClearDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detail = nil
}

// Detail returns a copy of the open panel content
func (s *Scene) Detail() (Detail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detail == nil {
		return Detail{}, false
	}
	return *s.detail, true
}

// SetSource labels the data source in the status bar
func (s *Scene) SetSource(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Source = name
}

// SetRefresh records the outcome of the latest data refresh
func (s *Scene) SetRefresh(at time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status.RefreshErr = err.Error()
		return
	}
	s.status.RefreshedAt = at
	s.status.RefreshErr = ""
}
