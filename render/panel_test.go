package render

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/market-bubbles/engine"
	"github.com/lixenwraith/market-bubbles/market"
	"github.com/lixenwraith/market-bubbles/physics"
	"github.com/lixenwraith/market-bubbles/terminal"
)

func sampleMarket() market.Market {
	return market.Market{
		ID:       "m1",
		Category: market.CategoryCrypto,
		Title:    "Will BTC close above 100k this year?",
		Odds:     62,
		Volume:   1_240_000,
		Traders:  4321,
		Trend:    market.TrendDown,
		Change:   3.4,
		Link:     "https://polymarket.com/event/btc-100k",
	}
}

func TestDrawPanelLayout(t *testing.T) {
	c := NewCanvas(80, 20)
	c.Clear(RGB{})
	d := &Detail{Market: sampleMarket(), Insight: InsightReady, Text: "Momentum is fading."}
	DrawPanel(c, d, time.Unix(100, 0))
	cells := c.Compose()

	// 76 wide, rows 12..18 above the status row
	assert.Equal(t, '┌', cells[12*80+2].Rune)
	assert.Equal(t, '┐', cells[12*80+77].Rune)
	assert.Equal(t, '└', cells[18*80+2].Rune)
	assert.Equal(t, '┘', cells[18*80+77].Rune)

	assert.Contains(t, rowText(cells, 80, 13), "Will BTC close above 100k")
	stats := rowText(cells, 80, 14)
	assert.Contains(t, stats, "CRYPTO")
	assert.Contains(t, stats, "Odds 62%")
	assert.Contains(t, stats, "$1.2M")
	assert.Contains(t, stats, "4,321")
	assert.Contains(t, rowText(cells, 80, 15), "▼ 3.4%")
	assert.Contains(t, rowText(cells, 80, 16), "Momentum is fading.")
}

func TestDrawPanelInsightStates(t *testing.T) {
	tests := []struct {
		name   string
		detail Detail
		want   string
	}{
		{"pending", Detail{Insight: InsightPending}, "Insight: generating..."},
		{"failed", Detail{Insight: InsightFailed, Err: "timeout"}, "Insight unavailable: timeout"},
		{"none", Detail{Insight: InsightNone}, "│" + strings.Repeat(".", 74) + "│"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(80, 20)
			c.Clear(RGB{})
			d := tt.detail
			d.Market = sampleMarket()
			DrawPanel(c, &d, time.Unix(100, 0))
			assert.Contains(t, rowText(c.Compose(), 80, 16), tt.want)
		})
	}
}

func TestDrawPanelTooSmall(t *testing.T) {
	c := NewCanvas(20, 5)
	c.Clear(RGB{})
	DrawPanel(c, &Detail{Market: sampleMarket()}, time.Unix(0, 0))
	for _, cell := range c.Compose() {
		require.NotEqual(t, '┌', cell.Rune)
	}
}

func TestDrawStatus(t *testing.T) {
	c := NewCanvas(100, 3)
	c.Clear(RGB{})
	DrawStatus(c, Status{
		Source:      "gamma",
		Bodies:      42,
		Frame:       7,
		RefreshedAt: time.Date(2025, 1, 1, 12, 30, 5, 0, time.UTC),
		RefreshErr:  "status 503",
	})
	row := rowText(c.Compose(), 100, 2)
	assert.True(t, strings.HasPrefix(row, " market-bubbles │ gamma │ 42 markets │ frame 7 │ updated 12:30:05"), row)
	assert.Contains(t, row, "status 503")
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"fits", "short text", 20, []string{"short text"}},
		{"two lines", "alpha beta gamma delta", 11, []string{"alpha beta", "gamma delta"}},
		{"truncated", "alpha beta gamma delta epsilon", 11, []string{"alpha beta", "gamma de..."}},
		{"long word", "supercalifragilistic", 8, []string{"super..."}},
		{"empty", "", 10, nil},
		{"zero width", "abc", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrap(tt.text, tt.width, 2))
		})
	}
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "$950", FormatVolume(950))
	assert.Equal(t, "$12.5K", FormatVolume(12_500))
	assert.Equal(t, "$3.0M", FormatVolume(3_000_000))
	assert.Equal(t, "$1.1B", FormatVolume(1_100_000_000))

	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "1,000", FormatCount(1000))
	assert.Equal(t, "1,234,567", FormatCount(1234567))
	assert.Equal(t, "-12,000", FormatCount(-12000))
}

type captureFlusher struct {
	mu    sync.Mutex
	cells []terminal.Cell
	w, h  int
	calls int
}

func (f *captureFlusher) Flush(cells []terminal.Cell, w, h int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cells = append(f.cells[:0], cells...)
	f.w, f.h = w, h
	f.calls++
}

func TestSceneRenderFrame(t *testing.T) {
	out := &captureFlusher{}
	s := NewScene(out, NewRenderer(testMetrics))
	s.SetSource("file")

	m := sampleMarket()
	bodies := []physics.Body{{X: 160, Y: 100, Radius: 30, Market: m}}
	frame := engine.Frame{Bodies: bodies, Cols: 80, Rows: 20, Number: 3, Now: time.Unix(50, 0)}

	s.RenderFrame(frame)
	require.Equal(t, 1, out.calls)
	assert.Equal(t, 80, out.w)
	assert.Equal(t, 20, out.h)
	assert.Len(t, out.cells, 1600)
	assert.Contains(t, rowText(out.cells, 80, 19), "1 markets │ frame 3")
	assert.NotEqual(t, '┌', out.cells[12*80+2].Rune, "panel hidden without selection")

	s.ShowDetail(m, time.Unix(0, 0))
	frame.Selected = m.ID
	s.RenderFrame(frame)
	assert.Equal(t, '┌', out.cells[12*80+2].Rune)
	assert.Contains(t, rowText(out.cells, 80, 16), "generating")

	// Selection cleared by the loop hides the panel
	frame.Selected = ""
	s.RenderFrame(frame)
	assert.NotEqual(t, '┌', out.cells[12*80+2].Rune)
}

func TestSceneInsightRouting(t *testing.T) {
	s := NewScene(&captureFlusher{}, NewRenderer(testMetrics))
	m := sampleMarket()

	s.SetInsight(m.ID, "ignored", nil)
	_, ok := s.Detail()
	assert.False(t, ok)

	s.ShowDetail(m, time.Unix(0, 0))
	s.SetInsight("other", "stale", nil)
	d, ok := s.Detail()
	require.True(t, ok)
	assert.Equal(t, InsightPending, d.Insight)

	s.SetInsight(m.ID, "fallback", errors.New("boom"))
	d, _ = s.Detail()
	assert.Equal(t, InsightFailed, d.Insight)
	assert.Equal(t, "boom", d.Err)

	s.SetInsight(m.ID, "ready", nil)
	d, _ = s.Detail()
	assert.Equal(t, InsightReady, d.Insight)
	assert.Equal(t, "ready", d.Text)

	s.ClearDetail()
	_, ok = s.Detail()
	assert.False(t, ok)
}

func TestSceneRefreshStatus(t *testing.T) {
	s := NewScene(&captureFlusher{}, NewRenderer(testMetrics))
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	s.SetRefresh(at, nil)
	s.SetRefresh(at.Add(time.Minute), errors.New("fetch failed"))

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, at, s.status.RefreshedAt)
	assert.Equal(t, "fetch failed", s.status.RefreshErr)
}
