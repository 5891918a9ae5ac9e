package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/market-bubbles/market"
	"github.com/lixenwraith/market-bubbles/parameter"
	"github.com/lixenwraith/market-bubbles/parameter/visual"
	"github.com/lixenwraith/market-bubbles/terminal"
)

// InsightState tracks the insight request for the market shown in the panel
type InsightState uint8

const (
	InsightNone InsightState = iota
	InsightPending
	InsightReady
	InsightFailed
)

// Detail is the panel content for the selected market
type Detail struct {
	Market   market.Market
	Insight  InsightState
	Text     string
	Err      string
	Selected time.Time
}

// Status is the bottom status bar content
type Status struct {
	Source      string
	Bodies      int
	Frame       uint64
	RefreshedAt time.Time
	RefreshErr  string
}

// FillCells paints a rectangle of cells on both sub-pixels and drops its text
func (c *Canvas) FillCells(col, row, w, h int, bg RGB) {
	for y := row; y < row+h; y++ {
		for x := col; x < col+w; x++ {
			c.SetPixel(x, y*2, bg)
			c.SetPixel(x, y*2+1, bg)
			c.SetText(x, y, 0, RGB{}, terminal.AttrNone)
		}
	}
}

// panelRect returns the panel placement above the status bar, ok is false when it does not fit
func panelRect(cols, rows int) (x, y, w, h int, ok bool) {
	w = min(cols-2*parameter.PanelMarginX, parameter.PanelMaxWidth)
	h = parameter.PanelHeight
	if w < 24 || rows < h+parameter.StatusBarHeight+1 {
		return 0, 0, 0, 0, false
	}
	x = (cols - w) / 2
	y = rows - parameter.StatusBarHeight - h
	return x, y, w, h, true
}

// DrawPanel renders the detail box for d at the bottom of the canvas
func DrawPanel(c *Canvas, d *Detail, now time.Time) {
	x, y, w, h, ok := panelRect(c.Cols(), c.Rows())
	if !ok {
		return
	}

	bg := visual.RgbPanelBg
	// Brief flash right after the click
	if now.Sub(d.Selected) < parameter.SelectionFlash {
		bg = Screen(bg, categoryRGB(d.Market.Category), 0.25)
	}
	c.FillCells(x, y, w, h, bg)
	drawBorder(c, x, y, w, h)

	inner := w - 4
	tx := x + 2
	m := d.Market

	c.FillRow(tx, y+1, fit(m.Title, inner), categoryRGB(m.Category), terminal.AttrBold)

	stats := fmt.Sprintf("%s  Odds %d%%  Volume %s  Traders %s",
		strings.ToUpper(string(m.Category)), m.Odds, FormatVolume(m.Volume), FormatCount(m.Traders))
	c.FillRow(tx, y+2, fit(stats, inner), visual.RgbPanelText, terminal.AttrNone)

	arrow, trendColor := "▲", visual.RgbTrendUp
	if m.Trend == market.TrendDown {
		arrow, trendColor = "▼", visual.RgbTrendDown
	}
	n := c.FillRow(tx, y+3, fmt.Sprintf("%s %.1f%%", arrow, m.Change), trendColor, terminal.AttrBold)
	if m.Link != "" {
		c.FillRow(tx+n+2, y+3, fit(m.Link, inner-n-2), visual.RgbPanelMuted, terminal.AttrNone)
	}

	lines := insightLines(d, inner)
	for i, line := range lines {
		fg := visual.RgbPanelText
		if d.Insight != InsightReady {
			fg = visual.RgbPanelMuted
		}
		c.FillRow(tx, y+4+i, line, fg, terminal.AttrNone)
	}
}

func drawBorder(c *Canvas, x, y, w, h int) {
	fg := visual.RgbPanelBorder
	for i := x + 1; i < x+w-1; i++ {
		c.SetText(i, y, visual.BoxHorizontal, fg, terminal.AttrNone)
		c.SetText(i, y+h-1, visual.BoxHorizontal, fg, terminal.AttrNone)
	}
	for j := y + 1; j < y+h-1; j++ {
		c.SetText(x, j, visual.BoxVertical, fg, terminal.AttrNone)
		c.SetText(x+w-1, j, visual.BoxVertical, fg, terminal.AttrNone)
	}
	c.SetText(x, y, visual.BoxTopLeft, fg, terminal.AttrNone)
	c.SetText(x+w-1, y, visual.BoxTopRight, fg, terminal.AttrNone)
	c.SetText(x, y+h-1, visual.BoxBottomLeft, fg, terminal.AttrNone)
	c.SetText(x+w-1, y+h-1, visual.BoxBottomRight, fg, terminal.AttrNone)
}

// insightLines returns at most two wrapped lines for the insight row
func insightLines(d *Detail, width int) []string {
	var text string
	switch d.Insight {
	case InsightPending:
		text = "Insight: generating..."
	case InsightReady:
		text = d.Text
	case InsightFailed:
		text = "Insight unavailable: " + d.Err
	default:
		return nil
	}
	return wrap(text, width, 2)
}

// wrap splits text on spaces into lines of at most width display columns
// The last allowed line is truncated with the ellipsis
func wrap(text string, width, maxLines int) []string {
	if width <= 0 || maxLines <= 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	words := strings.Fields(text)
	for i, word := range words {
		candidate := word
		if cur.Len() > 0 {
			candidate = cur.String() + " " + word
		}
		if runewidth.StringWidth(candidate) <= width {
			cur.Reset()
			cur.WriteString(candidate)
			continue
		}
		if cur.Len() > 0 {
			lines = append(lines, cur.String())
		}
		if len(lines) == maxLines-1 {
			rest := strings.Join(words[i:], " ")
			lines = append(lines, fit(rest, width))
			return lines
		}
		cur.Reset()
		cur.WriteString(fit(word, width))
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// fit truncates s to width display columns, marking the cut with the ellipsis
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= len(parameter.TitleEllipsis) {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, parameter.TitleEllipsis)
}

// DrawStatus renders the one-line status bar on the last row
func DrawStatus(c *Canvas, s Status) {
	row := c.Rows() - parameter.StatusBarHeight
	if row < 0 || c.Cols() == 0 {
		return
	}
	c.FillCells(0, row, c.Cols(), parameter.StatusBarHeight, visual.RgbStatusBg)

	parts := []string{
		" market-bubbles",
		s.Source,
		fmt.Sprintf("%d markets", s.Bodies),
		fmt.Sprintf("frame %d", s.Frame),
	}
	if !s.RefreshedAt.IsZero() {
		parts = append(parts, "updated "+s.RefreshedAt.Format("15:04:05"))
	}
	n := c.FillRow(0, row, fit(strings.Join(parts, " │ "), c.Cols()), visual.RgbStatusText, terminal.AttrNone)

	if s.RefreshErr != "" && n+3 < c.Cols() {
		c.FillRow(n+1, row, fit("│ "+s.RefreshErr, c.Cols()-n-1), visual.RgbTrendDown, terminal.AttrNone)
	}
}

// FormatVolume renders a dollar volume with K/M/B suffix
func FormatVolume(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// FormatCount inserts thousands separators
func FormatCount(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
