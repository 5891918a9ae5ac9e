package render

import (
	"fmt"
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/market-bubbles/market"
	"github.com/lixenwraith/market-bubbles/parameter"
	"github.com/lixenwraith/market-bubbles/parameter/visual"
	"github.com/lixenwraith/market-bubbles/physics"
	"github.com/lixenwraith/market-bubbles/terminal"
	"github.com/lixenwraith/market-bubbles/vmath"
)

var colorWhite = colorful.Color{R: 1, G: 1, B: 1}

// Renderer paints bodies onto a Canvas in surface coordinates
// Each sub-pixel covers CellWidth x CellHeight/2 surface units
type Renderer struct {
	metrics    terminal.Metrics
	background RGB
}

// NewRenderer creates a renderer for the given cell metrics
func NewRenderer(m terminal.Metrics) *Renderer {
	return &Renderer{metrics: m, background: visual.RgbBackground}
}

// Draw clears the canvas and paints every body in store order, later bodies on top
func (r *Renderer) Draw(c *Canvas, bodies []physics.Body, now time.Time) {
	c.Clear(r.background)
	ms := float64(now.UnixMilli())

	for i := range bodies {
		b := &bodies[i]
		base := visual.CategoryColor(b.Market.Category)

		pulse := parameter.GlowScale + parameter.GlowPulse*math.Sin(ms/parameter.GlowPeriodMs+float64(i))
		r.drawGlow(c, b, base, b.Radius*pulse)
		r.drawShadow(c, b)
		r.drawBody(c, b, base)
		r.drawLabels(c, b)
	}
}

// DrawSelection outlines a body with a thin ring
func (r *Renderer) DrawSelection(c *Canvas, b physics.Body) {
	width := r.metrics.CellWidth * 0.75
	r.eachPixel(c, b.X, b.Y, b.Radius+width, func(px, py int, d float64) {
		if math.Abs(d-b.Radius) < width {
			c.BlendPixel(px, py, visual.RgbSelection, 0.8)
		}
	})
}

func (r *Renderer) drawGlow(c *Canvas, b *physics.Body, base colorful.Color, radius float64) {
	if radius <= 0 {
		return
	}
	glow := FromColorful(base)
	r.eachPixel(c, b.X, b.Y, radius, func(px, py int, d float64) {
		t := 1 - d/radius
		c.AddPixel(px, py, glow, parameter.GlowAlpha*t*t)
	})
}

func (r *Renderer) drawShadow(c *Canvas, b *physics.Body) {
	off := b.Radius * parameter.ShadowOffset
	radius := b.Radius * parameter.ShadowSpread
	r.eachPixel(c, b.X+off, b.Y+off, radius, func(px, py int, d float64) {
		t := d / radius
		c.BlendPixel(px, py, visual.RgbShadow, parameter.ShadowAlpha*(1-t*t))
	})
}

// drawBody fills a radial gradient from an up-left highlight point toward a darkened edge
func (r *Renderer) drawBody(c *Canvas, b *physics.Body, base colorful.Color) {
	light := base.BlendRgb(colorWhite, parameter.HighlightLighten)
	dark := ToColorful(Scale(FromColorful(base), 1-parameter.EdgeDarken))

	hx := b.X - b.Radius*parameter.HighlightOffset
	hy := b.Y - b.Radius*parameter.HighlightOffset
	// Farthest disc point from the highlight
	reach := b.Radius * (1 + parameter.HighlightOffset*math.Sqrt2)

	r.eachPixel(c, b.X, b.Y, b.Radius, func(px, py int, _ float64) {
		sx, sy := r.pixelCenter(px, py)
		t := vmath.Clamp01(math.Hypot(sx-hx, sy-hy) / reach)

		var col colorful.Color
		if t < 0.5 {
			col = light.BlendRgb(base, t*2)
		} else {
			col = base.BlendRgb(dark, (t-0.5)*2)
		}
		c.SetPixel(px, py, FromColorful(col))
		// Covered cells lose text from bodies underneath
		c.SetText(px, py/2, 0, RGB{}, terminal.AttrNone)
	})
}

func (r *Renderer) drawLabels(c *Canvas, b *physics.Body) {
	col, row := r.metrics.ToCell(b.X, b.Y)
	c.CenterText(col, row-1, fmt.Sprintf("%d%%", b.Market.Odds), visual.RgbLabel, terminal.AttrBold)
	c.CenterText(col, row+1, TruncateTitle(b.Market.Title, parameter.TitleMaxRunes), visual.RgbLabelDim, terminal.AttrNone)
}

// TruncateTitle keeps at most n runes, appending the ellipsis when anything was cut
func TruncateTitle(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + parameter.TitleEllipsis
}

// pixelCenter returns the surface coordinate of a sub-pixel center
func (r *Renderer) pixelCenter(px, py int) (float64, float64) {
	return (float64(px) + 0.5) * r.metrics.CellWidth, (float64(py) + 0.5) * r.metrics.CellHeight / 2
}

// eachPixel visits sub-pixels whose centers lie strictly inside the circle, clipped to the canvas
func (r *Renderer) eachPixel(c *Canvas, cx, cy, radius float64, fn func(px, py int, d float64)) {
	if radius <= 0 || r.metrics.CellWidth <= 0 || r.metrics.CellHeight <= 0 {
		return
	}
	subH := r.metrics.CellHeight / 2

	x0 := max(int(math.Floor((cx-radius)/r.metrics.CellWidth)), 0)
	x1 := min(int(math.Ceil((cx+radius)/r.metrics.CellWidth)), c.Cols()-1)
	y0 := max(int(math.Floor((cy-radius)/subH)), 0)
	y1 := min(int(math.Ceil((cy+radius)/subH)), c.PixelRows()-1)

	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			sx, sy := r.pixelCenter(px, py)
			d := math.Hypot(sx-cx, sy-cy)
			if d < radius {
				fn(px, py, d)
			}
		}
	}
}

// categoryRGB is the flat category color used by the panel and legend
func categoryRGB(c market.Category) RGB {
	return FromColorful(visual.CategoryColor(c))
}
