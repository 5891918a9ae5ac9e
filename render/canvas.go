package render

import (
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/market-bubbles/parameter/visual"
	"github.com/lixenwraith/market-bubbles/terminal"
)

type textCell struct {
	r     rune
	fg    RGB
	attrs terminal.Attr
	wide  bool // Continuation of a double-width rune in the previous column
}

// Canvas is a half-block pixel grid: each terminal cell holds two stacked sub-pixels
// Text drawn on top replaces the half-block glyph for that cell
type Canvas struct {
	cols, rows int
	pixels     []RGB // cols * rows*2, row-major
	text       []textCell
	cells      []terminal.Cell
}

// NewCanvas allocates a canvas for a cols x rows terminal area
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows)
	return c
}

// Resize reallocates buffers if the area changed, contents are undefined until Clear
func (c *Canvas) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	if cols == c.cols && rows == c.rows && c.pixels != nil {
		return
	}
	c.cols, c.rows = cols, rows
	c.pixels = make([]RGB, cols*rows*2)
	c.text = make([]textCell, cols*rows)
	c.cells = make([]terminal.Cell, cols*rows)
}

// Cols returns the width in cells and sub-pixels
func (c *Canvas) Cols() int { return c.cols }

// Rows returns the height in cells
func (c *Canvas) Rows() int { return c.rows }

// PixelRows returns the height in sub-pixels
func (c *Canvas) PixelRows() int { return c.rows * 2 }

// Clear fills every sub-pixel with bg and drops all text
func (c *Canvas) Clear(bg RGB) {
	for i := range c.pixels {
		c.pixels[i] = bg
	}
	clear(c.text)
}

// Pixel returns the sub-pixel color, black when out of range
func (c *Canvas) Pixel(x, y int) RGB {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows*2 {
		return RGB{}
	}
	return c.pixels[y*c.cols+x]
}

// SetPixel writes a sub-pixel, out of range writes are ignored
func (c *Canvas) SetPixel(x, y int, col RGB) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows*2 {
		return
	}
	c.pixels[y*c.cols+x] = col
}

// BlendPixel alpha-blends col over the sub-pixel
func (c *Canvas) BlendPixel(x, y int, col RGB, alpha float64) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows*2 {
		return
	}
	i := y*c.cols + x
	c.pixels[i] = Alpha(c.pixels[i], col, alpha)
}

// AddPixel adds col onto a sub-pixel with saturation, weighted by alpha
func (c *Canvas) AddPixel(x, y int, col RGB, alpha float64) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows*2 {
		return
	}
	i := y*c.cols + x
	c.pixels[i] = Add(c.pixels[i], col, alpha)
}

// SetText places a rune in a cell, it is drawn over the averaged pixel background
func (c *Canvas) SetText(col, row int, r rune, fg RGB, attrs terminal.Attr) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	c.text[row*c.cols+col] = textCell{r: r, fg: fg, attrs: attrs}
}

// FillRow writes s starting at col, clipped to the canvas, and returns the display width written
func (c *Canvas) FillRow(col, row int, s string, fg RGB, attrs terminal.Attr) int {
	if row < 0 || row >= c.rows {
		return 0
	}
	x := col
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > c.cols {
			break
		}
		if x >= 0 {
			c.SetText(x, row, r, fg, attrs)
			if w == 2 {
				c.text[row*c.cols+x+1] = textCell{wide: true}
			}
		}
		x += w
	}
	return x - col
}

// CenterText writes s centered on column cx using display width
func (c *Canvas) CenterText(cx, row int, s string, fg RGB, attrs terminal.Attr) {
	w := runewidth.StringWidth(s)
	c.FillRow(cx-w/2, row, s, fg, attrs)
}

// Compose flattens the canvas into terminal cells, the returned slice is reused across calls
func (c *Canvas) Compose() []terminal.Cell {
	for row := 0; row < c.rows; row++ {
		top := c.pixels[(row*2)*c.cols : (row*2+1)*c.cols]
		bottom := c.pixels[(row*2+1)*c.cols : (row*2+2)*c.cols]
		for col := 0; col < c.cols; col++ {
			i := row*c.cols + col
			t := c.text[i]
			switch {
			case t.wide:
				c.cells[i] = terminal.Cell{Rune: ' ', Bg: Average(top[col], bottom[col])}
			case t.r != 0:
				c.cells[i] = terminal.Cell{Rune: t.r, Fg: t.fg, Bg: Average(top[col], bottom[col]), Attrs: t.attrs}
			default:
				c.cells[i] = terminal.Cell{Rune: visual.HalfBlockUpper, Fg: top[col], Bg: bottom[col]}
			}
		}
	}
	return c.cells
}
