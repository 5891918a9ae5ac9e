package render

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/market-bubbles/parameter/visual"
	"github.com/lixenwraith/market-bubbles/terminal"
)

var (
	red   = RGB{R: 255}
	blue  = RGB{B: 255}
	white = RGB{R: 255, G: 255, B: 255}
)

func TestComposeHalfBlock(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Clear(RGB{})
	c.SetPixel(0, 0, red)
	c.SetPixel(0, 1, blue)

	cells := c.Compose()
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}
	if cells[0].Rune != visual.HalfBlockUpper {
		t.Errorf("expected half block, got %q", cells[0].Rune)
	}
	if cells[0].Fg != red || cells[0].Bg != blue {
		t.Errorf("expected fg red bg blue, got %v %v", cells[0].Fg, cells[0].Bg)
	}
}

func TestComposeTextAveragesBackground(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Clear(RGB{})
	c.SetPixel(0, 0, RGB{R: 100, G: 100, B: 100})
	c.SetPixel(0, 1, RGB{R: 200, G: 0, B: 50})
	c.SetText(0, 0, 'A', white, terminal.AttrBold)

	cell := c.Compose()[0]
	if cell.Rune != 'A' || cell.Fg != white || cell.Attrs != terminal.AttrBold {
		t.Errorf("unexpected text cell %+v", cell)
	}
	if want := (RGB{R: 150, G: 50, B: 75}); cell.Bg != want {
		t.Errorf("expected bg %v, got %v", want, cell.Bg)
	}
}

func TestClearDropsText(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Clear(RGB{})
	c.SetText(1, 0, 'x', white, terminal.AttrNone)
	c.Clear(red)

	for i, cell := range c.Compose() {
		if cell.Rune != visual.HalfBlockUpper || cell.Fg != red || cell.Bg != red {
			t.Errorf("cell %d not cleared: %+v", i, cell)
		}
	}
}

func TestOutOfRangeIgnored(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Clear(RGB{})
	c.SetPixel(-1, 0, red)
	c.SetPixel(2, 0, red)
	c.SetPixel(0, 4, red)
	c.SetText(5, 5, 'x', white, terminal.AttrNone)
	c.BlendPixel(0, -1, red, 1)
	c.AddPixel(2, 3, red, 1)

	if got := c.Pixel(9, 9); got != (RGB{}) {
		t.Errorf("out of range pixel should be black, got %v", got)
	}
	for i, cell := range c.Compose() {
		if cell.Fg != (RGB{}) || cell.Bg != (RGB{}) {
			t.Errorf("cell %d modified: %+v", i, cell)
		}
	}
}

func TestAddPixel(t *testing.T) {
	gray := RGB{R: 100, G: 100, B: 100}
	c := NewCanvas(4, 1)
	c.Clear(gray)

	c.AddPixel(0, 0, RGB{R: 100, G: 20}, 1)
	c.AddPixel(1, 0, RGB{R: 100, G: 20}, 0.5)
	c.AddPixel(2, 0, RGB{}, 1)
	c.AddPixel(3, 0, white, 1)

	want := []RGB{{R: 200, G: 120, B: 100}, {R: 150, G: 110, B: 100}, gray, white}
	for x, w := range want {
		if got := c.Pixel(x, 0); got != w {
			t.Errorf("pixel %d = %v, want %v", x, got, w)
		}
	}
}

func TestCenterText(t *testing.T) {
	tests := []struct {
		name  string
		cx    int
		text  string
		start int
	}{
		{"odd width", 5, "50%", 4},
		{"even width", 5, "ab", 4},
		{"single", 0, "x", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(10, 1)
			c.Clear(RGB{})
			c.CenterText(tt.cx, 0, tt.text, white, terminal.AttrNone)
			cells := c.Compose()
			for i, r := range []rune(tt.text) {
				if got := cells[tt.start+i].Rune; got != r {
					t.Errorf("col %d: expected %q, got %q", tt.start+i, r, got)
				}
			}
		})
	}
}

func TestFillRowClips(t *testing.T) {
	c := NewCanvas(10, 1)
	c.Clear(RGB{})

	if n := c.FillRow(8, 0, "abcd", white, terminal.AttrNone); n != 2 {
		t.Errorf("expected 2 columns written, got %d", n)
	}
	if n := c.FillRow(-2, 0, "xyz", white, terminal.AttrNone); n != 3 {
		t.Errorf("expected display width 3, got %d", n)
	}

	cells := c.Compose()
	if cells[8].Rune != 'a' || cells[9].Rune != 'b' {
		t.Errorf("expected tail 'ab', got %q%q", cells[8].Rune, cells[9].Rune)
	}
	if cells[0].Rune != 'z' {
		t.Errorf("expected 'z' at col 0, got %q", cells[0].Rune)
	}
}

func TestFillRowWideRune(t *testing.T) {
	c := NewCanvas(4, 1)
	c.Clear(RGB{})

	if n := c.FillRow(0, 0, "世a", white, terminal.AttrNone); n != 3 {
		t.Fatalf("expected width 3, got %d", n)
	}
	cells := c.Compose()
	if cells[0].Rune != '世' || cells[1].Rune != ' ' || cells[2].Rune != 'a' {
		t.Errorf("unexpected layout %q %q %q", cells[0].Rune, cells[1].Rune, cells[2].Rune)
	}
}

func TestResizeReallocates(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Resize(5, 3)
	c.Clear(RGB{})
	if c.Cols() != 5 || c.Rows() != 3 || c.PixelRows() != 6 {
		t.Fatalf("unexpected size %dx%d", c.Cols(), c.Rows())
	}
	if got := len(c.Compose()); got != 15 {
		t.Errorf("expected 15 cells, got %d", got)
	}

	c.Resize(-1, 0)
	if got := len(c.Compose()); got != 0 {
		t.Errorf("expected empty canvas, got %d cells", got)
	}
}

func TestBlendOps(t *testing.T) {
	gray := RGB{R: 100, G: 100, B: 100}

	if got := Alpha(gray, red, 0); got != gray {
		t.Errorf("alpha 0 should keep dst, got %v", got)
	}
	if got := Alpha(gray, red, 1); got != red {
		t.Errorf("alpha 1 should return src, got %v", got)
	}
	if got := Alpha(RGB{}, white, 0.5); got != (RGB{R: 128, G: 128, B: 128}) {
		t.Errorf("half alpha, got %v", got)
	}
	if got := Add(RGB{R: 200}, RGB{R: 100, G: 10}, 1); got != (RGB{R: 255, G: 10}) {
		t.Errorf("add should saturate, got %v", got)
	}
	if got := Screen(gray, RGB{}, 1); got != gray {
		t.Errorf("screen with black is identity, got %v", got)
	}
	if got := Screen(gray, white, 1); got != white {
		t.Errorf("screen with white is white, got %v", got)
	}
	if got := Scale(RGB{R: 200, G: 100, B: 10}, 0.5); got != (RGB{R: 100, G: 50, B: 5}) {
		t.Errorf("scale, got %v", got)
	}
	if got := Scale(RGB{R: 200}, 2); got.R != 255 {
		t.Errorf("scale should saturate, got %v", got)
	}
}

func TestColorfulConversion(t *testing.T) {
	c := RGB{R: 10, G: 20, B: 30}
	if got := FromColorful(ToColorful(c)); got != c {
		t.Errorf("round trip changed color: %v", got)
	}
	if got := FromColorful(colorful.Color{R: 2, G: -1, B: 0.5}); got != (RGB{R: 255, G: 0, B: 128}) {
		t.Errorf("out of gamut should clamp, got %v", got)
	}
}
