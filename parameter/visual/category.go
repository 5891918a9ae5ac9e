package visual

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/market-bubbles/market"
	"github.com/lixenwraith/market-bubbles/terminal"
)

// Category base colors as hex, parsed once at init
var categoryHex = map[market.Category]string{
	market.CategoryPolitics: "#4169e1", // Royal blue
	market.CategoryCrypto:   "#f7931a", // Bitcoin orange
	market.CategoryTech:     "#00ced1",
	market.CategoryEconomy:  "#2e8b57",
	market.CategorySports:   "#dc143c",
	market.CategoryEvents:   "#9370db",
	market.CategoryEarnings: "#ffd700",
}

// DefaultCategoryHex is used for unknown or empty categories
const DefaultCategoryHex = "#808080"

var (
	categoryColors map[market.Category]colorful.Color
	defaultColor   colorful.Color
)

func init() {
	categoryColors = make(map[market.Category]colorful.Color, len(categoryHex))
	for c, hex := range categoryHex {
		categoryColors[c] = mustHex(hex)
	}
	defaultColor = mustHex(DefaultCategoryHex)
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("visual: bad palette entry " + s)
	}
	return c
}

// CategoryColor returns the base bubble color for a category, gray when unknown
func CategoryColor(c market.Category) colorful.Color {
	if col, ok := categoryColors[c]; ok {
		return col
	}
	return defaultColor
}

// Scene colors
var (
	RgbBackground = terminal.RGB{R: 13, G: 17, B: 23}
	RgbLabel      = terminal.RGB{R: 255, G: 255, B: 255}
	RgbLabelDim   = terminal.RGB{R: 200, G: 205, B: 215}
	RgbShadow     = terminal.RGB{R: 0, G: 0, B: 0}
	RgbSelection  = terminal.RGB{R: 255, G: 255, B: 255}

	RgbPanelBg     = terminal.RGB{R: 22, G: 27, B: 34}
	RgbPanelBorder = terminal.RGB{R: 88, G: 96, B: 105}
	RgbPanelText   = terminal.RGB{R: 230, G: 230, B: 230}
	RgbPanelMuted  = terminal.RGB{R: 139, G: 148, B: 158}

	RgbTrendUp   = terminal.RGB{R: 63, G: 185, B: 80}
	RgbTrendDown = terminal.RGB{R: 248, G: 81, B: 73}

	RgbStatusBg   = terminal.RGB{R: 33, G: 38, B: 45}
	RgbStatusText = terminal.RGB{R: 201, G: 209, B: 217}
)

// Panel border runes
const (
	BoxHorizontal  = '─'
	BoxVertical    = '│'
	BoxTopLeft     = '┌'
	BoxTopRight    = '┐'
	BoxBottomLeft  = '└'
	BoxBottomRight = '┘'
)

// HalfBlockUpper renders the top sub-pixel as fg and the bottom as bg
const HalfBlockUpper = '▀'
