package parameter

import "time"

// Bubble rendering
const (
	// GlowScale is the base glow radius multiplier, pulsed by GlowPulse
	GlowScale = 1.2
	GlowPulse = 0.1

	// GlowPeriodMs divides wall-clock milliseconds inside the glow sine
	GlowPeriodMs = 500.0

	// GlowAlpha is the glow opacity at the body center, falling to 0 at the glow edge
	GlowAlpha = 0.45

	// HighlightOffset positions the gradient highlight at center - r*HighlightOffset on both axes
	HighlightOffset = 1.0 / 3.0

	// HighlightLighten and EdgeDarken are the gradient stop mixes toward white and black
	HighlightLighten = 0.45
	EdgeDarken       = 0.35

	// ShadowOffset is the drop shadow displacement in radius units, ShadowAlpha its opacity
	ShadowOffset = 0.08
	ShadowAlpha  = 0.35
	ShadowSpread = 1.05
)

// Labels
const (
	// TitleMaxRunes is the visible title length before truncation
	TitleMaxRunes = 20
	TitleEllipsis = "..."
)

// Detail panel
const (
	PanelHeight     = 7
	PanelMaxWidth   = 96
	PanelMarginX    = 2
	SelectionFlash  = 250 * time.Millisecond
	StatusBarHeight = 1
)
