package parameter

import "time"

// Frame loop timing
const (
	// FrameUpdateInterval is the frame scheduler interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// ControlChannelSize buffers click requests into the loop
	ControlChannelSize = 16
)

// Data flow defaults
const (
	// RefreshInterval is the default data provider polling cadence
	RefreshInterval = 60 * time.Second

	// MaxMarketsPerCategory caps items kept per category by the snapshot builder
	MaxMarketsPerCategory = 10

	// InsightTimeout bounds one insight generation request
	InsightTimeout = 20 * time.Second
)

// Surface pixel density, logical pixels per terminal cell
const (
	DefaultCellWidth  = 8.0
	DefaultCellHeight = 16.0
)
