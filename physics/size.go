package physics

import (
	"math"

	"github.com/lixenwraith/market-bubbles/parameter"
	"github.com/lixenwraith/market-bubbles/vmath"
)

// Radius maps a trading volume to a bubble radius on a log10 scale normalized by the category maximum
// Degenerate maxima (<= 0, NaN) fall back to the minimum size, scale is clamped to [0, 1]
func Radius(volume, maxVolume float64) float64 {
	if !(maxVolume > 0) {
		return parameter.MinRadius
	}

	scale := vmath.Clamp01(math.Log10(volume+1) / math.Log10(maxVolume+1))
	size := parameter.MinSize + scale*(parameter.MaxSize-parameter.MinSize)
	return size / 2
}
