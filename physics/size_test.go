package physics

import (
	"math"
	"testing"

	"github.com/lixenwraith/market-bubbles/parameter"
)

func TestRadiusScenarios(t *testing.T) {
	tests := []struct {
		name              string
		volume, maxVolume float64
		want              float64
	}{
		{"Volume at max", 1_000_000, 1_000_000, 75},
		{"Zero volume", 0, 1_000_000, 25},
		{"Zero max", 5_000, 0, 25},
		{"Negative max", 5_000, -10, 25},
		{"NaN max", 5_000, math.NaN(), 25},
		{"Volume above max clamps", 10_000_000, 1_000, 75},
		{"Negative volume clamps", -50, 1_000, 25},
		{"Volume below -1 clamps", -1_000, 1_000, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Radius(tt.volume, tt.maxVolume)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Radius(%v, %v) = %v, want %v", tt.volume, tt.maxVolume, got, tt.want)
			}
		})
	}
}

func TestRadiusBounds(t *testing.T) {
	if got := Radius(0, 1); got != parameter.MinRadius {
		t.Errorf("expected minimum radius %v, got %v", parameter.MinRadius, got)
	}
	if got := Radius(1, 1); got != parameter.MaxRadius {
		t.Errorf("expected maximum radius %v, got %v", parameter.MaxRadius, got)
	}
}

func TestRadiusMonotonic(t *testing.T) {
	const maxVolume = 2_500_000.0
	prev := Radius(0, maxVolume)
	for v := 1.0; v <= maxVolume; v *= 1.7 {
		r := Radius(v, maxVolume)
		if r < prev {
			t.Fatalf("Radius decreased at volume %v: %v < %v", v, r, prev)
		}
		prev = r
	}
}

func TestRadiusBoundsGrid(t *testing.T) {
	volumes := []float64{0, 0.5, 1, 10, 999, 1e4, 1e6, 1e9, 1e12}
	maxima := []float64{0, 1, 100, 1e6, 1e12}
	for _, v := range volumes {
		for _, m := range maxima {
			r := Radius(v, m)
			if r < 25 || r > 75 || math.IsNaN(r) {
				t.Errorf("Radius(%v, %v) = %v outside [25, 75]", v, m, r)
			}
		}
	}
}

func TestRadiusLogScale(t *testing.T) {
	// log10(999+1) / log10(999999+1) = 0.5 -> size 100 -> radius 50
	if got := Radius(999, 999_999); math.Abs(got-50) > 1e-9 {
		t.Errorf("Expected radius 50 at half log scale, got %v", got)
	}
}
