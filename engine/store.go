package engine

import (
	"github.com/google/uuid"

	"github.com/lixenwraith/market-bubbles/market"
	"github.com/lixenwraith/market-bubbles/parameter"
	"github.com/lixenwraith/market-bubbles/physics"
)

// RandSource supplies uniform values in [0, 1) for initial placement
type RandSource interface {
	Float64() float64
}

// Store is one snapshot generation of bubble bodies
// It is replaced wholesale on data refresh and mutated in place only by the frame loop
type Store struct {
	// Generation identifies the snapshot, it changes on every replacement
	Generation string

	bodies []physics.Body
}

// NewStore builds bodies in arrival order with randomized position and velocity
// Radius comes from each item's volume against its own category maximum
func NewStore(items []market.Market, maxVolume map[market.Category]float64, bounds physics.Bounds, rng RandSource) *Store {
	bodies := make([]physics.Body, len(items))
	for i, m := range items {
		r := physics.Radius(m.Volume, maxVolume[m.Category])
		bodies[i] = physics.Body{
			X:      randomAxis(rng, r, bounds.Width),
			Y:      randomAxis(rng, r, bounds.Height),
			VX:     (rng.Float64() - 0.5) * parameter.InitialVelocitySpread,
			VY:     (rng.Float64() - 0.5) * parameter.InitialVelocitySpread,
			Radius: r,
			Market: m,
		}
	}

	return &Store{
		Generation: uuid.NewString(),
		bodies:     bodies,
	}
}

// NewStoreFromSnapshot flattens a categorized snapshot and builds its store
func NewStoreFromSnapshot(s market.Snapshot, bounds physics.Bounds, rng RandSource) *Store {
	return NewStore(s.Flatten(), s.MaxVolume, bounds, rng)
}

// randomAxis returns a uniform coordinate in [r, extent-r], or the midpoint if the body does not fit
func randomAxis(rng RandSource, r, extent float64) float64 {
	span := extent - 2*r
	if span < 0 {
		// Draw anyway so the sequence per body stays x, y, vx, vy
		rng.Float64()
		return extent / 2
	}
	return r + rng.Float64()*span
}

// Bodies returns the live body slice, callers outside the frame loop must treat it as read-only
func (s *Store) Bodies() []physics.Body {
	if s == nil {
		return nil
	}
	return s.bodies
}

// Len returns the body count
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bodies)
}
