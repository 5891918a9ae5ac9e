package parameter

// Bubble sizing, diameter-equivalent scalars in surface pixels
const (
	MinSize = 50.0
	MaxSize = 150.0

	MinRadius = MinSize / 2
	MaxRadius = MaxSize / 2
)

// Simulation coefficients, applied per frame (not time-normalized)
const (
	// WallRestitution scales the inverted velocity component on boundary contact
	WallRestitution = 0.9

	// CollisionRestitution scales both bodies' velocities after a pairwise exchange
	CollisionRestitution = 0.9

	// Damping is the global per-frame velocity multiplier
	Damping = 0.998

	// InitialVelocitySpread is the width of the uniform initial velocity range per axis, centered on zero
	InitialVelocitySpread = 1.5
)
