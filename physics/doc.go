// Package physics implements the bubble size model and the per-frame simulation step:
// integration, wall containment, pairwise overlap correction with an equal-mass elastic
// exchange, and global damping. Coefficients are per frame, not time-normalized.
package physics
