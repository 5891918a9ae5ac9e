package vmath

import "math"

// Vec2F is a float64 2D vector for surface-space physics
type Vec2F struct {
	X, Y float64
}

func V2FAdd(a, b Vec2F) Vec2F {
	return Vec2F{a.X + b.X, a.Y + b.Y}
}

func V2FSub(a, b Vec2F) Vec2F {
	return Vec2F{a.X - b.X, a.Y - b.Y}
}

func V2FMag(v Vec2F) float64 {
	return math.Hypot(v.X, v.Y)
}

// V2FDist returns the euclidean distance between two points
func V2FDist(a, b Vec2F) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// V2FAngle returns the heading of v in radians, zero for the zero vector
func V2FAngle(v Vec2F) float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return math.Atan2(v.Y, v.X)
}

// V2FPolar builds a vector from magnitude and heading
func V2FPolar(mag, angle float64) Vec2F {
	return Vec2F{mag * math.Cos(angle), mag * math.Sin(angle)}
}

// ClampF limits v to [lo, hi], collapsing to the midpoint when the range is inverted
func ClampF(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1], NaN maps to 0
func Clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

