package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// HeadingVec returns the unit vector pointing along heading (radians).
func HeadingVec(heading float64) r2.Vec {
	return r2.Vec{X: math.Cos(heading), Y: math.Sin(heading)}
}

// SignedAngle returns the angle that rotates from onto to, in (-π, π].
// Positive is counter-clockwise. A zero vector on either side yields 0.
func SignedAngle(from, to r2.Vec) float64 {
	if IsZero(from) || IsZero(to) {
		return 0
	}
	return math.Atan2(r2.Cross(from, to), r2.Dot(from, to))
}

func IsZero(v r2.Vec) bool {
	return v.X == 0 && v.Y == 0
}

// Distance is the Euclidean distance between p and q.
func Distance(p, q r2.Vec) float64 {
	return r2.Norm(r2.Sub(p, q))
}

// Clamp bounds v to [lo, hi]. NaN passes through unchanged.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampAbs bounds v to [-limit, limit].
func ClampAbs(v, limit float64) float64 {
	return Clamp(v, -limit, limit)
}

// IsFinite reports whether every value is neither NaN nor ±Inf.
func IsFinite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func VecIsFinite(v r2.Vec) bool {
	return IsFinite(v.X, v.Y)
}
