package kinematics

import "math"

// Axis selects a coordinate of a mgl64.Vec2.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Other returns the perpendicular axis.
func (a Axis) Other() Axis {
	if a == AxisX {
		return AxisY
	}
	return AxisX
}

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Never is the time reported when no forward-time solution exists.
var Never = math.Inf(1)

// IsNever reports whether t is the Never sentinel.
func IsNever(t float64) bool { return math.IsInf(t, 1) }

// discTolerance is the relative slack under which a slightly negative
// discriminant is treated as a double root (e.g. the apex of a jump arc).
const discTolerance = 1e-9

// SolveTime returns the time at which a body starting with velocity v0 and
// constant acceleration a has moved delta along one axis, i.e. the root of
//
//	½·a·t² + v0·t − delta = 0
//
// Both roots of the quadratic are considered and the smallest positive one is
// returned. Missing real roots and non-positive roots yield Never.
func SolveTime(v0, a, delta float64) float64 {
	if !finite(v0) || !finite(a) || !finite(delta) {
		return Never
	}

	var t float64
	switch {
	case a == 0 && v0 == 0:
		return Never
	case a == 0:
		t = delta / v0
	default:
		disc := v0*v0 + 2*a*delta
		if disc < 0 {
			if -disc > discTolerance*math.Max(v0*v0, math.Abs(2*a*delta)) {
				return Never
			}
			disc = 0
		}
		sq := math.Sqrt(disc)
		t = earliest((-v0+sq)/a, (-v0-sq)/a)
	}

	if t <= 0 || math.IsNaN(t) {
		return Never
	}
	return t
}

// earliest returns the smaller positive of two roots, or 0 when neither is.
func earliest(r1, r2 float64) float64 {
	switch {
	case r1 > 0 && r2 > 0:
		return math.Min(r1, r2)
	case r1 > 0:
		return r1
	case r2 > 0:
		return r2
	}
	return 0
}

// TimeToReach returns the time at which s first reaches value on axis.
func (s State) TimeToReach(axis Axis, value float64) float64 {
	return SolveTime(s.Velocity[axis], s.Acceleration[axis], value-s.Position[axis])
}

// LocationGivenAxis returns the coordinate on the other axis at the moment s
// reaches value on axis. It returns NaN when that moment never comes.
func (s State) LocationGivenAxis(axis Axis, value float64) float64 {
	t := s.TimeToReach(axis, value)
	if IsNever(t) {
		return math.NaN()
	}
	return s.AxisPositionAt(axis.Other(), t)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
