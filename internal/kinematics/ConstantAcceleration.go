package kinematics

import "github.com/go-gl/mathgl/mgl64"

// State is an immutable per-tick snapshot of a body under constant acceleration.
// Units are pixels, ticks, pixels/tick and pixels/tick².
type State struct {
	Position     mgl64.Vec2 `json:"position" msgpack:"position"`
	Velocity     mgl64.Vec2 `json:"velocity" msgpack:"velocity"`
	Acceleration mgl64.Vec2 `json:"acceleration" msgpack:"acceleration"`
}

// NewState builds a State whose acceleration is derived from the change in
// velocity since the previous tick. A zero previous velocity means no
// acceleration data has been recorded yet, so acceleration is zero.
func NewState(position, velocity, previousVelocity mgl64.Vec2) State {
	return State{
		Position:     position,
		Velocity:     velocity,
		Acceleration: DeriveAcceleration(velocity, previousVelocity),
	}
}

// DeriveAcceleration returns velocity − previousVelocity, or zero when no
// previous velocity has been recorded.
func DeriveAcceleration(velocity, previousVelocity mgl64.Vec2) mgl64.Vec2 {
	if previousVelocity == (mgl64.Vec2{}) {
		return mgl64.Vec2{}
	}
	return velocity.Sub(previousVelocity)
}

// PositionAt implements Trajectory: p0 + v·t + ½·a·t² on each axis.
func (s State) PositionAt(t float64) mgl64.Vec2 {
	return mgl64.Vec2{
		s.AxisPositionAt(AxisX, t),
		s.AxisPositionAt(AxisY, t),
	}
}

// AxisPositionAt returns the position on a single axis t ticks from now.
func (s State) AxisPositionAt(axis Axis, t float64) float64 {
	return s.Position[axis] + s.Velocity[axis]*t + 0.5*s.Acceleration[axis]*t*t
}

// VelocityAt returns the velocity t ticks from now: v0 + a·t.
func (s State) VelocityAt(t float64) mgl64.Vec2 {
	return s.Velocity.Add(s.Acceleration.Mul(t))
}

// Advance returns the state t ticks from now. Acceleration is unchanged.
func (s State) Advance(t float64) State {
	return State{
		Position:     s.PositionAt(t),
		Velocity:     s.VelocityAt(t),
		Acceleration: s.Acceleration,
	}
}

// WithVelocity returns a copy of s moving at v. Acceleration is kept.
func (s State) WithVelocity(v mgl64.Vec2) State {
	s.Velocity = v
	return s
}
