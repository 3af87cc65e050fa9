// Package kinematics provides closed-form constant-acceleration motion: where a
// body will be after t ticks, how fast it will be moving, and the inverse
// question of when it reaches a given coordinate.
//
// Nothing here integrates step by step. Every answer comes from the analytic
// equations of motion, so results are exact for bodies whose acceleration does
// not change over the prediction horizon.
package kinematics

import "github.com/go-gl/mathgl/mgl64"

// Trajectory is the motion contract consumed by the collision sampler.
// Time is measured in ticks and may be negative (the past).
type Trajectory interface {
	// PositionAt returns the predicted position t ticks from now.
	PositionAt(t float64) mgl64.Vec2
}
