// Package collision predicts contact between axis-aligned boxes that move under
// constant acceleration, and checks static overlap at a single instant.
//
// Boxes are centred on their body's position. Screen coordinates are assumed:
// y grows downward, so the top face of a box sits at y − h/2.
package collision

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/evasion-engine/internal/kinematics"
)

// SampleOffset is the half-width, in ticks, of the window WillCollide samples
// around a predicted contact time.
const SampleOffset = 0.1

// ErrInvalidExtent is returned for boxes with a negative or non-finite size.
var ErrInvalidExtent = errors.New("invalid box extent")

// Extent is the size of an axis-aligned bounding box.
type Extent struct {
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
}

// Validate checks that both dimensions are finite and non-negative.
func (e Extent) Validate() error {
	if !(e.Width >= 0) || !(e.Height >= 0) || math.IsInf(e.Width, 0) || math.IsInf(e.Height, 0) {
		return fmt.Errorf("%w: %gx%g", ErrInvalidExtent, e.Width, e.Height)
	}
	return nil
}

// Body is a box moving under constant acceleration.
type Body struct {
	State  kinematics.State `json:"state" msgpack:"state"`
	Extent Extent           `json:"extent" msgpack:"extent"`
}

func (b Body) left() float64   { return b.State.Position.X() - b.Extent.Width/2 }
func (b Body) right() float64  { return b.State.Position.X() + b.Extent.Width/2 }
func (b Body) top() float64    { return b.State.Position.Y() - b.Extent.Height/2 }
func (b Body) bottom() float64 { return b.State.Position.Y() + b.Extent.Height/2 }

// Solve returns the earliest time at which a and b make contact and the face
// of a that is struck. Each face pair is solved on the relative motion of a
// with respect to b. When several faces share the minimal time the first in
// LEFT, TOP, RIGHT, BOTTOM order wins.
func Solve(a, b Body) HitResult {
	relV := a.State.Velocity.Sub(b.State.Velocity)
	relA := a.State.Acceleration.Sub(b.State.Acceleration)

	// a's bottom meets b's top
	top := kinematics.SolveTime(relV.Y(), relA.Y(), b.top()-a.bottom())
	// a's top meets b's bottom
	bottom := kinematics.SolveTime(relV.Y(), relA.Y(), a.top()-b.bottom())
	// a's left meets b's right
	left := kinematics.SolveTime(relV.X(), relA.X(), b.right()-a.left())
	// a's right meets b's left
	right := kinematics.SolveTime(relV.X(), relA.X(), a.right()-b.left())

	t := math.Min(math.Min(top, bottom), math.Min(left, right))
	switch {
	case kinematics.IsNever(t):
		return NoHit
	case t == left:
		return HitResult{Time: t, Side: SideLeft}
	case t == top:
		return HitResult{Time: t, Side: SideTop}
	case t == right:
		return HitResult{Time: t, Side: SideRight}
	default:
		return HitResult{Time: t, Side: SideBottom}
	}
}

// Intersects reports whether two boxes overlap or touch at one instant.
func Intersects(centerA mgl64.Vec2, a Extent, centerB mgl64.Vec2, b Extent) bool {
	return math.Abs(centerA.X()-centerB.X()) <= (a.Width+b.Width)/2 &&
		math.Abs(centerA.Y()-centerB.Y()) <= (a.Height+b.Height)/2
}

// WillCollide confirms a predicted contact by sampling the mover's box just
// before and just after time t against a target box held at targetCenter.
func WillCollide(mover kinematics.Trajectory, moverExtent Extent, targetCenter mgl64.Vec2, targetExtent Extent, t float64) bool {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return false
	}
	return Intersects(mover.PositionAt(t+SampleOffset), moverExtent, targetCenter, targetExtent) ||
		Intersects(mover.PositionAt(t-SampleOffset), moverExtent, targetCenter, targetExtent)
}
