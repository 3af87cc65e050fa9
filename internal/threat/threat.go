// Package threat models moving hazards relative to an agent: when and where a
// single threat will strike, where the agent could stand to let it pass, and
// which of many candidates is the biggest threat right now.
package threat

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/cxd309/evasion-engine/internal/collision"
	"github.com/cxd309/evasion-engine/internal/kinematics"
)

// Candidate is one moving body in a tick's snapshot. It lives only for that
// tick; ID is the stable key used to find the same body again next tick.
type Candidate struct {
	ID       uuid.UUID        `json:"id" msgpack:"id"`
	State    kinematics.State `json:"state" msgpack:"state"`
	Extent   collision.Extent `json:"extent" msgpack:"extent"`
	Severity float64          `json:"severity" msgpack:"severity"`
	// Hostile is false for bodies the agent itself fired.
	Hostile bool `json:"hostile" msgpack:"hostile"`
	Active  bool `json:"active" msgpack:"active"`
}

// Body returns the candidate as a collision body.
func (c Candidate) Body() collision.Body {
	return collision.Body{State: c.State, Extent: c.Extent}
}

// Qualifies reports whether c may be considered a threat at all. Bodies
// without an id cannot be tracked across ticks and never qualify.
func (c Candidate) Qualifies() bool {
	return c.ID != uuid.Nil && c.Hostile && c.Active && c.Severity > 0
}

// Find returns the candidate with the given id from a snapshot.
func Find(candidates []Candidate, id uuid.UUID) (Candidate, bool) {
	if id == uuid.Nil {
		return Candidate{}, false
	}
	for _, c := range candidates {
		if c.ID == id {
			return c, true
		}
	}
	return Candidate{}, false
}

// Threat answers collision queries for one candidate against a target body.
// Queries use the target's own velocity and acceleration.
type Threat struct {
	c Candidate
}

// New wraps c.
func New(c Candidate) *Threat {
	return &Threat{c: c}
}

// Candidate returns the wrapped candidate.
func (t *Threat) Candidate() Candidate { return t.c }

// ID returns the wrapped candidate's id.
func (t *Threat) ID() uuid.UUID { return t.c.ID }

// Hit solves for the earliest contact between the threat and target. The side
// is the face of the threat that is struck.
func (t *Threat) Hit(target collision.Body) collision.HitResult {
	return collision.Solve(t.c.Body(), target)
}

// Confirmed solves the hit and checks it by sampling. It reports false when no
// contact is predicted or sampling does not confirm it.
func (t *Threat) Confirmed(target collision.Body) (collision.HitResult, bool) {
	hit := t.Hit(target)
	if hit.Never() {
		return hit, false
	}
	return hit, t.WillCollideWithTarget(target, hit.Time)
}

// WillCollideWithTarget confirms that the threat's box overlaps the target's
// box, at the target's predicted position, around time.
func (t *Threat) WillCollideWithTarget(target collision.Body, time float64) bool {
	return t.willCollide(target.State.PositionAt(time), target.Extent, time)
}

// WillCollideOnLowerHalf is WillCollideWithTarget restricted to the lower half
// of the target's box.
func (t *Threat) WillCollideOnLowerHalf(target collision.Body, time float64) bool {
	center := target.State.PositionAt(time).Add(mgl64.Vec2{0, target.Extent.Height / 4})
	half := collision.Extent{Width: target.Extent.Width, Height: target.Extent.Height / 2}
	return t.willCollide(center, half, time)
}

func (t *Threat) willCollide(center mgl64.Vec2, extent collision.Extent, time float64) bool {
	if kinematics.IsNever(time) {
		return false
	}
	return collision.WillCollide(t.c.State, t.c.Extent, center, extent, time)
}

// SafeHorizontalPosition returns the x the target should occupy so that the
// threat passes beside it. The threat's path is followed down to the height of
// the face it would strike, and the target steps clear of that point, away
// from the direction the threat is travelling. NaN is returned when the threat
// never reaches that height.
func (t *Threat) SafeHorizontalPosition(target collision.Body, time float64) float64 {
	hitY := target.State.Position.Y()
	if t.WillCollideOnLowerHalf(target, time) {
		hitY += target.Extent.Height / 2
	} else {
		hitY -= target.Extent.Height / 2
	}

	x := t.c.State.LocationGivenAxis(kinematics.AxisY, hitY)
	if math.IsNaN(x) {
		return x
	}

	direction := -1.0
	if t.c.State.Velocity.X() < 0 {
		direction = 1
	}
	return x + direction*(target.Extent.Width+t.c.Extent.Width+1)
}
