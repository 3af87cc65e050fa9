package world

import (
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/cxd309/evasion-engine/internal/collision"
	"github.com/cxd309/evasion-engine/internal/kinematics"
	"github.com/cxd309/evasion-engine/internal/threat"
)

// ProjectileSpec is the static definition of a scheduled projectile.
type ProjectileSpec struct {
	Name         string     `json:"name,omitempty"`
	SpawnTick    int        `json:"spawn_tick" jsonschema:"minimum=0"`
	Position     mgl64.Vec2 `json:"position" jsonschema:"required"`
	Velocity     mgl64.Vec2 `json:"velocity" jsonschema:"required"`
	Acceleration mgl64.Vec2 `json:"acceleration"`
	Width        float64    `json:"width" jsonschema:"required,minimum=0"`
	Height       float64    `json:"height" jsonschema:"required,minimum=0"`
	Damage       float64    `json:"damage" jsonschema:"required,minimum=0"`
	// Friendly projectiles were fired by the agent's side and never threaten it.
	Friendly  bool    `json:"friendly,omitempty"`
	Lifetime  int     `json:"lifetime,omitempty" jsonschema:"minimum=0"` // ticks; 0 lasts until it leaves the arena
	Knockback float64 `json:"knockback,omitempty" jsonschema:"minimum=0"`
}

// SimProjectile is a ProjectileSpec enriched with live simulation state.
type SimProjectile struct {
	ProjectileSpec
	ID               uuid.UUID        `json:"id"`
	State            kinematics.State `json:"state"`
	PreviousVelocity mgl64.Vec2       `json:"previous_velocity"`
	Active           bool             `json:"active"`
	Struck           bool             `json:"struck"`
	Age              int              `json:"age"`
}

// ProjectileID returns the id of the index-th projectile of a simulation. The
// same simulation id and index always produce the same uuid.
func ProjectileID(simulationID string, index int) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(simulationID+"/projectile/"+strconv.Itoa(index)))
}

// NewSimProjectile spawns the index-th projectile of a simulation.
func NewSimProjectile(simulationID string, index int, spec ProjectileSpec) (*SimProjectile, error) {
	if err := spec.Extent().Validate(); err != nil {
		return nil, fmt.Errorf("projectile %d (%q): %w", index, spec.Name, err)
	}
	return &SimProjectile{
		ProjectileSpec: spec,
		ID:             ProjectileID(simulationID, index),
		State: kinematics.State{
			Position:     spec.Position,
			Velocity:     spec.Velocity,
			Acceleration: spec.Acceleration,
		},
		Active: true,
	}, nil
}

// Extent returns the projectile's bounding box size.
func (s ProjectileSpec) Extent() collision.Extent {
	return collision.Extent{Width: s.Width, Height: s.Height}
}

// Candidate returns the projectile as the agent observes it this tick. Its
// acceleration is derived from the velocity seen in the previous tick.
func (p *SimProjectile) Candidate() threat.Candidate {
	return threat.Candidate{
		ID:       p.ID,
		State:    kinematics.NewState(p.State.Position, p.State.Velocity, p.PreviousVelocity),
		Extent:   p.Extent(),
		Severity: p.Damage,
		Hostile:  !p.Friendly,
		Active:   p.Active,
	}
}

// Advance moves the projectile one tick along its exact trajectory. It
// deactivates once its lifetime is spent or it has fallen through the floor.
func (p *SimProjectile) Advance(arena Arena) {
	if !p.Active {
		return
	}
	p.PreviousVelocity = p.State.Velocity
	p.State = p.State.Advance(1)
	p.Age++

	if p.Lifetime > 0 && p.Age >= p.Lifetime {
		p.Active = false
	}
	if p.State.Position.Y()-p.Height/2 > arena.FloorY {
		p.Active = false
	}
}

// Hits reports whether the projectile overlaps the agent right now.
func (p *SimProjectile) Hits(a *SimAgent) bool {
	return p.Active && !p.Friendly &&
		collision.Intersects(p.State.Position, p.Extent(), a.Position, a.Extent())
}

// ProjectileLog is a point-in-time snapshot of a SimProjectile's state.
type ProjectileLog struct {
	ID       uuid.UUID  `json:"id" msgpack:"id"`
	Name     string     `json:"name,omitempty" msgpack:"name,omitempty"`
	Position mgl64.Vec2 `json:"position" msgpack:"position"`
	Velocity mgl64.Vec2 `json:"velocity" msgpack:"velocity"`
	Active   bool       `json:"active" msgpack:"active"`
}

// GetLog returns a point-in-time snapshot of the projectile state.
func (p *SimProjectile) GetLog() ProjectileLog {
	return ProjectileLog{
		ID:       p.ID,
		Name:     p.Name,
		Position: p.State.Position,
		Velocity: p.State.Velocity,
		Active:   p.Active,
	}
}
