// Package world defines the agent and projectile types moved by the evasion
// simulation, along with the per-tick physics the host applies to them.
package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/cxd309/evasion-engine/internal/collision"
	"github.com/cxd309/evasion-engine/internal/evasion"
	"github.com/cxd309/evasion-engine/internal/kinematics"
)

// Arena is the flat ground every body in a simulation shares.
type Arena struct {
	FloorY float64 `json:"floor_y"` // y of the walkable surface; y grows downward
	// Friction is the fraction of horizontal velocity a grounded agent loses
	// each tick. Zero keeps velocity until the controller changes it.
	Friction float64 `json:"friction,omitempty" jsonschema:"minimum=0,maximum=1"`
}

// AgentSpec is the static definition of the evading agent.
type AgentSpec struct {
	Name     string           `json:"name,omitempty"`
	Position mgl64.Vec2       `json:"position" jsonschema:"required"`
	Width    float64          `json:"width" jsonschema:"required,minimum=0"`
	Height   float64          `json:"height" jsonschema:"required,minimum=0"`
	Profile  *evasion.Profile `json:"profile,omitempty"` // nil uses evasion.DefaultProfile
}

// Extent returns the agent's bounding box size.
func (s AgentSpec) Extent() collision.Extent {
	return collision.Extent{Width: s.Width, Height: s.Height}
}

// ResolvedProfile returns the agent's profile, or the default one if none was given.
func (s AgentSpec) ResolvedProfile() evasion.Profile {
	if s.Profile == nil {
		return evasion.DefaultProfile()
	}
	return *s.Profile
}

// SimAgent is an AgentSpec enriched with live simulation state.
type SimAgent struct {
	AgentSpec
	Position mgl64.Vec2 `json:"position"`
	Velocity mgl64.Vec2 `json:"velocity"`
	// PreviousVelocity is the velocity seen in the previous tick's snapshot.
	PreviousVelocity mgl64.Vec2    `json:"previous_velocity"`
	Grounded         bool          `json:"grounded"`
	JustHit          bool          `json:"just_hit"` // struck since the controller last ran
	Hits             int           `json:"hits"`
	DamageTaken      float64       `json:"damage_taken"`
	Evasion          evasion.State `json:"evasion"`
	gravity          float64
}

// NewSimAgent places the agent described by spec in the arena. An agent
// spawned at or below the floor is set down on it.
func NewSimAgent(spec AgentSpec, arena Arena) (*SimAgent, error) {
	if err := spec.Extent().Validate(); err != nil {
		return nil, fmt.Errorf("agent %q: %w", spec.Name, err)
	}
	p := spec.ResolvedProfile()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("agent %q: %w", spec.Name, err)
	}

	a := &SimAgent{
		AgentSpec: spec,
		Position:  spec.Position,
		Evasion:   evasion.NewState(),
		gravity:   p.Gravity,
	}
	a.settle(arena)
	return a, nil
}

// Body returns the agent's collision body for this tick. Acceleration is
// derived from the change in velocity since the previous snapshot.
func (a *SimAgent) Body() collision.Body {
	return collision.Body{
		State:  kinematics.NewState(a.Position, a.Velocity, a.PreviousVelocity),
		Extent: a.Extent(),
	}
}

// Integrate moves the agent one tick with velocity v, then applies gravity,
// the floor and ground friction.
func (a *SimAgent) Integrate(v mgl64.Vec2, arena Arena) {
	a.PreviousVelocity = a.Velocity
	a.Velocity = v
	a.Position = a.Position.Add(v)
	a.Velocity[1] += a.gravity
	a.settle(arena)

	if a.Grounded && arena.Friction > 0 {
		a.Velocity[0] *= 1 - arena.Friction
		if math.Abs(a.Velocity.X()) < 1e-3 {
			a.Velocity[0] = 0
		}
	}
}

func (a *SimAgent) settle(arena Arena) {
	a.Grounded = a.Position.Y()+a.Height/2 >= arena.FloorY
	if !a.Grounded {
		return
	}
	a.Position[1] = arena.FloorY - a.Height/2
	if a.Velocity.Y() > 0 {
		a.Velocity[1] = 0
	}
}

// Strike records a projectile hitting the agent. Knockback pushes the agent
// along the projectile's horizontal direction of travel.
func (a *SimAgent) Strike(p *SimProjectile) {
	a.Hits++
	a.DamageTaken += p.Damage
	a.JustHit = true
	if p.Knockback == 0 {
		return
	}

	dir := p.State.Velocity.X()
	if dir == 0 {
		dir = a.Position.X() - p.State.Position.X()
	}
	if dir < 0 {
		a.Velocity[0] = -p.Knockback
	} else {
		a.Velocity[0] = p.Knockback
	}
}

// AgentLog is a point-in-time snapshot of a SimAgent's state.
type AgentLog struct {
	Position    mgl64.Vec2    `json:"position" msgpack:"position"`
	Velocity    mgl64.Vec2    `json:"velocity" msgpack:"velocity"`
	Grounded    bool          `json:"grounded" msgpack:"grounded"`
	Phase       evasion.Phase `json:"phase" msgpack:"phase"`
	Threat      uuid.UUID     `json:"threat" msgpack:"threat"`
	Hits        int           `json:"hits" msgpack:"hits"`
	DamageTaken float64       `json:"damage_taken" msgpack:"damage_taken"`
}

// GetLog returns a point-in-time snapshot of the agent state.
func (a *SimAgent) GetLog() AgentLog {
	return AgentLog{
		Position:    a.Position,
		Velocity:    a.Velocity,
		Grounded:    a.Grounded,
		Phase:       a.Evasion.Phase,
		Threat:      a.Evasion.CurrentThreat,
		Hits:        a.Hits,
		DamageTaken: a.DamageTaken,
	}
}
