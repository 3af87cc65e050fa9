package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/evasion-engine/internal/collision"
	"github.com/cxd309/evasion-engine/internal/evasion"
)

var arena = Arena{FloorY: 10}

func newAgent(t *testing.T, x, y float64) *SimAgent {
	t.Helper()
	a, err := NewSimAgent(AgentSpec{Name: "npc", Position: mgl64.Vec2{x, y}, Width: 20, Height: 20}, arena)
	require.NoError(t, err)
	return a
}

func TestNewSimAgentSetsDownOnFloor(t *testing.T) {
	a := newAgent(t, 0, 5)
	assert.Equal(t, mgl64.Vec2{0, 0}, a.Position)
	assert.True(t, a.Grounded)
	assert.Equal(t, evasion.PhaseIdle, a.Evasion.Phase)

	air := newAgent(t, 0, -50)
	assert.False(t, air.Grounded)
}

func TestNewSimAgentRejectsBadSpec(t *testing.T) {
	_, err := NewSimAgent(AgentSpec{Width: -1, Height: 20}, arena)
	assert.ErrorIs(t, err, collision.ErrInvalidExtent)

	p := evasion.DefaultProfile()
	p.Gravity = 0
	_, err = NewSimAgent(AgentSpec{Width: 20, Height: 20, Profile: &p}, arena)
	assert.ErrorIs(t, err, evasion.ErrInvalidProfile)
}

func TestIntegrate(t *testing.T) {
	t.Run("walking stays on the floor", func(t *testing.T) {
		a := newAgent(t, 0, 0)
		a.Integrate(mgl64.Vec2{2, 0}, arena)
		assert.Equal(t, mgl64.Vec2{2, 0}, a.Position)
		assert.Equal(t, mgl64.Vec2{2, 0}, a.Velocity)
		assert.True(t, a.Grounded)
	})

	t.Run("jump leaves the floor", func(t *testing.T) {
		a := newAgent(t, 0, 0)
		a.Integrate(mgl64.Vec2{0, -5.01}, arena)
		assert.InDelta(t, -5.01, a.Position.Y(), 1e-12)
		assert.InDelta(t, -4.71, a.Velocity.Y(), 1e-12)
		assert.False(t, a.Grounded)
	})

	t.Run("falling lands", func(t *testing.T) {
		a := newAgent(t, 0, -1)
		a.Integrate(mgl64.Vec2{0, 2}, arena)
		assert.Equal(t, mgl64.Vec2{0, 0}, a.Position)
		assert.Zero(t, a.Velocity.Y())
		assert.True(t, a.Grounded)
	})

	t.Run("friction slows grounded agents", func(t *testing.T) {
		a := newAgent(t, 0, 0)
		a.Integrate(mgl64.Vec2{4, 0}, Arena{FloorY: 10, Friction: 0.5})
		assert.Equal(t, mgl64.Vec2{4, 0}, a.Position)
		assert.Equal(t, 2.0, a.Velocity.X())
	})
}

func TestAgentBodyDerivesAcceleration(t *testing.T) {
	a := newAgent(t, 0, 0)
	a.Velocity = mgl64.Vec2{1, 0}
	a.PreviousVelocity = mgl64.Vec2{3, 0}

	b := a.Body()
	assert.Equal(t, mgl64.Vec2{-2, 0}, b.State.Acceleration)
	assert.Equal(t, collision.Extent{Width: 20, Height: 20}, b.Extent)
}

func TestStrike(t *testing.T) {
	a := newAgent(t, 0, 0)
	p, err := NewSimProjectile("sim", 0, ProjectileSpec{
		Position: mgl64.Vec2{10, 0}, Velocity: mgl64.Vec2{-10, 0},
		Width: 10, Height: 10, Damage: 7, Knockback: 6,
	})
	require.NoError(t, err)
	require.True(t, p.Hits(a))

	a.Strike(p)
	assert.Equal(t, 1, a.Hits)
	assert.Equal(t, 7.0, a.DamageTaken)
	assert.True(t, a.JustHit)
	assert.Equal(t, -6.0, a.Velocity.X())

	// A resting projectile pushes the agent away from itself.
	p.State.Velocity = mgl64.Vec2{}
	a.Strike(p)
	assert.Equal(t, -6.0, a.Velocity.X())

	p.Friendly = true
	assert.False(t, p.Hits(a))
}

func TestProjectileIDIsDeterministic(t *testing.T) {
	assert.Equal(t, ProjectileID("run-1", 3), ProjectileID("run-1", 3))
	assert.NotEqual(t, ProjectileID("run-1", 3), ProjectileID("run-1", 4))
	assert.NotEqual(t, ProjectileID("run-1", 3), ProjectileID("run-2", 3))
}

func TestProjectileAdvance(t *testing.T) {
	p, err := NewSimProjectile("sim", 0, ProjectileSpec{
		Position: mgl64.Vec2{0, -100}, Velocity: mgl64.Vec2{1, 0}, Acceleration: mgl64.Vec2{0, 0.5},
		Width: 4, Height: 4, Damage: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec2{}, p.Candidate().State.Acceleration)

	p.Advance(arena)
	assert.Equal(t, mgl64.Vec2{1, -99.75}, p.State.Position)
	assert.Equal(t, mgl64.Vec2{1, 0.5}, p.State.Velocity)

	c := p.Candidate()
	assert.Equal(t, mgl64.Vec2{0, 0.5}, c.State.Acceleration)
	assert.Equal(t, p.ID, c.ID)
	assert.Equal(t, 1.0, c.Severity)
	assert.True(t, c.Qualifies())
}

func TestProjectileExpires(t *testing.T) {
	short, err := NewSimProjectile("sim", 0, ProjectileSpec{Velocity: mgl64.Vec2{1, 0}, Width: 4, Height: 4, Damage: 1, Lifetime: 2})
	require.NoError(t, err)
	short.Advance(arena)
	assert.True(t, short.Active)
	short.Advance(arena)
	assert.False(t, short.Active)

	before := short.State
	short.Advance(arena)
	assert.Equal(t, before, short.State)
	assert.False(t, short.Candidate().Qualifies())

	sinking, err := NewSimProjectile("sim", 1, ProjectileSpec{Position: mgl64.Vec2{0, 9}, Velocity: mgl64.Vec2{0, 5}, Width: 4, Height: 4, Damage: 1})
	require.NoError(t, err)
	sinking.Advance(arena)
	assert.False(t, sinking.Active)
}
