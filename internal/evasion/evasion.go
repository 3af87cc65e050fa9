// Package evasion is the per-tick decision logic of an agent dodging
// projectiles. Each tick it picks the biggest threat, waits for the pick to
// hold for two consecutive ticks, and then either jumps over a threat coming
// in from the side or steps clear of one coming from above or below.
package evasion

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/evasion-engine/internal/collision"
	"github.com/cxd309/evasion-engine/internal/threat"
)

// Controller evaluates the evasion state machine for agents sharing one
// Profile. It holds no per-agent state and is safe to reuse across agents.
type Controller struct {
	profile Profile
	score   threat.ScoreFunc
	logger  *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithScore sets the threat scoring strategy. The default is
// threat.InverseDistance.
func WithScore(fn threat.ScoreFunc) Option {
	return func(c *Controller) {
		if fn != nil {
			c.score = fn
		}
	}
}

// WithLogger sets the logger transitions are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController validates p and returns a controller for it.
func NewController(p Profile, opts ...Option) (*Controller, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.BlockedStep == "" {
		p.BlockedStep = BlockedStepHold
	}
	c := &Controller{
		profile: p,
		score:   threat.InverseDistance,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Profile returns the controller's agent constants.
func (c *Controller) Profile() Profile { return c.profile }

// Step runs one tick of the state machine and returns the agent's next state
// and the velocity it should move with.
func (c *Controller) Step(st State, in Input) (State, Decision) {
	d := Decision{
		Velocity: in.Agent.State.Velocity,
		Action:   ActionNone,
		Hit:      collision.NoHit,
	}
	st.Danger = false

	var current *threat.Threat
	if in.JustHit {
		if st.HasThreat() {
			c.logger.Debug("threat released", slog.String("threat", st.CurrentThreat.String()), slog.String("reason", "damaged"))
		}
		st.clearThreat()
		d.Action = ActionStunned
	} else {
		current = c.track(&st, in)
		if current != nil && st.TicksSinceThreatLocked > 1 {
			c.react(&st, in, current, &d)
		}
		if !st.HasThreat() {
			current = nil
		}
	}

	if !st.Danger && st.TicksSinceLastDanger > 1 && math.Abs(in.PursuitX-in.Agent.State.Position.X()) > 1 {
		agent := in.Agent
		agent.State = agent.State.WithVelocity(d.Velocity)
		v, res := c.AttemptMoveToward(st, agent, in.Grounded, current, in.PursuitX)
		d.Velocity = v
		if d.Action == ActionNone && res != MoveRejected {
			d.Action = ActionPursue
			d.Move = res
		}
	}

	if st.PendingJumpFrames > 0 {
		if d.Velocity.Y() == 0 {
			st.PendingJumpFrames = 0
		} else {
			d.Velocity[1] = -c.profile.JumpSpeed
			st.PendingJumpFrames--
		}
	}

	grounded := in.Grounded && d.Velocity.Y() == 0
	if grounded {
		st.TicksSinceLastDanger++
	}
	if st.WasInDanger && grounded && st.PendingJumpFrames == 0 && st.TicksSinceLastDanger > 1 {
		st.WasInDanger = false
	}

	st.Phase = settle(st, in)
	return st, d
}

// track refreshes the tracked threat. Grounded agents rerun selection;
// airborne agents keep what they had, looked up in this tick's snapshot.
func (c *Controller) track(st *State, in Input) *threat.Threat {
	if !in.Grounded {
		return c.lookup(st, in.Candidates, "lost in flight")
	}

	cand, ok := threat.SelectLargest(in.Candidates, in.Agent, c.score)
	if !ok {
		if !st.HasThreat() {
			return nil
		}
		st.MissedSelections++
		// A gap breaks the lock streak; the next selection starts over at 1.
		st.TicksSinceThreatLocked = 0
		if st.MissedSelections >= 2 {
			c.release(st, "no confirmed threat")
			return nil
		}
		return c.lookup(st, in.Candidates, "vanished")
	}

	st.MissedSelections = 0
	if cand.ID == st.CurrentThreat {
		st.TicksSinceThreatLocked++
	} else {
		st.CurrentThreat = cand.ID
		st.TicksSinceThreatLocked = 1
		c.logger.Debug("threat locked", slog.String("threat", cand.ID.String()), slog.Float64("severity", cand.Severity))
	}
	return threat.New(cand)
}

func (c *Controller) lookup(st *State, candidates []threat.Candidate, reason string) *threat.Threat {
	if !st.HasThreat() {
		return nil
	}
	cand, ok := threat.Find(candidates, st.CurrentThreat)
	if !ok || !cand.Qualifies() {
		c.release(st, reason)
		return nil
	}
	return threat.New(cand)
}

func (c *Controller) release(st *State, reason string) {
	c.logger.Debug("threat released", slog.String("threat", st.CurrentThreat.String()), slog.String("reason", reason))
	st.clearThreat()
}

// react acts on a debounced threat: jump over side strikes, step clear of
// strikes from above or below.
func (c *Controller) react(st *State, in Input, th *threat.Threat, d *Decision) {
	hit := th.Hit(in.Agent)
	d.Hit = hit
	if hit.Never() {
		return
	}
	st.Danger = th.WillCollideWithTarget(in.Agent, hit.Time)
	if !st.Danger {
		return
	}

	switch {
	case hit.Side.Horizontal():
		if !in.Grounded || d.Velocity.Y() != 0 || c.profile.ApexTime() > hit.Time {
			return
		}
		d.Velocity[1] = -c.profile.JumpSpeed
		d.Action = ActionJump
		st.PendingJumpFrames = c.profile.JumpHeight / 2
		c.logger.Debug("evasive jump", slog.String("threat", th.ID().String()), slog.Float64("hit_time", hit.Time), slog.String("side", hit.Side.String()))
		st.clearThreat()
		st.WasInDanger = true

	case hit.Side.Vertical():
		safeX := th.SafeHorizontalPosition(in.Agent, hit.Time)
		v, res := c.AttemptMoveToward(*st, in.Agent, in.Grounded, th, safeX)
		d.Velocity = v
		d.Action = ActionEvade
		d.Move = res
		if !res.Done() {
			return
		}
		agent := in.Agent
		agent.State = agent.State.WithVelocity(v)
		resume := collision.Solve(agent, th.Candidate().Body()).Time
		if math.IsInf(resume, 1) {
			resume = hit.Time
		}
		c.logger.Debug("evasive move", slog.String("threat", th.ID().String()), slog.Float64("safe_x", safeX), slog.Float64("resume_in", resume))
		st.clearThreat()
		st.WasInDanger = true
		st.TicksSinceLastDanger = -resume
	}
}

func settle(st State, in Input) Phase {
	switch {
	case in.JustHit:
		return PhaseStunned
	case st.Danger:
		return PhaseEvading
	case st.WasInDanger:
		return PhaseCooldown
	case st.HasThreat():
		return PhaseTracking
	default:
		return PhaseIdle
	}
}

// AttemptMoveToward steers the agent's horizontal velocity toward targetX
// without walking into th, if th is non-nil. It returns the new velocity and
// the outcome; a rejected move leaves velocity unchanged.
func (c *Controller) AttemptMoveToward(st State, agent collision.Body, grounded bool, th *threat.Threat, targetX float64) (mgl64.Vec2, MoveResult) {
	v := agent.State.Velocity
	if math.IsNaN(targetX) || math.IsInf(targetX, 0) || !grounded || v.Y() != 0 {
		return v, MoveRejected
	}

	step := c.profile.StepSpeed
	dist := agent.State.Position.X() - targetX
	blocked := func(vx float64) bool {
		if th == nil {
			return false
		}
		moved := agent
		moved.State = agent.State.WithVelocity(mgl64.Vec2{vx, v.Y()})
		_, ok := th.Confirmed(moved)
		return ok
	}

	if math.Abs(dist) <= step {
		if !blocked(0) {
			v[0] = 0
			return v, MoveArrived
		}
		switch c.profile.BlockedStep {
		case BlockedStepReverse:
			v[0] = reversed(v.X(), dist, step)
		default:
			v[0] = 0
		}
		return v, MoveBlocked
	}

	// Knocked back past the target, or standing still.
	if sign(dist)+sign(v.X()) != 0 {
		if math.Abs(v.X()) > step {
			v[0] /= 5
			return v, MoveUnderway
		}
		v[0] = -step * sign(dist)
		if !st.Danger && blocked(v[0]) {
			v[0] = 0
			return v, MoveBlocked
		}
		return v, MoveCommitted
	}

	prev := v.X()
	v[0] = -step * sign(dist)
	if blocked(v[0]) {
		v[0] = prev
		return v, MoveBlocked
	}
	return v, MoveUnderway
}

func reversed(vx, dist, step float64) float64 {
	if vx != 0 {
		return -vx
	}
	if dist != 0 {
		return math.Copysign(step, dist)
	}
	return -step
}

func sign(f float64) float64 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	}
	return 0
}

// String implements fmt.Stringer; the engine logs it once per tick.
func (d Decision) String() string {
	return fmt.Sprintf("%s v=(%.2f, %.2f) hit=%s@%.2f", d.Action, d.Velocity.X(), d.Velocity.Y(), d.Hit.Side, d.Hit.Time)
}
