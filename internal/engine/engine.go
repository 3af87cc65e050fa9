// Package engine implements the evasion simulation loop.
//
// The simulation advances one tick at a time. Each tick:
//
//  1. Observe - projectiles due this tick are spawned and every live one is
//     snapshotted as a threat candidate alongside the agent's own body.
//
//  2. Decide - the evasion controller runs once on that snapshot and returns
//     the agent's velocity for the tick.
//
//  3. Move - the agent integrates that velocity under gravity, projectiles
//     advance along their exact trajectories, and any projectile now
//     overlapping the agent strikes it. A strike is reported to the
//     controller on the following tick.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cxd309/evasion-engine/internal/evasion"
	"github.com/cxd309/evasion-engine/internal/threat"
	"github.com/cxd309/evasion-engine/internal/world"
)

// ErrInvalidInput is returned when a SimulationInput cannot be run.
var ErrInvalidInput = errors.New("invalid simulation input")

// Option configures a Sim.
type Option func(*Sim)

// WithLogger sets the logger the simulation and its controller report to.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sim) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSim constructs a Sim from a SimulationInput, placing the agent in the
// arena and resolving its controller.
func NewSim(input SimulationInput, opts ...Option) (*Sim, error) {
	if input.Meta.RunTime <= 0 {
		return nil, fmt.Errorf("%w: run_time must be at least 1 tick, got %d", ErrInvalidInput, input.Meta.RunTime)
	}

	score, err := threat.LookupScore(input.Scoring.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: scoring: %w", ErrInvalidInput, err)
	}

	agent, err := world.NewSimAgent(input.Agent, input.Arena)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	for i, spec := range input.Projectiles {
		if spec.SpawnTick < 0 {
			return nil, fmt.Errorf("%w: projectile %d (%q): negative spawn_tick %d", ErrInvalidInput, i, spec.Name, spec.SpawnTick)
		}
		if err := spec.Extent().Validate(); err != nil {
			return nil, fmt.Errorf("%w: projectile %d (%q): %w", ErrInvalidInput, i, spec.Name, err)
		}
	}

	s := &Sim{
		meta:   input.Meta,
		arena:  input.Arena,
		agent:  agent,
		specs:  input.Projectiles,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if input.Pursuit != nil {
		p := *input.Pursuit
		s.pursuit = &p
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("simulation", input.Meta.SimulationID))

	s.controller, err = evasion.NewController(input.Agent.ResolvedProfile(),
		evasion.WithScore(score),
		evasion.WithLogger(s.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s, nil
}

// Run executes the full simulation and returns the log.
func (s *Sim) Run() (SimulationLog, error) {
	log := SimulationLog{Meta: s.meta}
	for s.curTick < s.meta.RunTime {
		row, err := s.step()
		if err != nil {
			return SimulationLog{}, fmt.Errorf("at tick %d: %w", s.curTick, err)
		}
		log.Output = append(log.Output, row)
		s.curTick++
	}

	s.summary.Hits = s.agent.Hits
	s.summary.DamageTaken = s.agent.DamageTaken
	log.Summary = s.summary
	s.logger.Info("simulation complete",
		slog.Int("ticks", s.meta.RunTime),
		slog.Int("hits", s.summary.Hits),
		slog.Int("dodged", s.summary.Dodged),
		slog.Int("jumps", s.summary.Jumps),
		slog.Int("evasive_moves", s.summary.EvasiveMoves),
	)
	return log, nil
}

// step advances the simulation by one tick and returns the resulting log row.
func (s *Sim) step() (SimulationLogRow, error) {
	if err := s.spawn(); err != nil {
		return SimulationLogRow{}, err
	}

	candidates := make([]threat.Candidate, 0, len(s.projectiles))
	for _, p := range s.projectiles {
		candidates = append(candidates, p.Candidate())
	}

	in := evasion.Input{
		Agent:      s.agent.Body(),
		Grounded:   s.agent.Grounded,
		JustHit:    s.agent.JustHit,
		PursuitX:   s.pursuitX(),
		Candidates: candidates,
	}
	st, d := s.controller.Step(s.agent.Evasion, in)
	s.agent.Evasion = st
	s.agent.JustHit = false
	s.logger.Debug("tick", slog.Int("tick", s.curTick), slog.String("phase", string(st.Phase)), slog.String("decision", d.String()))

	switch {
	case d.Action == evasion.ActionJump:
		s.summary.Jumps++
	case d.Action == evasion.ActionEvade && d.Move.Done():
		s.summary.EvasiveMoves++
	}

	s.agent.Integrate(d.Velocity, s.arena)

	for _, p := range s.projectiles {
		p.Advance(s.arena)
		if !p.Hits(s.agent) {
			continue
		}
		s.agent.Strike(p)
		p.Struck = true
		p.Active = false
		s.logger.Info("agent struck",
			slog.String("projectile", p.ID.String()),
			slog.Int("tick", s.curTick),
			slog.Float64("damage", p.Damage),
		)
	}
	s.expire()

	if s.pursuit != nil {
		s.pursuit.X += s.pursuit.Speed
	}

	logs := make([]world.ProjectileLog, len(s.projectiles))
	for i, p := range s.projectiles {
		logs[i] = p.GetLog()
	}
	return SimulationLogRow{
		Tick:        s.curTick,
		Agent:       s.agent.GetLog(),
		Decision:    d,
		Projectiles: logs,
	}, nil
}

// spawn adds every projectile scheduled for the current tick.
func (s *Sim) spawn() error {
	for i, spec := range s.specs {
		if spec.SpawnTick != s.curTick {
			continue
		}
		p, err := world.NewSimProjectile(s.meta.SimulationID, i, spec)
		if err != nil {
			return fmt.Errorf("spawning: %w", err)
		}
		s.projectiles = append(s.projectiles, p)
		s.logger.Debug("projectile spawned", slog.String("projectile", p.ID.String()), slog.String("name", p.Name))
	}
	return nil
}

// expire drops projectiles that are no longer active. Hostile ones that never
// struck the agent count as dodged.
func (s *Sim) expire() {
	live := s.projectiles[:0]
	for _, p := range s.projectiles {
		if p.Active {
			live = append(live, p)
			continue
		}
		if !p.Struck && !p.Friendly {
			s.summary.Dodged++
		}
	}
	clear(s.projectiles[len(live):])
	s.projectiles = live
}

// pursuitX returns where the agent wants to be when out of danger. Without a
// pursuit target the agent holds its position.
func (s *Sim) pursuitX() float64 {
	if s.pursuit == nil {
		return s.agent.Position.X()
	}
	return s.pursuit.X
}
