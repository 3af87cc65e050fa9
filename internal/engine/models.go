package engine

import (
	"log/slog"

	"github.com/cxd309/evasion-engine/internal/evasion"
	"github.com/cxd309/evasion-engine/internal/world"
)

// SimulationMeta holds the identity and length of a simulation run.
type SimulationMeta struct {
	SimulationID string `json:"simulation_id" jsonschema:"required"`
	RunTime      int    `json:"run_time" jsonschema:"required,minimum=1"` // ticks
}

// Pursuit is the position the agent walks toward while it is out of danger.
type Pursuit struct {
	X     float64 `json:"x"`
	Speed float64 `json:"speed,omitempty"` // pixels/tick the pursued position drifts by
}

// Scoring selects the threat scoring strategy by name.
//
// Supported models:
//   - "inverse_distance" (default): severity / distance between centres.
//   - "imminence": severity / (1 + time to impact).
//   - "severity": severity alone.
type Scoring struct {
	Model string `json:"model,omitempty" jsonschema:"enum=inverse_distance,enum=imminence,enum=severity"`
}

// SimulationInput is the JSON-serialisable input to the engine.
type SimulationInput struct {
	Meta        SimulationMeta         `json:"simulation_meta" jsonschema:"required"`
	Arena       world.Arena            `json:"arena" jsonschema:"required"`
	Agent       world.AgentSpec        `json:"agent" jsonschema:"required"`
	Pursuit     *Pursuit               `json:"pursuit,omitempty"`
	Scoring     Scoring                `json:"scoring,omitempty"`
	Projectiles []world.ProjectileSpec `json:"projectiles"`
}

// SimulationLogRow is the state of the agent and every live projectile at a
// single tick, along with what the controller decided on that tick.
type SimulationLogRow struct {
	Tick        int                   `json:"tick" msgpack:"tick"`
	Agent       world.AgentLog        `json:"agent" msgpack:"agent"`
	Decision    evasion.Decision      `json:"decision" msgpack:"decision"`
	Projectiles []world.ProjectileLog `json:"projectiles" msgpack:"projectiles"`
}

// Summary tallies the outcome of a run.
type Summary struct {
	Hits         int     `json:"hits" msgpack:"hits"`
	DamageTaken  float64 `json:"damage_taken" msgpack:"damage_taken"`
	Dodged       int     `json:"dodged" msgpack:"dodged"` // hostile projectiles expired without striking
	Jumps        int     `json:"jumps" msgpack:"jumps"`
	EvasiveMoves int     `json:"evasive_moves" msgpack:"evasive_moves"`
}

// SimulationLog is the complete output of a simulation run.
type SimulationLog struct {
	Meta    SimulationMeta     `json:"simulation_meta" msgpack:"simulation_meta"`
	Output  []SimulationLogRow `json:"output" msgpack:"output"`
	Summary Summary            `json:"summary" msgpack:"summary"`
}

// Sim is the evasion simulation engine state.
type Sim struct {
	meta        SimulationMeta
	arena       world.Arena
	pursuit     *Pursuit
	controller  *evasion.Controller
	agent       *world.SimAgent
	specs       []world.ProjectileSpec
	projectiles []*world.SimProjectile
	summary     Summary
	curTick     int
	logger      *slog.Logger
}
