package evasion

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/cxd309/evasion-engine/internal/collision"
	"github.com/cxd309/evasion-engine/internal/threat"
)

// Phase is the agent's position in the evasion state machine.
type Phase string

const (
	PhaseIdle     Phase = "idle"     // no tracked threat
	PhaseTracking Phase = "tracking" // threat selected, not yet acted on
	PhaseEvading  Phase = "evading"  // confirmed danger, reaction in progress
	PhaseCooldown Phase = "cooldown" // threat resolved, waiting to land or resume
	PhaseStunned  Phase = "stunned"  // damaged this tick
)

// State is everything the controller carries from one tick to the next for
// one agent. It is owned by that agent and threaded through Step by value.
type State struct {
	Phase Phase `json:"phase" msgpack:"phase"`
	// CurrentThreat keys into the current tick's candidates; uuid.Nil is none.
	CurrentThreat          uuid.UUID `json:"current_threat" msgpack:"current_threat"`
	Danger                 bool      `json:"danger" msgpack:"danger"`
	WasInDanger            bool      `json:"was_in_danger" msgpack:"was_in_danger"`
	TicksSinceThreatLocked int       `json:"ticks_since_threat_locked" msgpack:"ticks_since_threat_locked"`
	// TicksSinceLastDanger is the resume timer. An evasive move sets it to
	// minus the predicted impact time; pursuit resumes once it exceeds 1.
	TicksSinceLastDanger float64 `json:"ticks_since_last_danger" msgpack:"ticks_since_last_danger"`
	PendingJumpFrames    int     `json:"pending_jump_frames" msgpack:"pending_jump_frames"`
	MissedSelections     int     `json:"missed_selections" msgpack:"missed_selections"`
}

// NewState returns the state of a freshly spawned agent.
func NewState() State {
	return State{Phase: PhaseIdle}
}

// HasThreat reports whether a threat is currently tracked.
func (s State) HasThreat() bool { return s.CurrentThreat != uuid.Nil }

func (s *State) clearThreat() {
	s.CurrentThreat = uuid.Nil
	s.TicksSinceThreatLocked = 0
	s.MissedSelections = 0
	s.Danger = false
}

// Input is the host's snapshot of one tick for one agent.
type Input struct {
	Agent    collision.Body
	Grounded bool
	// JustHit is set when the agent took damage since the previous tick.
	JustHit    bool
	PursuitX   float64
	Candidates []threat.Candidate
}

// Action is what the controller did with the agent this tick.
type Action string

const (
	ActionNone    Action = "none"
	ActionJump    Action = "jump"
	ActionEvade   Action = "evade_move"
	ActionPursue  Action = "pursue"
	ActionStunned Action = "stunned"
)

// MoveResult reports the outcome of one AttemptMoveToward call.
type MoveResult string

const (
	MoveRejected  MoveResult = "rejected"  // airborne or target not a finite number
	MoveBlocked   MoveResult = "blocked"   // a confirmed threat vetoed the step
	MoveUnderway  MoveResult = "underway"  // still travelling
	MoveCommitted MoveResult = "committed" // set off toward the target from rest or knock-back
	MoveArrived   MoveResult = "arrived"   // stopped at the target
)

// Done reports whether the move reached or committed to its destination.
func (m MoveResult) Done() bool {
	return m == MoveArrived || m == MoveCommitted
}

// Decision is the controller's output for one tick.
type Decision struct {
	Velocity mgl64.Vec2          `json:"velocity" msgpack:"velocity"`
	Action   Action              `json:"action" msgpack:"action"`
	Hit      collision.HitResult `json:"hit" msgpack:"hit"`
	Move     MoveResult          `json:"move,omitempty" msgpack:"move,omitempty"`
}
