package evasion

import (
	"errors"
	"fmt"
	"math"

	"github.com/cxd309/evasion-engine/internal/kinematics"
)

// ErrInvalidProfile is returned when agent constants cannot drive evasion.
var ErrInvalidProfile = errors.New("invalid agent profile")

// BlockedStepPolicy decides what the agent does when stopping on its final
// step toward a destination would leave it in a confirmed threat's path.
type BlockedStepPolicy string

const (
	// BlockedStepHold keeps horizontal velocity at zero and reports the
	// destination as not reached.
	BlockedStepHold BlockedStepPolicy = "hold"
	// BlockedStepReverse reverses horizontal velocity, backing off the
	// destination.
	BlockedStepReverse BlockedStepPolicy = "reverse"
)

// Profile holds the fixed movement constants of one agent. Speeds are in
// pixels/tick, gravity in pixels/tick² (positive is downward).
type Profile struct {
	StepSpeed   float64           `json:"step_speed" jsonschema:"required,minimum=0,exclusiveMinimum=true"`
	JumpSpeed   float64           `json:"jump_speed" jsonschema:"required,minimum=0,exclusiveMinimum=true"`
	JumpHeight  int               `json:"jump_height" jsonschema:"required,minimum=0"` // ascent ticks ×2
	Gravity     float64           `json:"gravity" jsonschema:"required,minimum=0,exclusiveMinimum=true"`
	BlockedStep BlockedStepPolicy `json:"blocked_step,omitempty" jsonschema:"enum=hold,enum=reverse"`
}

// DefaultProfile returns the constants of a stock ground-walking agent.
func DefaultProfile() Profile {
	return Profile{
		StepSpeed:   2,
		JumpSpeed:   5.01,
		JumpHeight:  15,
		Gravity:     0.3,
		BlockedStep: BlockedStepHold,
	}
}

// Validate checks that the profile describes an agent able to walk and jump.
func (p Profile) Validate() error {
	switch {
	case !positive(p.StepSpeed):
		return fmt.Errorf("%w: step_speed must be > 0, got %g", ErrInvalidProfile, p.StepSpeed)
	case !positive(p.JumpSpeed):
		return fmt.Errorf("%w: jump_speed must be > 0, got %g", ErrInvalidProfile, p.JumpSpeed)
	case !positive(p.Gravity):
		return fmt.Errorf("%w: gravity must be > 0, got %g", ErrInvalidProfile, p.Gravity)
	case p.JumpHeight < 0:
		return fmt.Errorf("%w: jump_height must be >= 0, got %d", ErrInvalidProfile, p.JumpHeight)
	}
	switch p.BlockedStep {
	case "", BlockedStepHold, BlockedStepReverse:
		return nil
	default:
		return fmt.Errorf("%w: unknown blocked_step policy %q", ErrInvalidProfile, p.BlockedStep)
	}
}

// ApexTime returns the ticks from take-off to the top of a jump that
// decelerates under gravity alone.
func (p Profile) ApexTime() float64 {
	rise := -(p.JumpSpeed * p.JumpSpeed) / (2 * p.Gravity)
	return kinematics.SolveTime(-p.JumpSpeed, p.Gravity, rise)
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0)
}
