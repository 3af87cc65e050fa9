package threat

import (
	"errors"
	"fmt"

	"github.com/cxd309/evasion-engine/internal/collision"
)

// ErrUnknownScore is returned by LookupScore for an unregistered model name.
var ErrUnknownScore = errors.New("unknown threat score model")

// ScoreFunc rates how threatening a candidate is to target. Higher is worse.
type ScoreFunc func(c Candidate, target collision.Body) float64

// Score model names accepted by LookupScore.
const (
	ScoreInverseDistance = "inverse_distance"
	ScoreImminence       = "imminence"
	ScoreSeverity        = "severity"
)

// InverseDistance scores severity divided by centre distance. It is the
// default model. A candidate sitting on the target's centre scores +Inf.
func InverseDistance(c Candidate, target collision.Body) float64 {
	return c.Severity / c.State.Position.Sub(target.State.Position).Len()
}

// Imminence scores severity divided by one plus the predicted ticks to impact,
// so fast threats outrank slow ones at the same distance.
func Imminence(c Candidate, target collision.Body) float64 {
	hit := New(c).Hit(target)
	if hit.Never() {
		return 0
	}
	return c.Severity / (1 + hit.Time)
}

// Severity scores by severity alone.
func Severity(c Candidate, _ collision.Body) float64 {
	return c.Severity
}

// LookupScore resolves a score model name. An empty name selects
// InverseDistance.
func LookupScore(name string) (ScoreFunc, error) {
	switch name {
	case "", ScoreInverseDistance:
		return InverseDistance, nil
	case ScoreImminence:
		return Imminence, nil
	case ScoreSeverity:
		return Severity, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScore, name)
	}
}

// SelectLargest returns the highest-scoring qualifying candidate whose own
// predicted hit on target is confirmed by sampling. Unconfirmed candidates
// score zero no matter what score reports. Candidates are scanned in snapshot
// order and ties keep the earlier one. A nil score uses InverseDistance.
func SelectLargest(candidates []Candidate, target collision.Body, score ScoreFunc) (Candidate, bool) {
	if score == nil {
		score = InverseDistance
	}

	var (
		best      Candidate
		bestScore float64
		found     bool
	)
	for _, c := range candidates {
		if !c.Qualifies() {
			continue
		}
		s := 0.0
		if _, ok := New(c).Confirmed(target); ok {
			s = score(c, target)
		}
		if s > bestScore {
			best, bestScore, found = c, s, true
		}
	}
	return best, found
}
