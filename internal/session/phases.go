package session

import (
	"fmt"
	"time"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/events"
)

// Phase is where a session stands in the shoot-and-report cycle.
type Phase int

const (
	// PhaseAiming - waiting for the next shot to be chosen
	PhaseAiming Phase = iota

	// PhaseAwaitingReport - a shot is out, its outcome is unknown
	PhaseAwaitingReport

	// PhaseFinished - every ship is sunk
	PhaseFinished
)

// String returns the string representation of a Phase
func (p Phase) String() string {
	switch p {
	case PhaseAiming:
		return "Aiming"
	case PhaseAwaitingReport:
		return "AwaitingReport"
	case PhaseFinished:
		return "Finished"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if no further shots can be taken
func (p Phase) IsTerminal() bool {
	return p == PhaseFinished
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p Phase) AllowedTransitions() []Phase {
	switch p {
	case PhaseAiming:
		return []Phase{PhaseAwaitingReport}
	case PhaseAwaitingReport:
		return []Phase{PhaseAiming, PhaseFinished}
	default:
		return []Phase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// Transition represents a phase change in the history
type Transition struct {
	From      Phase
	To        Phase
	Timestamp time.Time
	Reason    string
}

const maxHistorySize = 1000

// transitionTo moves the session to target and records it. Callers hold s.mu.
func (s *Session) transitionTo(target Phase, reason string) error {
	if !s.phase.CanTransitionTo(target) {
		return fmt.Errorf("from %s to %s: %w", s.phase, target, ErrInvalidTransition)
	}
	s.history = append(s.history, Transition{
		From:      s.phase,
		To:        target,
		Timestamp: time.Now(),
		Reason:    reason,
	})
	if len(s.history) > maxHistorySize {
		s.history = s.history[len(s.history)-maxHistorySize:]
	}

	s.logger.Debug().
		Str("from_phase", s.phase.String()).
		Str("to_phase", target.String()).
		Str("reason", reason).
		Msg("Phase transition completed")
	s.emit(events.NewStateTransitionEvent(s.id, s.phase.String(), target.String(), reason))
	s.phase = target
	return nil
}
