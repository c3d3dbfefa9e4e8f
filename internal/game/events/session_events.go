package events

import (
	"time"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/core"
)

// Event type constants
const (
	TypeSessionStarted  = "session.started"
	TypeSessionFinished = "session.finished"
	TypeShotReported    = "shot.reported"
	TypeShipSunk        = "ship.sunk"
	TypeRoundEstimated  = "round.estimated"
	TypeStateTransition = "state.transition"
)

// SessionStartedEvent is published when a new session begins
type SessionStartedEvent struct {
	BaseEvent
	Fleet []int
}

// NewSessionStartedEvent creates a new SessionStartedEvent
func NewSessionStartedEvent(sessionID string, fleet []int) *SessionStartedEvent {
	return &SessionStartedEvent{
		BaseEvent: newBase(TypeSessionStarted, sessionID),
		Fleet:     fleet,
	}
}

// SessionFinishedEvent is published when the last ship is sunk
type SessionFinishedEvent struct {
	BaseEvent
	Shots    int
	Duration time.Duration
}

// NewSessionFinishedEvent creates a new SessionFinishedEvent
func NewSessionFinishedEvent(sessionID string, shots int, duration time.Duration) *SessionFinishedEvent {
	return &SessionFinishedEvent{
		BaseEvent: newBase(TypeSessionFinished, sessionID),
		Shots:     shots,
		Duration:  duration,
	}
}

// ShotReportedEvent is published after a report is applied
type ShotReportedEvent struct {
	BaseEvent
	Cell    core.Coordinate
	Outcome string
	Shot    int
}

// NewShotReportedEvent creates a new ShotReportedEvent
func NewShotReportedEvent(sessionID string, cell core.Coordinate, outcome string, shot int) *ShotReportedEvent {
	return &ShotReportedEvent{
		BaseEvent: newBase(TypeShotReported, sessionID),
		Cell:      cell,
		Outcome:   outcome,
		Shot:      shot,
	}
}

// ShipSunkEvent is published when a kill removes a ship from the fleet
type ShipSunkEvent struct {
	BaseEvent
	Cells     []core.Coordinate
	ShipsLeft int
}

// NewShipSunkEvent creates a new ShipSunkEvent
func NewShipSunkEvent(sessionID string, cells []core.Coordinate, shipsLeft int) *ShipSunkEvent {
	return &ShipSunkEvent{
		BaseEvent: newBase(TypeShipSunk, sessionID),
		Cells:     cells,
		ShipsLeft: shipsLeft,
	}
}

// RoundEstimatedEvent is published when a heatmap has been computed
type RoundEstimatedEvent struct {
	BaseEvent
	RunID       string
	Mode        string
	Tallied     uint64
	Discarded   uint64
	Elapsed     time.Duration
	Guess       core.Coordinate
	Probability float64
}

// NewRoundEstimatedEvent creates a new RoundEstimatedEvent
func NewRoundEstimatedEvent(sessionID, runID, mode string, tallied, discarded uint64, elapsed time.Duration, guess core.Coordinate, probability float64) *RoundEstimatedEvent {
	return &RoundEstimatedEvent{
		BaseEvent:   newBase(TypeRoundEstimated, sessionID),
		RunID:       runID,
		Mode:        mode,
		Tallied:     tallied,
		Discarded:   discarded,
		Elapsed:     elapsed,
		Guess:       guess,
		Probability: probability,
	}
}

// StateTransitionEvent is published when a session changes phase
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(sessionID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, sessionID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
