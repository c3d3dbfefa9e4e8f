package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/bitboard"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/core"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/events"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/simulation"
)

// Outcome is the opponent's answer to a shot.
type Outcome int

const (
	Miss Outcome = iota
	Hit
	Kill
)

func (o Outcome) String() string {
	switch o {
	case Miss:
		return "miss"
	case Hit:
		return "hit"
	case Kill:
		return "kill"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// ParseOutcome accepts the outcome names and their first letters.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "miss", "m":
		return Miss, nil
	case "hit", "h":
		return Hit, nil
	case "kill", "k", "sunk", "sink":
		return Kill, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownOutcome)
}

// Session is the cumulative knowledge of one game: what every reported cell
// holds and which ships are still afloat. In its grid, cells of sunk ships are
// core.Ship and hits on ships still afloat are core.ShipHit.
type Session struct {
	mu        sync.RWMutex
	id        string
	grid      core.CellGrid
	remaining core.Fleet
	phase     Phase
	target    core.Coordinate
	history   []Transition
	shots     int
	started   time.Time
	logger    zerolog.Logger

	publisher events.Publisher
	pending   []events.Event
}

// Option configures a Session.
type Option func(*Session)

// WithPublisher sends the session's events to p. Events are published after
// the session lock is released, so subscribers may query the session.
func WithPublisher(p events.Publisher) Option {
	return func(s *Session) { s.publisher = p }
}

// New starts a session against the given fleet.
func New(fleet core.Fleet, logger zerolog.Logger, opts ...Option) *Session {
	id := uuid.New().String()
	s := &Session{
		id:        id,
		grid:      core.NewCellGrid(),
		remaining: append(core.Fleet(nil), fleet...),
		history:   make([]Transition, 0, 64),
		started:   time.Now(),
		logger:    logger.With().Str("component", "session").Str("session_id", id).Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.remaining) == 0 {
		s.phase = PhaseFinished
	}
	s.emit(events.NewSessionStartedEvent(id, s.remaining.Lengths()))
	s.publish(s.takePending())
	return s
}

// emit queues an event. Callers hold s.mu or own s exclusively.
func (s *Session) emit(e events.Event) {
	if s.publisher != nil {
		s.pending = append(s.pending, e)
	}
}

func (s *Session) takePending() []events.Event {
	pending := s.pending
	s.pending = nil
	return pending
}

func (s *Session) publish(pending []events.Event) {
	for _, e := range pending {
		s.publisher.Publish(e)
	}
}

func (s *Session) ID() string { return s.id }

// Grid returns a copy of the knowledge grid.
func (s *Session) Grid() core.CellGrid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid
}

// Remaining returns a copy of the ships not yet sunk.
func (s *Session) Remaining() core.Fleet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(core.Fleet(nil), s.remaining...)
}

func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Shots is the number of reports applied so far.
func (s *Session) Shots() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shots
}

// History returns a copy of the phase transitions.
func (s *Session) History() []Transition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := make([]Transition, len(s.history))
	copy(history, s.history)
	return history
}

// Aim announces the next shot. The cell must not have been reported yet.
func (s *Session) Aim(c core.Coordinate) error {
	s.mu.Lock()
	err := s.aim(c)
	pending := s.takePending()
	s.mu.Unlock()

	s.publish(pending)
	return err
}

func (s *Session) aim(c core.Coordinate) error {
	if err := s.checkTarget(c); err != nil {
		return err
	}
	if s.phase == PhaseAiming {
		if err := s.transitionTo(PhaseAwaitingReport, "aimed at "+c.String()); err != nil {
			return err
		}
	}
	s.target = c
	return nil
}

func (s *Session) checkTarget(c core.Coordinate) error {
	if s.phase.IsTerminal() {
		return ErrSessionFinished
	}
	if !c.IsValid() {
		return fmt.Errorf("%s: %w", c, core.ErrInvalidCoordinates)
	}
	if s.grid.At(c) != core.Water {
		return fmt.Errorf("%s: %w", c, ErrCellAlreadyReported)
	}
	return nil
}

// Target is the cell of the outstanding shot, if any.
func (s *Session) Target() (core.Coordinate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.target, s.phase == PhaseAwaitingReport
}

// Report applies the outcome of a shot at c. Reporting a cell other than the
// aimed one is allowed; the report replaces the announced shot.
//
// A miss protects the cell. A hit marks it and protects its diagonal
// neighbours, which can never hold a ship. A kill marks it, takes the straight
// run of hits through it as the sunk ship, protects the ring around that ship
// and removes one ship of its length from the remaining fleet. A failed
// report leaves the session unchanged.
func (s *Session) Report(c core.Coordinate, outcome Outcome) error {
	s.mu.Lock()
	err := s.report(c, outcome)
	pending := s.takePending()
	s.mu.Unlock()

	s.publish(pending)
	return err
}

func (s *Session) report(c core.Coordinate, outcome Outcome) error {
	if err := s.checkTarget(c); err != nil {
		return err
	}
	var run []core.Coordinate
	remaining := s.remaining
	switch outcome {
	case Miss, Hit:
	case Kill:
		run = s.hitRun(c)
		var ok bool
		if remaining, ok = s.remaining.Without(len(run)); !ok {
			return fmt.Errorf("kill at %s sinks a ship of length %d: %w", c, len(run), ErrNoSuchShip)
		}
	default:
		return fmt.Errorf("%d: %w", int(outcome), ErrUnknownOutcome)
	}
	if err := s.aim(c); err != nil {
		return err
	}

	switch outcome {
	case Miss:
		s.grid.Set(c, core.Protected)
	case Hit:
		s.grid.Set(c, core.ShipHit)
		for _, d := range c.ValidDiagonals() {
			s.grid.Merge(d, core.Protected)
		}
	case Kill:
		s.remaining = remaining
		for _, cell := range run {
			s.grid.Set(cell, core.Ship)
		}
		for _, cell := range run {
			for _, n := range append(cell.ValidNeighbors(), cell.ValidDiagonals()...) {
				s.grid.Merge(n, core.Protected)
			}
		}
	}
	s.shots++

	event := s.logger.Info().
		Str("cell", c.String()).
		Str("outcome", outcome.String()).
		Int("shots", s.shots).
		Int("ships_left", len(s.remaining))
	if run != nil {
		event = event.Int("sunk_length", len(run))
	}
	event.Msg("Report applied")
	s.emit(events.NewShotReportedEvent(s.id, c, outcome.String(), s.shots))
	if run != nil {
		s.emit(events.NewShipSunkEvent(s.id, run, len(s.remaining)))
	}

	if len(s.remaining) > 0 {
		return s.transitionTo(PhaseAiming, outcome.String()+" at "+c.String())
	}
	if err := s.transitionTo(PhaseFinished, "fleet sunk"); err != nil {
		return err
	}
	s.emit(events.NewSessionFinishedEvent(s.id, s.shots, time.Since(s.started)))
	return nil
}

// hitRun returns c together with every unsunk hit reachable from it through
// orthogonal neighbours.
func (s *Session) hitRun(c core.Coordinate) []core.Coordinate {
	run := []core.Coordinate{c}
	seen := map[core.Coordinate]bool{c: true}
	for i := 0; i < len(run); i++ {
		for _, n := range run[i].ValidNeighbors() {
			if !seen[n] && s.grid.At(n) == core.ShipHit {
				seen[n] = true
				run = append(run, n)
			}
		}
	}
	return run
}

// Job builds a simulation job for the current knowledge. Sunk ships enter the
// board as ships; hits on ships still afloat enter it as water and must be
// covered by every tallied trial.
func (s *Session) Job(trials int, seed uint64) simulation.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seedGrid := s.grid
	var hits []int
	for idx := 0; idx < core.Cells; idx++ {
		if seedGrid.AtIndex(idx) == core.ShipHit {
			hits = append(hits, idx)
			seedGrid.Set(core.FromIndex(idx), core.Water)
		}
	}
	return simulation.Job{
		Board:    bitboard.Encode(&seedGrid),
		Required: bitboard.CellMask(hits...),
		Fleet:    append(core.Fleet(nil), s.remaining...),
		Trials:   trials,
		Seed:     seed,
	}
}
