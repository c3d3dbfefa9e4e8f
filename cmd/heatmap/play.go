package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/config"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/bitboard"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/core"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/events"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/heatmap"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/mapgen"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/session"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/simulation"
)

// player runs rounds of estimation for one session at a time. Settings are
// read at the start of every round so config reloads apply to the next one.
type player struct {
	table    *bitboard.PlacementTable
	settings func() config.SimulationConfig
	showGrid bool
	out      io.Writer
	logger   zerolog.Logger
	bus      *events.EventBus
	round    uint64
}

func newPlayer(settings func() config.SimulationConfig, showGrid bool, out io.Writer, logger zerolog.Logger) *player {
	bus := events.NewEventBus()
	bus.Subscribe(subscribers.NewLoggerSubscriber("session-log", logger, zerolog.DebugLevel))
	return &player{
		table:    bitboard.NewPlacementTable(),
		settings: settings,
		showGrid: showGrid,
		out:      out,
		logger:   logger.With().Str("component", "player").Logger(),
		bus:      bus,
	}
}

func (p *player) newSession(fleet core.Fleet) *session.Session {
	return session.New(fleet, p.logger, session.WithPublisher(p.bus))
}

// estimate produces the heatmap for the session's current knowledge.
func (p *player) estimate(ctx context.Context, s *session.Session) (*heatmap.Counts, simulation.Stats, string, error) {
	cfg := p.settings()
	finder, err := bitboard.FinderByName(cfg.AnchorFinder)
	if err != nil {
		return nil, simulation.Stats{}, "", err
	}
	selector, err := bitboard.SelectorByName(cfg.Selector)
	if err != nil {
		return nil, simulation.Stats{}, "", err
	}
	sampler := bitboard.NewSampler(p.table, bitboard.WithFinder(finder), bitboard.WithSelector(selector))
	runner := simulation.NewRunner(sampler, cfg.Workers, p.logger)

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	p.round++
	job := s.Job(cfg.Trials, seed+p.round)

	if cfg.Mode == config.ModeExhaustive {
		counts, stats, err := runner.Enumerate(ctx, job, cfg.MaxBoards)
		if !errors.Is(err, simulation.ErrBudgetExceeded) {
			return counts, stats, config.ModeExhaustive, err
		}
		p.logger.Warn().Uint64("max_boards", cfg.MaxBoards).Msg("Too many boards to enumerate, sampling instead")
	}

	counts, stats, err := runner.Run(ctx, job)
	if errors.Is(err, simulation.ErrNoAcceptedTrials) {
		// Rare layouts around known hits can defeat rejection sampling; the
		// remaining fleet is then small enough to enumerate.
		p.logger.Warn().Msg("No sampled board fits the known hits, enumerating instead")
		counts, stats, err = runner.Enumerate(ctx, job, cfg.MaxBoards)
		return counts, stats, config.ModeExhaustive, err
	}
	return counts, stats, config.ModeSample, err
}

// advise estimates the heatmap and prints it with the suggested shot.
func (p *player) advise(ctx context.Context, s *session.Session) (core.Coordinate, error) {
	counts, stats, mode, err := p.estimate(ctx, s)
	if err != nil {
		return core.Coordinate{}, err
	}
	grid := s.Grid()
	guess, prob, ok := counts.BestGuess(&grid)
	if !ok {
		return core.Coordinate{}, fmt.Errorf("no cell left to shoot at")
	}
	p.bus.Publish(events.NewRoundEstimatedEvent(s.ID(), stats.RunID, mode,
		stats.Tallied, stats.Discarded, stats.Elapsed, guess, prob))
	if p.showGrid {
		fmt.Fprintf(p.out, "%s\n", grid.String())
	}
	fmt.Fprintf(p.out, "%s\nShips left: %v\nSuggested shot: %s (%.1f%%)\n",
		counts, s.Remaining().Lengths(), guess, prob*100)
	return guess, nil
}

// autoplay hides a random fleet and shoots at it until it is sunk. It returns
// the number of shots fired.
func (p *player) autoplay(ctx context.Context, fleet core.Fleet) (int, error) {
	seed := p.settings().Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	gen := mapgen.NewGenerator(mapgen.DefaultFleetConfig(), rand.New(rand.NewSource(int64(seed))))
	hidden, err := gen.GenerateFleet(fleet)
	if err != nil {
		return 0, err
	}

	s := p.newSession(fleet)
	for s.Phase() != session.PhaseFinished {
		if s.Shots() >= core.Cells {
			return s.Shots(), fmt.Errorf("fleet still afloat after %d shots", s.Shots())
		}
		guess, err := p.advise(ctx, s)
		if err != nil {
			return s.Shots(), err
		}

		outcome := session.Miss
		if hit, sunk := hidden.Fire(guess); sunk != nil {
			outcome = session.Kill
		} else if hit {
			outcome = session.Hit
		}
		fmt.Fprintf(p.out, "Shot %d at %s: %s\n\n", s.Shots()+1, guess, outcome)
		if err := s.Report(guess, outcome); err != nil {
			return s.Shots(), err
		}
	}
	return s.Shots(), nil
}

// interactive reads "<coordinate> <hit|miss|kill>" lines until the fleet is
// sunk, the input ends or the user types quit.
func (p *player) interactive(ctx context.Context, fleet core.Fleet, in io.Reader) error {
	s := p.newSession(fleet)
	scanner := bufio.NewScanner(in)

	for s.Phase() != session.PhaseFinished {
		guess, err := p.advise(ctx, s)
		if err != nil {
			return err
		}
		if err := s.Aim(guess); err != nil {
			return err
		}

		for {
			fmt.Fprint(p.out, "Report (e.g. \"3 4 hit\", \"B7 miss\", \"kill\" for the suggested cell): ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "quit" || line == "exit" {
				return nil
			}
			c, outcome, err := parseReport(line, guess)
			if err == nil {
				err = s.Report(c, outcome)
			}
			if err != nil {
				fmt.Fprintf(p.out, "Error: %v\n", err)
				continue
			}
			break
		}
	}
	fmt.Fprintf(p.out, "Fleet sunk in %d shots.\n", s.Shots())
	return nil
}

// parseReport reads an optional coordinate followed by an outcome. Without a
// coordinate the report applies to the suggested cell.
func parseReport(line string, suggested core.Coordinate) (core.Coordinate, session.Outcome, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return core.Coordinate{}, 0, fmt.Errorf("empty report")
	}
	outcome, err := session.ParseOutcome(fields[len(fields)-1])
	if err != nil {
		return core.Coordinate{}, 0, err
	}
	if len(fields) == 1 {
		return suggested, outcome, nil
	}
	c, err := core.ParseCoordinate(strings.Join(fields[:len(fields)-1], " "))
	if err != nil {
		return core.Coordinate{}, 0, err
	}
	return c, outcome, nil
}
