package simulation

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/bitboard"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/heatmap"
)

// DefaultMaxBoards caps Enumerate when the caller passes no budget.
const DefaultMaxBoards = 50_000_000

// Enumerate counts every distinct legal completion of the job's board instead
// of sampling. Ships of equal length are interchangeable, so each set of
// placements is tallied once and every board carries equal weight. Job.Trials
// and Job.Seed are ignored.
//
// Once more than maxBoards boards have been tallied the search stops with
// ErrBudgetExceeded. A zero maxBoards means DefaultMaxBoards.
func (r *Runner) Enumerate(ctx context.Context, job Job, maxBoards uint64) (*heatmap.Counts, Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}
	if maxBoards == 0 {
		maxBoards = DefaultMaxBoards
	}
	start := time.Now()
	stats := Stats{RunID: uuid.New().String(), Workers: r.workers}
	logger := r.logger.With().Str("run_id", stats.RunID).Str("mode", "exhaustive").Logger()

	lengths := job.Fleet.Lengths()
	slices.SortFunc(lengths, func(a, b int) int { return b - a })

	if len(lengths) == 0 {
		counts := heatmap.NewCounts()
		if job.Board.Covers(job.Required) {
			counts.AddBitBoard(job.Board)
		}
		stats.Tallied = counts.Trials()
		stats.Elapsed = time.Since(start)
		return counts, stats, finishEnumeration(stats)
	}

	var roots []int
	r.sampler.LegalAnchors(&job.Board, lengths[0]).Each(func(anchor int) {
		roots = append(roots, anchor)
	})

	var tallied atomic.Uint64
	parts := make([]*heatmap.Counts, len(roots))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, anchor := range roots {
		g.Go(func() error {
			e := &enumerator{
				ctx:      ctx,
				sampler:  r.sampler,
				required: job.Required,
				lengths:  lengths,
				budget:   maxBoards,
				tallied:  &tallied,
				counts:   heatmap.NewCounts(),
			}
			b := job.Board
			b.Place(r.sampler.Table(), anchor, lengths[0])
			if err := e.descend(b, 1, anchor); err != nil {
				return err
			}
			parts[i] = e.counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn().Err(err).Uint64("tallied", tallied.Load()).Msg("Enumeration abandoned")
		return nil, stats, fmt.Errorf("enumeration %s: %w", stats.RunID, err)
	}

	counts := heatmap.MergeAll(parts...)
	stats.Tallied = counts.Trials()
	stats.Attempted = stats.Tallied
	stats.Elapsed = time.Since(start)
	logger.Info().
		Uint64("boards", stats.Tallied).
		Int("roots", len(roots)).
		Dur("elapsed", stats.Elapsed).
		Msg("Enumeration finished")
	return counts, stats, finishEnumeration(stats)
}

func finishEnumeration(stats Stats) error {
	if stats.Tallied == 0 {
		return ErrNoAcceptedTrials
	}
	return nil
}

type enumerator struct {
	ctx      context.Context
	sampler  *bitboard.Sampler
	required [2]uint64
	lengths  []int
	budget   uint64
	tallied  *atomic.Uint64
	counts   *heatmap.Counts
	visited  uint64
}

// descend places lengths[depth:] on b. prev is the anchor used for
// lengths[depth-1].
func (e *enumerator) descend(b bitboard.BitBoard, depth, prev int) error {
	e.visited++
	if e.visited&ctxCheckMask == 0 {
		if err := e.ctx.Err(); err != nil {
			return err
		}
	}
	if e.stranded(b) {
		return nil
	}
	if depth == len(e.lengths) {
		if !b.Covers(e.required) {
			return nil
		}
		if e.tallied.Add(1) > e.budget {
			return fmt.Errorf("more than %d boards: %w", e.budget, ErrBudgetExceeded)
		}
		e.counts.AddBitBoard(b)
		return nil
	}

	length := e.lengths[depth]
	sameAsPrev := length == e.lengths[depth-1]
	var err error
	e.sampler.LegalAnchors(&b, length).Each(func(anchor int) {
		if err != nil || (sameAsPrev && anchor <= prev) {
			return
		}
		next := b
		next.Place(e.sampler.Table(), anchor, length)
		err = e.descend(next, depth+1, anchor)
	})
	return err
}

// stranded reports whether a required cell is already protected without
// holding a ship. No later placement can cover it.
func (e *enumerator) stranded(b bitboard.BitBoard) bool {
	ship, protected := b.ShipWords(), b.ProtectedWords()
	for w := range e.required {
		if e.required[w]&protected[w]&^ship[w] != 0 {
			return true
		}
	}
	return false
}
