package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/bitboard"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/core"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/heatmap"
)

// ctxCheckMask sets how often workers look at the context.
const ctxCheckMask = 1<<12 - 1

// Job describes one batch of trials.
type Job struct {
	// Board is the known state every trial starts from.
	Board bitboard.BitBoard
	// Required cells must be covered by a placed ship for a trial to count.
	Required [2]uint64
	// Fleet is placed in order, one draw per ship.
	Fleet  core.Fleet
	Trials int
	// Seed selects the random streams; worker w draws from PCG(Seed, w).
	Seed uint64
}

// DrawSource yields the uniform 32-bit draws a worker feeds to the sampler.
type DrawSource func() uint32

// NewDrawSource returns stream number stream of the PCG family keyed by seed.
// Distinct streams are independent.
func NewDrawSource(seed, stream uint64) DrawSource {
	return rand.New(rand.NewPCG(seed, stream)).Uint32
}

// Stats summarises a finished batch.
type Stats struct {
	RunID     string
	Workers   int
	Attempted uint64
	Tallied   uint64
	Discarded uint64
	Elapsed   time.Duration
}

// Runner spreads trials over a fixed pool of workers. Each worker owns its
// tally and its random stream; the only shared data is the read-only sampler.
type Runner struct {
	sampler *bitboard.Sampler
	workers int
	logger  zerolog.Logger
}

// NewRunner creates a runner. workers <= 0 means one per CPU.
func NewRunner(sampler *bitboard.Sampler, workers int, logger zerolog.Logger) *Runner {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{
		sampler: sampler,
		workers: workers,
		logger:  logger.With().Str("component", "simulation_runner").Logger(),
	}
}

// Workers is the size of the worker pool.
func (r *Runner) Workers() int { return r.workers }

// Run executes the job. Trials are split into contiguous chunks, one per
// worker, and the partial tallies are merged pairwise at the end. The result
// depends only on the job and the worker count. Cancelling ctx abandons the
// whole batch.
func (r *Runner) Run(ctx context.Context, job Job) (*heatmap.Counts, Stats, error) {
	if job.Trials <= 0 {
		return nil, Stats{}, ErrNoTrials
	}
	start := time.Now()
	stats := Stats{RunID: uuid.New().String(), Workers: min(r.workers, job.Trials)}
	logger := r.logger.With().Str("run_id", stats.RunID).Logger()
	logger.Debug().
		Int("trials", job.Trials).
		Int("workers", stats.Workers).
		Int("ships", len(job.Fleet)).
		Msg("Starting simulation batch")

	parts := make([]*heatmap.Counts, stats.Workers)
	discarded := make([]uint64, stats.Workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < stats.Workers; w++ {
		lo := job.Trials * w / stats.Workers
		hi := job.Trials * (w + 1) / stats.Workers
		g.Go(func() error {
			counts, dropped, err := r.runChunk(ctx, job, w, hi-lo)
			parts[w], discarded[w] = counts, dropped
			return err
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn().Err(err).Msg("Simulation batch abandoned")
		return nil, stats, fmt.Errorf("simulation run %s: %w", stats.RunID, err)
	}

	total := heatmap.MergeAll(parts...)
	for _, d := range discarded {
		stats.Discarded += d
	}
	stats.Tallied = total.Trials()
	stats.Attempted = stats.Tallied + stats.Discarded
	stats.Elapsed = time.Since(start)

	logger.Info().
		Uint64("tallied", stats.Tallied).
		Uint64("discarded", stats.Discarded).
		Int("workers", stats.Workers).
		Dur("elapsed", stats.Elapsed).
		Msg("Simulation batch finished")

	if stats.Tallied == 0 {
		return total, stats, ErrNoAcceptedTrials
	}
	return total, stats, nil
}

func (r *Runner) runChunk(ctx context.Context, job Job, worker, trials int) (*heatmap.Counts, uint64, error) {
	next := NewDrawSource(job.Seed, uint64(worker))
	counts := heatmap.NewCounts()
	draws := make([]uint32, len(job.Fleet))
	var discarded uint64

	for i := 0; i < trials; i++ {
		if i&ctxCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		for k := range draws {
			draws[k] = next()
		}
		b, ok := r.sampler.TryPlaceFleet(job.Board, job.Fleet, draws)
		if !ok || !b.Covers(job.Required) {
			discarded++
			continue
		}
		counts.AddBitBoard(b)
	}
	return counts, discarded, nil
}
