package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/bitboard"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/core"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/testutil"
)

var sharedTable = bitboard.NewPlacementTable()

func newTestRunner(workers int) *Runner {
	return NewRunner(bitboard.NewSampler(sharedTable), workers, testutil.NopLogger())
}

func fleetOf(t *testing.T, lengths ...int) core.Fleet {
	t.Helper()
	f, err := core.NewFleet(lengths)
	require.NoError(t, err)
	return f
}

func TestNewRunner_DefaultsWorkers(t *testing.T) {
	assert.Positive(t, newTestRunner(0).Workers())
	assert.Equal(t, 3, newTestRunner(3).Workers())
}

func TestRun_RejectsEmptyJob(t *testing.T) {
	_, _, err := newTestRunner(2).Run(context.Background(), Job{Fleet: core.DefaultFleet()})
	assert.ErrorIs(t, err, ErrNoTrials)
}

func TestRun_TalliesEveryTrialOnEmptyBoard(t *testing.T) {
	job := Job{Fleet: fleetOf(t, 3, 2), Trials: 10_000, Seed: 7}
	counts, stats, err := newTestRunner(4).Run(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, uint64(10_000), stats.Attempted)
	assert.Equal(t, uint64(10_000), stats.Tallied)
	assert.Zero(t, stats.Discarded)
	assert.Equal(t, 4, stats.Workers)
	assert.NotEmpty(t, stats.RunID)

	var cells uint64
	for idx := 0; idx < core.Cells; idx++ {
		cells += counts.Count(idx)
	}
	assert.Equal(t, uint64(10_000*5), cells, "every trial places exactly five ship cells")
}

func TestRun_Deterministic(t *testing.T) {
	job := Job{Fleet: core.DefaultFleet(), Trials: 5_000, Seed: 42}
	a, _, err := newTestRunner(3).Run(context.Background(), job)
	require.NoError(t, err)
	b, _, err := newTestRunner(3).Run(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, a.Probabilities(), b.Probabilities())

	job.Seed = 43
	c, _, err := newTestRunner(3).Run(context.Background(), job)
	require.NoError(t, err)
	assert.NotEqual(t, a.Probabilities(), c.Probabilities())
}

func TestRun_MoreWorkersThanTrials(t *testing.T) {
	job := Job{Fleet: fleetOf(t, 1), Trials: 3, Seed: 1}
	counts, stats, err := newTestRunner(8).Run(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Workers)
	assert.Equal(t, uint64(3), counts.Trials())
}

func TestRun_RotationSymmetry(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}
	job := Job{Fleet: core.DefaultFleet(), Trials: 200_000, Seed: 2024}
	counts, _, err := newTestRunner(0).Run(context.Background(), job)
	require.NoError(t, err)

	for y := 0; y < core.Size; y++ {
		for x := 0; x < core.Size; x++ {
			p := counts.Probability(core.NewCoordinate(x, y).ToIndex())
			q := counts.Probability(core.NewCoordinate(core.Size-1-y, x).ToIndex())
			assert.InDelta(t, p, q, 0.01, "cell (%d,%d)", x, y)
		}
	}
}

func TestRun_RequiredCellsAlwaysCovered(t *testing.T) {
	hit := core.NewCoordinate(4, 4).ToIndex()
	job := Job{
		Fleet:    fleetOf(t, 3, 2),
		Required: bitboard.CellMask(hit),
		Trials:   20_000,
		Seed:     9,
	}
	counts, stats, err := newTestRunner(2).Run(context.Background(), job)
	require.NoError(t, err)

	assert.Positive(t, stats.Discarded)
	assert.Equal(t, stats.Attempted, stats.Tallied+stats.Discarded)
	assert.Equal(t, 1.0, counts.Probability(hit))
	// Diagonal neighbours of a hit can never hold a ship.
	assert.Zero(t, counts.Count(core.NewCoordinate(5, 5).ToIndex()))
}

func TestRun_NoAcceptedTrials(t *testing.T) {
	var board bitboard.BitBoard
	board.Place(sharedTable, bitboard.Anchor(core.Horizontal, 0), 1)
	job := Job{
		Board:    board,
		Fleet:    fleetOf(t, 1),
		Required: bitboard.CellMask(1),
		Trials:   100,
	}
	_, stats, err := newTestRunner(2).Run(context.Background(), job)
	assert.ErrorIs(t, err, ErrNoAcceptedTrials)
	assert.Equal(t, uint64(100), stats.Discarded)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := newTestRunner(2).Run(ctx, Job{Fleet: core.DefaultFleet(), Trials: 1_000_000})
	assert.ErrorIs(t, err, context.Canceled)
}

func BenchmarkRun_DefaultFleet(b *testing.B) {
	r := newTestRunner(0)
	job := Job{Fleet: core.DefaultFleet(), Trials: 100_000, Seed: 1}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, _, err := r.Run(context.Background(), job); err != nil {
			b.Fatal(err)
		}
	}
	b.ReportMetric(float64(job.Trials)*float64(b.N)/b.Elapsed().Seconds(), "trials/s")
	b.ReportMetric(float64(r.Workers()), "workers")
}

func TestNewDrawSource_StreamsDiffer(t *testing.T) {
	a, b, again := NewDrawSource(1, 0), NewDrawSource(1, 1), NewDrawSource(1, 0)
	same := 0
	for i := 0; i < 64; i++ {
		x := a()
		assert.Equal(t, x, again())
		if x == b() {
			same++
		}
	}
	assert.Less(t, same, 4)
}
