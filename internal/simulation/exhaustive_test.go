package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/bitboard"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/core"
)

// singleShipCounts counts, per cell, the placements of one ship covering it.
func singleShipCounts(length int) (boards uint64, perCell [core.Cells]uint64) {
	orientations := []core.Orientation{core.Horizontal}
	if length > 1 {
		orientations = append(orientations, core.Vertical)
	}
	for _, o := range orientations {
		for idx := 0; idx < core.Cells; idx++ {
			c := core.FromIndex(idx)
			if !core.Fits(c.X, c.Y, o, length) {
				continue
			}
			boards++
			for k := 0; k < length; k++ {
				perCell[c.Add(core.Coordinate{X: o.Step().X * k, Y: o.Step().Y * k}).ToIndex()]++
			}
		}
	}
	return boards, perCell
}

func TestEnumerate_SingleShipMatchesBruteForce(t *testing.T) {
	for length := 1; length <= core.MaxShipLength; length++ {
		counts, stats, err := newTestRunner(4).Enumerate(context.Background(), Job{Fleet: fleetOf(t, length)}, 0)
		require.NoError(t, err)

		boards, perCell := singleShipCounts(length)
		assert.Equal(t, boards, stats.Tallied, "length %d", length)
		for idx := 0; idx < core.Cells; idx++ {
			assert.Equal(t, perCell[idx], counts.Count(idx), "length %d cell %d", length, idx)
		}
	}
}

func TestEnumerate_LengthTwoHas180Boards(t *testing.T) {
	counts, _, err := newTestRunner(2).Enumerate(context.Background(), Job{Fleet: fleetOf(t, 2)}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(180), counts.Trials())
}

func TestEnumerate_TwoSinglesCountedOnce(t *testing.T) {
	var want uint64
	for i := 0; i < core.Cells; i++ {
		g := core.NewCellGrid()
		g.ConstPlace(core.FromIndex(i).X, core.FromIndex(i).Y, core.Horizontal, 1)
		for j := i + 1; j < core.Cells; j++ {
			if !g.AtIndex(j).IsBlocked() {
				want++
			}
		}
	}

	counts, _, err := newTestRunner(3).Enumerate(context.Background(), Job{Fleet: fleetOf(t, 1, 1)}, 0)
	require.NoError(t, err)
	assert.Equal(t, want, counts.Trials())
}

func TestEnumerate_RequiredCorner(t *testing.T) {
	job := Job{Fleet: fleetOf(t, 2), Required: bitboard.CellMask(0)}
	counts, _, err := newTestRunner(1).Enumerate(context.Background(), job, 0)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), counts.Trials())
	assert.Equal(t, 1.0, counts.Probability(0))
	assert.Equal(t, 0.5, counts.Probability(1))
	assert.Equal(t, 0.5, counts.Probability(10))
	assert.Zero(t, counts.Count(11))
}

func TestEnumerate_EmptyFleet(t *testing.T) {
	var board bitboard.BitBoard
	board.Place(sharedTable, bitboard.Anchor(core.Vertical, 0), 3)

	counts, _, err := newTestRunner(1).Enumerate(context.Background(), Job{Board: board}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), counts.Trials())
	assert.Equal(t, uint64(1), counts.Count(20))

	_, _, err = newTestRunner(1).Enumerate(context.Background(), Job{Board: board, Required: bitboard.CellMask(50)}, 0)
	assert.ErrorIs(t, err, ErrNoAcceptedTrials)
}

func TestEnumerate_BudgetExceeded(t *testing.T) {
	_, _, err := newTestRunner(2).Enumerate(context.Background(), Job{Fleet: core.DefaultFleet()}, 1_000)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
}

func TestEnumerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := newTestRunner(2).Enumerate(ctx, Job{Fleet: core.DefaultFleet()}, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnumerate_AgreesWithSampling(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}
	job := Job{Fleet: fleetOf(t, 3), Trials: 100_000, Seed: 5}
	exact, _, err := newTestRunner(2).Enumerate(context.Background(), job, 0)
	require.NoError(t, err)
	sampled, _, err := newTestRunner(2).Run(context.Background(), job)
	require.NoError(t, err)

	for idx := 0; idx < core.Cells; idx++ {
		assert.InDelta(t, exact.Probability(idx), sampled.Probability(idx), 0.01, "cell %d", idx)
	}
}
