package bitboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/core"
	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/testutil"
)

func TestEncode_RoundTrip(t *testing.T) {
	rng := testutil.NewTestRNG(7)
	for i := 0; i < 500; i++ {
		g := testutil.RandomGrid(rng, core.DefaultFleet(), rng.Intn(20))
		b := Encode(&g)

		assert.Equal(t, g, b.Decode(), "iteration %d", i)
		assert.Equal(t, g.Count(core.Ship), b.ShipCount())
	}
}

func TestEncode_ShipImpliesProtected(t *testing.T) {
	g := testutil.GridFromRows(
		"X o . *",
		". . . .",
		"o",
	)
	b := Encode(&g)

	assert.True(t, b.HasShip(0))
	assert.True(t, b.IsProtected(0))
	assert.False(t, b.HasShip(1))
	assert.True(t, b.IsProtected(1))
	assert.False(t, b.IsProtected(2))
	assert.True(t, b.HasShip(3), "hits count as ship")
	assert.True(t, b.IsProtected(20))
}

func TestEncode_PaddingStaysClear(t *testing.T) {
	g := core.NewCellGrid()
	for idx := 0; idx < core.Cells; idx++ {
		g.Set(core.FromIndex(idx), core.Ship)
	}
	b := Encode(&g)
	assert.Equal(t, validWords, b.ProtectedWords())
	assert.Equal(t, validWords, b.ShipWords())
	assert.Equal(t, [2]uint64{}, b.free())
}

func TestBitBoard_Covers(t *testing.T) {
	g := testutil.GridFromRows("X X o", "o o o")
	b := Encode(&g)
	assert.True(t, b.Covers(CellMask(0, 1)))
	assert.True(t, b.Covers([2]uint64{}))
	assert.False(t, b.Covers(CellMask(0, 2)))
	assert.False(t, b.Covers(CellMask(99)))
}

func TestBitBoard_PlaceMatchesGrid(t *testing.T) {
	table := NewPlacementTable()
	var b BitBoard
	g := core.NewCellGrid()

	b.Place(table, Anchor(core.Horizontal, 0), 4)
	require.NoError(t, g.Place(0, 0, core.Horizontal, core.MustShip(4, 0)))
	b.Place(table, Anchor(core.Vertical, 45), 3)
	require.NoError(t, g.Place(5, 4, core.Vertical, core.MustShip(3, 1)))

	assert.Equal(t, Encode(&g), b)
}
