package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_Merge(t *testing.T) {
	tests := []struct {
		a, b, want Cell
	}{
		{Water, Protected, Protected},
		{Protected, Water, Protected},
		{Ship, Protected, Ship},
		{ShipHit, Ship, Ship},
		{ShipHit, Protected, ShipHit},
	}
	for _, tt := range tests {
		t.Run(tt.a.String()+"+"+tt.b.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Merge(tt.b))
		})
	}
}

func TestCell_Predicates(t *testing.T) {
	assert.False(t, Water.IsShip())
	assert.False(t, Protected.IsShip())
	assert.True(t, ShipHit.IsShip())
	assert.True(t, Ship.IsShip())
	assert.False(t, Water.IsBlocked())
	assert.True(t, Protected.IsBlocked())
}

func TestFits(t *testing.T) {
	assert.True(t, Fits(6, 0, Horizontal, 4))
	assert.False(t, Fits(7, 0, Horizontal, 4))
	assert.True(t, Fits(9, 6, Vertical, 4))
	assert.False(t, Fits(9, 7, Vertical, 4))
	assert.False(t, Fits(-1, 0, Horizontal, 1))
	assert.False(t, Fits(0, 0, Orientation(9), 1))
}

func TestCellGrid_PlaceCorner(t *testing.T) {
	g := NewCellGrid()
	require.NoError(t, g.Place(0, 0, Horizontal, MustShip(4, 0)))

	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			c := Coordinate{x, y}
			switch {
			case y == 0 && x < 4:
				assert.Equal(t, Ship, g.At(c), "%s", c)
			case y <= 1 && x <= 4:
				assert.Equal(t, Protected, g.At(c), "%s", c)
			default:
				assert.Equal(t, Water, g.At(c), "%s", c)
			}
		}
	}
	assert.Equal(t, 4, g.Count(Ship))
	assert.Equal(t, 6, g.Count(Protected))
}

func TestCellGrid_PlaceInteriorVertical(t *testing.T) {
	g := NewCellGrid()
	require.NoError(t, g.Place(4, 3, Vertical, MustShip(3, 0)))

	assert.Equal(t, 3, g.Count(Ship))
	// 3x5 rectangle minus the ship.
	assert.Equal(t, 12, g.Count(Protected))
	assert.Equal(t, Protected, g.At(Coordinate{3, 2}))
	assert.Equal(t, Protected, g.At(Coordinate{5, 6}))
	assert.Equal(t, Water, g.At(Coordinate{4, 7}))
}

func TestCellGrid_PlaceClipsAtFarEdge(t *testing.T) {
	g := NewCellGrid()
	require.NoError(t, g.Place(9, 9, Horizontal, MustShip(1, 0)))
	assert.Equal(t, Ship, g.At(Coordinate{9, 9}))
	assert.Equal(t, 3, g.Count(Protected))
}

func TestCellGrid_PlaceRejectsTouching(t *testing.T) {
	g := NewCellGrid()
	require.NoError(t, g.Place(2, 2, Horizontal, MustShip(2, 0)))
	before := g

	// Diagonal contact is forbidden too.
	err := g.Place(4, 3, Horizontal, MustShip(1, 1))
	assert.ErrorIs(t, err, ErrCellBlocked)
	err = g.Place(2, 2, Vertical, MustShip(1, 1))
	assert.ErrorIs(t, err, ErrCellBlocked)
	assert.Equal(t, before, g, "failed placement must not mutate the grid")

	require.NoError(t, g.Place(5, 2, Horizontal, MustShip(1, 1)))
}

func TestCellGrid_PlaceOutOfBounds(t *testing.T) {
	g := NewCellGrid()
	err := g.Place(8, 0, Horizontal, MustShip(3, 0))
	assert.ErrorIs(t, err, ErrShipOutOfBounds)
	assert.Equal(t, 0, g.Count(Ship))
}

func TestCellGrid_PlaceKeepsStrongerCells(t *testing.T) {
	g := NewCellGrid()
	g.Set(Coordinate{4, 1}, ShipHit)
	require.NoError(t, g.Place(0, 0, Horizontal, MustShip(4, 0)))
	assert.Equal(t, ShipHit, g.At(Coordinate{4, 1}))
}

func TestConstPlace_PanicsOffBoard(t *testing.T) {
	g := NewCellGrid()
	assert.Panics(t, func() { g.ConstPlace(9, 0, Horizontal, 2) })
}

func TestCellGrid_String(t *testing.T) {
	g := NewCellGrid()
	require.NoError(t, g.Place(0, 0, Horizontal, MustShip(1, 0)))
	g.Set(Coordinate{9, 9}, ShipHit)
	s := g.String()
	assert.Contains(t, s, " 0  X  o  _ ")
	assert.Contains(t, s, " * \n")
}
