package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/core"
)

// GridFromRows parses a board drawn with one character per cell:
// '.' water, 'o' protected, 'X' ship, '*' hit. Missing rows and columns are
// water.
func GridFromRows(rows ...string) core.CellGrid {
	g := core.NewCellGrid()
	for y, row := range rows {
		row = strings.ReplaceAll(row, " ", "")
		for x, r := range row {
			c := core.Coordinate{X: x, Y: y}
			switch r {
			case '.', '_':
			case 'o':
				g.Set(c, core.Protected)
			case 'X':
				g.Set(c, core.Ship)
			case '*':
				g.Set(c, core.ShipHit)
			default:
				panic(fmt.Sprintf("GridFromRows: unexpected %q at %s", r, c))
			}
		}
	}
	return g
}

// RandomGrid places as much of fleet as fits by random trial and error, then
// marks up to misses random water cells as protected. Only Water, Protected and
// Ship cells are produced.
func RandomGrid(rng *rand.Rand, fleet core.Fleet, misses int) core.CellGrid {
	g := core.NewCellGrid()
	for _, ship := range fleet {
		for attempt := 0; attempt < 200; attempt++ {
			o := core.Orientation(rng.Intn(2))
			if g.Place(rng.Intn(core.Size), rng.Intn(core.Size), o, ship) == nil {
				break
			}
		}
	}
	for i := 0; i < misses; i++ {
		c := core.FromIndex(rng.Intn(core.Cells))
		if g.At(c) == core.Water {
			g.Set(c, core.Protected)
		}
	}
	return g
}
