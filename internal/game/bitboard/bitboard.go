package bitboard

import (
	"math/bits"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/core"
)

// BitBoard is the runtime board: a protected bit-vector and a ship bit-vector
// in the layout described by BitPos. Every ship bit is also a protected bit.
type BitBoard struct {
	protected [2]uint64
	ship      [2]uint64
}

// Encode packs the grid. Any non-water cell is protected; Ship and ShipHit
// cells also set the ship bit.
func Encode(g *core.CellGrid) BitBoard {
	var b BitBoard
	for idx := 0; idx < core.Cells; idx++ {
		cell := g.AtIndex(idx)
		pos := BitPos(idx)
		if cell.IsBlocked() {
			setBit(&b.protected, pos)
		}
		if cell.IsShip() {
			setBit(&b.ship, pos)
		}
	}
	return b
}

// Decode reads the board back into a grid using only Water, Protected and Ship.
func (b BitBoard) Decode() core.CellGrid {
	g := core.NewCellGrid()
	for idx := 0; idx < core.Cells; idx++ {
		switch {
		case b.HasShip(idx):
			g.Set(core.FromIndex(idx), core.Ship)
		case b.IsProtected(idx):
			g.Set(core.FromIndex(idx), core.Protected)
		}
	}
	return g
}

// HasShip reports whether a ship occupies the cell with row-major index idx.
func (b BitBoard) HasShip(idx int) bool { return testBit(b.ship, BitPos(idx)) }

// IsProtected reports whether the cell at idx is blocked for new ships,
// either because a ship covers it or because it borders one.
func (b BitBoard) IsProtected(idx int) bool { return testBit(b.protected, BitPos(idx)) }

// ShipWords returns the raw ship bit-vector.
func (b BitBoard) ShipWords() [2]uint64 { return b.ship }

// ProtectedWords returns the raw protected bit-vector.
func (b BitBoard) ProtectedWords() [2]uint64 { return b.protected }

// ShipCount is the number of ship cells.
func (b BitBoard) ShipCount() int {
	return bits.OnesCount64(b.ship[0]) + bits.OnesCount64(b.ship[1])
}

// Covers reports whether every cell in mask holds a ship.
func (b BitBoard) Covers(mask [2]uint64) bool {
	return mask[0]&^b.ship[0] == 0 && mask[1]&^b.ship[1] == 0
}

// free is the set of cells no ship covers or borders.
func (b *BitBoard) free() [2]uint64 {
	return [2]uint64{^b.protected[0] & validWords[0], ^b.protected[1] & validWords[1]}
}

// Or merges other into b.
func (b *BitBoard) Or(other BitBoard) {
	b.protected[0] |= other.protected[0]
	b.protected[1] |= other.protected[1]
	b.ship[0] |= other.ship[0]
	b.ship[1] |= other.ship[1]
}

// Place ORs the precomputed placement for (length, anchor) into the board.
// No legality check is made.
func (b *BitBoard) Place(t *PlacementTable, anchor, length int) {
	b.Or(t.Entry(length, anchor))
}
