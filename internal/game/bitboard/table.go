package bitboard

import "github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/core"

// PlacementTable holds, for every ship length and flattened anchor, the board
// that placing that ship on an empty grid produces. Anchors where the ship
// would leave the board hold the zero BitBoard. Build it once with
// NewPlacementTable and share the pointer; nothing mutates it afterwards.
type PlacementTable struct {
	entries [core.MaxShipLength + 1][AnchorSpace]BitBoard
}

// NewPlacementTable builds the table from CellGrid.ConstPlace.
func NewPlacementTable() *PlacementTable {
	t := &PlacementTable{}
	for length := 1; length <= core.MaxShipLength; length++ {
		for _, o := range []core.Orientation{core.Horizontal, core.Vertical} {
			for idx := 0; idx < core.Cells; idx++ {
				c := core.FromIndex(idx)
				if !core.Fits(c.X, c.Y, o, length) {
					continue
				}
				g := core.NewCellGrid()
				g.ConstPlace(c.X, c.Y, o, length)
				t.entries[length][Anchor(o, idx)] = Encode(&g)
			}
		}
	}
	return t
}

// Entry returns the placement board for a ship of the given length.
func (t *PlacementTable) Entry(length, anchor int) BitBoard {
	return t.entries[length][anchor]
}
