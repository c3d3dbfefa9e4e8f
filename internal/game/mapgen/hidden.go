package mapgen

import "github.com/mitchelldurbincs/BattleshipHeatmap/internal/game/core"

// HiddenFleet is the opponent's board as known to the referee.
type HiddenFleet struct {
	grid       core.CellGrid
	placements []ShipPlacement
	owner      map[core.Coordinate]int
	remaining  []int
}

func newHiddenFleet(grid core.CellGrid, placements []ShipPlacement) *HiddenFleet {
	h := &HiddenFleet{
		grid:       grid,
		placements: placements,
		owner:      make(map[core.Coordinate]int),
		remaining:  make([]int, len(placements)),
	}
	for i, p := range placements {
		for _, c := range p.Cells() {
			h.owner[c] = i
		}
		h.remaining[i] = p.Ship.Length()
	}
	return h
}

// Grid returns the layout with ships and their protected rings.
func (h *HiddenFleet) Grid() core.CellGrid { return h.grid }

// Placements returns where each ship lies.
func (h *HiddenFleet) Placements() []ShipPlacement { return h.placements }

// Fire resolves a shot. sunk is set when the shot destroyed the last
// undamaged cell of a ship. Firing twice at the same cell reports the same hit
// but never sinks a ship twice.
func (h *HiddenFleet) Fire(c core.Coordinate) (hit bool, sunk *ShipPlacement) {
	i, ok := h.owner[c]
	if !ok {
		return false, nil
	}
	if h.grid.At(c) == core.ShipHit {
		return true, nil
	}
	h.grid.Set(c, core.ShipHit)
	h.remaining[i]--
	if h.remaining[i] == 0 {
		return true, &h.placements[i]
	}
	return true, nil
}

// Sunk reports whether every ship has been destroyed.
func (h *HiddenFleet) Sunk() bool {
	for _, r := range h.remaining {
		if r > 0 {
			return false
		}
	}
	return true
}
