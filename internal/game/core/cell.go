package core

import "fmt"

// Cell is the known state of one board cell. The order matters: merging two
// values for the same cell keeps the larger one, so a ship is never downgraded.
type Cell uint8

const (
	Water Cell = iota
	Protected
	ShipHit
	Ship
)

// IsShip reports whether a ship occupies the cell.
func (c Cell) IsShip() bool { return c == Ship || c == ShipHit }

// IsBlocked reports whether no new ship may cover the cell.
func (c Cell) IsBlocked() bool { return c != Water }

// Merge returns the stronger of the two states.
func (c Cell) Merge(other Cell) Cell {
	if other > c {
		return other
	}
	return c
}

// Symbol is the three-character rendering used by CellGrid.String.
func (c Cell) Symbol() string {
	switch c {
	case Water:
		return " _ "
	case Protected:
		return " o "
	case ShipHit:
		return " * "
	case Ship:
		return " X "
	default:
		return " ? "
	}
}

func (c Cell) String() string {
	switch c {
	case Water:
		return "Water"
	case Protected:
		return "Protected"
	case ShipHit:
		return "ShipHit"
	case Ship:
		return "Ship"
	default:
		return fmt.Sprintf("Cell(%d)", uint8(c))
	}
}
