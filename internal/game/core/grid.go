package core

import (
	"fmt"
	"strings"
)

// CellGrid is the readable board: one Cell per position, row-major.
// The zero value is an all-water board.
type CellGrid struct {
	cells [Cells]Cell
}

// NewCellGrid returns an all-water grid.
func NewCellGrid() CellGrid { return CellGrid{} }

func (g *CellGrid) At(c Coordinate) Cell     { return g.cells[c.ToIndex()] }
func (g *CellGrid) AtIndex(idx int) Cell     { return g.cells[idx] }
func (g *CellGrid) Set(c Coordinate, v Cell) { g.cells[c.ToIndex()] = v }

// Merge raises the cell to v unless it already holds a stronger state.
func (g *CellGrid) Merge(c Coordinate, v Cell) {
	idx := c.ToIndex()
	g.cells[idx] = g.cells[idx].Merge(v)
}

// Cells returns a copy of the cells in row-major order.
func (g *CellGrid) Cells() [Cells]Cell { return g.cells }

// Count returns how many cells hold v.
func (g *CellGrid) Count(v Cell) int {
	n := 0
	for _, c := range g.cells {
		if c == v {
			n++
		}
	}
	return n
}

// Fits reports whether a ship of the given length anchored at (x, y) stays on
// the board.
func Fits(x, y int, o Orientation, length int) bool {
	if x < 0 || y < 0 || length < 1 {
		return false
	}
	switch o {
	case Horizontal:
		return x+length <= Size && y < Size
	case Vertical:
		return x < Size && y+length <= Size
	default:
		return false
	}
}

// CanPlace reports whether every cell the ship would cover is water.
func (g *CellGrid) CanPlace(x, y int, o Orientation, ship Vessel) bool {
	if !Fits(x, y, o, ship.length) {
		return false
	}
	step := o.Step()
	c := Coordinate{X: x, Y: y}
	for i := 0; i < ship.length; i++ {
		if g.At(c).IsBlocked() {
			return false
		}
		c = c.Add(step)
	}
	return true
}

// Place puts the ship on the grid and protects the ring around it. The grid is
// left untouched when the placement is illegal.
func (g *CellGrid) Place(x, y int, o Orientation, ship Vessel) error {
	if o != Horizontal && o != Vertical {
		return ErrInvalidOrientation
	}
	if !Fits(x, y, o, ship.length) {
		return fmt.Errorf("%s %s at %s: %w", ship, o, NewCoordinate(x, y), ErrShipOutOfBounds)
	}
	if !g.CanPlace(x, y, o, ship) {
		return fmt.Errorf("%s %s at %s: %w", ship, o, NewCoordinate(x, y), ErrCellBlocked)
	}
	g.ConstPlace(x, y, o, ship.length)
	return nil
}

// ConstPlace marks a ship without any legality check. It is meant for
// building placement tables from an empty grid and panics if the ship leaves
// the board.
func (g *CellGrid) ConstPlace(x, y int, o Orientation, length int) {
	if !Fits(x, y, o, length) {
		panic(fmt.Sprintf("ConstPlace: length %d %s at (%d,%d) off board", length, o, x, y))
	}
	width, height := length+2, 3
	if o == Vertical {
		width, height = 3, length+2
	}
	g.protectRectangle(x, y, width, height)

	step := o.Step()
	c := Coordinate{X: x, Y: y}
	for i := 0; i < length; i++ {
		g.Merge(c, Ship)
		c = c.Add(step)
	}
}

// protectRectangle marks the ship footprint plus a one-cell ring, clipped to
// the board.
func (g *CellGrid) protectRectangle(shipX, shipY, width, height int) {
	if shipX == 0 {
		width--
	}
	if shipY == 0 {
		height--
	}
	lowX, lowY := max(shipX-1, 0), max(shipY-1, 0)
	highX, highY := min(lowX+width, Size), min(lowY+height, Size)

	for y := lowY; y < highY; y++ {
		for x := lowX; x < highX; x++ {
			g.Merge(Coordinate{X: x, Y: y}, Protected)
		}
	}
}

// String renders the grid one row per line.
func (g *CellGrid) String() string {
	var sb strings.Builder
	sb.Grow((Size*3 + 1) * (Size + 2))
	sb.WriteString("   ")
	for x := 0; x < Size; x++ {
		sb.WriteString(IntToStringFixedWidth(x, 2))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	for y := 0; y < Size; y++ {
		sb.WriteString(IntToStringFixedWidth(y, 2))
		sb.WriteByte(' ')
		for x := 0; x < Size; x++ {
			sb.WriteString(g.cells[y*Size+x].Symbol())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// IntToStringFixedWidth left-pads num with spaces to width.
func IntToStringFixedWidth(num int, width int) string {
	return fmt.Sprintf("%*d", width, num)
}
