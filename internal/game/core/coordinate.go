package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is the edge length of the square board.
const Size = 10

// Cells is the number of cells on the board.
const Cells = Size * Size

// Coordinate represents a position on the game board
type Coordinate struct {
	X, Y int
}

// NewCoordinate creates a new coordinate with the given x and y values
func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// FromIndex creates a coordinate from a board array index using row-major ordering
func FromIndex(idx int) Coordinate {
	return Coordinate{
		X: idx % Size,
		Y: idx / Size,
	}
}

// IsValid checks if the coordinate is on the board
func (c Coordinate) IsValid() bool {
	return c.X >= 0 && c.X < Size && c.Y >= 0 && c.Y < Size
}

// ToIndex converts the coordinate to a board array index using row-major ordering
func (c Coordinate) ToIndex() int {
	return c.Y*Size + c.X
}

// Neighbors returns the four orthogonal neighbors of this coordinate
func (c Coordinate) Neighbors() []Coordinate {
	return []Coordinate{
		{X: c.X, Y: c.Y - 1}, // North
		{X: c.X + 1, Y: c.Y}, // East
		{X: c.X, Y: c.Y + 1}, // South
		{X: c.X - 1, Y: c.Y}, // West
	}
}

// Diagonals returns the four diagonal neighbors of this coordinate
func (c Coordinate) Diagonals() []Coordinate {
	return []Coordinate{
		{X: c.X - 1, Y: c.Y - 1},
		{X: c.X + 1, Y: c.Y - 1},
		{X: c.X - 1, Y: c.Y + 1},
		{X: c.X + 1, Y: c.Y + 1},
	}
}

// ValidNeighbors returns only the orthogonal neighbors that are on the board
func (c Coordinate) ValidNeighbors() []Coordinate {
	return onBoard(c.Neighbors())
}

// ValidDiagonals returns only the diagonal neighbors that are on the board
func (c Coordinate) ValidDiagonals() []Coordinate {
	return onBoard(c.Diagonals())
}

func onBoard(coords []Coordinate) []Coordinate {
	valid := make([]Coordinate, 0, len(coords))
	for _, n := range coords {
		if n.IsValid() {
			valid = append(valid, n)
		}
	}
	return valid
}

// Add returns a new coordinate that is the sum of this coordinate and another
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{
		X: c.X + other.X,
		Y: c.Y + other.Y,
	}
}

// String returns a string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// ParseCoordinate reads "x y" or "x,y" with zero-based columns and rows, or
// the letter-number form "B7" where A..J is the column and 1..10 the row.
func ParseCoordinate(s string) (Coordinate, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	var c Coordinate
	switch len(fields) {
	case 1:
		f := strings.ToUpper(fields[0])
		if len(f) < 2 || f[0] < 'A' || f[0] > 'Z' {
			return Coordinate{}, fmt.Errorf("%q: %w", s, ErrInvalidCoordinates)
		}
		row, err := strconv.Atoi(f[1:])
		if err != nil {
			return Coordinate{}, fmt.Errorf("%q: %w", s, ErrInvalidCoordinates)
		}
		c = Coordinate{X: int(f[0] - 'A'), Y: row - 1}
	case 2:
		x, err := strconv.Atoi(fields[0])
		if err != nil {
			return Coordinate{}, fmt.Errorf("%q: %w", s, ErrInvalidCoordinates)
		}
		y, err := strconv.Atoi(fields[1])
		if err != nil {
			return Coordinate{}, fmt.Errorf("%q: %w", s, ErrInvalidCoordinates)
		}
		c = Coordinate{X: x, Y: y}
	default:
		return Coordinate{}, fmt.Errorf("%q: %w", s, ErrInvalidCoordinates)
	}
	if !c.IsValid() {
		return Coordinate{}, fmt.Errorf("%s: %w", c, ErrInvalidCoordinates)
	}
	return c, nil
}

// Orientation is the axis a ship extends along from its anchor.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Step returns the offset between consecutive cells of a ship.
func (o Orientation) Step() Coordinate {
	if o == Vertical {
		return Coordinate{X: 0, Y: 1}
	}
	return Coordinate{X: 1, Y: 0}
}

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}
