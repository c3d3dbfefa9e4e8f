package core

import "errors"

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidShipLength  = errors.New("ship length must be between 1 and 4")
	ErrShipOutOfBounds    = errors.New("ship does not fit on the board")
	ErrCellBlocked        = errors.New("cell is protected or occupied")
	ErrInvalidOrientation = errors.New("invalid orientation")
)
