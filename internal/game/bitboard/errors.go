package bitboard

import "errors"

var (
	// ErrUnsatisfiable means a ship has no legal anchor left. Callers must not
	// sample such a board; RandomPlace panics with this error.
	ErrUnsatisfiable   = errors.New("no legal placement for ship")
	ErrUnknownStrategy = errors.New("unknown strategy")
)
