package session

import "errors"

var (
	ErrCellAlreadyReported = errors.New("cell already has a reported outcome")
	ErrNoSuchShip          = errors.New("no remaining ship matches the sunk run")
	ErrInvalidTransition   = errors.New("invalid phase transition")
	ErrSessionFinished     = errors.New("every ship is already sunk")
	ErrUnknownOutcome      = errors.New("unknown outcome")
)
