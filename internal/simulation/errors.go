package simulation

import "errors"

var (
	ErrNoTrials         = errors.New("trial count must be positive")
	ErrNoAcceptedTrials = errors.New("no trial produced a board consistent with the known hits")
	ErrBudgetExceeded   = errors.New("exhaustive search exceeded its board budget")
)
