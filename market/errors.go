package market

import "errors"

var (
	// ErrInvalidOrder marks a caller contract violation: negative or zero
	// prices, target fractions outside [0,1], unknown sides. The ledger
	// performs no mutation when it is returned.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrMissingHistory means a date has no adjustment factor and no prior
	// record exists at all: the instrument never traded before that date.
	ErrMissingHistory = errors.New("missing history")
)
