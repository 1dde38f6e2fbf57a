package game

import "errors"

// Sentinel errors returned by Game mutators. Callers match them with
// errors.Is; the wrapped message carries the particulars.
var (
	// ErrInvalidConfiguration signals malformed game setup, such as an
	// unsupported player count.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidArgument signals caller misuse: a bad seat or tile index,
	// or a call that is not legal in the current phase or turn. State is
	// never mutated.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidWinClaim signals a win declared on a hand that does not
	// decompose into a pair plus four groups. State is never mutated.
	ErrInvalidWinClaim = errors.New("invalid win claim")
)
