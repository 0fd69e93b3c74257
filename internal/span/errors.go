package span

import "errors"

var (
	// ErrOutOfRange reports a position or count outside a span's valid
	// coordinate range. Always a caller contract violation.
	ErrOutOfRange = errors.New("span: position out of range")

	// ErrExhausted reports a sequential read past the end of a walker's span.
	ErrExhausted = errors.New("span: walker exhausted")
)
