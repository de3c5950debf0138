package matrix

import "errors"

var (
	// ErrInvalidParams is returned when the generator is asked for an
	// impossible shape (n <= 0, nonzer <= 0 or nonzer > n).
	ErrInvalidParams = errors.New("matrix: invalid generation parameters")

	// ErrCapacityExceeded means the provisional nonzero count produced by the
	// row counting pass does not fit the reserved capacity. It points at
	// inconsistent class constants, never at user input.
	ErrCapacityExceeded = errors.New("matrix: space for matrix elements exceeded")

	// ErrInternal means the sorted insertion found neither an empty slot, a
	// matching column nor an insertion point in the destination row.
	ErrInternal = errors.New("matrix: internal error in sparse")

	// ErrMalformed is returned by CRS.Validate.
	ErrMalformed = errors.New("matrix: malformed CRS")
)
