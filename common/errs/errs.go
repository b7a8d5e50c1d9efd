package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound        = ErrorKind("Not Found")
	OverflowUint64  = ErrorKind("overflow uint64")
	OverflowUint128 = ErrorKind("overflow uint128")

	InvalidArgument    = ErrorKind("Invalid Argument")
	Unsupported        = ErrorKind("Unsupported")
	Timeout            = ErrorKind("Timeout")
	SomethingWentWrong = ErrorKind("Something Went Wrong")
	InternalError      = ErrorKind("Internal Error")
	Conflict           = ErrorKind("Conflict")
	// Unrecoverable stops a background worker instead of retrying on the next round.
	Unrecoverable = ErrorKind("Unrecoverable")
)

// Sale engine error kinds. Every specific engine error is marked with exactly one of these,
// so callers can branch on the kind with errors.Is without knowing every specific error.
const (
	// StateError is returned when an operation is not allowed in the current lifecycle state.
	StateError = ErrorKind("state error")
	// WindowError is returned when an operation happens outside of its time window.
	WindowError = ErrorKind("window error")
	// ValidationError is returned for malformed input.
	ValidationError = ErrorKind("validation error")
	// ArithmeticError is returned when a checked arithmetic operation overflows.
	ArithmeticError = ErrorKind("arithmetic error")
	// CustodyError is returned when a custody transfer can't be executed.
	CustodyError = ErrorKind("custody error")
	// AuthorizationError is returned when the caller is not allowed to perform the operation.
	AuthorizationError = ErrorKind("authorization error")
	// Paused is returned when the operation is disabled by the feature-pause bitmask.
	Paused = ErrorKind("paused")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
