package redistore

import "errors"

// Sentinel errors, centralized in a single var block. Exec never returns
// these to its caller: malformed input, unknown commands and protocol
// errors all become Reply error values. Exec passes ErrProtocol and
// ErrUnknownCommand to its trace logger to mark dispatch-level failures.
var (
	// ErrProtocol marks, in Exec's trace, an empty command vector.
	ErrProtocol = errors.New("redistore: malformed command")

	ErrUnknownCommand = errors.New("redistore: unknown command")
	ErrWrongType      = errors.New("redistore: wrong kind of value")
	ErrWrongArgs      = errors.New("redistore: wrong number of arguments")
	ErrNotInteger     = errors.New("redistore: value is not an integer or out of range")
	ErrNotFloat       = errors.New("redistore: value is not a valid float")
	ErrSyntax         = errors.New("redistore: syntax error")
)
