package throng

import "fmt"

// Common errors returned by the pool. Refusals caused by pool state are
// ordinary conditions the caller may ignore or retry; ErrSizeLimit and
// ErrInvalidSize indicate a caller bug and are never silently clamped.
var (
	// ErrFinished is returned when an operation is attempted on a pool
	// that has been finished. Finishing is terminal: no further Push,
	// Pause, Continue or SetSize succeeds.
	ErrFinished = &PoolError{msg: "pool is finished"}

	// ErrSizeLimit is returned by New and SetSize when the requested
	// worker count exceeds the configured SizeLimit. The pool state is
	// left unchanged.
	ErrSizeLimit = &PoolError{msg: "worker count exceeds the configured limit"}

	// ErrInvalidSize is returned when a negative worker count is requested.
	ErrInvalidSize = &PoolError{msg: "worker count is negative"}
)

// PoolError represents an error that occurred within the pool. It supports
// unwrapping for use with errors.Is and errors.As.
type PoolError struct {
	msg string
	err error
}

// Error returns a formatted error message.
func (e *PoolError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("throng: %s: %v", e.msg, e.err)
	}
	return fmt.Sprintf("throng: %s", e.msg)
}

// Unwrap returns the underlying error, allowing use with errors.Is and
// errors.As.
func (e *PoolError) Unwrap() error {
	return e.err
}

// errInvalidConfig creates an error for an invalid pool configuration.
// This is returned during pool creation when validation fails.
func errInvalidConfig(msg string) error {
	return &PoolError{msg: "invalid config: " + msg}
}

// PanicError wraps a value recovered from a panicking work item together
// with the stack trace captured at the recovery point.
type PanicError struct {
	Value any
	Stack string
}

// Error implements the error interface for PanicError.
func (p *PanicError) Error() string {
	return fmt.Sprintf("panic: %v\n%s", p.Value, p.Stack)
}
