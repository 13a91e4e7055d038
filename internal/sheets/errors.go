package sheets

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrRateLimited matches errors caused by the store throttling requests.
	ErrRateLimited = errors.New("sheets: rate limited")
	// ErrUnavailable matches every other store failure, including rate
	// limiting that outlasted the retry budget.
	ErrUnavailable = errors.New("sheets: store unavailable")
	// ErrNotFound is returned for worksheets that do not exist.
	ErrNotFound = errors.New("sheets: worksheet not found")
	// ErrInvalidCell rejects coordinates below 1.
	ErrInvalidCell = errors.New("sheets: invalid cell")
)

// Error is the typed failure of a store call.
type Error struct {
	Op          string
	Worksheet   string
	RateLimited bool
	// Attempts is set by Retrying; zero means the call was not retried.
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	msg := "sheets: " + e.Op
	if e.Worksheet != "" {
		msg += fmt.Sprintf(" %q", e.Worksheet)
	}
	if e.Attempts > 1 {
		msg += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.RateLimited
	case ErrUnavailable:
		return !e.RateLimited && !errors.Is(e.Err, ErrNotFound)
	}
	return false
}

func newError(op, worksheet string, err error) *Error {
	return &Error{Op: op, Worksheet: worksheet, Err: err}
}
