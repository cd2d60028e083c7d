package secureagent

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoChoices is returned when a model answers without any completion.
var ErrNoChoices = errors.New("model returned no choices")

// ErrorCategory says whether repeating a failed model request can help.
type ErrorCategory string

const (
	ErrorTransient ErrorCategory = "transient"  // rate limits, 5xx
	ErrorPermanent ErrorCategory = "permanent"  // bad key, forbidden
	ErrorUserInput ErrorCategory = "user_input" // request refused as invalid
)

// Error is a failed model request classified by its HTTP status.
type Error struct {
	Category   ErrorCategory
	Status     int           // 0 when no response was received
	RetryAfter time.Duration // server hint, 0 when absent
	Msg        string
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil || e.Err.Error() == e.Msg {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError classifies a request that failed with status.
func NewError(category ErrorCategory, status int, msg string, cause error) *Error {
	return &Error{Category: category, Status: status, Msg: msg, Err: cause}
}

func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// CategoryOf returns the category of the first *Error in err's chain, or "".
func CategoryOf(err error) ErrorCategory {
	if e := asError(err); e != nil {
		return e.Category
	}
	return ""
}

// StatusCodeOf returns the HTTP status of a classified error, or 0.
func StatusCodeOf(err error) int {
	if e := asError(err); e != nil {
		return e.Status
	}
	return 0
}

// RetryAfterOf returns the server's retry hint of a classified error, or 0.
func RetryAfterOf(err error) time.Duration {
	if e := asError(err); e != nil {
		return e.RetryAfter
	}
	return 0
}

// IsTransient reports whether a later retry of the request may succeed.
func IsTransient(err error) bool { return CategoryOf(err) == ErrorTransient }

// IsPermanent reports whether the request will keep failing as sent.
func IsPermanent(err error) bool { return CategoryOf(err) == ErrorPermanent }
