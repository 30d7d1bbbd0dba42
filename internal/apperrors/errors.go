// Package apperrors defines the error kinds shared by every service. The
// transport boundary maps kinds to status codes; inside the module errors
// are matched with errors.Is against the kind sentinels.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind sentinels.
var (
	// ErrNotFound covers missing entities and, deliberately, several
	// access-denial paths on bookings that must not leak existence.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is raised only for item updates by a non-owner.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation marks business-rule violations: bad dates, wrong status
	// transition, unavailable item, missing rental history.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidArgument marks malformed caller input such as an
	// unrecognized status-filter token.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error carries a caller-facing message and unwraps to its kind sentinel.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func NotFoundf(format string, args ...any) error {
	return &Error{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...any) error {
	return &Error{kind: ErrForbidden, msg: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) error {
	return &Error{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func InvalidArgumentf(format string, args ...any) error {
	return &Error{kind: ErrInvalidArgument, msg: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }
