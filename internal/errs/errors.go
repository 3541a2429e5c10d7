package errs

import (
	"errors"
	"fmt"
)

// Kind classifies errors so callers and the CLI can report them uniformly.
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindValidation       Kind = "validation"
	KindStoreUnavailable Kind = "store_unavailable"
	KindConfigCorrupt    Kind = "config_corrupt"
)

// Error is the error type surfaced by every operation in this module.
// It carries a kind and a human-readable message; the wrapped cause is
// preserved for errors.Is/As.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports an unknown bucket, project, or manual-tag id.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation reports malformed input: bad time ranges, invalid regex
// patterns, empty names.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// StoreUnavailable reports that the event database is missing or unreadable.
func StoreUnavailable(message string, err error) *Error {
	return &Error{Kind: KindStoreUnavailable, Message: message, Err: err}
}

// ConfigCorrupt reports an unparseable analysis configuration file.
func ConfigCorrupt(message string, err error) *Error {
	return &Error{Kind: KindConfigCorrupt, Message: message, Err: err}
}

// KindOf returns the kind of err if it is (or wraps) an *Error, or "" otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsNotFound reports whether err carries KindNotFound.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsValidation reports whether err carries KindValidation.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}
