package service

import (
	"errors"
	"fmt"
)

// ErrEmptyTask is returned when a task name is blank.
var ErrEmptyTask = errors.New("task name required")

// ErrorKind classifies remote store failures.
type ErrorKind int

const (
	// KindTransport covers network failures: unreachable host, DNS, timeouts.
	KindTransport ErrorKind = iota + 1

	// KindStatus is a non-2xx HTTP response.
	KindStatus

	// KindDecode is a response body that could not be parsed.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is a failed remote store operation.
type Error struct {
	Op         string // "list", "create" or "delete"
	Kind       ErrorKind
	StatusCode int // set for KindStatus
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindStatus && e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	case e.Kind == KindStatus:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a remote store error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *Error
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
