// models/errors.go
package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthenticated means no usable Session is present.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnauthorized means a Session is present but lacks the privilege
	// required by the requested view.
	ErrUnauthorized = errors.New("unauthorized")
)

// TransportError is a network failure or a non-success HTTP status from the
// backend. StatusCode is zero for network failures.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is a JSON body that is not the expected shape.
type MalformedResponseError struct {
	Op      string
	Missing []string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: malformed response, missing %s", e.Op, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsFetchFailure reports whether err is a transport or shape failure of a
// backend call. Both are displayed the same way.
func IsFetchFailure(err error) bool {
	var te *TransportError
	var me *MalformedResponseError
	return errors.As(err, &te) || errors.As(err, &me)
}
