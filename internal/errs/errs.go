// Package errs classifies the failures a request can hit on its way through
// the secret store, the Preservica API and the GraphQL layer.
package errs

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failure classes.
type Kind string

const (
	MissingEnvironment  Kind = "MissingEnvironment"
	SecretFetchFailed   Kind = "SecretFetchFailed"
	MalformedSecret     Kind = "MalformedSecret"
	AuthTransportError  Kind = "AuthTransportError"
	AuthDecodeError     Kind = "AuthDecodeError"
	FetchTransportError Kind = "FetchTransportError"
	DecodeError         Kind = "DecodeError"
	InvalidRequest      Kind = "InvalidRequest"
)

// Error wraps an underlying error with its Kind.
type Error struct {
	Kind Kind
	Err  error
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Extensions is picked up by graphql-go and rendered under the field error's
// "extensions" key.
func (e *Error) Extensions() map[string]any {
	return map[string]any{
		"code": string(e.Kind),
	}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
