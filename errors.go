package apihistory

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport classifies failures to reach the repository or a
	// non-success response from it.
	ErrTransport = errors.New("repository query failed")

	// ErrParse classifies responses that are not one of the known shapes.
	ErrParse = errors.New("unreadable repository response")

	// ErrInvalidConfig is wrapped by every configuration validation error.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// QueryError reports a fatal failure of the version query along with enough
// of the query to reproduce it.
type QueryError struct {
	Kind       error // ErrTransport or ErrParse
	Source     Source
	Endpoint   string
	Repository string
	Artifact   Artifact
	Err        error
}

func (e *QueryError) Error() string {
	msg := fmt.Sprintf("%v: %s (source %s", e.Kind, e.Artifact, e.Source)
	if e.Repository != "" {
		msg += fmt.Sprintf(", repository %q", e.Repository)
	}
	if e.Endpoint != "" {
		msg += ", endpoint " + e.Endpoint
	}
	msg += ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is matches the error's kind, so errors.Is(err, ErrParse) works.
func (e *QueryError) Is(target error) bool {
	return target == e.Kind
}
