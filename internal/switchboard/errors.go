// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package switchboard

import (
	"errors"
	"fmt"
)

// Kind classifies a switchboard failure.
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindAmbiguous     Kind = "ambiguous"
	KindSerialization Kind = "serialization"
	KindRepository    Kind = "repository"
	KindInvalidStub   Kind = "invalid_stub"
)

// ErrNoRepository is returned by file operations on a switchboard built
// without a repository.
var ErrNoRepository = errors.New("no repository configured")

// Error is a failed switchboard operation. When an operation fails, no new
// text is produced and nothing is written.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`

	// Path is the document path for file operations.
	Path string `json:"path,omitempty"`

	Err error `json:"-"`
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a switchboard error of the given kind.
func IsKind(err error, kind Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

// AnalysisError reports a document that could not be analyzed. Err is a
// *metadata.ParseError or an *engine.CalculationError.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analyzing document: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
