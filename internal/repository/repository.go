// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package repository gives the switchboard read and write access to the
// documents of a vault. Paths are slash-separated and relative to the vault
// root.
// Implements: read, write, list, exists, metadata (document repository).
package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
)

// Kind classifies a repository failure.
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindPermissionDenied Kind = "permission_denied"
	KindInvalidPath      Kind = "invalid_path"
	KindIO               Kind = "io"
	KindOther            Kind = "other"
)

// Error reports a failed repository operation.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a not_found repository error.
func IsNotFound(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == KindNotFound
}

// Metadata describes a stored document.
type Metadata struct {
	Size        int64      `json:"size"`
	Modified    *time.Time `json:"modified,omitempty"`
	Created     *time.Time `json:"created,omitempty"`
	IsDirectory bool       `json:"is_directory"`
}

// Repository stores documents by path. Implementations must be safe for
// concurrent use.
type Repository interface {
	Read(path string) (string, error)
	Write(path, content string) error

	// List returns the paths matching pattern, sorted. "**" matches any
	// number of directories.
	List(pattern string) ([]string, error)

	Exists(path string) (bool, error)
	Metadata(path string) (Metadata, error)
}

func wrapErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var re *Error
	if errors.As(err, &re) {
		return err
	}
	kind := KindIO
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermissionDenied
	case errors.Is(err, fs.ErrInvalid):
		kind = KindInvalidPath
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}
