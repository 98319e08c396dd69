// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"context"
	"errors"
	"fmt"
)

// Error kinds. Every *Error carries exactly one of these.
var (
	ErrNotFound        = errors.New("not found")
	ErrIO              = errors.New("i/o error")
	ErrMissingChecksum = errors.New("missing checksum")
	ErrCancelled       = errors.New("cancelled")
)

// Error is a store failure. Callers can use errors.Is against the
// kind sentinels, or errors.As to extract the operation and path:
//
//	var storeErr *snapshot.Error
//	if errors.As(err, &storeErr) {
//	    log.Printf("%s failed on %s", storeErr.Op, storeErr.Path)
//	}
type Error struct {
	// Kind is one of the kind sentinels.
	Kind error
	// Op is the store operation: "resolve", "enumerate",
	// "content-id", or "open".
	Op string
	// Path is the ref name, directory path, or content id.
	Path string
	// Err is the underlying cause. May be nil.
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewError returns an *Error. If err is already a store error it is
// returned unchanged so kinds are not stacked.
func NewError(kind error, op, path string, err error) error {
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// CheckContext returns an ErrCancelled error if ctx is done, and nil
// otherwise. Store implementations call it at the top of each method.
func CheckContext(ctx context.Context, op, path string) error {
	if err := ctx.Err(); err != nil {
		return &Error{Kind: ErrCancelled, Op: op, Path: path, Err: err}
	}
	return nil
}
