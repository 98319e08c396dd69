// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapshot defines the capability swidtree needs from a
// content-addressed snapshot store: resolve a ref to a root directory,
// list a directory, and read a regular file's content by its content
// id.
//
// Store is generic over the handle type H the implementation hands
// out, so ContentID accepts exactly the handles Enumerate produced and
// callers never type-assert. lib/objstore is the on-disk
// implementation; snapshottest is an in-memory one for tests.
//
// Errors returned by a Store are *Error values whose Kind is one of
// ErrNotFound, ErrIO, ErrMissingChecksum, or ErrCancelled, so callers
// classify them with errors.Is. Cancellation also matches the
// context's own error (context.Canceled or context.DeadlineExceeded).
package snapshot
