// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"context"
	"fmt"
	"io"
)

// Kind classifies a directory entry.
type Kind uint8

const (
	// KindOther is anything that is not a regular file, directory, or
	// symlink: device nodes, fifos, sockets.
	KindOther Kind = iota
	KindRegular
	KindDirectory
	KindSymlink
)

func (k Kind) String() string {
	switch k {
	case KindOther:
		return "other"
	case KindRegular:
		return "regular"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Entry is one child of a directory.
type Entry[H any] struct {
	// Name is the basename within the parent directory.
	Name string
	Kind Kind
	// Handle identifies the entry to later Enumerate or ContentID
	// calls on the same store.
	Handle H
}

// Store is read access to an immutable snapshot store. Every method
// must honor ctx cancellation by returning an error of kind
// ErrCancelled.
type Store[H any] interface {
	// Resolve maps a ref name to the root directory of the commit it
	// points at and that commit's id. Fails with ErrNotFound.
	Resolve(ctx context.Context, ref string) (root H, commit string, err error)

	// Enumerate lists the direct children of dir in the store's own
	// order. Fails with ErrIO.
	Enumerate(ctx context.Context, dir H) ([]Entry[H], error)

	// ContentID returns the content id of a regular file. Fails with
	// ErrMissingChecksum if the store has none recorded.
	ContentID(ctx context.Context, file H) (string, error)

	// OpenContent opens the content stored under id. The caller
	// closes the stream. Fails with ErrIO.
	OpenContent(ctx context.Context, id string) (io.ReadCloser, error)
}
