// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package treewalk turns a snapshot directory tree into a CoSWID
// directory-entry with a SHA-256 hash for every regular file.
//
// Walk traverses depth-first from a root handle. Directories recurse,
// regular files are hashed from the store's content stream, and
// symlinks and special files are skipped (counted and logged at debug
// level, never an error). Any store or read failure aborts the whole
// walk; there is no partial result.
//
// Traversal always runs on the calling goroutine. With
// Options.Concurrency above one, file hashing is handed to a bounded
// errgroup; each file writes only its own pre-allocated slot, so the
// output order is the discovery order regardless of which hash
// finishes first.
package treewalk
