// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for swidtree packages.
//
// [WriteTree] lays out a directory tree on disk from a path-to-content
// map, including empty directories and symlinks, so tests that commit
// real trees describe them in one literal.
//
// [RequireReceive] encapsulates the timeout safety valve pattern
// (select with time.After fallback) so that individual tests do not
// need direct time.After calls.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no swidtree-internal dependencies.
package testutil
