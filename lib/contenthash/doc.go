// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package contenthash computes streaming SHA-256 digests of file
// content.
//
// Content is always streamed through the hash (via io.Copy) so memory
// use is constant regardless of file size. Sum takes ownership of the
// stream it is given and closes it whether or not hashing succeeds; a
// failed read yields an error wrapping ErrRead and never a partial
// digest.
//
// VerifyingReader is the read-side counterpart: it passes content
// through unchanged and fails at end of stream when the digest does
// not match the one the content was stored under.
package contenthash
