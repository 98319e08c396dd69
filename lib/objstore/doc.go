// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package objstore is a local content-addressed snapshot repository.
//
// A repository stores file content, directory trees, and commits as
// immutable objects named by the SHA-256 of their bytes, plus mutable
// refs that name commits. It implements snapshot.Store, so a commit
// can be walked to produce a CoSWID tag, and Commit imports a local
// directory as a new snapshot.
//
// On-disk layout:
//
//	<root>/config.cbor
//	<root>/objects/<id[:2]>/<id[2:]>.file      compression tag byte + content
//	<root>/objects/<id[:2]>/<id[2:]>.dirtree   CBOR DirTree
//	<root>/objects/<id[:2]>/<id[2:]>.commit    CBOR Commit
//	<root>/refs/<h[:2]>/<h[2:4]>/<h>.cbor       CBOR RefRecord
//	<root>/tmp/                                 staging for atomic writes
//
// A file object's id is the SHA-256 of its uncompressed content, so
// it is also the digest a walk reports for that file. Tree and commit
// ids are the SHA-256 of their deterministic CBOR encoding. Ref names
// may contain slashes and colons, so each ref file is addressed by the
// BLAKE3 keyed hash of its name and records the name inside.
//
// Every write goes to tmp/ first and is renamed into place, so a
// crashed import never leaves a truncated object under its final name.
// Reads of file content verify the digest at end of stream.
package objstore
