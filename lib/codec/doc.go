// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides swidtree's standard CBOR encoding configuration.
//
// Everything swidtree writes to disk is CBOR: the CoSWID tags it
// generates, and the object store's commit, tree, ref, and
// configuration records. This package holds the one shared encoder and
// decoder so every package encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes, which is what makes object ids and generated tags
// reproducible.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
//
// CoSWID documents may be wrapped in a semantic tag; MarshalTagged
// and Untag add and remove it.
//
// # Struct Tag Rules
//
//   - `cbor` tag with string names: internal on-disk records that are
//     never rendered as JSON (object store commits, trees, refs).
//   - `cbor:"N,keyasint"` plus `json` tag: CoSWID types. The integer
//     key is the RFC 9393 wire key; the json name is the RFC 9393 JSON
//     member name used by `swidtree inspect`. These are the only types
//     that carry both tags.
package codec
