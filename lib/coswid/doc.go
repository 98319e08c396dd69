// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package coswid models Concise Software Identification tags (CoSWID,
// RFC 9393) and encodes them as deterministic CBOR.
//
// Only the subset of the schema swidtree produces is modelled: the
// concise-swid-tag map, entity entries, the payload, and the
// directory/file resource tree with hash entries. Every struct field
// carries the RFC 9393 integer map key, so the encoding is the compact
// CBOR form rather than the string-keyed JSON form.
//
// Many CoSWID fields are typed one-or-more<T>: a single bare T, or an
// array of two or more. OneOrMany models this. A nil *OneOrMany is the
// absent case and is omitted from the encoded map; Collapse builds the
// right case from a slice.
//
//	root := &coswid.Directory{
//		FSName: "",
//		Root:   coswid.RootPath,
//		PathElements: &coswid.PathElements{
//			File: coswid.Collapse(files),
//		},
//	}
package coswid
