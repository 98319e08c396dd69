// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package coswid

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HashAlgorithm is a hash algorithm id from the IANA Named Information
// Hash Algorithm Registry.
type HashAlgorithm uint

// SHA256 is the only algorithm swidtree emits.
const SHA256 HashAlgorithm = 1

// SHA256Size is the digest length for SHA256.
const SHA256Size = 32

func (a HashAlgorithm) String() string {
	if a == SHA256 {
		return "sha-256"
	}
	return fmt.Sprintf("alg-%d", uint(a))
}

// HashEntry is a hash-entry: [alg-id, hash-value].
type HashEntry struct {
	_         struct{} `cbor:",toarray"`
	Algorithm HashAlgorithm
	Value     []byte
}

// SHA256Entry returns a hash-entry for a SHA-256 digest.
func SHA256Entry(digest [32]byte) *HashEntry {
	return &HashEntry{Algorithm: SHA256, Value: digest[:]}
}

// Validate checks the digest length for algorithms with a known size.
func (h *HashEntry) Validate() error {
	if len(h.Value) == 0 {
		return fmt.Errorf("empty %s digest", h.Algorithm)
	}
	if h.Algorithm == SHA256 && len(h.Value) != SHA256Size {
		return fmt.Errorf("%s digest is %d bytes, want %d", h.Algorithm, len(h.Value), SHA256Size)
	}
	return nil
}

// hashEntryJSON is the readable JSON rendering used by inspect.
type hashEntryJSON struct {
	Algorithm string `json:"alg"`
	Value     string `json:"value"`
}

// MarshalJSON renders the entry as {"alg": "sha-256", "value": hex}.
func (h HashEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(hashEntryJSON{Algorithm: h.Algorithm.String(), Value: hex.EncodeToString(h.Value)})
}
