// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package coswid

import (
	"errors"
	"fmt"
	"io"

	"github.com/bureau-foundation/swidtree/lib/codec"
)

var (
	// ErrSerialization marks a tag that cannot be represented in the
	// CoSWID schema, or bytes that do not decode as one.
	ErrSerialization = errors.New("coswid serialization failed")

	// ErrWrite marks a failure of the destination sink.
	ErrWrite = errors.New("writing coswid tag")
)

// EncodeOptions controls the encoded form.
type EncodeOptions struct {
	// Tagged wraps the map in CBOR tag TagNumber, producing the
	// tagged-coswid form.
	Tagged bool
}

// Marshal validates tag and encodes it as deterministic CBOR. Absent
// optional fields are omitted from the map. Output that [Unmarshal]
// could not read back is an error.
func Marshal(tag *Tag, options EncodeOptions) ([]byte, error) {
	if tag == nil {
		return nil, fmt.Errorf("%w: nil tag", ErrSerialization)
	}
	if err := tag.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	var data []byte
	var err error
	if options.Tagged {
		data, err = codec.MarshalTagged(TagNumber, tag)
	} else {
		data, err = codec.Marshal(tag)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	// A tree nested deeper than the decoder allows would encode but
	// never decode again.
	if err := codec.Wellformed(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return data, nil
}

// Encode marshals tag and writes it to w in a single write.
func Encode(w io.Writer, tag *Tag, options EncodeOptions) error {
	data, err := Marshal(tag, options)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Unmarshal decodes a CoSWID tag in either the tagged or the bare
// form.
func Unmarshal(data []byte) (*Tag, error) {
	content, _, err := codec.Untag(data, TagNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	var tag Tag
	if err := codec.Unmarshal(content, &tag); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return &tag, nil
}

// Decode reads all of r and decodes it with Unmarshal.
func Decode(r io.Reader) (*Tag, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading coswid tag: %w", err)
	}
	return Unmarshal(data)
}
