// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): sorted map keys, smallest integer
// encoding, no indefinite-length items. Same logical data always
// produces identical bytes.
var encMode cbor.EncMode

// decMode is the CBOR decoder. Unknown map keys are ignored so that
// tags produced by other CoSWID tools still decode, but duplicate keys
// are rejected.
var decMode cbor.DecMode

// MaxNestedLevels bounds decoder recursion and is the largest value
// the library accepts. Every directory level in a CoSWID payload costs
// up to three CBOR nesting levels (directory map, path-elements map,
// array), so the library default of 32 would reject ordinary
// filesystem depths. Encoding has no such bound; callers that must
// round-trip check the output with [Wellformed].
const MaxNestedLevels = 65535

// maxArrayElements bounds the length of a single decoded array, which
// for CoSWID is the number of entries in one directory.
const maxArrayElements = 1 << 24

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxNestedLevels:  MaxNestedLevels,
		MaxArrayElements: maxArrayElements,
		IndefLength:      cbor.IndefLengthForbidden,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Encoder is a CBOR stream encoder. Type alias so consumers import
// only lib/codec, not fxamacker/cbor directly.
type Encoder = cbor.Encoder

// Decoder is a CBOR stream decoder.
type Decoder = cbor.Decoder

// RawMessage is a raw encoded CBOR value. It implements
// cbor.Marshaler and cbor.Unmarshaler so it can be used to delay
// CBOR decoding or pre-encode CBOR output.
type RawMessage = cbor.RawMessage

// RawTag is a CBOR tag whose content is kept encoded.
type RawTag = cbor.RawTag

// NewEncoder returns a CBOR encoder that writes to w using the
// deterministic encoding configuration.
func NewEncoder(w io.Writer) *Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a CBOR decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return decMode.NewDecoder(r)
}

// MarshalTagged encodes v and wraps it in CBOR tag number.
func MarshalTagged(number uint64, v any) ([]byte, error) {
	content, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(RawTag{Number: number, Content: content})
}

// Untag strips CBOR tag number from data if present. The returned
// content aliases data. tagged reports whether the tag was found; a
// different tag number is an error rather than being passed through.
func Untag(data []byte, number uint64) (content []byte, tagged bool, err error) {
	if len(data) == 0 {
		return nil, false, fmt.Errorf("codec: empty input")
	}
	const majorTypeTag = 6
	if data[0]>>5 != majorTypeTag {
		return data, false, nil
	}
	var raw RawTag
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return nil, false, err
	}
	if raw.Number != number {
		return nil, false, fmt.Errorf("codec: unexpected CBOR tag %d (want %d)", raw.Number, number)
	}
	return raw.Content, true, nil
}

// Wellformed reports whether data is exactly one well-formed CBOR
// data item under the decoder's limits.
func Wellformed(data []byte) error {
	return decMode.Wellformed(data)
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for the
// entire contents of data.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}

// DiagnoseFirst returns the CBOR diagnostic notation for the first
// data item in data, along with the remaining unconsumed bytes. Use
// this to process CBOR sequences one item at a time.
func DiagnoseFirst(data []byte) (string, []byte, error) {
	return cbor.DiagnoseFirst(data)
}
