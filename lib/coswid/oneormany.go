// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package coswid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/bureau-foundation/swidtree/lib/codec"
)

// Cardinality is which case of a one-or-more field a value is in.
type Cardinality int

const (
	// Absent means the field is omitted from the encoded map.
	Absent Cardinality = iota
	// Single means the field holds one bare value.
	Single
	// Multiple means the field holds an array of two or more values.
	Multiple
)

func (c Cardinality) String() string {
	switch c {
	case Absent:
		return "absent"
	case Single:
		return "single"
	case Multiple:
		return "multiple"
	default:
		return fmt.Sprintf("Cardinality(%d)", int(c))
	}
}

// CardinalityOf returns the case a list of n values collapses to.
func CardinalityOf(n int) Cardinality {
	switch {
	case n <= 0:
		return Absent
	case n == 1:
		return Single
	default:
		return Multiple
	}
}

// OneOrMany is the CoSWID one-or-more<T> type. The encoded form
// depends only on the number of values: one value encodes bare, two or
// more encode as an array in order. A nil *OneOrMany is absent.
//
// Construct with Collapse or One. A non-nil OneOrMany with no values
// is invalid and fails to encode.
type OneOrMany[T any] struct {
	values []T
}

// Collapse returns nil for an empty list, a single value for a list of
// one, and an ordered multi-value for longer lists. The input slice is
// copied.
func Collapse[T any](values []T) *OneOrMany[T] {
	if len(values) == 0 {
		return nil
	}
	return &OneOrMany[T]{values: slices.Clone(values)}
}

// One returns a OneOrMany holding exactly value.
func One[T any](value T) *OneOrMany[T] {
	return &OneOrMany[T]{values: []T{value}}
}

// Cardinality reports which case o is in. Safe on nil.
func (o *OneOrMany[T]) Cardinality() Cardinality {
	return CardinalityOf(o.Len())
}

// Len returns the number of values. Safe on nil.
func (o *OneOrMany[T]) Len() int {
	if o == nil {
		return 0
	}
	return len(o.values)
}

// Values returns the values in order. The returned slice must not be
// modified. Safe on nil.
func (o *OneOrMany[T]) Values() []T {
	if o == nil {
		return nil
	}
	return o.values
}

// Single returns the value when o holds exactly one.
func (o *OneOrMany[T]) Single() (T, bool) {
	if o.Len() != 1 {
		var zero T
		return zero, false
	}
	return o.values[0], true
}

// MarshalCBOR implements cbor.Marshaler.
func (o *OneOrMany[T]) MarshalCBOR() ([]byte, error) {
	switch o.Len() {
	case 0:
		return nil, fmt.Errorf("coswid: one-or-more value holds no elements")
	case 1:
		return codec.Marshal(o.values[0])
	default:
		return codec.Marshal(o.values)
	}
}

// UnmarshalCBOR implements cbor.Unmarshaler. An array is decoded as
// the multiple case and must hold at least two elements; anything else
// is decoded as a single T.
func (o *OneOrMany[T]) UnmarshalCBOR(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("coswid: empty one-or-more value")
	}
	const majorTypeArray = 4
	if data[0]>>5 == majorTypeArray {
		var values []T
		if err := codec.Unmarshal(data, &values); err != nil {
			return err
		}
		if len(values) < 2 {
			return fmt.Errorf("coswid: one-or-more array holds %d elements, want at least 2", len(values))
		}
		o.values = values
		return nil
	}
	var value T
	if err := codec.Unmarshal(data, &value); err != nil {
		return err
	}
	o.values = []T{value}
	return nil
}

// MarshalJSON implements json.Marshaler with the same collapsing rule
// as the CBOR form.
func (o *OneOrMany[T]) MarshalJSON() ([]byte, error) {
	switch o.Len() {
	case 0:
		return nil, fmt.Errorf("coswid: one-or-more value holds no elements")
	case 1:
		return json.Marshal(o.values[0])
	default:
		return json.Marshal(o.values)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var values []T
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		if len(values) < 2 {
			return fmt.Errorf("coswid: one-or-more array holds %d elements, want at least 2", len(values))
		}
		o.values = values
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.values = []T{value}
	return nil
}
