// Package snapshot holds FieldSnapshot, the portable result of a capture.
//
// A snapshot is a flat mapping from field key to string value. Boolean
// controls use the reserved Checked and Unchecked tokens. The JSON form is
// a plain object with string values; anything else is ErrInvalidShape.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Reserved values for checkbox state. No other control kind emits them.
const (
	Checked   = "__CHECKED__"
	Unchecked = "__UNCHECKED__"
)

// ErrInvalidShape is returned when input is not a flat string-keyed mapping
// of string values.
var ErrInvalidShape = errors.New("snapshot must be a flat mapping of string keys to string values")

// FieldSnapshot maps field keys to captured values. Iteration order carries
// no meaning.
type FieldSnapshot map[string]string

// Bool returns the sentinel for a checked state.
func Bool(checked bool) string {
	if checked {
		return Checked
	}
	return Unchecked
}

// IsSentinel reports whether v is one of the reserved tokens.
func IsSentinel(v string) bool {
	return v == Checked || v == Unchecked
}

// Parse decodes a JSON snapshot. A JSON null decodes to an empty snapshot.
func Parse(data []byte) (FieldSnapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidShape)
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return FromValue(raw)
}

// FromValue converts an already decoded JSON value.
func FromValue(v interface{}) (FieldSnapshot, error) {
	if v == nil {
		return FieldSnapshot{}, nil
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidShape, v)
	}

	snap := make(FieldSnapshot, len(obj))
	for key, val := range obj {
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("%w: key %q has %T value", ErrInvalidShape, key, val)
		}
		snap[key] = s
	}
	return snap, nil
}

// Keys returns the keys in sorted order.
func (s FieldSnapshot) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalIndent encodes the snapshot as indented JSON for export.
func (s FieldSnapshot) MarshalIndent() ([]byte, error) {
	if s == nil {
		s = FieldSnapshot{}
	}
	return json.MarshalIndent(map[string]string(s), "", "  ")
}
