package docskema

import (
	"bytes"
	"reflect"

	json "github.com/goccy/go-json"
)

// Equal reports whether a and b are structurally equal under s by comparing
// their serialized encodings.
// TODO: walk both encodings in lockstep instead of serializing once profiles
// show Equal on hot write paths.
func Equal(s *Schema, a, b any) bool {
	return EncodedEqual(Encode(s, a), Encode(s, b))
}

// EncodedEqual compares two untyped values by their canonical JSON text.
// Map keys serialize in sorted order, so key order never matters.
func EncodedEqual(a, b any) bool {
	ba, errA := Canonical(a)
	bb, errB := Canonical(b)
	if errA != nil || errB != nil {
		// NaN and ±Inf have no JSON text.
		return reflect.DeepEqual(Plain(a), Plain(b))
	}
	return bytes.Equal(ba, bb)
}

// Canonical serializes an untyped value (document containers included) to
// JSON with sorted object keys.
func Canonical(v any) ([]byte, error) {
	return json.Marshal(Plain(v))
}
