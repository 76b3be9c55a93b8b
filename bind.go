package docskema

import (
	json "github.com/goccy/go-json"
)

// As binds a typed value to the Go type T. Values already of type T are
// returned as-is; records and arrays are bridged through their JSON form, so
// struct fields resolve by json tag.
func As[T any](v any) (T, error) {
	if t, ok := v.(T); ok {
		return t, nil
	}
	var out T
	b, err := json.Marshal(Plain(v))
	if err != nil {
		return out, Issues{Issue{Path: "/", Code: CodeParseError, Message: "bind: " + err.Error(), Cause: err}}
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, Issues{Issue{Path: "/", Code: CodeInvalidType, Message: "bind: " + err.Error(), Cause: err}}
	}
	return out, nil
}

// DecodeAs decodes raw with s and binds the result to T.
func DecodeAs[T any](s *Schema, raw any) (T, error) {
	v, err := Decode(s, raw)
	if err != nil {
		var zero T
		return zero, err
	}
	return As[T](v)
}
