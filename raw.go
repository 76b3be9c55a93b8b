package docskema

import (
	"encoding/json"
	"math"
	"reflect"
)

// Plain converts a raw value into plain Go JSON values: document containers
// are copied into map[string]any and []any, numbers become float64 and
// Undefined becomes nil. Plain containers are deep-copied.
func Plain(raw any) any {
	switch t := raw.(type) {
	case nil, bool, string, float64:
		return t
	case undefined:
		return nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = Plain(v)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = Plain(v)
		}
		return out
	case MapNode:
		keys := t.Keys()
		out := make(map[string]any, len(keys))
		for _, k := range keys {
			v, _ := t.Get(k)
			out[k] = Plain(v)
		}
		return out
	case ListNode:
		n := t.Len()
		out := make([]any, n)
		for i := 0; i < n; i++ {
			out[i] = Plain(t.At(i))
		}
		return out
	}
	if f, ok := toFloat(raw); ok {
		return f
	}
	return raw
}

// cloneValue deep-copies the plain containers of a typed value so fallbacks
// and defaults are never aliased between results.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = cloneValue(x)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = cloneValue(x)
		}
		return out
	}
	return v
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN(), false
		}
		return f, true
	}
	return 0, false
}

// asMap views raw as a keyed container.
func asMap(raw any) (get func(string) (any, bool), ok bool) {
	switch t := raw.(type) {
	case map[string]any:
		return func(k string) (any, bool) { v, ok := t[k]; return v, ok }, true
	case MapNode:
		return t.Get, true
	}
	return nil, false
}

// asList views raw as an indexed container.
func asList(raw any) (n int, at func(int) any, ok bool) {
	switch t := raw.(type) {
	case []any:
		return len(t), func(i int) any { return t[i] }, true
	case ListNode:
		return t.Len(), t.At, true
	}
	return 0, nil, false
}

// sliceOf adapts typed slices of any element type to []any for encoding.
func sliceOf(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
