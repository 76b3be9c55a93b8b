package docskema

// DecodeOpt bundles decoding options.
type DecodeOpt struct {
	// FailFast stops at the first issue instead of collecting issues across
	// sibling object fields.
	FailFast bool
}

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined is the typed value of an absent MaybeUndefined field. It is
// distinct from nil, which MaybeNull uses.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined marker.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// MapNode is a keyed container of a mutable document. Decode reads it like a
// map[string]any without copying it first.
type MapNode interface {
	Get(key string) (any, bool)
	Keys() []string
}

// ListNode is an indexed container of a mutable document.
type ListNode interface {
	Len() int
	At(i int) any
}
