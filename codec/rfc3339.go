package codec

import (
	"time"

	docskema "github.com/reoring/docskema"
	"github.com/reoring/docskema/dsl"
)

// TimeRFC3339 returns an Invariant schema presenting RFC3339 strings as
// time.Time. The empty string maps to the zero time and back.
func TimeRFC3339() *docskema.Schema {
	return dsl.Invariant[time.Time](dsl.String(), decodeRFC3339, encodeRFC3339)
}

func decodeRFC3339(v any) time.Time {
	s, _ := v.(string)
	if s == "" {
		return time.Time{}
	}
	t, err := parseRFC3339(s)
	if err != nil {
		// Reported by Decode as a parse_error issue; Default nodes mask it.
		panic(err)
	}
	return t
}

func encodeRFC3339(t time.Time) any {
	if t.IsZero() {
		return ""
	}
	return formatRFC3339Canonical(t)
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}
