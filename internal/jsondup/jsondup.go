// Package jsondup finds repeated object keys in JSON text. Decoding into
// map[string]any silently keeps the last occurrence, so world files are
// checked before they are decoded.
package jsondup

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	docskema "github.com/reoring/docskema"
)

// CodeDuplicateKey is the issue code reported for a repeated key.
const CodeDuplicateKey = "duplicate_key"

type frame struct {
	object       bool
	keys         map[string]struct{}
	expectingKey bool
	key          string // current member key (objects)
	index        int    // next element index (arrays)
}

// Detect reports every repeated key in data, at most max issues when max > 0.
// Each issue path is the JSON Pointer of the object holding the duplicate.
// Malformed JSON yields a single parse_error issue.
func Detect(data []byte, max int) docskema.Issues {
	return DetectReader(bytes.NewReader(data), max)
}

// DetectReader is Detect over a reader; r is consumed fully.
func DetectReader(r io.Reader, max int) docskema.Issues {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var (
		issues docskema.Issues
		stack  []*frame
	)
	full := func() bool { return max > 0 && len(issues) >= max }

	// value marks the end of a value inside the enclosing container.
	value := func() {
		if len(stack) == 0 {
			return
		}
		top := stack[len(stack)-1]
		if top.object {
			top.expectingKey = true
		} else {
			top.index++
		}
	}

	for !full() {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if len(stack) > 0 {
				return parseError(io.ErrUnexpectedEOF)
			}
			break
		}
		if err != nil {
			return parseError(err)
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, &frame{object: true, keys: map[string]struct{}{}, expectingKey: true})
			case '[':
				stack = append(stack, &frame{})
			case '}', ']':
				stack = stack[:len(stack)-1]
				value()
			}
		case string:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.object && top.expectingKey {
					if _, dup := top.keys[v]; dup {
						issues = append(issues, docskema.Issue{
							Path:    pointer(stack[:len(stack)-1]),
							Code:    CodeDuplicateKey,
							Message: "key '" + v + "' duplicated",
						})
					}
					top.keys[v] = struct{}{}
					top.key = v
					top.expectingKey = false
					continue
				}
			}
			value()
		default:
			value()
		}
	}
	return issues
}

func parseError(err error) docskema.Issues {
	return docskema.Issues{{Path: "/", Code: docskema.CodeParseError, Message: err.Error(), Cause: err}}
}

// pointer renders the location of the container opened after the given
// ancestors.
func pointer(ancestors []*frame) string {
	if len(ancestors) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, f := range ancestors {
		b.WriteByte('/')
		if f.object {
			b.WriteString(escape(f.key))
		} else {
			b.WriteString(strconv.Itoa(f.index))
		}
	}
	return b.String()
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}
