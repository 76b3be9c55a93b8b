package docskema

import (
	"fmt"
	"strconv"
	"strings"
)

// Decode converts an untyped value into the typed value described by s.
// Failures are returned as Issues; only Default nodes swallow them.
func Decode(s *Schema, raw any) (any, error) {
	return DecodeWith(s, raw, DecodeOpt{})
}

// DecodeWith is Decode with explicit options.
func DecodeWith(s *Schema, raw any, opt DecodeOpt) (any, error) {
	d := decoder{opt: opt}
	v, iss := d.decode(s, raw, "")
	if len(iss) > 0 {
		return nil, iss
	}
	return v, nil
}

// MustDecode is like Decode but panics on error.
func MustDecode(s *Schema, raw any) any {
	v, err := Decode(s, raw)
	if err != nil {
		panic(err)
	}
	return v
}

// DecodeLenient decodes raw like Decode, but never fails: every sub-value
// that does not decode is replaced by its synthesized default while its
// siblings keep their decoded values. The replaced failures are returned.
func DecodeLenient(s *Schema, raw any) (any, Issues) {
	var swallowed Issues
	d := decoder{lenient: true, swallowed: &swallowed}
	v, _ := d.decode(s, raw, "")
	return v, swallowed
}

type decoder struct {
	opt DecodeOpt

	lenient   bool
	swallowed *Issues
}

// decode decodes one node. Lenient decoders substitute the node's default
// for a failure; containers recurse through decode, so only the innermost
// failing node is replaced.
func (d decoder) decode(s *Schema, raw any, path string) (any, Issues) {
	v, iss := d.decodeNode(s, raw, path)
	if len(iss) > 0 && d.lenient {
		*d.swallowed = AppendIssues(*d.swallowed, iss...)
		return SynthesizeDefault(s), nil
	}
	return v, iss
}

func (d decoder) decodeNode(s *Schema, raw any, path string) (any, Issues) {
	switch s.kind {
	case KindBoolean:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
		return nil, Issues{newIssue(path, CodeInvalidType, "expected boolean")}
	case KindNumber:
		if f, ok := toFloat(raw); ok {
			return f, nil
		}
		return nil, Issues{newIssue(path, CodeInvalidType, "expected number")}
	case KindString:
		if str, ok := raw.(string); ok {
			return str, nil
		}
		return nil, Issues{newIssue(path, CodeInvalidType, "expected string")}
	case KindJSON:
		return Plain(raw), nil
	case KindMaybeUndefined:
		if raw == nil || IsUndefined(raw) {
			return Undefined, nil
		}
		return d.decode(s.inner, raw, path)
	case KindMaybeNull:
		if raw == nil {
			return nil, nil
		}
		return d.decode(s.inner, raw, path)
	case KindArray:
		return d.decodeArray(s, raw, path)
	case KindObject:
		return d.decodeObject(s, raw, path)
	case KindUnion:
		return d.decodeUnion(s, raw, path)
	case KindInvariant:
		v, iss := d.decode(s.inner, raw, path)
		if len(iss) > 0 {
			return nil, iss
		}
		return d.convert(s.from, v, path)
	case KindDefault:
		return d.decodeDefault(s, raw, path)
	case KindRecursive:
		return d.decode(s.Force(), raw, path)
	}
	return nil, Issues{newIssue(path, CodeParseError, "unsupported schema kind "+s.kind.String())}
}

func (d decoder) decodeArray(s *Schema, raw any, path string) (any, Issues) {
	n, at, ok := asList(raw)
	if !ok {
		return nil, Issues{newIssue(path, CodeInvalidType, "expected array")}
	}
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		ev, iss := d.decode(s.inner, at(i), path+"/"+strconv.Itoa(i))
		if len(iss) > 0 {
			return nil, iss
		}
		out = append(out, ev)
	}
	return out, nil
}

func (d decoder) decodeObject(s *Schema, raw any, path string) (any, Issues) {
	get, ok := asMap(raw)
	if !ok {
		return nil, Issues{newIssue(path, CodeInvalidType, "expected object")}
	}
	return d.decodeFields(s.fields, get, path)
}

// decodeFields fills every declared field: present keys are decoded, missing
// ones get a synthesized default.
func (d decoder) decodeFields(fields []Field, get func(string) (any, bool), path string) (map[string]any, Issues) {
	out := make(map[string]any, len(fields))
	var iss Issues
	for _, f := range fields {
		rv, present := get(f.Name)
		if !present {
			out[f.Name] = SynthesizeDefault(f.Schema)
			continue
		}
		v, fi := d.decode(f.Schema, rv, path+"/"+escapePointer(f.Name))
		if len(fi) > 0 {
			iss = AppendIssues(iss, fi...)
			if d.opt.FailFast {
				return nil, iss
			}
			continue
		}
		out[f.Name] = v
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (d decoder) decodeUnion(s *Schema, raw any, path string) (any, Issues) {
	get, ok := asMap(raw)
	if !ok {
		return nil, Issues{newIssue(path, CodeInvalidType, "expected object")}
	}
	selPath := path + "/" + escapePointer(s.selector)
	sv, _ := get(s.selector)
	tag, _ := sv.(string)
	if tag == "" {
		return nil, Issues{newIssue(selPath, CodeDiscriminatorMissing, "discriminator missing")}
	}
	shape, ok := s.VariantShape(tag)
	if !ok {
		return nil, Issues{newIssue(selPath, CodeDiscriminatorUnknown, "unknown variant: '"+tag+"'")}
	}
	out, iss := d.decodeFields(shape.fields, get, path)
	if len(iss) > 0 {
		return nil, iss
	}
	out[s.selector] = tag
	return out, nil
}

// decodeDefault swallows every failure of the inner decode, panics included.
// The inner decode is strict: any failure below a Default yields its
// fallback, never a partially defaulted value.
func (d decoder) decodeDefault(s *Schema, raw any, path string) (v any, iss Issues) {
	defer func() {
		if r := recover(); r != nil {
			v, iss = cloneValue(s.fallback), nil
		}
	}()
	strict := decoder{opt: d.opt}
	v, iss = strict.decode(s.inner, raw, path)
	if len(iss) > 0 {
		return cloneValue(s.fallback), nil
	}
	return v, nil
}

// convert applies an Invariant conversion, reporting a panic as an issue.
func (d decoder) convert(fn func(any) any, v any, path string) (out any, iss Issues) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%v", r)
			}
			it := newIssue(path, CodeParseError, "invariant conversion failed")
			it.Cause = err
			out, iss = nil, Issues{it}
		}
	}()
	return fn(v), nil
}

// escapePointer escapes a JSON Pointer reference token per RFC 6901.
func escapePointer(tok string) string {
	if !strings.ContainsAny(tok, "~/") {
		return tok
	}
	return strings.ReplaceAll(strings.ReplaceAll(tok, "~", "~0"), "/", "~1")
}
