// Package jsonvalue provides a tagged-variant JSON document that never
// panics on a missing or mistyped field. It exists because the function
// metadata manager round-trips loosely-structured config documents
// (function.json, host.json, binding objects) while still needing to
// reach into specific fields such as "disabled" or "bindings.input".
// A round trip keeps object field order and every value; it does not
// keep the original whitespace or number spelling, since numbers are
// re-encoded from float64 (1.50 comes back as 1.5).
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies the underlying JSON shape held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value is a closed tagged variant over the JSON data model. The zero
// Value is KindNull.
type Value struct {
	kind   Kind
	bol    bool
	num    float64
	str    string
	arr    []Value
	obj    map[string]Value
	// keys preserves object key order so re-marshaling an Object built
	// from Parse round-trips field order, not just content.
	keys []string
}

// Null returns the null Value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, bol: b} }

// Number wraps a float64.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Array wraps a slice of Values.
func Array(items []Value) Value { return Value{kind: KindArray, arr: items} }

// Object builds an Object Value from an ordered slice of key/value pairs.
func Object(pairs ...KV) Value {
	v := Value{kind: KindObject, obj: make(map[string]Value, len(pairs))}
	for _, p := range pairs {
		if _, exists := v.obj[p.Key]; !exists {
			v.keys = append(v.keys, p.Key)
		}
		v.obj[p.Key] = p.Val
	}
	return v
}

// KV is a single object field, used with Object.
type KV struct {
	Key string
	Val Value
}

// Parse decodes raw JSON text into a Value. Key order for nested objects
// is recovered via ParsePreservingOrder; callers that don't care about
// round trip can use this directly.
func Parse(data []byte) (Value, error) {
	return ParsePreservingOrder(data)
}

// ParsePreservingOrder decodes raw JSON text by walking the token stream
// directly so object key order matches the source document exactly.
// Parse delegates here; the function manager relies on this ordering
// when it writes a config document back out after a partial edit.
func ParsePreservingOrder(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("jsonvalue: parse: %w", err)
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			v := Value{kind: KindObject, obj: map[string]Value{}}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, _ := keyTok.(string)
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				if _, exists := v.obj[key]; !exists {
					v.keys = append(v.keys, key)
				}
				v.obj[key] = val
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return v, nil
		case '[':
			v := Value{kind: KindArray}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				v.arr = append(v.arr, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return v, nil
		}
	case json.Number:
		f, _ := t.Float64()
		return Number(f), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	}
	return Null(), fmt.Errorf("jsonvalue: unexpected token %v", tok)
}

// Kind reports the Value's variant.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null (or the zero Value).
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean value and whether v actually holds a bool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.bol, true
}

// AsString returns the string value and whether v actually holds a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsNumber returns the numeric value and whether v actually holds a number.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// AsArray returns the element slice and whether v actually holds an array.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// Get returns the field named key from an Object Value, or Null if v is
// not an Object or the field is absent. Never panics.
func (v Value) Get(key string) Value {
	if v.kind != KindObject || v.obj == nil {
		return Null()
	}
	if val, ok := v.obj[key]; ok {
		return val
	}
	return Null()
}

// Path walks a path of object fields given as separate segments
// (e.g. Path("bindings", "input")), returning Null at the first
// missing or non-object segment.
func (v Value) Path(segments ...string) Value {
	cur := v
	for _, s := range segments {
		cur = cur.Get(s)
	}
	return cur
}

// Truthy mirrors the loose-JSON truthiness the original config reader
// relies on for flags like "disabled": present, non-null and not
// explicitly false/0/""/[] counts as true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.bol
	case KindNumber:
		return v.num != 0
	case KindString:
		return v.str != ""
	case KindArray:
		return len(v.arr) > 0
	case KindObject:
		return true
	}
	return false
}

// Keys returns the object's field names in their original order, or nil
// if v is not an Object.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	return append([]string(nil), v.keys...)
}

// MarshalJSON implements json.Marshaler, preserving object key order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.bol {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		b, err := json.Marshal(v.num)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindString:
		b, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := v.obj[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler using the order-preserving
// token-stream decoder.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParsePreservingOrder(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

var _ fmt.Stringer = Value{}

// String renders compact JSON text, mainly for logging.
func (v Value) String() string {
	b, err := json.Marshal(v)
	if err != nil {
		return "<invalid json>"
	}
	return string(b)
}
