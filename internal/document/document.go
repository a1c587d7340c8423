// Package document provides the JSON value model the query engine and
// the aggregate functions operate on. Object members keep their input
// order so query results are deterministic.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jacoelho/jp/internal/b64"
)

// ErrDecode indicates malformed JSON input.
var ErrDecode = errors.New("document: invalid JSON")

// Value is a JSON value. AsNumber and AsString are the coercions the
// aggregate functions rely on; Interface returns the plain Go
// representation for output and comparisons.
type Value interface {
	AsNumber() float64
	AsString() string
	Interface() any
}

// Number is a JSON number.
type Number float64

func (n Number) AsNumber() float64 { return float64(n) }

func (n Number) AsString() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func (n Number) Interface() any { return float64(n) }

// String is a JSON string. AsNumber parses the text as a float and
// yields 0 when it does not parse.
type String string

func (s String) AsNumber() float64 {
	f, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func (s String) AsString() string { return string(s) }

func (s String) Interface() any { return string(s) }

// Bool is a JSON boolean; it coerces to 1 or 0.
type Bool bool

func (b Bool) AsNumber() float64 {
	if b {
		return 1
	}
	return 0
}

func (b Bool) AsString() string { return strconv.FormatBool(bool(b)) }

func (b Bool) Interface() any { return bool(b) }

// Null is the JSON null.
type Null struct{}

func (Null) AsNumber() float64 { return 0 }

func (Null) AsString() string { return "null" }

func (Null) Interface() any { return nil }

// Binary is an octet string. It is not part of the JSON data model; on
// output it round-trips through base64 as a JSON string.
type Binary []byte

func (b Binary) AsNumber() float64 { return 0 }

func (b Binary) AsString() string { return b64.Encode(b) }

func (b Binary) Interface() any { return b64.Encode(b) }

// BinaryFromBase64 decodes a base64 string produced by Binary output
// back into the octet string.
func BinaryFromBase64(s string) (Binary, error) {
	data, err := b64.Decode(s)
	if err != nil {
		return nil, err
	}
	return Binary(data), nil
}

// Array is an ordered sequence of values.
type Array struct {
	elems []Value
}

// NewArray builds an array from the given elements.
func NewArray(elems ...Value) *Array {
	return &Array{elems: elems}
}

// Append adds a value at the end of the array.
func (a *Array) Append(v Value) {
	a.elems = append(a.elems, v)
}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.elems) }

// At returns the element at index i.
func (a *Array) At(i int) Value { return a.elems[i] }

// Elems returns the underlying element slice.
func (a *Array) Elems() []Value { return a.elems }

func (a *Array) AsNumber() float64 { return 0 }

func (a *Array) AsString() string {
	data, err := json.Marshal(a.Interface())
	if err != nil {
		return ""
	}
	return string(data)
}

func (a *Array) Interface() any {
	out := make([]any, len(a.elems))
	for i, e := range a.elems {
		out[i] = e.Interface()
	}
	return out
}

// Object is a JSON object with insertion-ordered members.
type Object struct {
	names   []string
	members map[string]Value
}

// NewObject builds an empty object.
func NewObject() *Object {
	return &Object{members: make(map[string]Value)}
}

// Set adds or replaces a member, keeping first-insertion order.
func (o *Object) Set(name string, v Value) {
	if _, ok := o.members[name]; !ok {
		o.names = append(o.names, name)
	}
	o.members[name] = v
}

// Member returns the named member.
func (o *Object) Member(name string) (Value, bool) {
	v, ok := o.members[name]
	return v, ok
}

// Names returns member names in insertion order.
func (o *Object) Names() []string { return o.names }

// Len returns the number of members.
func (o *Object) Len() int { return len(o.names) }

func (o *Object) AsNumber() float64 { return 0 }

func (o *Object) AsString() string {
	data, err := json.Marshal(o.Interface())
	if err != nil {
		return ""
	}
	return string(data)
}

func (o *Object) Interface() any {
	out := make(map[string]any, len(o.names))
	for _, name := range o.names {
		out[name] = o.members[name].Interface()
	}
	return out
}

// Decode parses JSON input into a Value tree. Numbers are kept exact
// through json.Number before conversion, and object member order is
// preserved.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	// A valid document has exactly one top-level value.
	if _, err := dec.Token(); err == nil {
		return nil, fmt.Errorf("%w: trailing data after top-level value", ErrDecode)
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("%w: unexpected %q", ErrDecode, t.String())
		}
	case string:
		return String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: number %q: %v", ErrDecode, t.String(), err)
		}
		return Number(f), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	default:
		return nil, fmt.Errorf("%w: unexpected token %v", ErrDecode, tok)
	}
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key %v", ErrDecode, tok)
		}

		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(name, v)
	}
	// Consume '}'.
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	arr := NewArray()
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr.Append(v)
	}
	// Consume ']'.
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return arr, nil
}

// Marshal renders a value as compact JSON.
func Marshal(v Value) ([]byte, error) {
	return json.Marshal(v.Interface())
}
