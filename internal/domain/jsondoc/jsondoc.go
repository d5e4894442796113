// Package jsondoc parses JSON text into a closed set of value kinds.
//
// Callers branch on shape with a type switch over Object, Array, Number,
// String and Other instead of probing untyped interface{} trees. Object
// members keep their document order so a parsed document can be written
// back without reshuffling keys.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Kind names the shape of a Value.
type Kind int

// Value kinds.
const (
	KindObject Kind = iota
	KindArray
	KindNumber
	KindString
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindOther:
		return "other"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one parsed JSON value. The set of implementations is closed.
type Value interface {
	Kind() Kind
	isValue()
}

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object with members in document order.
type Object struct {
	Members []Member
}

// Array is a JSON array.
type Array struct {
	Elems []Value
}

// Number keeps the literal text so re-encoding reproduces it exactly.
type Number struct {
	Literal json.Number
}

// String is a JSON string.
type String struct {
	Text string
}

// Other covers true, false and null.
type Other struct {
	Raw json.RawMessage
}

func (Object) Kind() Kind { return KindObject }
func (Array) Kind() Kind  { return KindArray }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (Other) Kind() Kind  { return KindOther }

func (Object) isValue() {}
func (Array) isValue()  {}
func (Number) isValue() {}
func (String) isValue() {}
func (Other) isValue()  {}

// Get returns the value stored under key. With duplicate keys the last one
// wins, as with encoding/json.
func (o Object) Get(key string) (Value, bool) {
	for i := len(o.Members) - 1; i >= 0; i-- {
		if o.Members[i].Key == key {
			return o.Members[i].Value, true
		}
	}
	return nil, false
}

// Float64 converts the literal to a float64.
func (n Number) Float64() (float64, error) {
	f, err := strconv.ParseFloat(string(n.Literal), 64)
	if err != nil {
		return 0, fmt.Errorf("number %q: %w", n.Literal, err)
	}
	return f, nil
}

// FloatNumber builds a Number from a float64 using the shortest
// representation that round-trips.
func FloatNumber(f float64) Number {
	return Number{Literal: json.Number(strconv.FormatFloat(f, 'f', -1, 64))}
}

// IntNumber builds a Number from an int.
func IntNumber(i int) Number {
	return Number{Literal: json.Number(strconv.Itoa(i))}
}

// MaxDepth is the deepest nesting of objects and arrays Parse accepts, the
// same limit encoding/json applies when unmarshalling.
const MaxDepth = 10000

// Parse decodes exactly one JSON value from data.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec, 0)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, fmt.Errorf("%w: trailing data at offset %d", ErrSyntax, dec.InputOffset())
		}
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	return v, nil
}

func parseValue(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		if depth >= MaxDepth {
			return nil, fmt.Errorf("exceeded max depth %d at offset %d", MaxDepth, dec.InputOffset())
		}
		switch t {
		case '{':
			return parseObject(dec, depth+1)
		case '[':
			return parseArray(dec, depth+1)
		}
		return nil, fmt.Errorf("unexpected delimiter %q at offset %d", t, dec.InputOffset())
	case json.Number:
		return Number{Literal: t}, nil
	case string:
		return String{Text: t}, nil
	case bool:
		if t {
			return Other{Raw: json.RawMessage("true")}, nil
		}
		return Other{Raw: json.RawMessage("false")}, nil
	case nil:
		return Other{Raw: json.RawMessage("null")}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func parseObject(dec *json.Decoder, depth int) (Value, error) {
	var obj Object
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %T, not string", tok)
		}
		v, err := parseValue(dec, depth)
		if err != nil {
			return nil, err
		}
		obj.Members = append(obj.Members, Member{Key: key, Value: v})
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func parseArray(dec *json.Decoder, depth int) (Value, error) {
	var arr Array
	for dec.More() {
		v, err := parseValue(dec, depth)
		if err != nil {
			return nil, err
		}
		arr.Elems = append(arr.Elems, v)
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}
