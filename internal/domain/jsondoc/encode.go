package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Marshal encodes v as compact JSON, keeping object member order and number
// literals. Strings are re-escaped: an input escape such as \u00e9 comes back
// as the character itself, and invalid UTF-8 becomes U+FFFD.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent is like Marshal but applies json.Indent to the output.
func MarshalIndent(v Value, prefix, indent string) ([]byte, error) {
	raw, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, prefix, indent); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return out.Bytes(), nil
}

// MarshalJSON lets an Object be embedded in values passed to encoding/json.
func (o Object) MarshalJSON() ([]byte, error) { return Marshal(o) }

// MarshalJSON lets an Array be embedded in values passed to encoding/json.
func (a Array) MarshalJSON() ([]byte, error) { return Marshal(a) }

func encode(buf *bytes.Buffer, v Value) error {
	switch t := v.(type) {
	case Object:
		buf.WriteByte('{')
		for i, m := range t.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encode(buf, m.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case Array:
		buf.WriteByte('[')
		for i, e := range t.Elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Number:
		if t.Literal == "" || !json.Valid([]byte(t.Literal)) {
			return fmt.Errorf("%w: invalid number literal %q", ErrEncode, t.Literal)
		}
		buf.WriteString(string(t.Literal))
	case String:
		return encodeString(buf, t.Text)
	case Other:
		if len(t.Raw) == 0 {
			buf.WriteString("null")
			return nil
		}
		buf.Write(t.Raw)
	case nil:
		buf.WriteString("null")
	default:
		return fmt.Errorf("%w: unsupported value %T", ErrEncode, v)
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	// Encoder appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
