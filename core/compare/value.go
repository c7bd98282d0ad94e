package compare

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind is the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a JSON-like tagged union. The zero Value is null.
// Numbers keep their canonical text so equality is exact and type-aware.
type Value struct {
	kind  Kind
	text  string
	flag  bool
	items []Value
	obj   Record
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Int returns a number value for a signed integer.
func Int(n int64) Value { return Value{kind: KindNumber, text: strconv.FormatInt(n, 10)} }

// Uint returns a number value for an unsigned integer.
func Uint(n uint64) Value { return Value{kind: KindNumber, text: strconv.FormatUint(n, 10)} }

// Float returns a number value for a float. NaN and infinities have no JSON
// form and become null.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	if math.Abs(f) < 1e21 {
		return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'f', -1, 64)}
	}
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Number returns a number value from JSON number text, kept verbatim.
func Number(n json.Number) Value { return Value{kind: KindNumber, text: n.String()} }

// Array returns an array value.
func Array(items ...Value) Value { return Value{kind: KindArray, items: items} }

// Object returns an object value wrapping r.
func Object(r Record) Value { return Value{kind: KindObject, obj: r} }

// Kind reports the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Items returns the elements of an array value.
func (v Value) Items() []Value { return v.items }

// Record returns the fields of an object value.
func (v Value) Record() Record { return v.obj }

// Text renders v the way it is shown in keys and diffs: strings pass
// through, numbers and booleans use their canonical text, null is "NULL"
// and arrays/objects are rendered as compact JSON.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindString:
		return v.text
	case KindNumber:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindArray, KindObject:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v.items)
		}
		return string(data)
	default:
		return ""
	}
}

// Equal reports structural equality. Values of different kinds are never
// equal; objects compare by field set regardless of field order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString, KindNumber:
		return v.text == o.text
	case KindBool:
		return v.flag == o.flag
	case KindArray:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.obj.Equal(o.obj)
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.text)
	case KindNumber:
		return []byte(v.text), nil
	case KindBool:
		return json.Marshal(v.flag)
	case KindArray:
		items := v.items
		if items == nil {
			items = []Value{}
		}
		return json.Marshal(items)
	case KindObject:
		return v.obj.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler. Object field order is kept.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	parsed, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case bool:
		return Bool(t), nil
	case json.Delim:
		switch t {
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Array(items...), nil
		case '{':
			var rec Record
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("unexpected object key %v", keyTok)
				}
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				rec.Set(key, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Object(rec), nil
		}
	}

	return Value{}, fmt.Errorf("unexpected JSON token %v", tok)
}

// GoString makes test failure output readable.
func (v Value) GoString() string {
	return v.kind.String() + "(" + v.Text() + ")"
}
