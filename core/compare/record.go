package compare

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is a single named value of a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is an insertion-ordered mapping from field name to Value.
// The zero Record is empty and ready to use.
type Record struct {
	names  []string
	values map[string]Value
}

// NewRecord builds a record from fields in order. Repeated names keep their
// first position and their last value.
func NewRecord(fields ...Field) Record {
	var r Record
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

// AsRecord returns the fields of an object value. Any other value yields an
// empty record, so malformed rows degrade to "all fields absent".
func AsRecord(v Value) Record {
	if v.Kind() != KindObject {
		return Record{}
	}
	return v.Record()
}

// Set assigns a field, appending the name if it is new.
func (r *Record) Set(name string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, exists := r.values[name]; !exists {
		r.names = append(r.names, name)
	}
	r.values[name] = v
}

// Get returns the value of a field and whether it is present.
func (r Record) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Names returns the field names in declared order.
func (r Record) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.names) }

// Fields returns the fields in declared order.
func (r Record) Fields() []Field {
	out := make([]Field, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, Field{Name: name, Value: r.values[name]})
	}
	return out
}

// Equal reports whether both records hold the same field set with equal
// values. Field order is ignored.
func (r Record) Equal(o Record) bool {
	if len(r.names) != len(o.names) {
		return false
	}
	for name, v := range r.values {
		ov, ok := o.values[name]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the record as a JSON object in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := r.values[name].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping its field order. Non-object
// input is rejected; use Value and AsRecord to accept arbitrary elements.
func (r *Record) UnmarshalJSON(data []byte) error {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	if v.Kind() != KindObject {
		return fmt.Errorf("expected JSON object, got %s", v.Kind())
	}
	*r = v.Record()
	return nil
}
