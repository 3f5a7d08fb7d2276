// Package form holds the record model sent to the sheet endpoint: an
// insertion-ordered field map, value stringification, required-field
// validation and query serialization.
package form

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Field is a single name/value pair of a Record.
type Field struct {
	Key   string
	Value any
}

// Record is an open mapping from field name to value. Keys iterate in the
// order they were first set. The zero value is an empty record ready to use.
type Record struct {
	m *orderedmap.OrderedMap[string, any]
}

// NewRecord creates a record populated with fields in the given order.
// Repeated keys keep their first position and take the last value.
func NewRecord(fields ...Field) *Record {
	r := &Record{m: orderedmap.New[string, any]()}
	for _, f := range fields {
		r.m.Set(f.Key, f.Value)
	}
	return r
}

func (r *Record) init() {
	if r.m == nil {
		r.m = orderedmap.New[string, any]()
	}
}

// Set stores value under key. A new key is appended after existing keys.
func (r *Record) Set(key string, value any) {
	r.init()
	r.m.Set(key, value)
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	if r == nil || r.m == nil {
		return nil, false
	}
	return r.m.Get(key)
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil || r.m == nil {
		return 0
	}
	return r.m.Len()
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, r.Len())
	r.Each(func(key string, _ any) {
		keys = append(keys, key)
	})
	return keys
}

// Fields returns the record contents as an ordered slice.
func (r *Record) Fields() []Field {
	fields := make([]Field, 0, r.Len())
	r.Each(func(key string, value any) {
		fields = append(fields, Field{Key: key, Value: value})
	})
	return fields
}

// Each calls fn for every field in insertion order.
func (r *Record) Each(fn func(key string, value any)) {
	if r == nil || r.m == nil {
		return
	}
	for pair := r.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Clone returns a shallow copy of the record.
func (r *Record) Clone() *Record {
	return NewRecord(r.Fields()...)
}

// MarshalJSON encodes the record as a JSON object, keeping key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil || r.m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.m)
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
// Numbers are kept as json.Number so large integers such as phone numbers
// reach the wire digit for digit.
func (r *Record) UnmarshalJSON(data []byte) error {
	raw := orderedmap.New[string, json.RawMessage]()
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}

	m := orderedmap.New[string, any](orderedmap.WithCapacity[string, any](raw.Len()))
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		dec := json.NewDecoder(bytes.NewReader(pair.Value))
		dec.UseNumber()
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("field %q: %w", pair.Key, err)
		}
		m.Set(pair.Key, value)
	}
	r.m = m
	return nil
}
