package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ScalarKind identifies the variant held by a Scalar.
type ScalarKind uint8

const (
	// KindString is a text value.
	KindString ScalarKind = iota
	// KindInt is an integer value. Dates converted by metadata mappings land here as Unix milliseconds.
	KindInt
	// KindFloat is a floating point value.
	KindFloat
	// KindBool is a boolean value.
	KindBool
	// KindList is a list of text values, such as front-matter tags.
	KindList
)

// Scalar is a single metadata value.
type Scalar struct {
	kind ScalarKind
	s    string
	i    int64
	f    float64
	b    bool
	list []string
}

// StringValue returns a text scalar.
func StringValue(v string) Scalar { return Scalar{kind: KindString, s: v} }

// IntValue returns an integer scalar.
func IntValue(v int64) Scalar { return Scalar{kind: KindInt, i: v} }

// FloatValue returns a floating point scalar.
func FloatValue(v float64) Scalar { return Scalar{kind: KindFloat, f: v} }

// BoolValue returns a boolean scalar.
func BoolValue(v bool) Scalar { return Scalar{kind: KindBool, b: v} }

// ListValue returns a list scalar. The input slice is copied.
func ListValue(v []string) Scalar {
	return Scalar{kind: KindList, list: append([]string(nil), v...)}
}

// Kind returns the variant of the scalar.
func (s Scalar) Kind() ScalarKind { return s.kind }

// Text returns the value when it is a string.
func (s Scalar) Text() (string, bool) { return s.s, s.kind == KindString }

// Int returns the value when it is an integer.
func (s Scalar) Int() (int64, bool) { return s.i, s.kind == KindInt }

// Float returns the value when it is a float.
func (s Scalar) Float() (float64, bool) { return s.f, s.kind == KindFloat }

// Bool returns the value when it is a boolean.
func (s Scalar) Bool() (bool, bool) { return s.b, s.kind == KindBool }

// List returns a copy of the value when it is a list.
func (s Scalar) List() ([]string, bool) {
	if s.kind != KindList {
		return nil, false
	}
	return append([]string(nil), s.list...), true
}

// String renders the scalar as text.
func (s Scalar) String() string {
	switch s.kind {
	case KindInt:
		return strconv.FormatInt(s.i, 10)
	case KindFloat:
		return strconv.FormatFloat(s.f, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(s.b)
	case KindList:
		return strings.Join(s.list, ", ")
	default:
		return s.s
	}
}

// Equal reports whether both scalars hold the same variant and value.
func (s Scalar) Equal(o Scalar) bool {
	if s.kind != o.kind {
		return false
	}
	switch s.kind {
	case KindInt:
		return s.i == o.i
	case KindFloat:
		return s.f == o.f
	case KindBool:
		return s.b == o.b
	case KindList:
		if len(s.list) != len(o.list) {
			return false
		}
		for i := range s.list {
			if s.list[i] != o.list[i] {
				return false
			}
		}
		return true
	default:
		return s.s == o.s
	}
}

// MarshalJSON encodes the scalar as its natural JSON value.
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case KindInt:
		return json.Marshal(s.i)
	case KindFloat:
		return json.Marshal(s.f)
	case KindBool:
		return json.Marshal(s.b)
	case KindList:
		if s.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(s.list)
	default:
		return json.Marshal(s.s)
	}
}

// ConfigRecord is an ordered string-keyed map of scalars.
// The zero value is an empty record ready to use.
type ConfigRecord struct {
	keys   []string
	values map[string]Scalar
}

// RecordOf builds a record from alternating key and value pairs, in order.
func RecordOf(pairs ...any) ConfigRecord {
	var r ConfigRecord
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		switch v := pairs[i+1].(type) {
		case Scalar:
			r.Set(key, v)
		case string:
			r.Set(key, StringValue(v))
		case int:
			r.Set(key, IntValue(int64(v)))
		case int64:
			r.Set(key, IntValue(v))
		case float64:
			r.Set(key, FloatValue(v))
		case bool:
			r.Set(key, BoolValue(v))
		case []string:
			r.Set(key, ListValue(v))
		}
	}
	return r
}

// Set assigns key. Existing keys keep their position.
func (r *ConfigRecord) Set(key string, v Scalar) {
	if r.values == nil {
		r.values = make(map[string]Scalar)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Delete removes key if present.
func (r *ConfigRecord) Delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i:i], r.keys[i+1:]...)
			break
		}
	}
}

// Get returns the value stored under key.
func (r ConfigRecord) Get(key string) (Scalar, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Text returns the value under key when it is a non-empty string.
func (r ConfigRecord) Text(key string) (string, bool) {
	v, ok := r.values[key]
	if !ok {
		return "", false
	}
	s, ok := v.Text()
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Has reports whether key is present.
func (r ConfigRecord) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (r ConfigRecord) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Len returns the number of keys.
func (r ConfigRecord) Len() int { return len(r.keys) }

// Clone returns an independent copy of the record.
func (r ConfigRecord) Clone() ConfigRecord {
	out := ConfigRecord{}
	for _, k := range r.keys {
		out.Set(k, r.values[k])
	}
	return out
}

// Merge returns a new record with override laid over r. Keys from override win.
func (r ConfigRecord) Merge(override ConfigRecord) ConfigRecord {
	out := r.Clone()
	for _, k := range override.keys {
		out.Set(k, override.values[k])
	}
	return out
}

// Equal reports whether both records hold the same keys in the same order with equal values.
func (r ConfigRecord) Equal(o ConfigRecord) bool {
	if len(r.keys) != len(o.keys) {
		return false
	}
	for i, k := range r.keys {
		if o.keys[i] != k || !r.values[k].Equal(o.values[k]) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the record as a JSON object preserving key order.
func (r ConfigRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
