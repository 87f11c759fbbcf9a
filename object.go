package graphson

import (
	"bytes"
	"encoding/json"
	"iter"
	"maps"
	"slices"
)

// Object is a plain keyed mapping. Keys keep their insertion order and the
// object is identified by its pointer, so the same *Object reachable from two
// places is encoded once and shared again on decode.
//
// The zero value is an empty object ready to use.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// ObjectOf builds an object from alternating keys and values. It panics if a
// key is not a string or a value is missing.
func ObjectOf(pairs ...any) *Object {
	if len(pairs)%2 != 0 {
		panic("graphson: ObjectOf called with an odd number of arguments")
	}
	o := NewObject()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic("graphson: ObjectOf key must be a string")
		}
		o.Set(key, pairs[i+1])
	}
	return o
}

// Set stores value under key. A new key is appended to the key order; an
// existing key keeps its position.
func (o *Object) Set(key string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Delete removes key.
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// All iterates over the entries in insertion order.
func (o *Object) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

// MarshalJSON writes the object with its keys in insertion order. It is meant
// for documents; a live graph with cycles must go through Encode first.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Array is a positional sequence. Like Object it is identified by its pointer.
type Array struct {
	Items []any
}

// NewArray returns an array holding items.
func NewArray(items ...any) *Array {
	if items == nil {
		items = []any{}
	}
	return &Array{Items: items}
}

// Len returns the number of items.
func (a *Array) Len() int {
	return len(a.Items)
}

// Append adds items to the end of the array.
func (a *Array) Append(items ...any) {
	a.Items = append(a.Items, items...)
}

// MarshalJSON writes the items as a JSON array.
func (a *Array) MarshalJSON() ([]byte, error) {
	if a.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.Items)
}

// IsPlainObject reports whether v is a plain keyed mapping eligible for graph
// traversal. Arrays are a separate container kind; see IsArray.
func IsPlainObject(v any) bool {
	o, ok := v.(*Object)
	return ok && o != nil
}

// IsArray reports whether v is an array eligible for graph traversal.
func IsArray(v any) bool {
	a, ok := v.(*Array)
	return ok && a != nil
}

// objectFromMap converts a generic map into an Object with sorted keys. Only
// the top level is converted.
func objectFromMap(m map[string]any) *Object {
	o := &Object{values: make(map[string]any, len(m))}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		o.Set(k, m[k])
	}
	return o
}

func asObject(v any) (*Object, bool) {
	switch o := v.(type) {
	case *Object:
		return o, o != nil
	case map[string]any:
		return objectFromMap(o), o != nil
	}
	return nil, false
}

func asArray(v any) (*Array, bool) {
	switch a := v.(type) {
	case *Array:
		return a, a != nil
	case []any:
		return &Array{Items: a}, a != nil
	}
	return nil, false
}
