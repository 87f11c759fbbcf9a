package graphson

import (
	"errors"
	"fmt"
	"slices"
)

// Reserved document keys.
const (
	typeKey    = "$type"
	payloadKey = "$"
	refKey     = "$ref"
	defsKey    = "$defs"
)

func isReservedKey(key string) bool {
	return key == typeKey || key == refKey || key == defsKey
}

// EncodeFunc encodes a value nested inside a Type's payload.
type EncodeFunc func(v any) (any, error)

// Type describes how one kind of value that JSON cannot represent is written
// to a document and read back.
type Type struct {
	// Tag names the type on the wire. Tags are unique within a Registry.
	Tag string

	// Test reports whether v belongs to this type.
	Test func(v any) bool

	// Encode returns the payload for v. Nested values that may themselves need
	// encoding go through enc. Returning Undefined omits the payload.
	Encode func(v any, enc EncodeFunc) (any, error)

	// Decode rebuilds the value from its payload. The payload is Undefined
	// when the document carries none. Nested values have already been decoded.
	Decode func(payload any) (any, error)
}

// Registry is an ordered, immutable collection of Types. Encoding picks the
// first Type whose Test accepts the value; decoding looks the Type up by tag.
// A Registry is safe for concurrent use.
type Registry struct {
	types []*Type
	byTag map[string]*Type
}

// NewRegistry returns a registry holding types in the given order.
func NewRegistry(types ...*Type) (*Registry, error) {
	r := &Registry{
		types: make([]*Type, 0, len(types)),
		byTag: make(map[string]*Type, len(types)),
	}
	for _, t := range types {
		if t == nil {
			return nil, errors.New("graphson: nil type")
		}
		t = &Type{Tag: t.Tag, Test: t.Test, Encode: t.Encode, Decode: t.Decode}
		if t.Tag == "" || t.Test == nil || t.Encode == nil || t.Decode == nil {
			return nil, fmt.Errorf("graphson: type %q is missing a tag or function", t.Tag)
		}
		if _, ok := r.byTag[t.Tag]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateType, t.Tag)
		}
		r.types = append(r.types, t)
		r.byTag[t.Tag] = t
	}
	return r, nil
}

var defaultRegistry = mustRegistry(builtinTypes()...)

func mustRegistry(types ...*Type) *Registry {
	r, err := NewRegistry(types...)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultRegistry returns the registry of built-in types.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// With returns a new registry holding r's types followed by types.
func (r *Registry) With(types ...*Type) (*Registry, error) {
	return NewRegistry(append(slices.Clone(r.types), types...)...)
}

// Types returns copies of the registered types in test order.
func (r *Registry) Types() []*Type {
	types := make([]*Type, len(r.types))
	for i, t := range r.types {
		c := *t
		types[i] = &c
	}
	return types
}

// Lookup returns a copy of the Type registered under tag.
func (r *Registry) Lookup(tag string) (*Type, bool) {
	t, ok := r.byTag[tag]
	if !ok {
		return nil, false
	}
	c := *t
	return &c, true
}

// Match returns a copy of the first Type accepting v, or nil.
func (r *Registry) Match(v any) *Type {
	t := r.match(v)
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func (r *Registry) match(v any) *Type {
	for _, t := range r.types {
		if t.Test(v) {
			return t
		}
	}
	return nil
}

// EncodeValue encodes a single value. JSON-native values, containers
// included, are returned unchanged; anything else becomes a typed value.
func (r *Registry) EncodeValue(v any) (any, error) {
	return r.encode(v, r.EncodeValue)
}

// DecodeValue decodes a single typed value. Anything that is not an object
// carrying $type is returned unchanged. The payload is handed to the Type as
// it is; nested typed values and references are not resolved.
func (r *Registry) DecodeValue(v any) (any, error) {
	o, ok := asObject(v)
	if !ok || !o.Has(typeKey) {
		return v, nil
	}
	tag, _ := o.Get(typeKey)
	payload, ok := o.Get(payloadKey)
	if !ok {
		payload = Undefined
	}
	return r.decode(tag, payload)
}

func (r *Registry) encode(v any, enc EncodeFunc) (any, error) {
	if isNative(v) {
		return v, nil
	}
	t := r.match(v)
	if t == nil {
		return nil, unsupported(v)
	}
	payload, err := t.Encode(v, enc)
	if err != nil {
		return nil, fmt.Errorf("graphson: encode %s: %w", t.Tag, err)
	}
	typed := NewObject()
	typed.Set(typeKey, t.Tag)
	if _, omit := payload.(UndefinedValue); !omit {
		typed.Set(payloadKey, payload)
	}
	return typed, nil
}

func (r *Registry) decode(tag any, payload any) (any, error) {
	name, ok := tag.(string)
	if !ok {
		return nil, malformed("$type must be a string, got %T", tag)
	}
	t, ok := r.byTag[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	v, err := t.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("graphson: decode %s: %w", name, err)
	}
	return v, nil
}
