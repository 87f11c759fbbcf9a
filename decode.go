package graphson

import (
	"fmt"
)

type decodeState struct {
	codec *Codec

	// stunts holds one placeholder per object or array definition. Every $ref
	// resolves to its placeholder, which is filled in once all definitions are
	// resolved.
	stunts map[string]any

	// typed holds definitions that are typed values. They have no placeholder;
	// each is decoded the first time it is referenced and the result is kept in
	// stunts so every $ref shares it. pending marks those being decoded.
	typed   map[string]*Object
	pending map[string]bool
	depth   int
}

// Decode rebuilds the graph described by doc. doc is not modified; the result
// is made of fresh containers, with every occurrence of the same $ref id
// resolving to the same container.
//
// doc may be built from *Object and *Array, as the wire decoders produce, or
// from map[string]any and []any, whose keys are then taken in sorted order.
func (c *Codec) Decode(doc any) (any, error) {
	s := &decodeState{
		codec:   c,
		stunts:  make(map[string]any),
		typed:   make(map[string]*Object),
		pending: make(map[string]bool),
	}

	var (
		out any
		err error
	)
	if root, ok := asObject(doc); ok && root.Has(defsKey) {
		out, err = s.resolveRoot(root)
	} else {
		out, err = s.resolve(doc)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Debug("graphson: decoded document", "defs", len(s.stunts))
	return out, nil
}

func (s *decodeState) resolveRoot(root *Object) (any, error) {
	defs, _ := root.Get(defsKey)
	if err := s.seat(defs); err != nil {
		return nil, err
	}

	body := NewObject()
	for k, value := range root.All() {
		if k != defsKey {
			body.Set(k, value)
		}
	}
	return s.resolve(body)
}

// seat resolves every definition into its placeholder. Placeholders for all
// object and array ids exist before any content is resolved, so definitions
// may refer to each other and to themselves in any order.
//
// A typed definition is decoded on first reference, which may happen while
// another definition is being resolved. Its payload then sees the other
// definitions' placeholders before they are filled. A typed definition that
// reaches itself through other typed definitions only is malformed.
func (s *decodeState) seat(raw any) error {
	defs, ok := asObject(raw)
	if !ok {
		return malformed("%s must be an object, got %T", defsKey, raw)
	}

	ids := make([]string, 0, defs.Len())
	definitions := make(map[string]any, defs.Len())
	for id, def := range defs.All() {
		switch d := def.(type) {
		case map[string]any:
			def = objectFromMap(d)
		case []any:
			def = &Array{Items: d}
		}
		switch d := def.(type) {
		case *Object:
			if d == nil {
				return malformed("definition %q is null", id)
			}
			for _, key := range []string{refKey, defsKey} {
				if d.Has(key) {
					return malformed("definition %q carries %s", id, key)
				}
			}
			if d.Has(typeKey) {
				s.typed[id] = d
				continue
			}
			s.stunts[id] = NewObject()
		case *Array:
			if d == nil {
				return malformed("definition %q is null", id)
			}
			s.stunts[id] = &Array{}
		default:
			return malformed("definition %q is a %T, not an object or array", id, def)
		}
		ids = append(ids, id)
		definitions[id] = def
	}

	resolved := make(map[string]any, len(definitions))
	for _, id := range ids {
		var (
			content any
			err     error
		)
		switch d := definitions[id].(type) {
		case *Object:
			content, err = s.resolveObject(d)
		case *Array:
			content, err = s.resolveArray(d)
		}
		if err != nil {
			return err
		}
		resolved[id] = content
	}

	for _, id := range ids {
		switch stunt := s.stunts[id].(type) {
		case *Object:
			for k, value := range resolved[id].(*Object).All() {
				stunt.Set(k, value)
			}
		case *Array:
			stunt.Items = resolved[id].(*Array).Items
		}
	}

	for id := range s.typed {
		if _, err := s.deref(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *decodeState) enter() error {
	s.depth++
	if s.depth > s.codec.maxDepth {
		return fmt.Errorf("%w: %d", ErrDepthExceeded, s.codec.maxDepth)
	}
	return nil
}

func (s *decodeState) leave() {
	s.depth--
}

func (s *decodeState) resolve(v any) (any, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	switch n := v.(type) {
	case map[string]any:
		if n == nil {
			return nil, nil
		}
		v = objectFromMap(n)
	case []any:
		if n == nil {
			return nil, nil
		}
		v = &Array{Items: n}
	}

	switch n := v.(type) {
	case *Object:
		if n == nil {
			return nil, nil
		}
		if ref, ok := n.Get(refKey); ok {
			return s.deref(ref)
		}
		if tag, ok := n.Get(typeKey); ok {
			payload, ok := n.Get(payloadKey)
			if !ok {
				return s.codec.registry.decode(tag, Undefined)
			}
			payload, err := s.resolve(payload)
			if err != nil {
				return nil, err
			}
			return s.codec.registry.decode(tag, payload)
		}
		return s.resolveObject(n)
	case *Array:
		if n == nil {
			return nil, nil
		}
		return s.resolveArray(n)
	}
	return v, nil
}

func (s *decodeState) resolveObject(o *Object) (*Object, error) {
	out := NewObject()
	for k, value := range o.All() {
		if k == defsKey {
			return nil, malformed("%s is only allowed at the document root", defsKey)
		}
		resolved, err := s.resolve(value)
		if err != nil {
			return nil, err
		}
		out.Set(k, resolved)
	}
	return out, nil
}

func (s *decodeState) resolveArray(a *Array) (*Array, error) {
	out := &Array{Items: make([]any, 0, a.Len())}
	for _, item := range a.Items {
		resolved, err := s.resolve(item)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, resolved)
	}
	return out, nil
}

func (s *decodeState) deref(ref any) (any, error) {
	id, ok := ref.(string)
	if !ok {
		return nil, malformed("%s must be a string, got %T", refKey, ref)
	}
	if stunt, ok := s.stunts[id]; ok {
		return stunt, nil
	}
	def, ok := s.typed[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDanglingReference, id)
	}
	if s.pending[id] {
		return nil, malformed("typed definition %q refers to itself", id)
	}
	s.pending[id] = true
	v, err := s.resolve(def)
	delete(s.pending, id)
	if err != nil {
		return nil, err
	}
	s.stunts[id] = v
	return v, nil
}
