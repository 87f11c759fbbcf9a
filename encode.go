package graphson

import (
	"fmt"
	"strconv"
)

type encodeState struct {
	codec *Codec

	// seen maps every visited container to "" once it has been reached, and to
	// its reference id once it has been reached a second time.
	seen    map[any]string
	nextID  int
	defs    *Object
	emitted map[string]bool
	depth   int
}

// Encode converts v into a document. Containers reachable more than once are
// written to $defs and referenced by id; v itself is never modified.
//
// When v is reached again from inside itself, or is an array whose graph needs
// $defs, the document is {"$defs": {...}, "$ref": id} and v's content lives in
// $defs like any other shared object.
func (c *Codec) Encode(v any) (any, error) {
	s := &encodeState{
		codec:   c,
		seen:    make(map[any]string),
		defs:    NewObject(),
		emitted: make(map[string]bool),
	}

	if err := s.census(v); err != nil {
		return nil, err
	}
	if a, ok := v.(*Array); ok && a != nil && s.nextID > 0 && s.idOf(a) == "" {
		s.allocate(a)
	}

	var (
		out any
		err error
	)
	rootID := s.idOf(v)
	if rootID != "" {
		out, err = s.reference(rootID, v)
	} else {
		out, err = s.emit(v)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Debug("graphson: encoded graph", "containers", len(s.seen), "refs", s.nextID)

	if s.defs.Len() == 0 {
		return out, nil
	}
	doc := NewObject()
	doc.Set(defsKey, s.defs)
	if body, ok := out.(*Object); ok {
		for k, value := range body.All() {
			doc.Set(k, value)
		}
		return doc, nil
	}
	return nil, fmt.Errorf("graphson: root %T cannot carry %s", out, defsKey)
}

func (s *encodeState) enter() error {
	s.depth++
	if s.depth > s.codec.maxDepth {
		return fmt.Errorf("%w: %d", ErrDepthExceeded, s.codec.maxDepth)
	}
	return nil
}

func (s *encodeState) leave() {
	s.depth--
}

// census walks the graph once and gives an id to every container reached a
// second time.
func (s *encodeState) census(v any) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.leave()

	switch c := v.(type) {
	case *Object:
		if c == nil || s.revisit(c) {
			return nil
		}
		for k, value := range c.All() {
			if isReservedKey(k) {
				return fmt.Errorf("%w: %q", ErrReservedKey, k)
			}
			if err := s.census(value); err != nil {
				return err
			}
		}
		return nil
	case *Array:
		if c == nil || s.revisit(c) {
			return nil
		}
		for _, item := range c.Items {
			if err := s.census(item); err != nil {
				return err
			}
		}
		return nil
	}

	if isNative(v) {
		return nil
	}
	t := s.codec.registry.match(v)
	if t == nil {
		return unsupported(v)
	}
	_, err := t.Encode(v, func(child any) (any, error) {
		return nil, s.census(child)
	})
	return err
}

// revisit records a visit to c and reports whether c had been visited before.
func (s *encodeState) revisit(c any) bool {
	id, ok := s.seen[c]
	if !ok {
		s.seen[c] = ""
		return false
	}
	if id == "" {
		s.allocate(c)
	}
	return true
}

func (s *encodeState) allocate(c any) {
	s.nextID++
	s.seen[c] = "*" + strconv.Itoa(s.nextID)
}

func (s *encodeState) idOf(v any) string {
	switch c := v.(type) {
	case *Object:
		if c != nil {
			return s.seen[c]
		}
	case *Array:
		if c != nil {
			return s.seen[c]
		}
	}
	return ""
}

// emit writes v to the document, replacing shared containers with references.
func (s *encodeState) emit(v any) (any, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	switch c := v.(type) {
	case *Object:
		if c == nil {
			return nil, nil
		}
		if id := s.seen[c]; id != "" {
			return s.reference(id, c)
		}
		out := NewObject()
		return out, s.fillObject(out, c)
	case *Array:
		if c == nil {
			return nil, nil
		}
		if id := s.seen[c]; id != "" {
			return s.reference(id, c)
		}
		out := &Array{Items: make([]any, 0, c.Len())}
		return out, s.fillArray(out, c)
	}
	return s.codec.registry.encode(v, s.emit)
}

// reference returns a $ref to id, writing the definition the first time.
func (s *encodeState) reference(id string, c any) (any, error) {
	if !s.emitted[id] {
		s.emitted[id] = true
		switch c := c.(type) {
		case *Object:
			slot := NewObject()
			s.defs.Set(id, slot)
			if err := s.fillObject(slot, c); err != nil {
				return nil, err
			}
		case *Array:
			slot := &Array{Items: make([]any, 0, c.Len())}
			s.defs.Set(id, slot)
			if err := s.fillArray(slot, c); err != nil {
				return nil, err
			}
		}
	}
	return ObjectOf(refKey, id), nil
}

func (s *encodeState) fillObject(dst, src *Object) error {
	for k, value := range src.All() {
		encoded, err := s.emit(value)
		if err != nil {
			return err
		}
		dst.Set(k, encoded)
	}
	return nil
}

func (s *encodeState) fillArray(dst, src *Array) error {
	for _, item := range src.Items {
		encoded, err := s.emit(item)
		if err != nil {
			return err
		}
		dst.Items = append(dst.Items, encoded)
	}
	return nil
}
