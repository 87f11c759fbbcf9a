package graphson

import (
	"math"
	"slices"
)

// MapEntry is a single key/value pair of a Map.
type MapEntry struct {
	Key   any
	Value any
}

// Map is an insertion-ordered map whose keys may be any comparable value.
// Keys are compared with SameValueZero: every NaN is the same key, -0 and 0
// are the same key, and integers equal floats of the same value.
type Map struct {
	entries []MapEntry
	index   map[any]int
}

// NewMap returns a map holding entries. Later entries overwrite earlier ones
// with the same key.
func NewMap(entries ...MapEntry) *Map {
	m := &Map{}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Set stores value under key. An existing key keeps its position.
func (m *Map) Set(key, value any) {
	if m.index == nil {
		m.index = make(map[any]int)
	}
	k := sameValueZero(key)
	if i, ok := m.index[k]; ok {
		m.entries[i].Value = value
		return
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, MapEntry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (m *Map) Get(key any) (any, bool) {
	i, ok := m.index[sameValueZero(key)]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Has reports whether key is present.
func (m *Map) Has(key any) bool {
	_, ok := m.index[sameValueZero(key)]
	return ok
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key any) bool {
	k := sameValueZero(key)
	i, ok := m.index[k]
	if !ok {
		return false
	}
	m.entries = slices.Delete(m.entries, i, i+1)
	m.reindex()
	return true
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.entries)
}

// Entries returns the entries in insertion order.
func (m *Map) Entries() []MapEntry {
	return slices.Clone(m.entries)
}

func (m *Map) reindex() {
	m.index = make(map[any]int, len(m.entries))
	for i, e := range m.entries {
		m.index[sameValueZero(e.Key)] = i
	}
}

// Set is an insertion-ordered collection of distinct values, compared the
// same way as Map keys.
type Set struct {
	values []any
	index  map[any]int
}

// NewSet returns a set holding values, dropping duplicates.
func NewSet(values ...any) *Set {
	s := &Set{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v unless it is already present.
func (s *Set) Add(v any) {
	if s.index == nil {
		s.index = make(map[any]int)
	}
	k := sameValueZero(v)
	if _, ok := s.index[k]; ok {
		return
	}
	s.index[k] = len(s.values)
	s.values = append(s.values, v)
}

// Has reports whether v is present.
func (s *Set) Has(v any) bool {
	_, ok := s.index[sameValueZero(v)]
	return ok
}

// Delete removes v and reports whether it was present.
func (s *Set) Delete(v any) bool {
	k := sameValueZero(v)
	i, ok := s.index[k]
	if !ok {
		return false
	}
	s.values = slices.Delete(s.values, i, i+1)
	s.index = make(map[any]int, len(s.values))
	for j, value := range s.values {
		s.index[sameValueZero(value)] = j
	}
	return true
}

// Len returns the number of values.
func (s *Set) Len() int {
	return len(s.values)
}

// Values returns the values in insertion order.
func (s *Set) Values() []any {
	return slices.Clone(s.values)
}

type nanKey struct{}

// sameValueZero folds numbers so that equal Map keys hash the same.
func sameValueZero(v any) any {
	n, ok := asNumber(v)
	if !ok {
		return v
	}
	if math.IsNaN(n) {
		return nanKey{}
	}
	if n == 0 {
		return 0.0
	}
	return n
}
