// Package graphson converts object graphs, including shared and cyclic
// references and values JSON cannot hold (undefined, big integers, dates,
// maps, sets, errors, regular expressions, boxed primitives, NaN, ±Infinity
// and -0), into JSON-safe documents and back.
//
// Objects reachable more than once are written once under the document's
// $defs key and referenced with {"$ref": id}; values JSON cannot represent are
// written as {"$type": tag, "$": payload}. Decoding restores both, so shared
// objects come back shared and cycles come back as cycles.
package graphson

import (
	"log/slog"
)

// DefaultMaxDepth is the nesting limit used unless WithMaxDepth says
// otherwise.
const DefaultMaxDepth = 10000

// Codec encodes and decodes graphs with one Registry. A Codec holds no state
// between calls and is safe for concurrent use.
type Codec struct {
	registry *Registry
	maxDepth int
	logger   *slog.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithRegistry sets the types the codec knows about.
func WithRegistry(r *Registry) Option {
	return func(c *Codec) {
		c.registry = r
	}
}

// WithMaxDepth bounds how deeply a graph or document may nest.
func WithMaxDepth(depth int) Option {
	return func(c *Codec) {
		c.maxDepth = depth
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Codec) {
		c.logger = logger
	}
}

// New creates a codec using the built-in types.
func New(opts ...Option) *Codec {
	c := &Codec{
		registry: DefaultRegistry(),
		maxDepth: DefaultMaxDepth,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxDepth returns the nesting limit the codec enforces.
func (c *Codec) MaxDepth() int {
	return c.maxDepth
}

// Registry returns the codec's registry.
func (c *Codec) Registry() *Registry {
	return c.registry
}

var defaultCodec = New()

// Encode encodes v with the default codec.
func Encode(v any) (any, error) {
	return defaultCodec.Encode(v)
}

// Decode decodes doc with the default codec.
func Decode(doc any) (any, error) {
	return defaultCodec.Decode(doc)
}
