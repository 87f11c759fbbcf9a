// Package msgpack provides a MessagePack encoder for graphson documents.
// MessagePack is a binary format that is faster and more compact than JSON.
// Maps are written with explicit headers so key order survives the round trip.
package msgpack

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/RobertWHurst/graphson"
)

// Encoder implements graphson.Encoder using MessagePack binary serialization.
type Encoder struct {
	codec *graphson.Codec
}

var _ graphson.Encoder = &Encoder{}

// Encode converts v into a document and serializes it to MessagePack bytes.
func (e *Encoder) Encode(v any) ([]byte, error) {
	doc, err := e.codec.Encode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := writeValue(msgpack.NewEncoder(&buf), doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode deserializes MessagePack bytes, rebuilds the graph and stores it in v.
func (e *Encoder) Decode(data []byte, v any) error {
	if err := graphson.CheckDecodeSize(data); err != nil {
		return err
	}
	doc, err := parseDocument(data, e.codec.MaxDepth())
	if err != nil {
		return err
	}
	value, err := e.codec.Decode(doc)
	if err != nil {
		return err
	}
	return graphson.Assign(v, value)
}

// New creates a new MessagePack encoder using the default codec.
func New() *Encoder {
	return NewWithCodec(graphson.New())
}

// NewWithCodec creates a new MessagePack encoder using codec.
func NewWithCodec(codec *graphson.Codec) *Encoder {
	return &Encoder{codec: codec}
}

// ParseDocument reads a MessagePack document into *graphson.Object and
// *graphson.Array values. Numbers are returned as float64. Nesting is limited
// to graphson.DefaultMaxDepth.
func ParseDocument(data []byte) (any, error) {
	return parseDocument(data, graphson.DefaultMaxDepth)
}

func parseDocument(data []byte, maxDepth int) (any, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	doc, err := readValue(dec, 1, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", graphson.ErrMalformedDocument, err)
	}
	if _, err := dec.PeekCode(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", graphson.ErrMalformedDocument)
	}
	return doc, nil
}

func writeValue(enc *msgpack.Encoder, v any) error {
	switch x := v.(type) {
	case *graphson.Object:
		if x == nil {
			return enc.EncodeNil()
		}
		if err := enc.EncodeMapLen(x.Len()); err != nil {
			return err
		}
		for k, value := range x.All() {
			if err := enc.EncodeString(k); err != nil {
				return err
			}
			if err := writeValue(enc, value); err != nil {
				return err
			}
		}
		return nil
	case *graphson.Array:
		if x == nil {
			return enc.EncodeNil()
		}
		if err := enc.EncodeArrayLen(x.Len()); err != nil {
			return err
		}
		for _, item := range x.Items {
			if err := writeValue(enc, item); err != nil {
				return err
			}
		}
		return nil
	}
	return enc.Encode(v)
}

func readValue(dec *msgpack.Decoder, depth, maxDepth int) (any, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: %d", graphson.ErrDepthExceeded, maxDepth)
	}
	code, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}

	switch {
	case msgpcode.IsFixedMap(code) || code == msgpcode.Map16 || code == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		obj := graphson.NewObject()
		for i := 0; i < n; i++ {
			key, err := dec.DecodeString()
			if err != nil {
				return nil, err
			}
			value, err := readValue(dec, depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			obj.Set(key, value)
		}
		return obj, nil
	case msgpcode.IsFixedArray(code) || code == msgpcode.Array16 || code == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		arr := &graphson.Array{Items: make([]any, 0, n)}
		for i := 0; i < n; i++ {
			value, err := readValue(dec, depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, value)
		}
		return arr, nil
	}

	v, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return nil, err
	}
	switch n := v.(type) {
	case nil, bool, string, float64:
		return n, nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	}
	return nil, fmt.Errorf("unsupported msgpack value %T", v)
}
