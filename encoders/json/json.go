// Package json provides a JSON encoder for graphson documents.
// It uses Go's standard encoding/json package for serialization and keeps
// object keys in document order in both directions.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/RobertWHurst/graphson"
)

// Encoder implements graphson.Encoder using JSON serialization.
// It provides human-readable documents that work well for debugging and
// cross-platform compatibility.
type Encoder struct {
	codec *graphson.Codec
}

var _ graphson.Encoder = &Encoder{}

// Encode converts v into a document and serializes it to JSON bytes.
func (e *Encoder) Encode(v any) ([]byte, error) {
	doc, err := e.codec.Encode(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// Decode parses JSON bytes, rebuilds the graph and stores it in v.
func (e *Encoder) Decode(data []byte, v any) error {
	if err := graphson.CheckDecodeSize(data); err != nil {
		return err
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return err
	}
	value, err := e.codec.Decode(doc)
	if err != nil {
		return err
	}
	return graphson.Assign(v, value)
}

// New creates a new JSON encoder using the default codec.
func New() *Encoder {
	return NewWithCodec(graphson.New())
}

// NewWithCodec creates a new JSON encoder using codec.
func NewWithCodec(codec *graphson.Codec) *Encoder {
	return &Encoder{codec: codec}
}

// ParseDocument parses JSON into a document made of *graphson.Object and
// *graphson.Array, keeping object keys in the order they appear.
func ParseDocument(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	doc, err := parseValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", graphson.ErrMalformedDocument, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", graphson.ErrMalformedDocument)
	}
	return doc, nil
}

func parseValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := graphson.NewObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T", keyTok)
			}
			value, err := parseValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := graphson.NewArray()
		for dec.More() {
			value, err := parseValue(dec)
			if err != nil {
				return nil, err
			}
			arr.Append(value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %q", delim)
}
