// Package yaml provides a YAML encoder for graphson documents.
// Documents are built as yaml.Node trees so mapping keys keep their order.
package yaml

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/RobertWHurst/graphson"
)

// Encoder implements graphson.Encoder using YAML serialization.
type Encoder struct {
	codec *graphson.Codec
}

var _ graphson.Encoder = &Encoder{}

// Encode converts v into a document and serializes it to YAML bytes.
func (e *Encoder) Encode(v any) ([]byte, error) {
	doc, err := e.codec.Encode(v)
	if err != nil {
		return nil, err
	}
	node, err := toNode(doc)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

// Decode parses YAML bytes, rebuilds the graph and stores it in v.
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

// New creates a new YAML encoder using the default codec.
func New() *Encoder {
	return NewWithCodec(graphson.New())
}

// NewWithCodec creates a new YAML encoder using codec.
func NewWithCodec(codec *graphson.Codec) *Encoder {
	return &Encoder{codec: codec}
}

// ParseDocument reads a single YAML document into *graphson.Object and
// *graphson.Array values. Aliases are expanded and numbers are returned as
// float64. Nesting is limited to graphson.DefaultMaxDepth.
func ParseDocument(data []byte) (any, error) {
	return parseDocument(data, graphson.DefaultMaxDepth)
}

func parseDocument(data []byte, maxDepth int) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", graphson.ErrMalformedDocument, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 {
		return nil, fmt.Errorf("%w: empty yaml document", graphson.ErrMalformedDocument)
	}
	doc, err := fromNode(root.Content[0], 1, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", graphson.ErrMalformedDocument, err)
	}
	return doc, nil
}

func toNode(v any) (*yaml.Node, error) {
	switch x := v.(type) {
	case *graphson.Object:
		if x == nil {
			break
		}
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, value := range x.All() {
			key := &yaml.Node{}
			if err := key.Encode(k); err != nil {
				return nil, err
			}
			child, err := toNode(value)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, key, child)
		}
		return node, nil
	case *graphson.Array:
		if x == nil {
			break
		}
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range x.Items {
			child, err := toNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	}

	if v == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	return node, nil
}

func fromNode(node *yaml.Node, depth, maxDepth int) (any, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: %d", graphson.ErrDepthExceeded, maxDepth)
	}

	switch node.Kind {
	case yaml.AliasNode:
		return fromNode(node.Alias, depth+1, maxDepth)
	case yaml.MappingNode:
		obj := graphson.NewObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", key.Line)
			}
			value, err := fromNode(node.Content[i+1], depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			obj.Set(key.Value, value)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := &graphson.Array{Items: make([]any, 0, len(node.Content))}
		for _, child := range node.Content {
			value, err := fromNode(child, depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, value)
		}
		return arr, nil
	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		switch n := v.(type) {
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case uint64:
			return float64(n), nil
		case time.Time:
			return node.Value, nil
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unexpected yaml node kind %d", node.Line, node.Kind)
}
