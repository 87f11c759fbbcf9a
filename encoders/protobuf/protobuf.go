// Package protobuf provides a Protocol Buffers encoder for graphson documents.
// Documents are carried as the well-known google.protobuf.Value message.
// Struct fields are unordered on the wire, so decoded objects list their keys
// in sorted order; values, references and identity are unaffected.
package protobuf

import (
	"fmt"
	"maps"
	"slices"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/RobertWHurst/graphson"
)

// Encoder implements graphson.Encoder using Protocol Buffers serialization.
type Encoder struct {
	codec *graphson.Codec
}

var _ graphson.Encoder = &Encoder{}

// Encode converts v into a document and marshals it as a structpb.Value.
func (e *Encoder) Encode(v any) ([]byte, error) {
	doc, err := e.codec.Encode(v)
	if err != nil {
		return nil, err
	}
	value, err := ToValue(doc)
	if err != nil {
		return nil, err
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(value)
}

// Decode unmarshals a structpb.Value, rebuilds the graph and stores it in v.
func (e *Encoder) Decode(data []byte, v any) error {
	if err := graphson.CheckDecodeSize(data); err != nil {
		return err
	}
	var msg structpb.Value
	if err := proto.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("%w: %v", graphson.ErrMalformedDocument, err)
	}
	doc, err := FromValue(&msg)
	if err != nil {
		return err
	}
	value, err := e.codec.Decode(doc)
	if err != nil {
		return err
	}
	return graphson.Assign(v, value)
}

// New creates a new Protocol Buffers encoder using the default codec.
func New() *Encoder {
	return NewWithCodec(graphson.New())
}

// NewWithCodec creates a new Protocol Buffers encoder using codec.
func NewWithCodec(codec *graphson.Codec) *Encoder {
	return &Encoder{codec: codec}
}

// ToValue converts a document into a structpb.Value.
func ToValue(doc any) (*structpb.Value, error) {
	switch x := doc.(type) {
	case nil:
		return structpb.NewNullValue(), nil
	case bool:
		return structpb.NewBoolValue(x), nil
	case string:
		return structpb.NewStringValue(x), nil
	case float64:
		return structpb.NewNumberValue(x), nil
	case *graphson.Object:
		if x == nil {
			return structpb.NewNullValue(), nil
		}
		fields := make(map[string]*structpb.Value, x.Len())
		for k, value := range x.All() {
			field, err := ToValue(value)
			if err != nil {
				return nil, err
			}
			fields[k] = field
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: fields}), nil
	case *graphson.Array:
		if x == nil {
			return structpb.NewNullValue(), nil
		}
		values := make([]*structpb.Value, 0, x.Len())
		for _, item := range x.Items {
			value, err := ToValue(item)
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		}
		return structpb.NewListValue(&structpb.ListValue{Values: values}), nil
	}

	switch x := doc.(type) {
	case int:
		return structpb.NewNumberValue(float64(x)), nil
	case int64:
		return structpb.NewNumberValue(float64(x)), nil
	case int32:
		return structpb.NewNumberValue(float64(x)), nil
	case int16:
		return structpb.NewNumberValue(float64(x)), nil
	case int8:
		return structpb.NewNumberValue(float64(x)), nil
	case uint:
		return structpb.NewNumberValue(float64(x)), nil
	case uint64:
		return structpb.NewNumberValue(float64(x)), nil
	case uint32:
		return structpb.NewNumberValue(float64(x)), nil
	case uint16:
		return structpb.NewNumberValue(float64(x)), nil
	case uint8:
		return structpb.NewNumberValue(float64(x)), nil
	case float32:
		return structpb.NewNumberValue(float64(x)), nil
	}
	return nil, fmt.Errorf("%w: %T in document", graphson.ErrUnsupportedValue, doc)
}

// FromValue converts a structpb.Value into a document.
func FromValue(v *structpb.Value) (any, error) {
	switch k := v.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_BoolValue:
		return k.BoolValue, nil
	case *structpb.Value_StringValue:
		return k.StringValue, nil
	case *structpb.Value_NumberValue:
		return k.NumberValue, nil
	case *structpb.Value_StructValue:
		obj := graphson.NewObject()
		fields := k.StructValue.GetFields()
		for _, key := range slices.Sorted(maps.Keys(fields)) {
			value, err := FromValue(fields[key])
			if err != nil {
				return nil, err
			}
			obj.Set(key, value)
		}
		return obj, nil
	case *structpb.Value_ListValue:
		values := k.ListValue.GetValues()
		arr := &graphson.Array{Items: make([]any, 0, len(values))}
		for _, item := range values {
			value, err := FromValue(item)
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, value)
		}
		return arr, nil
	}
	return nil, fmt.Errorf("%w: unknown protobuf value kind %T", graphson.ErrMalformedDocument, v.GetKind())
}
