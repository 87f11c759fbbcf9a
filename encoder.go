package graphson

import (
	"fmt"
	"reflect"
)

// MaxDecodeSize bounds the number of bytes wire decoders accept.
var MaxDecodeSize = int64(1024 * 1024 * 5) // 5 MB

// Encoder defines the interface for writing graphs to a wire format and
// reading them back. Implementations include JSON, MessagePack, YAML and
// Protocol Buffers encoders.
type Encoder interface {
	// Encode converts v into a document and serializes it.
	Encode(v any) ([]byte, error)

	// Decode deserializes data, rebuilds the graph and stores it in v with
	// Assign.
	Decode(data []byte, v any) error
}

// CheckDecodeSize returns ErrDocumentTooLarge when data exceeds MaxDecodeSize.
func CheckDecodeSize(data []byte) error {
	if int64(len(data)) > MaxDecodeSize {
		return fmt.Errorf("%w: %d bytes", ErrDocumentTooLarge, len(data))
	}
	return nil
}

// Assign stores a decoded value in dst, which must be a non-nil pointer whose
// element type can hold value, such as *any or **Object.
func Assign(dst any, value any) error {
	if p, ok := dst.(*any); ok && p != nil {
		*p = value
		return nil
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: %T is not a non-nil pointer", ErrInvalidTarget, dst)
	}
	elem := rv.Elem()
	if value == nil {
		elem.SetZero()
		return nil
	}
	val := reflect.ValueOf(value)
	if !val.Type().AssignableTo(elem.Type()) {
		return fmt.Errorf("%w: cannot store %T in %s", ErrInvalidTarget, value, elem.Type())
	}
	elem.Set(val)
	return nil
}
