package graphson

import (
	"errors"
	"fmt"
)

// Errors returned by the codec. They are wrapped with context, so match them
// with errors.Is.
var (
	// ErrUnsupportedValue is returned when a value is neither JSON-native nor
	// accepted by any registered Type.
	ErrUnsupportedValue = errors.New("graphson: unsupported value")

	// ErrUnknownType is returned when a document carries a $type tag that no
	// registered Type claims.
	ErrUnknownType = errors.New("graphson: unknown type")

	// ErrDanglingReference is returned when a $ref id has no entry in $defs.
	ErrDanglingReference = errors.New("graphson: dangling reference")

	// ErrMalformedDocument is returned when a document does not follow the
	// wire grammar.
	ErrMalformedDocument = errors.New("graphson: malformed document")

	// ErrDepthExceeded is returned when a graph or document nests deeper than
	// the configured limit.
	ErrDepthExceeded = errors.New("graphson: depth limit exceeded")

	// ErrReservedKey is returned when a plain object uses one of the keys the
	// wire format reserves for itself.
	ErrReservedKey = errors.New("graphson: reserved key")

	// ErrDuplicateType is returned when two Types share a tag.
	ErrDuplicateType = errors.New("graphson: duplicate type tag")

	// ErrDocumentTooLarge is returned by wire decoders for input larger than
	// MaxDecodeSize.
	ErrDocumentTooLarge = errors.New("graphson: document too large")

	// ErrInvalidTarget is returned when a decoded value cannot be stored in the
	// destination handed to Assign.
	ErrInvalidTarget = errors.New("graphson: invalid decode target")
)

func unsupported(v any) error {
	return fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedDocument, fmt.Sprintf(format, args...))
}
