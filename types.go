package graphson

import (
	"math"
	"math/big"
	"time"
)

// builtinTypes returns the built-in Types in test order. More specific tests
// come first.
func builtinTypes() []*Type {
	return []*Type{
		{
			Tag:    "Undefined",
			Test:   is[UndefinedValue],
			Encode: noPayload,
			Decode: func(any) (any, error) { return Undefined, nil },
		},
		{
			Tag: "BigInt",
			Test: func(v any) bool {
				b, ok := v.(*big.Int)
				return ok && b != nil
			},
			Encode: func(v any, _ EncodeFunc) (any, error) {
				return v.(*big.Int).String(), nil
			},
			Decode: decodeBigInt,
		},
		{
			Tag: "BigIntObject",
			Test: func(v any) bool {
				b, ok := v.(*BigIntObject)
				return ok && b != nil && b.Value != nil
			},
			Encode: func(v any, _ EncodeFunc) (any, error) {
				return v.(*BigIntObject).Value.String(), nil
			},
			Decode: func(payload any) (any, error) {
				n, err := decodeBigInt(payload)
				if err != nil {
					return nil, err
				}
				return &BigIntObject{Value: n.(*big.Int)}, nil
			},
		},
		{
			Tag:  "StringObject",
			Test: isNonNil[*StringObject],
			Encode: func(v any, _ EncodeFunc) (any, error) {
				return v.(*StringObject).Value, nil
			},
			Decode: func(payload any) (any, error) {
				s, ok := payload.(string)
				if !ok {
					return nil, malformed("StringObject payload must be a string, got %T", payload)
				}
				return &StringObject{Value: s}, nil
			},
		},
		{
			Tag:  "BooleanObject",
			Test: isNonNil[*BooleanObject],
			Encode: func(v any, _ EncodeFunc) (any, error) {
				return v.(*BooleanObject).Value, nil
			},
			Decode: func(payload any) (any, error) {
				b, ok := payload.(bool)
				if !ok {
					return nil, malformed("BooleanObject payload must be a boolean, got %T", payload)
				}
				return &BooleanObject{Value: b}, nil
			},
		},
		{
			Tag:  "NumberObject",
			Test: isNonNil[*NumberObject],
			Encode: func(v any, enc EncodeFunc) (any, error) {
				return enc(v.(*NumberObject).Value)
			},
			Decode: func(payload any) (any, error) {
				n, ok := asNumber(payload)
				if !ok {
					return nil, malformed("NumberObject payload must be a number, got %T", payload)
				}
				return &NumberObject{Value: n}, nil
			},
		},
		{
			Tag: "Date",
			Test: func(v any) bool {
				switch v.(type) {
				case time.Time, InvalidDateValue:
					return true
				}
				return false
			},
			Encode: func(v any, _ EncodeFunc) (any, error) {
				t, ok := v.(time.Time)
				if !ok {
					return "NaN", nil
				}
				return float64(t.UnixMilli()), nil
			},
			Decode: func(payload any) (any, error) {
				if payload == "NaN" {
					return InvalidDate, nil
				}
				ms, ok := asNumber(payload)
				if !ok {
					return nil, malformed("Date payload must be a number or \"NaN\", got %T", payload)
				}
				if math.IsNaN(ms) {
					return InvalidDate, nil
				}
				return time.UnixMilli(int64(ms)).UTC(), nil
			},
		},
		{
			Tag: "Error",
			Test: func(v any) bool {
				if e, ok := v.(*Error); ok {
					return e != nil
				}
				_, ok := v.(error)
				return ok
			},
			Encode: func(v any, _ EncodeFunc) (any, error) {
				e, ok := v.(*Error)
				if !ok {
					e = &Error{Name: "Error", Message: v.(error).Error()}
				}
				return ObjectOf("name", e.Name, "message", e.Message, "stack", e.Stack), nil
			},
			Decode: decodeError,
		},
		{
			Tag:    "Map",
			Test:   isNonNil[*Map],
			Encode: encodeMap,
			Decode: decodeMap,
		},
		{
			Tag:  "Set",
			Test: isNonNil[*Set],
			Encode: func(v any, enc EncodeFunc) (any, error) {
				s := v.(*Set)
				items := make([]any, 0, s.Len())
				for _, value := range s.values {
					item, err := enc(value)
					if err != nil {
						return nil, err
					}
					items = append(items, item)
				}
				return NewArray(items...), nil
			},
			Decode: func(payload any) (any, error) {
				items, ok := asArray(payload)
				if !ok {
					return nil, malformed("Set payload must be an array, got %T", payload)
				}
				return NewSet(items.Items...), nil
			},
		},
		{
			Tag:  "RegExp",
			Test: isNonNil[*RegExp],
			Encode: func(v any, _ EncodeFunc) (any, error) {
				r := v.(*RegExp)
				return ObjectOf("source", r.Source, "flags", r.Flags()), nil
			},
			Decode: decodeRegExp,
		},
		{
			Tag: "NaN",
			Test: func(v any) bool {
				f, ok := asFloat(v)
				return ok && math.IsNaN(f)
			},
			Encode: noPayload,
			Decode: func(any) (any, error) { return math.NaN(), nil },
		},
		{
			Tag: "Infinity",
			Test: func(v any) bool {
				f, ok := asFloat(v)
				return ok && math.IsInf(f, 1)
			},
			Encode: noPayload,
			Decode: func(any) (any, error) { return math.Inf(1), nil },
		},
		{
			Tag: "NegativeInfinity",
			Test: func(v any) bool {
				f, ok := asFloat(v)
				return ok && math.IsInf(f, -1)
			},
			Encode: noPayload,
			Decode: func(any) (any, error) { return math.Inf(-1), nil },
		},
		{
			Tag: "NegativeZero",
			Test: func(v any) bool {
				f, ok := asFloat(v)
				return ok && f == 0 && math.Signbit(f)
			},
			Encode: noPayload,
			Decode: func(any) (any, error) { return math.Copysign(0, -1), nil },
		},
	}
}

func is[T any](v any) bool {
	_, ok := v.(T)
	return ok
}

func isNonNil[T comparable](v any) bool {
	var zero T
	t, ok := v.(T)
	return ok && t != zero
}

func noPayload(any, EncodeFunc) (any, error) {
	return Undefined, nil
}

func decodeBigInt(payload any) (any, error) {
	s, ok := payload.(string)
	if !ok {
		return nil, malformed("BigInt payload must be a string, got %T", payload)
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, malformed("invalid BigInt %q", s)
	}
	return n, nil
}

func decodeError(payload any) (any, error) {
	o, ok := asObject(payload)
	if !ok {
		return nil, malformed("Error payload must be an object, got %T", payload)
	}
	e := &Error{}
	for key, field := range map[string]*string{"name": &e.Name, "message": &e.Message, "stack": &e.Stack} {
		v, ok := o.Get(key)
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, malformed("Error %s must be a string, got %T", key, v)
		}
		*field = s
	}
	return e, nil
}

func encodeMap(v any, enc EncodeFunc) (any, error) {
	m := v.(*Map)
	pairs := make([]any, 0, m.Len())
	for _, e := range m.entries {
		key, err := enc(e.Key)
		if err != nil {
			return nil, err
		}
		value, err := enc(e.Value)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, NewArray(key, value))
	}
	return NewArray(pairs...), nil
}

func decodeMap(payload any) (any, error) {
	pairs, ok := asArray(payload)
	if !ok {
		return nil, malformed("Map payload must be an array, got %T", payload)
	}
	m := NewMap()
	for i, p := range pairs.Items {
		pair, ok := asArray(p)
		if !ok || pair.Len() != 2 {
			return nil, malformed("Map entry %d must be a [key, value] pair", i)
		}
		m.Set(pair.Items[0], pair.Items[1])
	}
	return m, nil
}

func decodeRegExp(payload any) (any, error) {
	o, ok := asObject(payload)
	if !ok {
		return nil, malformed("RegExp payload must be an object, got %T", payload)
	}
	source, _ := o.Get("source")
	flags, _ := o.Get("flags")
	s, ok := source.(string)
	if !ok {
		return nil, malformed("RegExp source must be a string, got %T", source)
	}
	f, ok := flags.(string)
	if !ok && flags != nil {
		return nil, malformed("RegExp flags must be a string, got %T", flags)
	}
	r, err := NewRegExp(s, f)
	if err != nil {
		return nil, malformed("%v", err)
	}
	return r, nil
}
