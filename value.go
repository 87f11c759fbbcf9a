package graphson

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strings"
)

// UndefinedValue is the type of Undefined.
type UndefinedValue struct{}

// Undefined is the absent value. It is distinct from nil, which is null.
var Undefined = UndefinedValue{}

func (UndefinedValue) String() string { return "undefined" }

// InvalidDateValue is the type of InvalidDate.
type InvalidDateValue struct{}

// InvalidDate is a date whose time value is NaN.
var InvalidDate = InvalidDateValue{}

func (InvalidDateValue) String() string { return "Invalid Date" }

// BigIntObject is a boxed arbitrary-precision integer.
type BigIntObject struct {
	Value *big.Int
}

// StringObject is a boxed string.
type StringObject struct {
	Value string
}

// BooleanObject is a boxed boolean.
type BooleanObject struct {
	Value bool
}

// NumberObject is a boxed number.
type NumberObject struct {
	Value float64
}

// Error carries the name, message and stack of an error value. The stack is
// opaque text and is never parsed.
type Error struct {
	Name    string
	Message string
	Stack   string
}

// NewError returns an Error named "Error".
func NewError(message string) *Error {
	return &Error{Name: "Error", Message: message}
}

func (e *Error) Error() string {
	switch {
	case e.Name == "":
		return e.Message
	case e.Message == "":
		return e.Name
	}
	return e.Name + ": " + e.Message
}

// RegExp is a regular expression pattern with its flags. The pattern is kept
// as source text; Compile maps it onto the regexp package.
type RegExp struct {
	Source     string
	Global     bool
	IgnoreCase bool
	Multiline  bool
	Sticky     bool
	Unicode    bool
}

// NewRegExp parses flags, a string made of the letters g, i, m, y and u.
func NewRegExp(source, flags string) (*RegExp, error) {
	r := &RegExp{Source: source}
	for _, f := range flags {
		var flag *bool
		switch f {
		case 'g':
			flag = &r.Global
		case 'i':
			flag = &r.IgnoreCase
		case 'm':
			flag = &r.Multiline
		case 'y':
			flag = &r.Sticky
		case 'u':
			flag = &r.Unicode
		default:
			return nil, fmt.Errorf("invalid regexp flag %q", f)
		}
		if *flag {
			return nil, fmt.Errorf("repeated regexp flag %q", f)
		}
		*flag = true
	}
	return r, nil
}

// Flags returns the set flags in the order g, i, m, y, u.
func (r *RegExp) Flags() string {
	var b strings.Builder
	for _, f := range []struct {
		set    bool
		letter byte
	}{
		{r.Global, 'g'},
		{r.IgnoreCase, 'i'},
		{r.Multiline, 'm'},
		{r.Sticky, 'y'},
		{r.Unicode, 'u'},
	} {
		if f.set {
			b.WriteByte(f.letter)
		}
	}
	return b.String()
}

func (r *RegExp) String() string {
	return "/" + r.Source + "/" + r.Flags()
}

// Compile compiles the pattern with the regexp package. Only the i and m
// flags change matching there; the others are ignored.
func (r *RegExp) Compile() (*regexp.Regexp, error) {
	var prefix string
	if r.IgnoreCase || r.Multiline {
		prefix = "(?"
		if r.IgnoreCase {
			prefix += "i"
		}
		if r.Multiline {
			prefix += "m"
		}
		prefix += ")"
	}
	return regexp.Compile(prefix + r.Source)
}

// asFloat returns v as a float64 when it is a floating point number.
func asFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	}
	return 0, false
}

// asNumber returns v as a float64 when it is any Go numeric kind.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// isPlainNumber reports whether f survives the JSON number grammar unchanged.
func isPlainNumber(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && !(f == 0 && math.Signbit(f))
}

// isNative reports whether v is written to a document as is.
func isNative(v any) bool {
	switch x := v.(type) {
	case nil, bool, string, *Object, *Array:
		return true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		return isPlainNumber(x)
	case float32:
		return isPlainNumber(float64(x))
	}
	return false
}
