package core

import (
	"math"
	"strconv"
)

// Kind identifies the type of a stored value.
type Kind uint8

const (
	// KindInt is a signed 64-bit integer value.
	KindInt Kind = iota + 1
	// KindDouble is a 64-bit floating point value.
	KindDouble
	// KindString is a text string value.
	KindString
	// KindBool is a boolean value.
	KindBool
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a tagged union over the four supported value types.
// The zero Value has no kind and marshals to an error; values are
// constructed through IntValue, DoubleValue, StringValue and BoolValue.
// Accessors never coerce: reading a value through an accessor for a
// different kind fails with ErrTypeMismatch.
type Value struct {
	kind Kind
	num  uint64 // int64 bits, float64 bits, or 0/1 for bool
	str  string
}

// IntValue returns a Value holding a signed 64-bit integer.
func IntValue(v int64) Value {
	return Value{kind: KindInt, num: uint64(v)}
}

// DoubleValue returns a Value holding a 64-bit float.
func DoubleValue(v float64) Value {
	return Value{kind: KindDouble, num: math.Float64bits(v)}
}

// StringValue returns a Value holding a text string.
func StringValue(v string) Value {
	return Value{kind: KindString, str: v}
}

// BoolValue returns a Value holding a boolean.
func BoolValue(v bool) Value {
	var num uint64
	if v {
		num = 1
	}
	return Value{kind: KindBool, num: num}
}

// Kind returns the kind tag of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsZero reports whether the value is the zero Value (no kind).
func (v Value) IsZero() bool {
	return v.kind == 0
}

// Int returns the integer payload, or ErrTypeMismatch if the value
// holds a different kind.
func (v Value) Int() (int64, error) {
	if v.kind != KindInt {
		return 0, ErrTypeMismatch
	}
	return int64(v.num), nil
}

// Double returns the float payload, or ErrTypeMismatch if the value
// holds a different kind.
func (v Value) Double() (float64, error) {
	if v.kind != KindDouble {
		return 0, ErrTypeMismatch
	}
	return math.Float64frombits(v.num), nil
}

// Str returns the string payload, or ErrTypeMismatch if the value
// holds a different kind.
func (v Value) Str() (string, error) {
	if v.kind != KindString {
		return "", ErrTypeMismatch
	}
	return v.str, nil
}

// Bool returns the boolean payload, or ErrTypeMismatch if the value
// holds a different kind.
func (v Value) Bool() (bool, error) {
	if v.kind != KindBool {
		return false, ErrTypeMismatch
	}
	return v.num == 1, nil
}

// Equal reports whether two values have the same kind and payload.
// Float comparison is bit-exact, so NaN equals NaN here.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.num == o.num && v.str == o.str
}

// String renders the value for logs and CLI output, e.g. int(42).
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return "int(" + strconv.FormatInt(int64(v.num), 10) + ")"
	case KindDouble:
		return "double(" + strconv.FormatFloat(math.Float64frombits(v.num), 'g', -1, 64) + ")"
	case KindString:
		return "string(" + strconv.Quote(v.str) + ")"
	case KindBool:
		return "bool(" + strconv.FormatBool(v.num == 1) + ")"
	default:
		return "none"
	}
}
