package bridge

import (
	"strconv"

	"jsbridge/pkg/errors"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindNumber
	KindBoolean
	KindString
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a closed union over every representable engine-side value:
// undefined, null, number, boolean, string and object handle. A Value is
// produced by reading the top of the value stack at a defined instant and is
// immutable afterward; mutation of an underlying object goes through its
// Object handle, never through the Value.
type Value struct {
	kind Kind
	num  Number
	b    bool
	str  string
	obj  *Object
}

// Undefined and Null are the two unit variants.
var (
	Undefined = Value{kind: KindUndefined}
	Null      = Value{kind: KindNull}
)

func BooleanValue(b bool) Value  { return Value{kind: KindBoolean, b: b} }
func NewString(s string) Value   { return Value{kind: KindString, str: s} }
func NumberValue(n Number) Value { return Value{kind: KindNumber, num: n} }
func IntValue(i int64) Value     { return NumberValue(Int(i)) }
func FloatValue(f float64) Value { return NumberValue(Float(f)) }

// ObjectValue wraps an object handle. The handle's anchor lifetime is
// unaffected; the Value borrows it.
func ObjectValue(o *Object) Value { return Value{kind: KindObject, obj: o} }

func (v Value) Kind() Kind        { return v.kind }
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }
func (v Value) IsNull() bool      { return v.kind == KindNull }
func (v Value) IsNumber() bool    { return v.kind == KindNumber }
func (v Value) IsBoolean() bool   { return v.kind == KindBoolean }
func (v Value) IsString() bool    { return v.kind == KindString }
func (v Value) IsObject() bool    { return v.kind == KindObject }

// ToBoolean narrows to a host bool; anything but the boolean variant is a
// Conversion error.
func (v Value) ToBoolean() (bool, error) {
	if v.kind != KindBoolean {
		return false, errors.Errorf(errors.Conversion, "could not convert %s to boolean", v.kind)
	}
	return v.b, nil
}

// ToObject narrows to an object handle.
func (v Value) ToObject() (*Object, error) {
	if v.kind != KindObject {
		return nil, errors.Errorf(errors.Conversion, "could not convert %s to object", v.kind)
	}
	return v.obj, nil
}

// ToText renders the value as text. Every variant succeeds except an object
// whose handle no longer encodes.
func (v Value) ToText() (string, error) {
	if v.kind == KindObject {
		s, ok := v.obj.Encode()
		if !ok {
			return "", errors.New(errors.Conversion, "could not convert object to string")
		}
		return s, nil
	}
	return v.String(), nil
}

// ToNumber returns the numeric variant, or NaN for every other variant.
func (v Value) ToNumber() Number {
	if v.kind == KindNumber {
		return v.num
	}
	return NaN()
}

// ToFloat64 widens via ToNumber; non-numeric values yield NaN.
func (v Value) ToFloat64() float64 { return v.ToNumber().Float64() }

// ToInt64 narrows via ToNumber; non-numeric values yield 0.
func (v Value) ToInt64() int64 { return v.ToNumber().Int64() }

// String renders the value the way the script language would: "undefined",
// "null", the numeric or boolean literal, the raw string, or the object's
// JSON encoding ("{}" when the handle no longer encodes).
func (v Value) String() string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindNumber:
		return v.num.String()
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.str
	case KindObject:
		if s, ok := v.obj.Encode(); ok {
			return s
		}
		return "{}"
	default:
		return "undefined"
	}
}
