package bridge

import (
	"fortio.org/safecast"

	"jsbridge/pkg/errors"
)

// ToValue coerces a host value into the engine's value model. Supported:
// nil, bool, string, the signed and unsigned integer types, float32/float64,
// Number, *Object and Value itself. Anything else is a Conversion error.
func ToValue(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null, nil
	case Value:
		return x, nil
	case Number:
		return NumberValue(x), nil
	case *Object:
		if x == nil {
			return Null, nil
		}
		return ObjectValue(x), nil
	case bool:
		return BooleanValue(x), nil
	case string:
		return NewString(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int8:
		return IntValue(int64(x)), nil
	case int16:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint:
		return uintValue(uint64(x))
	case uint8:
		return IntValue(int64(x)), nil
	case uint16:
		return IntValue(int64(x)), nil
	case uint32:
		return IntValue(int64(x)), nil
	case uint64:
		return uintValue(x)
	case float32:
		return FloatValue(float64(x)), nil
	case float64:
		return FloatValue(x), nil
	default:
		return Undefined, errors.Errorf(errors.Conversion, "could not convert %T to a script value", v)
	}
}

func uintValue(u uint64) (Value, error) {
	i, err := safecast.Conv[int64](u)
	if err != nil {
		return Undefined, errors.Errorf(errors.Conversion, "unsigned value %d overflows the numeric range", u)
	}
	return IntValue(i), nil
}
