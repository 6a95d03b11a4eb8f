package bridge

import (
	"math"
	"strconv"

	"fortio.org/safecast"
)

type numberKind int

const (
	numberNaN numberKind = iota
	numberInfinity
	numberFloat
	numberInt
)

// Number is a script-side numeric value. The engine has a single IEEE-754
// double type; Number refines it into the host's integer/float distinction
// plus the two non-finite sentinels.
type Number struct {
	kind numberKind
	f    float64
	i    int64
}

func NaN() Number          { return Number{kind: numberNaN} }
func Infinity() Number     { return Number{kind: numberInfinity} }
func Int(i int64) Number   { return Number{kind: numberInt, i: i} }
func Float(f float64) Number {
	return Number{kind: numberFloat, f: f}
}

// NumberFromFloat classifies an engine double: non-finite values become the
// NaN/Infinity sentinels, finite values without a fractional part become Int,
// everything else stays Float. A value that is whole but does not fit int64
// also stays Float rather than silently saturating.
func NumberFromFloat(f float64) Number {
	switch {
	case math.IsNaN(f):
		return NaN()
	case math.IsInf(f, 0):
		return Infinity()
	}
	if i, err := safecast.Convert[int64](f); err == nil {
		return Int(i)
	}
	return Float(f)
}

func (n Number) IsNaN() bool      { return n.kind == numberNaN }
func (n Number) IsInfinity() bool { return n.kind == numberInfinity }
func (n Number) IsInt() bool      { return n.kind == numberInt }
func (n Number) IsFloat() bool    { return n.kind == numberFloat }

// Float64 widens to the engine's double representation.
func (n Number) Float64() float64 {
	switch n.kind {
	case numberNaN:
		return math.NaN()
	case numberInfinity:
		return math.Inf(1)
	case numberFloat:
		return n.f
	default:
		return float64(n.i)
	}
}

// Int64 narrows to an integer: NaN yields 0, Infinity and out-of-range
// floats saturate.
func (n Number) Int64() int64 {
	switch n.kind {
	case numberInt:
		return n.i
	case numberFloat:
		if i, err := safecast.Truncate[int64](n.f); err == nil {
			return i
		}
		if n.f > 0 {
			return math.MaxInt64
		}
		return math.MinInt64
	case numberInfinity:
		return math.MaxInt64
	default:
		return 0
	}
}

func (n Number) String() string {
	switch n.kind {
	case numberNaN:
		return "NaN"
	case numberInfinity:
		return "Infinity"
	case numberFloat:
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	default:
		return strconv.FormatInt(n.i, 10)
	}
}
