package bridge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberFromFloatClassification(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want Number
	}{
		{"WholePositive", 10, Int(10)},
		{"WholeNegative", -3, Int(-3)},
		{"Zero", 0, Int(0)},
		{"NegativeZero", math.Copysign(0, -1), Int(0)},
		{"Fractional", 2.5, Float(2.5)},
		{"NegativeFractional", -2.5, Float(-2.5)},
		{"SmallFraction", 0.1, Float(0.1)},
		{"NaN", math.NaN(), NaN()},
		{"PositiveInfinity", math.Inf(1), Infinity()},
		{"NegativeInfinity", math.Inf(-1), Infinity()},
		// Whole but outside int64's range: stays Float instead of
		// silently saturating.
		{"HugeWhole", 1e300, Float(1e300)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NumberFromFloat(tc.in))
		})
	}
}

func TestNumberFloat64(t *testing.T) {
	assert.Equal(t, 2.5, Float(2.5).Float64())
	assert.Equal(t, float64(7), Int(7).Float64())
	assert.True(t, math.IsNaN(NaN().Float64()))
	assert.True(t, math.IsInf(Infinity().Float64(), 1))
}

func TestNumberInt64(t *testing.T) {
	assert.Equal(t, int64(7), Int(7).Int64())
	assert.Equal(t, int64(2), Float(2.9).Int64())
	assert.Equal(t, int64(-2), Float(-2.9).Int64())
	assert.Equal(t, int64(0), NaN().Int64())
	assert.Equal(t, int64(math.MaxInt64), Infinity().Int64())
	assert.Equal(t, int64(math.MaxInt64), Float(1e300).Int64())
	assert.Equal(t, int64(math.MinInt64), Float(-1e300).Int64())
}

func TestNumberString(t *testing.T) {
	assert.Equal(t, "NaN", NaN().String())
	assert.Equal(t, "Infinity", Infinity().String())
	assert.Equal(t, "2.01", Float(2.01).String())
	assert.Equal(t, "-15", Int(-15).String())
}

func TestNumberPredicates(t *testing.T) {
	assert.True(t, NaN().IsNaN())
	assert.True(t, Infinity().IsInfinity())
	assert.True(t, Int(1).IsInt())
	assert.True(t, Float(1.5).IsFloat())
	assert.False(t, Int(1).IsFloat())
}
