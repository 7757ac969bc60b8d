package fxq

import (
	"math"

	"github.com/x448/float16"
)

// MaxFloat16 is the largest finite IEEE 754 half-precision value.
const MaxFloat16 = 65504.0

// Float16Grid snaps values to the nearest IEEE 754 half-precision
// representable value. The output stays in the caller's float type; only
// the represented value moves onto the half-precision lattice. Values
// beyond ±MaxFloat16 saturate unless Overflow is OverflowError.
type Float16Grid struct {
	Overflow OverflowMode
}

var _ Grid = Float16Grid{}
var _ reportingGrid = Float16Grid{}

func (g Float16Grid) Name() string {
	return "float16"
}

// Step returns 0: the half-precision lattice is not uniformly spaced.
func (g Float16Grid) Step() float64 {
	return 0
}

func (g Float16Grid) Snap(v float64) (float64, error) {
	q, _, err := g.SnapReport(v)
	return q, err
}

func (g Float16Grid) SnapReport(v float64) (float64, bool, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, &RangeError{Value: v, Min: -MaxFloat16, Max: MaxFloat16}
	}
	if v > MaxFloat16 || v < -MaxFloat16 {
		if g.Overflow == OverflowError {
			return 0, true, &RangeError{Value: v, Min: -MaxFloat16, Max: MaxFloat16}
		}
		if v > 0 {
			return MaxFloat16, true, nil
		}
		return -MaxFloat16, true, nil
	}
	f := float16.Fromfloat32(float32(v))
	return float64(f.Float32()), false, nil
}
