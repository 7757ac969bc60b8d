package fxq

import "math"

// Grid is a discrete set of representable values. Snap maps a real number
// to its grid level under the grid's rounding and overflow policy. All
// quantize entry points, scalar and vector, copy and in-place, route
// through Snap so they agree bit for bit.
type Grid interface {
	Snap(v float64) (float64, error)
	Name() string
	Step() float64
}

// reportingGrid is implemented by grids that can tell whether a value fell
// outside the representable range before the overflow policy was applied.
type reportingGrid interface {
	SnapReport(v float64) (q float64, overflowed bool, err error)
}

func roundScaled(x float64, m RoundingMode) float64 {
	switch m {
	case RoundAround:
		return math.RoundToEven(x)
	case RoundCeil:
		return math.Ceil(x)
	case RoundFix:
		return math.Trunc(x)
	default:
		// RoundTruncate and RoundFloor: dropping fractional bits of a
		// two's complement word rounds toward negative infinity.
		return math.Floor(x)
	}
}

// FixedPoint is the Config-driven two's complement grid. The quantized
// value is roundmode(v * 2^Frac) * 2^-Frac, with out-of-range scaled
// integers wrapped, clamped or rejected per the overflow mode.
type FixedPoint struct {
	Config
}

func NewFixedPoint(c Config) (FixedPoint, error) {
	if err := c.Validate(); err != nil {
		return FixedPoint{}, err
	}
	return FixedPoint{Config: c}, nil
}

var _ Grid = FixedPoint{}
var _ reportingGrid = FixedPoint{}

func (f FixedPoint) Name() string {
	return "fixed:" + f.QFormat()
}

func (f FixedPoint) Step() float64 {
	return f.Precision()
}

func (f FixedPoint) Snap(v float64) (float64, error) {
	q, _, err := f.SnapReport(v)
	return q, err
}

// SnapReport quantizes v and reports whether it left the representable
// range before the overflow policy was applied.
func (f FixedPoint) SnapReport(v float64) (float64, bool, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, &RangeError{Value: v, Min: f.Min(), Max: f.Max()}
	}
	n := roundScaled(math.Ldexp(v, f.Frac), f.Rounding)
	lo := float64(f.MinInt())
	hi := float64(f.MaxInt())
	if n >= lo && n <= hi {
		return math.Ldexp(n, -f.Frac), false, nil
	}
	switch f.Overflow {
	case OverflowSaturate:
		if n < lo {
			n = lo
		} else {
			n = hi
		}
	case OverflowError:
		return 0, true, &RangeError{Value: v, Min: f.Min(), Max: f.Max()}
	default:
		if math.IsInf(n, 0) {
			// The scaled value escaped float64; wrapping is meaningless
			// this far out of range.
			return 0, true, &RangeError{Value: v, Min: f.Min(), Max: f.Max()}
		}
		span := math.Ldexp(1, f.Word)
		n = math.Mod(n-lo, span)
		if n < 0 {
			n += span
		}
		n += lo
	}
	return math.Ldexp(n, -f.Frac), true, nil
}

// StepGrid is a plain uniform grid: levels are integer multiples of Size.
// When Min < Max the grid is bounded and out-of-range values are clamped,
// or rejected under OverflowError. Wrapping has no word width to wrap
// within, so any mode other than OverflowError clamps.
type StepGrid struct {
	Size     float64
	Rounding RoundingMode
	Overflow OverflowMode
	Min      float64
	Max      float64
}

// NewStepGrid builds an unbounded round-to-nearest grid with the given
// step size.
func NewStepGrid(step float64) (StepGrid, error) {
	if math.IsNaN(step) || math.IsInf(step, 0) || step <= 0 {
		return StepGrid{}, &ConfigError{Field: "step", Value: step, Reason: "must be positive and finite"}
	}
	return StepGrid{Size: step, Rounding: RoundAround, Overflow: OverflowSaturate}, nil
}

var _ Grid = StepGrid{}
var _ reportingGrid = StepGrid{}

func (g StepGrid) Name() string {
	return "step"
}

func (g StepGrid) Step() float64 {
	return g.Size
}

func (g StepGrid) bounded() bool {
	return g.Min < g.Max
}

func (g StepGrid) Snap(v float64) (float64, error) {
	q, _, err := g.SnapReport(v)
	return q, err
}

func (g StepGrid) SnapReport(v float64) (float64, bool, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, &RangeError{Value: v, Min: g.Min, Max: g.Max}
	}
	q := roundScaled(v/g.Size, g.Rounding) * g.Size
	if !g.bounded() || (q >= g.Min && q <= g.Max) {
		return q, false, nil
	}
	if g.Overflow == OverflowError {
		return 0, true, &RangeError{Value: v, Min: g.Min, Max: g.Max}
	}
	if q < g.Min {
		q = math.Ceil(g.Min/g.Size) * g.Size
	} else {
		q = math.Floor(g.Max/g.Size) * g.Size
	}
	return q, true, nil
}
