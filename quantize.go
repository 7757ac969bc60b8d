// Package fxq quantizes floating-point scalars and vectors onto discrete
// grids: two's complement fixed-point grids in the style of RTL fixed-point
// arithmetic, plain step-size grids, and the float16 lattice. Quantization
// preserves the input's type category and shape; only the represented value
// moves to a grid level.
package fxq

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Quantize returns v snapped to the nearest grid level. Copy semantics:
// the input is never modified. Float in, float out.
func Quantize[T constraints.Float](g Grid, v T) (T, error) {
	q, err := g.Snap(float64(v))
	if err != nil {
		return 0, err
	}
	return T(q), nil
}

// QuantizeInt quantizes an integer scalar. Integer in, integer out: the
// snapped level is re-rounded to the nearest integer, so grids whose
// levels include the integers (fixed point with Frac >= 0, unit steps)
// leave in-range integers untouched.
func QuantizeInt[T constraints.Integer](g Grid, v T) (T, error) {
	q, err := g.Snap(float64(v))
	if err != nil {
		return 0, err
	}
	return T(int64(math.RoundToEven(q))), nil
}

// QuantizeVector quantizes every element of v onto g, returning a new
// vector of the same shape. The input is never modified.
func QuantizeVector(g Grid, v Vector) (Vector, error) {
	out := v.Clone()
	if err := quantizeCore(g, out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// QuantizeVectorInPlace quantizes every element of v in place. A nil
// vector has no addressable storage to mutate and fails with
// ErrImmutableInput. Under OverflowError a failing element stops the walk;
// elements before it have already been rewritten.
func QuantizeVectorInPlace(g Grid, v Vector) error {
	if v == nil {
		return ErrImmutableInput
	}
	return quantizeCore(g, v, nil)
}

// QuantizeVectorReport is QuantizeVector plus an OverflowMap marking the
// indices whose values left the representable range.
func QuantizeVectorReport(g Grid, v Vector) (Vector, *OverflowMap, error) {
	out := v.Clone()
	om := NewOverflowMap()
	if err := quantizeCore(g, out, om); err != nil {
		return nil, nil, err
	}
	return out, om, nil
}

// quantizeCore is the single element walk behind every vector entry
// point. Copy variants clone first and then run the same loop, so copy
// and in-place results are bitwise identical by construction.
func quantizeCore(g Grid, v Vector, om *OverflowMap) error {
	if rg, ok := g.(reportingGrid); ok {
		for i, x := range v {
			q, over, err := rg.SnapReport(float64(x))
			if err != nil {
				return err
			}
			if over && om != nil {
				om.Set(i)
			}
			v[i] = float32(q)
		}
		return nil
	}
	for i, x := range v {
		q, err := g.Snap(float64(x))
		if err != nil {
			return err
		}
		v[i] = float32(q)
	}
	return nil
}

// Quantizer binds a grid into a reusable object. All methods delegate to
// the free functions above; there is one quantization rule per grid no
// matter which entry point is used.
type Quantizer struct {
	grid Grid
}

// New builds a fixed-point Quantizer from c.
func New(c Config) (*Quantizer, error) {
	fp, err := NewFixedPoint(c)
	if err != nil {
		return nil, err
	}
	return &Quantizer{grid: fp}, nil
}

// NewWithGrid wraps an arbitrary grid.
func NewWithGrid(g Grid) *Quantizer {
	return &Quantizer{grid: g}
}

func (q *Quantizer) Grid() Grid {
	return q.grid
}

func (q *Quantizer) Apply(v Vector) (Vector, error) {
	return QuantizeVector(q.grid, v)
}

func (q *Quantizer) ApplyInPlace(v Vector) error {
	return QuantizeVectorInPlace(q.grid, v)
}

func (q *Quantizer) ApplyScalar(v float64) (float64, error) {
	return Quantize(q.grid, v)
}

func (q *Quantizer) ApplyInt(v int64) (int64, error) {
	return QuantizeInt(q.grid, v)
}

// AsBits renders the quantized value of v as a two's complement bit
// string. Only fixed-point grids have a word to render.
func (q *Quantizer) AsBits(v float64) (string, error) {
	fp, ok := q.grid.(FixedPoint)
	if !ok {
		return "", ErrUnsupportedInput
	}
	return fp.AsBits(v)
}

// Info describes the grid. Verbose adds bounds, precision and policies.
func (q *Quantizer) Info(verbose bool) string {
	if fp, ok := q.grid.(FixedPoint); ok {
		return fp.Info(verbose)
	}
	return q.grid.Name()
}
