package fxq

import (
	"fmt"
	"math"
	"strings"
)

// AsBits quantizes v on c's grid and renders the result as a Word-wide
// two's complement bit string.
func AsBits(c Config, v float64) (string, error) {
	fp, err := NewFixedPoint(c)
	if err != nil {
		return "", err
	}
	return fp.AsBits(v)
}

// AsBitsVector renders every element of v as a bit string.
func AsBitsVector(c Config, v Vector) ([]string, error) {
	fp, err := NewFixedPoint(c)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(v))
	for i, x := range v {
		s, err := fp.AsBits(float64(x))
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (f FixedPoint) AsBits(v float64) (string, error) {
	q, err := f.Snap(v)
	if err != nil {
		return "", err
	}
	// q is on the grid, so the scaled value is an exact integer.
	n := int64(math.Round(math.Ldexp(q, f.Frac)))
	return fmt.Sprintf("%0*b", f.Word, uint64(n)&f.mask()), nil
}

// Info summarizes the grid. The terse form is just the Q format; verbose
// adds the full property set the way rtl-style tooling prints it.
func (f FixedPoint) Info(verbose bool) string {
	if !verbose {
		return f.QFormat()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "fixed-point %s\n", f.QFormat())
	fmt.Fprintf(&b, "  signed:    %v\n", f.Signed)
	fmt.Fprintf(&b, "  word bits: %d\n", f.Word)
	fmt.Fprintf(&b, "  frac bits: %d\n", f.Frac)
	fmt.Fprintf(&b, "  range:     [%v, %v]\n", f.Min(), f.Max())
	fmt.Fprintf(&b, "  precision: %v\n", f.Precision())
	fmt.Fprintf(&b, "  overflow:  %s\n", f.Overflow)
	fmt.Fprintf(&b, "  rounding:  %s", f.Rounding)
	return b.String()
}
