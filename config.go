package fxq

import (
	"fmt"
	"math"
	"strings"
)

// OverflowMode controls what happens to values that land outside the
// representable range of a grid.
type OverflowMode int

const (
	// OverflowWrap wraps around in two's complement. Default.
	OverflowWrap OverflowMode = iota
	// OverflowSaturate clamps to the nearest representable bound.
	OverflowSaturate
	// OverflowError rejects the value with a *RangeError.
	OverflowError
)

func (m OverflowMode) String() string {
	switch m {
	case OverflowWrap:
		return "wrap"
	case OverflowSaturate:
		return "saturate"
	case OverflowError:
		return "error"
	}
	return fmt.Sprintf("OverflowMode(%d)", int(m))
}

func ParseOverflowMode(s string) (OverflowMode, error) {
	switch strings.ToLower(s) {
	case "wrap":
		return OverflowWrap, nil
	case "saturate":
		return OverflowSaturate, nil
	case "error":
		return OverflowError, nil
	}
	return 0, &ConfigError{Field: "overflow", Value: s, Reason: "unknown overflow mode"}
}

// RoundingMode controls how a scaled value is mapped onto an integer grid
// level.
type RoundingMode int

const (
	// RoundTruncate drops the fractional bits, which rounds toward
	// negative infinity on a two's complement grid. Default.
	RoundTruncate RoundingMode = iota
	// RoundAround rounds to nearest, ties to even.
	RoundAround
	// RoundFloor rounds toward negative infinity.
	RoundFloor
	// RoundCeil rounds toward positive infinity.
	RoundCeil
	// RoundFix rounds toward zero.
	RoundFix
)

func (m RoundingMode) String() string {
	switch m {
	case RoundTruncate:
		return "truncate"
	case RoundAround:
		return "around"
	case RoundFloor:
		return "floor"
	case RoundCeil:
		return "ceil"
	case RoundFix:
		return "fix"
	}
	return fmt.Sprintf("RoundingMode(%d)", int(m))
}

func ParseRoundingMode(s string) (RoundingMode, error) {
	switch strings.ToLower(s) {
	case "truncate":
		return RoundTruncate, nil
	case "around":
		return RoundAround, nil
	case "floor":
		return RoundFloor, nil
	case "ceil":
		return RoundCeil, nil
	case "fix":
		return RoundFix, nil
	}
	return 0, &ConfigError{Field: "rounding", Value: s, Reason: "unknown rounding mode"}
}

// Config describes a two's complement fixed-point grid: Word total bits,
// Frac of which are fractional, optionally signed. The grid step is
// 2^-Frac and the representable range is [MinInt, MaxInt] * 2^-Frac.
type Config struct {
	Signed   bool
	Word     int
	Frac     int
	Overflow OverflowMode
	Rounding RoundingMode
}

func (c Config) Validate() error {
	if c.Word < 1 || c.Word > 63 {
		return &ConfigError{Field: "word", Value: c.Word, Reason: "must be in [1, 63]"}
	}
	if c.Frac < -63 || c.Frac > 63 {
		return &ConfigError{Field: "frac", Value: c.Frac, Reason: "must be in [-63, 63]"}
	}
	if c.Overflow < OverflowWrap || c.Overflow > OverflowError {
		return &ConfigError{Field: "overflow", Value: int(c.Overflow), Reason: "unknown overflow mode"}
	}
	if c.Rounding < RoundTruncate || c.Rounding > RoundFix {
		return &ConfigError{Field: "rounding", Value: int(c.Rounding), Reason: "unknown rounding mode"}
	}
	return nil
}

// MinInt is the smallest integer grid level, disregarding Frac.
func (c Config) MinInt() int64 {
	if c.Signed {
		return -(int64(1) << (c.Word - 1))
	}
	return 0
}

// MaxInt is the largest integer grid level, disregarding Frac.
func (c Config) MaxInt() int64 {
	if c.Signed {
		return (int64(1) << (c.Word - 1)) - 1
	}
	return (int64(1) << c.Word) - 1
}

// Min is the smallest representable value, MinInt * 2^-Frac.
func (c Config) Min() float64 {
	return math.Ldexp(float64(c.MinInt()), -c.Frac)
}

// Max is the largest representable value, MaxInt * 2^-Frac.
func (c Config) Max() float64 {
	return math.Ldexp(float64(c.MaxInt()), -c.Frac)
}

func (c Config) RangeInt() int64 {
	return c.MaxInt() - c.MinInt()
}

func (c Config) Range() float64 {
	return c.Max() - c.Min()
}

// Precision is the grid step, 2^-Frac.
func (c Config) Precision() float64 {
	return math.Ldexp(1, -c.Frac)
}

// QFormat renders the grid in Q notation, e.g. sQ6.2 for a signed
// 6-bit word with 2 fractional bits.
func (c Config) QFormat() string {
	sign := "u"
	if c.Signed {
		sign = "s"
	}
	return fmt.Sprintf("%sQ%d.%d", sign, c.Word, c.Frac)
}

func (c Config) String() string {
	return fmt.Sprintf("%s overflow=%s rounding=%s", c.QFormat(), c.Overflow, c.Rounding)
}

func (c Config) mask() uint64 {
	return (uint64(1) << c.Word) - 1
}
