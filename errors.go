package fxq

import (
	"errors"
	"fmt"
)

var (
	ErrIDNotFound       = errors.New("ID not found")
	ErrClosed           = errors.New("store is closed")
	ErrImmutableInput   = errors.New("input is not mutable in place")
	ErrUnsupportedInput = errors.New("unsupported input")
)

// ConfigError reports an invalid grid parameter at construction time.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s=%v (%s)", e.Field, e.Value, e.Reason)
}

// RangeError reports an input outside the representable range of a grid
// when the grid's overflow mode is OverflowError, or an input that cannot
// sit on any grid level (NaN, infinities).
type RangeError struct {
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value %v out of range [%v, %v]", e.Value, e.Min, e.Max)
}

// DimensionError reports a row/store dimensionality mismatch.
type DimensionError struct {
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}
