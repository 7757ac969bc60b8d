package fxq

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/viterin/vek/vek32"
)

// ErrorStats summarizes the elementwise quantization error between an
// original vector and its quantized form.
type ErrorStats struct {
	MaxAbs  float32
	MeanAbs float32
	RMS     float32
	N       int
}

func (s ErrorStats) String() string {
	return fmt.Sprintf("(n=%d max=%0.6f mean=%0.6f rms=%0.6f)", s.N, s.MaxAbs, s.MeanAbs, s.RMS)
}

// ComputeErrorStats measures original against quantized. Both vectors
// must have the same shape.
func ComputeErrorStats(original, quantized Vector) (ErrorStats, error) {
	if len(original) != len(quantized) {
		return ErrorStats{}, &DimensionError{Expected: len(original), Actual: len(quantized)}
	}
	if len(original) == 0 {
		return ErrorStats{}, nil
	}
	diff := vek32.Sub(original, quantized)
	vek32.Abs_Inplace(diff)
	sumSq := vek32.Dot(diff, diff)
	return ErrorStats{
		MaxAbs:  vek32.Max(diff),
		MeanAbs: vek32.Mean(diff),
		RMS:     math32.Sqrt(sumSq / float32(len(diff))),
		N:       len(diff),
	}, nil
}

// statsAccum folds per-row error measurements into whole-store stats.
type statsAccum struct {
	maxAbs float32
	sumAbs float64
	sumSq  float64
	n      int
}

func (a *statsAccum) add(original, quantized Vector) error {
	if len(original) != len(quantized) {
		return &DimensionError{Expected: len(original), Actual: len(quantized)}
	}
	if len(original) == 0 {
		return nil
	}
	diff := vek32.Sub(original, quantized)
	vek32.Abs_Inplace(diff)
	if m := vek32.Max(diff); m > a.maxAbs {
		a.maxAbs = m
	}
	a.sumAbs += float64(vek32.Mean(diff)) * float64(len(diff))
	a.sumSq += float64(vek32.Dot(diff, diff))
	a.n += len(diff)
	return nil
}

func (a *statsAccum) stats() ErrorStats {
	if a.n == 0 {
		return ErrorStats{}
	}
	return ErrorStats{
		MaxAbs:  a.maxAbs,
		MeanAbs: float32(a.sumAbs / float64(a.n)),
		RMS:     math32.Sqrt(float32(a.sumSq / float64(a.n))),
		N:       a.n,
	}
}
