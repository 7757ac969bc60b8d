package fxq

import (
	"runtime"

	"github.com/alitto/pond"
)

// QuantizeBatch quantizes rows in parallel with copy semantics. It
// returns the quantized rows and a per-index overflow counter. Any row
// error aborts the batch; no partial results are returned.
func QuantizeBatch(g Grid, rows []Vector, parallelism int) ([]Vector, *CountingOverflowMap, error) {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	out := make([]Vector, len(rows))
	maps := make([]*OverflowMap, len(rows))
	errs := make([]error, len(rows))
	pool := pond.New(parallelism, 0, pond.MinWorkers(parallelism))
	for i, row := range rows {
		j, r := i, row
		pool.Submit(func() {
			out[j], maps[j], errs[j] = QuantizeVectorReport(g, r)
		})
	}
	pool.StopAndWait()
	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}
	counts := NewCountingOverflowMap(len(rows))
	for _, m := range maps {
		counts.Merge(m)
	}
	return out, counts, nil
}

// QuantizeBatchInPlace quantizes rows in parallel, mutating each row.
// Rows without addressable storage are rejected up front, before any row
// has been touched.
func QuantizeBatchInPlace(g Grid, rows []Vector, parallelism int) (*CountingOverflowMap, error) {
	for _, row := range rows {
		if row == nil {
			return nil, ErrImmutableInput
		}
	}
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	maps := make([]*OverflowMap, len(rows))
	errs := make([]error, len(rows))
	pool := pond.New(parallelism, 0, pond.MinWorkers(parallelism))
	for i, row := range rows {
		j, r := i, row
		pool.Submit(func() {
			om := NewOverflowMap()
			errs[j] = quantizeCore(g, r, om)
			maps[j] = om
		})
	}
	pool.StopAndWait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	counts := NewCountingOverflowMap(len(rows))
	for _, m := range maps {
		counts.Merge(m)
	}
	return counts, nil
}
