package fxq

import (
	"errors"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	fp := mustFixed(t, Config{Signed: true, Word: 8, Frac: 4, Overflow: OverflowSaturate})
	store := NewMemoryStore(*dim, fp)

	rows := NewRandVectorSet(20, *dim, nil)
	for i, v := range rows {
		if err := store.PutRow(ID(i), v); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.PutRow(99, make(Vector, *dim+1)); err == nil {
		t.Fatal("dimension mismatch accepted")
	}
	if _, err := store.GetRow(500); !errors.Is(err, ErrIDNotFound) {
		t.Fatalf("missing row: %v", err)
	}

	// Rows come back raw until quantized in place.
	got, err := store.GetRow(0)
	if err != nil {
		t.Fatal(err)
	}
	for i := range got {
		if got[i] != rows[0][i] {
			t.Fatalf("raw row changed at %d: %v != %v", i, got[i], rows[0][i])
		}
	}

	want, err := QuantizeVector(fp, rows[0])
	if err != nil {
		t.Fatal(err)
	}
	if err := store.QuantizeRowInPlace(0); err != nil {
		t.Fatal(err)
	}
	got, err = store.GetRow(0)
	if err != nil {
		t.Fatal(err)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("in-place row at %d: %v != %v", i, got[i], want[i])
		}
	}

	info := store.Info()
	if info.Rows != 20 || info.Dimensions != *dim {
		t.Fatalf("info: %+v", info)
	}
}

func TestQuantizedMemoryStore(t *testing.T) {
	fp := mustFixed(t, Config{Signed: true, Word: 12, Frac: 8, Rounding: RoundAround, Overflow: OverflowSaturate})
	store := NewQuantizedMemoryStore(*dim, fp)

	rows := NewRandVectorSet(20, *dim, nil)
	for i, v := range rows {
		if err := store.PutRow(ID(i), v); err != nil {
			t.Fatal(err)
		}
	}
	for i, v := range rows {
		want, err := QuantizeVector(fp, v)
		if err != nil {
			t.Fatal(err)
		}
		got, err := store.GetRow(ID(i))
		if err != nil {
			t.Fatal(err)
		}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("row %d element %d: %v != %v", i, j, got[j], want[j])
			}
		}
	}

	// Sparse IDs grow the backing slice.
	if err := store.PutRow(100, rows[0]); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetRow(50); !errors.Is(err, ErrIDNotFound) {
		t.Fatalf("hole in IDs: %v", err)
	}
	if store.Info().Rows != 21 {
		t.Fatalf("info rows: %d", store.Info().Rows)
	}

	// Stored rows are already on the grid: requantizing moves nothing.
	before, err := store.GetRow(3)
	if err != nil {
		t.Fatal(err)
	}
	before = before.Clone()
	if err := store.QuantizeRowInPlace(3); err != nil {
		t.Fatal(err)
	}
	after, err := store.GetRow(3)
	if err != nil {
		t.Fatal(err)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("requantize moved element %d: %v -> %v", i, before[i], after[i])
		}
	}
}

func TestCompareStores(t *testing.T) {
	fp := mustFixed(t, Config{Signed: true, Word: 8, Frac: 4, Rounding: RoundAround, Overflow: OverflowSaturate})
	raw := NewMemoryStore(*dim, fp)
	quant := NewQuantizedMemoryStore(*dim, fp)

	rows := NewRandVectorSet(50, *dim, nil)
	for i, v := range rows {
		if err := raw.PutRow(ID(i), v); err != nil {
			t.Fatal(err)
		}
		if err := quant.PutRow(ID(i), v); err != nil {
			t.Fatal(err)
		}
	}
	st, err := CompareStores(raw, quant)
	if err != nil {
		t.Fatal(err)
	}
	if st.N != 50**dim {
		t.Fatalf("stats n: %d", st.N)
	}
	half := float32(fp.Precision() / 2)
	if st.MaxAbs > half {
		t.Fatalf("max error %v exceeds half step %v", st.MaxAbs, half)
	}
	t.Logf("store stats: %s", st)
}

func TestRecorder(t *testing.T) {
	cfg := Config{Signed: true, Word: 6, Frac: 2, Overflow: OverflowSaturate, Rounding: RoundAround}
	q, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	store := NewQuantizedMemoryStore(*dim, q.Grid())
	rec := NewRecorder(store, q)
	rec.SetLogger(t.Logf)

	rows := NewRandVectorSet(30, *dim, nil)
	for _, row := range rows {
		row[2] = 100
	}
	if err := rec.AddRowsWithOffset(0, rows); err != nil {
		t.Fatal(err)
	}
	if rec.Rows() != 30 {
		t.Fatalf("rows: %d", rec.Rows())
	}
	counts := rec.OverflowCounts()
	if got := counts.AtLeast(30); len(got) != 1 || got[0] != 2 {
		t.Fatalf("overflow counts: %v", got)
	}
	st := rec.ErrorStats()
	if st.N != 30**dim {
		t.Fatalf("stats n: %d", st.N)
	}
	got, err := store.GetRow(5)
	if err != nil {
		t.Fatal(err)
	}
	if got[2] != 7.75 {
		t.Fatalf("saturated element: %v", got[2])
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
}
