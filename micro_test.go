package fxq

import (
	"flag"
	"math/rand"
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/viterin/vek/vek32"
)

var (
	nRows = flag.Int("nrows", 1000, "Number of rows to generate")
	dim   = flag.Int("dim", 64, "Dimension of generated rows")
)

func BenchmarkMicroSnap(b *testing.B) {
	fp, err := NewFixedPoint(Config{Signed: true, Word: 12, Frac: 8, Overflow: OverflowSaturate})
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < b.N; i++ {
		fp.Snap(1.2345)
	}
}

func BenchmarkQuantizeVectorInPlace(b *testing.B) {
	fp, err := NewFixedPoint(Config{Signed: true, Word: 12, Frac: 8, Overflow: OverflowSaturate})
	if err != nil {
		b.Fatal(err)
	}
	v := NewRandVector(*dim, nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		QuantizeVectorInPlace(fp, v)
	}
}

func BenchmarkQuantizeBatch(b *testing.B) {
	fp, err := NewFixedPoint(Config{Signed: true, Word: 12, Frac: 8, Overflow: OverflowSaturate})
	if err != nil {
		b.Fatal(err)
	}
	rows := NewRandVectorSet(*nRows, *dim, nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		QuantizeBatch(fp, rows, 8)
	}
}

func BenchmarkMicroErrorStats(b *testing.B) {
	fp, err := NewFixedPoint(Config{Signed: true, Word: 8, Frac: 4, Overflow: OverflowSaturate})
	if err != nil {
		b.Fatal(err)
	}
	v := NewRandVector(*dim, nil)
	q, err := QuantizeVector(fp, v)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ComputeErrorStats(v, q)
	}
}

func BenchmarkMicroVekDiff(b *testing.B) {
	v := NewRandVector(*dim, nil)
	w := NewRandVector(*dim, nil)
	for i := 0; i < b.N; i++ {
		diff := vek32.Sub(v, w)
		vek32.Abs_Inplace(diff)
		vek32.Max(diff)
	}
}

func BenchmarkMicroCountingMerge(b *testing.B) {
	maps := make([]*OverflowMap, 100)
	for i := range maps {
		maps[i] = NewOverflowMap()
		for j := 0; j < 50; j++ {
			maps[i].Set(rand.Intn(*dim))
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := NewCountingOverflowMap(len(maps))
		for _, m := range maps {
			c.Merge(m)
		}
	}
}

func BenchmarkMicroRoaringPresence(b *testing.B) {
	ids := make([]uint32, 20000)
	for i := range ids {
		ids[i] = uint32(rand.Intn(2000000))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bm := roaring.NewBitmap()
		for _, id := range ids {
			bm.Add(id)
		}
		bm.GetCardinality()
	}
}
