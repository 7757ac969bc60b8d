package fxq

import (
	"errors"
	"testing"

	"github.com/x448/float16"
)

func TestFloat16GridSnap(t *testing.T) {
	g := Float16Grid{}
	v := NewRandVector(256, nil)
	out, err := QuantizeVector(g, v)
	if err != nil {
		t.Fatal(err)
	}
	for i, x := range out {
		rt := float16.Fromfloat32(x).Float32()
		if rt != x {
			t.Fatalf("element %d not on the half lattice: %v != %v", i, x, rt)
		}
	}
	// Exactly representable values pass through.
	for _, x := range []float64{0, 1, -1, 0.5, 2048} {
		got, err := g.Snap(x)
		if err != nil {
			t.Fatal(err)
		}
		if got != x {
			t.Fatalf("Snap(%v): %v", x, got)
		}
	}
}

func TestFloat16GridOverflow(t *testing.T) {
	sat := Float16Grid{}
	if got, _ := sat.Snap(70000); got != MaxFloat16 {
		t.Fatalf("saturate high: %v", got)
	}
	if got, _ := sat.Snap(-70000); got != -MaxFloat16 {
		t.Fatalf("saturate low: %v", got)
	}
	fail := Float16Grid{Overflow: OverflowError}
	var re *RangeError
	if _, err := fail.Snap(70000); !errors.As(err, &re) {
		t.Fatalf("error mode: %v", err)
	}
	if got, err := fail.Snap(65504); err != nil || got != 65504 {
		t.Fatalf("in-range max: %v %v", got, err)
	}
}
