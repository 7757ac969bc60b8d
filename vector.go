package fxq

import (
	"math/rand"
	"time"
)

type ID uint64

type Vector []float32

func (v Vector) Clone() Vector {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}

func (v Vector) Dimensions() int {
	return len(v)
}

func NewRandVector(dim int, rng *rand.Rand) Vector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixMicro()))
	}
	out := make(Vector, dim)
	for i := range out {
		out[i] = rng.Float32()*2 - 1
	}
	return out
}

func NewRandVectorSet(n int, dim int, rng *rand.Rand) []Vector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixMicro()))
	}
	out := make([]Vector, n)
	for i := range out {
		out[i] = NewRandVector(dim, rng)
	}
	return out
}
