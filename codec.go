package fxq

import (
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

// rowCodec packs a grid-aligned row into fixed-width storage words.
type rowCodec interface {
	rowSize(dim int) int
	encode(dst []byte, v Vector)
	decode(src []byte, dim int) Vector
}

// newRowCodec picks the densest codec the grid supports. Fixed-point rows
// store the two's complement integer representation; float16 rows store
// the half bits; anything else falls back to raw float32 words.
func newRowCodec(g Grid) rowCodec {
	switch t := g.(type) {
	case FixedPoint:
		return fixedCodec{cfg: t.Config, width: wordBytes(t.Word)}
	case Float16Grid:
		return f16Codec{}
	default:
		return float32Codec{}
	}
}

func wordBytes(word int) int {
	switch {
	case word <= 8:
		return 1
	case word <= 16:
		return 2
	case word <= 32:
		return 4
	}
	return 8
}

type fixedCodec struct {
	cfg   Config
	width int
}

func (c fixedCodec) rowSize(dim int) int {
	return c.width * dim
}

func (c fixedCodec) encode(dst []byte, v Vector) {
	for i, x := range v {
		// x is on the grid, so the scaled value is an exact integer.
		n := int64(math.Round(math.Ldexp(float64(x), c.cfg.Frac)))
		u := uint64(n) & c.cfg.mask()
		off := i * c.width
		for b := 0; b < c.width; b++ {
			dst[off+b] = byte(u >> (8 * b))
		}
	}
}

func (c fixedCodec) decode(src []byte, dim int) Vector {
	out := make(Vector, dim)
	signBit := uint64(1) << (c.cfg.Word - 1)
	for i := range out {
		off := i * c.width
		var u uint64
		for b := 0; b < c.width; b++ {
			u |= uint64(src[off+b]) << (8 * b)
		}
		if c.cfg.Signed && u&signBit != 0 {
			u |= ^c.cfg.mask()
		}
		out[i] = float32(math.Ldexp(float64(int64(u)), -c.cfg.Frac))
	}
	return out
}

type f16Codec struct{}

func (f16Codec) rowSize(dim int) int {
	return 2 * dim
}

func (f16Codec) encode(dst []byte, v Vector) {
	for i, x := range v {
		binary.LittleEndian.PutUint16(dst[i*2:], float16.Fromfloat32(x).Bits())
	}
}

func (f16Codec) decode(src []byte, dim int) Vector {
	out := make(Vector, dim)
	for i := range out {
		out[i] = float16.Frombits(binary.LittleEndian.Uint16(src[i*2:])).Float32()
	}
	return out
}

type float32Codec struct{}

func (float32Codec) rowSize(dim int) int {
	return 4 * dim
}

func (float32Codec) encode(dst []byte, v Vector) {
	for i, x := range v {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(x))
	}
}

func (float32Codec) decode(src []byte, dim int) Vector {
	out := make(Vector, dim)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
	return out
}
