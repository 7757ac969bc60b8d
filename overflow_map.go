package fxq

import (
	"fmt"

	"github.com/kelindar/bitmap"
)

// OverflowMap marks which indices of a vector left the representable
// range during a quantize pass.
type OverflowMap struct {
	bm bitmap.Bitmap
}

func NewOverflowMap() *OverflowMap {
	return &OverflowMap{}
}

func (m *OverflowMap) Set(i int) {
	m.bm.Set(uint32(i))
}

func (m *OverflowMap) Contains(i int) bool {
	return m.bm.Contains(uint32(i))
}

func (m *OverflowMap) Count() int {
	return m.bm.Count()
}

func (m *OverflowMap) Indices() []int {
	out := make([]int, 0, m.bm.Count())
	m.bm.Range(func(x uint32) {
		out = append(out, int(x))
	})
	return out
}

func (m *OverflowMap) String() string {
	return fmt.Sprint(m.Indices())
}

// CountingOverflowMap counts, per index, how many rows of a batch
// overflowed there. Layer i holds the indices that overflowed in more
// than i rows, so membership is monotone down the layers and an
// increment is a ripple of or/carry bitmap ops.
type CountingOverflowMap struct {
	bms []bitmap.Bitmap
	buf bitmap.Bitmap
}

// NewCountingOverflowMap allocates a counter. Layers grow on demand;
// maxCount is a preallocation hint for the expected peak multiplicity.
func NewCountingOverflowMap(maxCount int) *CountingOverflowMap {
	return &CountingOverflowMap{
		bms: make([]bitmap.Bitmap, 0, maxCount),
	}
}

func (c *CountingOverflowMap) cardinalities() []int {
	cards := make([]int, len(c.bms))
	for i, it := range c.bms {
		cards[i] = it.Count()
	}
	return cards
}

func (c *CountingOverflowMap) String() string {
	return fmt.Sprint(c.cardinalities())
}

// Merge folds one row's overflow map into the counts, adding a layer
// when the carry ripples past the deepest one.
func (c *CountingOverflowMap) Merge(m *OverflowMap) {
	m.bm.Clone(&c.buf)
	cur := c.buf
	for i := 0; ; i++ {
		if i == len(c.bms) {
			c.bms = append(c.bms, bitmap.Bitmap{})
		}
		c.bms[i].Xor(cur)
		cur.AndNot(c.bms[i])
		c.bms[i].Or(cur)
		if cur.Count() == 0 {
			break
		}
	}
}

// AtLeast returns the indices that overflowed in at least k rows.
func (c *CountingOverflowMap) AtLeast(k int) []int {
	if k <= 0 || k > len(c.bms) {
		return nil
	}
	out := make([]int, 0, c.bms[k-1].Count())
	c.bms[k-1].Range(func(x uint32) {
		out = append(out, int(x))
	})
	return out
}

// Total returns how many indices overflowed at least once.
func (c *CountingOverflowMap) Total() int {
	if len(c.bms) == 0 {
		return 0
	}
	return c.bms[0].Count()
}
