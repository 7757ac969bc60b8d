package fxq

import (
	"testing"
)

func TestOverflowMap(t *testing.T) {
	m := NewOverflowMap()
	if m.Count() != 0 {
		t.Fatalf("fresh map count: %d", m.Count())
	}
	m.Set(3)
	m.Set(70)
	if !m.Contains(3) || !m.Contains(70) || m.Contains(4) {
		t.Fatal("membership wrong")
	}
	idx := m.Indices()
	if len(idx) != 2 || idx[0] != 3 || idx[1] != 70 {
		t.Fatalf("indices: %v", idx)
	}
}

func TestCountingOverflowMap(t *testing.T) {
	c := NewCountingOverflowMap(4)
	rows := [][]int{
		{0, 2},
		{2},
		{2, 5},
		{5},
	}
	for _, row := range rows {
		m := NewOverflowMap()
		for _, i := range row {
			m.Set(i)
		}
		c.Merge(m)
	}
	if c.Total() != 3 {
		t.Fatalf("total overflowed indices: %d", c.Total())
	}
	if got := c.AtLeast(3); len(got) != 1 || got[0] != 2 {
		t.Fatalf("at least 3: %v", got)
	}
	if got := c.AtLeast(2); len(got) != 2 || got[0] != 2 || got[1] != 5 {
		t.Fatalf("at least 2: %v", got)
	}
	if got := c.AtLeast(4); len(got) != 0 {
		t.Fatalf("at least 4: %v", got)
	}
	if got := c.AtLeast(0); got != nil {
		t.Fatalf("at least 0: %v", got)
	}
	t.Logf("layer cardinalities: %s", c)
}

func TestQuantizeVectorReport(t *testing.T) {
	fp := mustFixed(t, Config{Signed: true, Word: 6, Frac: 2, Overflow: OverflowSaturate})
	v := Vector{0.5, 100, -0.25, -100}
	out, om, err := QuantizeVectorReport(fp, v)
	if err != nil {
		t.Fatal(err)
	}
	if out[1] != 7.75 || out[3] != -8 {
		t.Fatalf("saturation values: %v", out)
	}
	if om.Count() != 2 || !om.Contains(1) || !om.Contains(3) {
		t.Fatalf("overflow map: %s", om)
	}
}
