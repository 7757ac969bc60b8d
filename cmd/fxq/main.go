package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/barakmich/fxq"
)

var (
	signed   = flag.Bool("signed", true, "Signed fixed-point grid")
	word     = flag.Int("word", 8, "Word bit width")
	frac     = flag.Int("frac", 0, "Fractional bit width")
	overflow = flag.String("overflow", "wrap", "Overflow mode (wrap, saturate, error)")
	rounding = flag.String("rounding", "truncate", "Rounding mode (truncate, around, floor, ceil, fix)")
	step     = flag.Float64("step", 0, "Use a plain step grid with this step instead of fixed point")
	f16      = flag.Bool("f16", false, "Use the float16 grid instead of fixed point")
	bits     = flag.Bool("bits", false, "Print bit strings instead of values (fixed point only)")
	info     = flag.Bool("info", false, "Print grid info and exit")
	stats    = flag.Bool("stats", false, "Print quantization error stats to stderr")
	parallel = flag.Int("parallel", 4, "Parallel rows")
)

func main() {
	flag.Parse()
	grid, cfg, err := buildGrid()
	if err != nil {
		log.Fatal(err)
	}
	if *bits && (*f16 || *step != 0) {
		log.Fatal("-bits needs a fixed-point grid")
	}
	if *info {
		fmt.Println(fxq.NewWithGrid(grid).Info(true))
		return
	}

	in := os.Stdin
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		in = f
	}
	rows := loadRows(in)

	out, counts, err := fxq.QuantizeBatch(grid, rows, *parallel)
	if err != nil {
		log.Fatal(err)
	}

	w := csv.NewWriter(os.Stdout)
	for _, row := range out {
		if *bits {
			rec, err := fxq.AsBitsVector(cfg, row)
			if err != nil {
				log.Fatal(err)
			}
			if err := w.Write(rec); err != nil {
				log.Fatal(err)
			}
			continue
		}
		rec := make([]string, len(row))
		for j, x := range row {
			rec[j] = strconv.FormatFloat(float64(x), 'g', -1, 32)
		}
		if err := w.Write(rec); err != nil {
			log.Fatal(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatal(err)
	}

	if n := counts.Total(); n > 0 {
		log.Printf("%d indexes overflowed at least once: %v", n, counts.AtLeast(1))
	}
	if *stats {
		for i, row := range rows {
			st, err := fxq.ComputeErrorStats(row, out[i])
			if err != nil {
				log.Fatal(err)
			}
			log.Printf("row %d: %s", i, st)
		}
	}
}

func buildGrid() (fxq.Grid, fxq.Config, error) {
	if *f16 && *step != 0 {
		return nil, fxq.Config{}, errors.New("pick one of -f16 and -step")
	}
	om, err := fxq.ParseOverflowMode(*overflow)
	if err != nil {
		return nil, fxq.Config{}, err
	}
	rm, err := fxq.ParseRoundingMode(*rounding)
	if err != nil {
		return nil, fxq.Config{}, err
	}
	if *f16 {
		return fxq.Float16Grid{Overflow: om}, fxq.Config{}, nil
	}
	if *step != 0 {
		g, err := fxq.NewStepGrid(*step)
		if err != nil {
			return nil, fxq.Config{}, err
		}
		g.Rounding = rm
		g.Overflow = om
		return g, fxq.Config{}, nil
	}
	cfg := fxq.Config{
		Signed:   *signed,
		Word:     *word,
		Frac:     *frac,
		Overflow: om,
		Rounding: rm,
	}
	g, err := fxq.NewFixedPoint(cfg)
	if err != nil {
		return nil, fxq.Config{}, err
	}
	return g, cfg, nil
}

func loadRows(r io.Reader) []fxq.Vector {
	c := csv.NewReader(r)
	c.ReuseRecord = true
	c.FieldsPerRecord = -1
	out := make([]fxq.Vector, 0, 1024)
	for {
		rec, err := c.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
		v := make(fxq.Vector, len(rec))
		for i, st := range rec {
			x, err := strconv.ParseFloat(st, 32)
			if err != nil {
				log.Fatal(err)
			}
			v[i] = float32(x)
		}
		out = append(out, v)
	}
	return out
}
