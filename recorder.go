package fxq

type PrintfFunc func(string, ...any)

// Recorder streams rows through a Quantizer into a SampleStore while
// accumulating overflow counts and error stats for the whole trace.
type Recorder struct {
	logger PrintfFunc
	quant  *Quantizer
	store  SampleStore
	counts *CountingOverflowMap
	acc    statsAccum
	rows   int
}

func NewRecorder(store SampleStore, q *Quantizer) *Recorder {
	return &Recorder{
		quant:  q,
		store:  store,
		counts: NewCountingOverflowMap(0),
	}
}

func (r *Recorder) SetLogger(printf PrintfFunc) {
	r.logger = printf
}

func (r *Recorder) log(s string, a ...any) {
	if r.logger != nil {
		r.logger(s, a...)
	}
}

func (r *Recorder) AddRow(id ID, v Vector) error {
	snapped, om, err := QuantizeVectorReport(r.quant.Grid(), v)
	if err != nil {
		return err
	}
	if err := r.acc.add(v, snapped); err != nil {
		return err
	}
	if err := r.store.PutRow(id, snapped); err != nil {
		return err
	}
	r.counts.Merge(om)
	r.rows++
	if r.rows%10000 == 0 {
		r.log("Recorded %d rows", r.rows)
	}
	return nil
}

func (r *Recorder) AddRowsWithOffset(offset ID, rows []Vector) error {
	for i, v := range rows {
		if err := r.AddRow(offset+ID(i), v); err != nil {
			return err
		}
	}
	return nil
}

// OverflowCounts is the per-index overflow multiplicity across every
// recorded row.
func (r *Recorder) OverflowCounts() *CountingOverflowMap {
	return r.counts
}

// ErrorStats is the accumulated quantization error across every recorded
// row.
func (r *Recorder) ErrorStats() ErrorStats {
	return r.acc.stats()
}

func (r *Recorder) Rows() int {
	return r.rows
}

func (r *Recorder) Close() error {
	r.log("Recorder closing: %d rows, stats %s", r.rows, r.ErrorStats())
	return r.store.Close()
}
