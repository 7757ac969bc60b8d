package fxq

// MemoryStore keeps rows as raw float32 slices. Rows are stored as-put;
// QuantizeRowInPlace snaps a stored row onto the store's grid. Pairing a
// MemoryStore of raw rows with a quantizing store of the same rows feeds
// CompareStores.
type MemoryStore struct {
	grid Grid
	rows []Vector
	ids  map[ID]int
	dim  int
}

var _ SampleStore = &MemoryStore{}

func NewMemoryStore(dimensions int, g Grid) *MemoryStore {
	return &MemoryStore{
		grid: g,
		ids:  make(map[ID]int),
		dim:  dimensions,
	}
}

func (m *MemoryStore) PutRow(id ID, v Vector) error {
	if len(v) != m.dim {
		return &DimensionError{Expected: m.dim, Actual: len(v)}
	}
	if i, ok := m.ids[id]; ok {
		m.rows[i] = v.Clone()
		return nil
	}
	m.ids[id] = len(m.rows)
	m.rows = append(m.rows, v.Clone())
	return nil
}

func (m *MemoryStore) GetRow(id ID) (Vector, error) {
	i, ok := m.ids[id]
	if !ok {
		return nil, ErrIDNotFound
	}
	return m.rows[i], nil
}

func (m *MemoryStore) QuantizeRowInPlace(id ID) error {
	i, ok := m.ids[id]
	if !ok {
		return ErrIDNotFound
	}
	return QuantizeVectorInPlace(m.grid, m.rows[i])
}

// QuantizeAll snaps every stored row in place.
func (m *MemoryStore) QuantizeAll() error {
	for _, row := range m.rows {
		if err := QuantizeVectorInPlace(m.grid, row); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryStore) ForEachRow(cb func(ID, Vector) error) error {
	for id, i := range m.ids {
		if err := cb(id, m.rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryStore) Info() StoreInfo {
	return StoreInfo{
		Rows:       len(m.rows),
		Dimensions: m.dim,
		Grid:       m.grid.Name(),
	}
}

func (m *MemoryStore) Close() error {
	return nil
}

// QuantizedMemoryStore keeps rows in their packed storage encoding, the
// same bytes a DiskStore page holds. Rows are quantized on insert.
type QuantizedMemoryStore struct {
	grid  Grid
	codec rowCodec
	rows  [][]byte
	dim   int
}

var _ SampleStore = &QuantizedMemoryStore{}

func NewQuantizedMemoryStore(dimensions int, g Grid) *QuantizedMemoryStore {
	return &QuantizedMemoryStore{
		grid:  g,
		codec: newRowCodec(g),
		dim:   dimensions,
	}
}

func (q *QuantizedMemoryStore) PutRow(id ID, v Vector) error {
	if len(v) != q.dim {
		return &DimensionError{Expected: q.dim, Actual: len(v)}
	}
	snapped, err := QuantizeVector(q.grid, v)
	if err != nil {
		return err
	}
	buf := make([]byte, q.codec.rowSize(q.dim))
	q.codec.encode(buf, snapped)
	if int(id) < len(q.rows) {
		q.rows[int(id)] = buf
	} else if int(id) == len(q.rows) {
		q.rows = append(q.rows, buf)
	} else {
		q.grow(int(id))
		q.rows[int(id)] = buf
	}
	return nil
}

func (q *QuantizedMemoryStore) grow(to int) {
	diff := (to - len(q.rows)) + 1
	q.rows = append(q.rows, make([][]byte, diff)...)
}

func (q *QuantizedMemoryStore) GetRow(id ID) (Vector, error) {
	if int(id) >= len(q.rows) || q.rows[int(id)] == nil {
		return nil, ErrIDNotFound
	}
	return q.codec.decode(q.rows[int(id)], q.dim), nil
}

// QuantizeRowInPlace re-snaps a stored row. Stored rows are already on
// the grid, so this is the idempotence of the grid made concrete.
func (q *QuantizedMemoryStore) QuantizeRowInPlace(id ID) error {
	row, err := q.GetRow(id)
	if err != nil {
		return err
	}
	if err := QuantizeVectorInPlace(q.grid, row); err != nil {
		return err
	}
	q.codec.encode(q.rows[int(id)], row)
	return nil
}

func (q *QuantizedMemoryStore) ForEachRow(cb func(ID, Vector) error) error {
	for i, row := range q.rows {
		if row == nil {
			continue
		}
		if err := cb(ID(i), q.codec.decode(row, q.dim)); err != nil {
			return err
		}
	}
	return nil
}

func (q *QuantizedMemoryStore) Info() StoreInfo {
	rows := 0
	for _, r := range q.rows {
		if r != nil {
			rows++
		}
	}
	return StoreInfo{
		Rows:       rows,
		Dimensions: q.dim,
		Grid:       q.grid.Name(),
	}
}

func (q *QuantizedMemoryStore) Close() error {
	return nil
}
