package fxq

// SampleStore holds rows of samples addressed by ID. Implementations
// decide whether rows are kept raw or snapped onto a grid at insert time;
// QuantizeRowInPlace mutates a stored row onto the store's grid and fails
// with ErrImmutableInput when the storage cannot be written.
type SampleStore interface {
	PutRow(id ID, v Vector) error
	GetRow(id ID) (Vector, error)
	QuantizeRowInPlace(id ID) error
	ForEachRow(cb func(ID, Vector) error) error
	Info() StoreInfo
	Close() error
}

type StoreInfo struct {
	Rows       int
	Dimensions int
	Grid       string
	ReadOnly   bool
}

// CompareStores walks every row of a and measures it against the row with
// the same ID in b. Putting raw rows in a MemoryStore and the same rows
// through a quantizing store makes this the whole-trace error report.
func CompareStores(a, b SampleStore) (ErrorStats, error) {
	var acc statsAccum
	err := a.ForEachRow(func(id ID, v Vector) error {
		other, err := b.GetRow(id)
		if err != nil {
			return err
		}
		return acc.add(v, other)
	})
	if err != nil {
		return ErrorStats{}, err
	}
	return acc.stats(), nil
}
