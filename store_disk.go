package fxq

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/RoaringBitmap/roaring"
	"github.com/barakmich/mmap-go"
)

const defaultRowsPerFile = 65536

// DiskStore keeps quantized rows in mmap'd page files of fixed-width
// encoded words, with a JSON metadata file and a roaring bitmap tracking
// which row IDs are present. Opened read-only, every mutating operation
// fails with ErrImmutableInput.
type DiskStore struct {
	dir      string
	grid     Grid
	codec    rowCodec
	metadata diskMetadata
	pages    map[int]mmap.MMap
	files    map[int]*os.File
	present  *roaring.Bitmap
	readonly bool
	closed   bool
}

type diskMetadata struct {
	Dimensions  int    `json:"dimensions"`
	Grid        string `json:"grid"`
	RowsPerFile int    `json:"rows_per_file"`
	PageFiles   []int  `json:"page_files"`
}

var _ SampleStore = &DiskStore{}

// NewDiskStore creates or reopens a read-write store in directory.
func NewDiskStore(directory string, dimensions int, g Grid) (*DiskStore, error) {
	return openDiskStore(directory, dimensions, g, false)
}

// OpenDiskStoreReadOnly opens an existing store without write access.
func OpenDiskStoreReadOnly(directory string, dimensions int, g Grid) (*DiskStore, error) {
	return openDiskStore(directory, dimensions, g, true)
}

func openDiskStore(directory string, dimensions int, g Grid, readonly bool) (*DiskStore, error) {
	d := &DiskStore{
		dir:  directory,
		grid: g,
		metadata: diskMetadata{
			Dimensions:  dimensions,
			Grid:        g.Name(),
			RowsPerFile: defaultRowsPerFile,
		},
		codec:    newRowCodec(g),
		pages:    make(map[int]mmap.MMap),
		files:    make(map[int]*os.File),
		present:  roaring.NewBitmap(),
		readonly: readonly,
	}
	if err := d.openFiles(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DiskStore) openFiles() error {
	_, err := os.Stat(d.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return d.createNew()
	} else if err != nil {
		return err
	}

	_, err = os.Stat(filepath.Join(d.dir, "metadata.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return d.createNew()
	} else if err != nil {
		return err
	}

	f, err := os.Open(filepath.Join(d.dir, "metadata.json"))
	if err != nil {
		return err
	}
	defer f.Close()
	err = json.NewDecoder(f).Decode(&d.metadata)
	if err != nil {
		return err
	}
	if d.metadata.Grid != d.grid.Name() {
		return &ConfigError{Field: "grid", Value: d.grid.Name(),
			Reason: fmt.Sprintf("store was written with grid %q", d.metadata.Grid)}
	}

	fileFlag := os.O_RDWR
	mapFlag := mmap.RDWR
	if d.readonly {
		fileFlag = os.O_RDONLY
		mapFlag = mmap.RDONLY
	}
	for _, k := range d.metadata.PageFiles {
		f, err := os.OpenFile(mkPageFilepath(d.dir, k), fileFlag, 0755)
		if err != nil {
			return err
		}
		d.files[k] = f
		mm, err := mmap.Map(f, mapFlag, 0)
		if err != nil {
			return err
		}
		d.pages[k] = mm
	}
	return d.loadPresence()
}

func (d *DiskStore) createNew() error {
	if d.readonly {
		return fs.ErrNotExist
	}
	err := os.MkdirAll(d.dir, 0755)
	if err != nil {
		return err
	}
	return d.saveMetadata()
}

func (d *DiskStore) saveMetadata() error {
	f, err := os.Create(filepath.Join(d.dir, "metadata.json"))
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(d.metadata)
}

func (d *DiskStore) loadPresence() error {
	f, err := os.Open(filepath.Join(d.dir, "rows.bmap"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	defer f.Close()
	_, err = d.present.ReadFrom(f)
	return err
}

func (d *DiskStore) savePresence() error {
	f, err := os.Create(filepath.Join(d.dir, "rows.bmap"))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = d.present.WriteTo(f)
	return err
}

func (d *DiskStore) PutRow(id ID, v Vector) error {
	if d.closed {
		return ErrClosed
	}
	if d.readonly {
		return ErrImmutableInput
	}
	if len(v) != d.metadata.Dimensions {
		return &DimensionError{Expected: d.metadata.Dimensions, Actual: len(v)}
	}
	snapped, err := QuantizeVector(d.grid, v)
	if err != nil {
		return err
	}
	key := int(id) / d.metadata.RowsPerFile
	off := int(id) % d.metadata.RowsPerFile
	page, ok := d.pages[key]
	if !ok {
		page, err = d.createPage(key)
		if err != nil {
			return err
		}
	}
	size := d.codec.rowSize(d.metadata.Dimensions)
	d.codec.encode(page[off*size:(off+1)*size], snapped)
	d.present.Add(uint32(id))
	return nil
}

func (d *DiskStore) createPage(key int) (mmap.MMap, error) {
	f, err := os.Create(mkPageFilepath(d.dir, key))
	if err != nil {
		return nil, err
	}
	size := d.codec.rowSize(d.metadata.Dimensions)
	err = f.Truncate(int64(size * d.metadata.RowsPerFile))
	if err != nil {
		return nil, err
	}
	d.files[key] = f
	mm, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		return nil, err
	}
	d.pages[key] = mm
	d.metadata.PageFiles = append(d.metadata.PageFiles, key)
	err = d.saveMetadata()
	if err != nil {
		return nil, err
	}
	return mm, nil
}

func (d *DiskStore) GetRow(id ID) (Vector, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if !d.present.Contains(uint32(id)) {
		return nil, ErrIDNotFound
	}
	key := int(id) / d.metadata.RowsPerFile
	off := int(id) % d.metadata.RowsPerFile
	page, ok := d.pages[key]
	if !ok {
		return nil, ErrIDNotFound
	}
	size := d.codec.rowSize(d.metadata.Dimensions)
	return d.codec.decode(page[off*size:(off+1)*size], d.metadata.Dimensions), nil
}

// QuantizeRowInPlace re-snaps a stored row in its page. Stored rows are
// already grid-aligned, so on a healthy store this is a no-op rewrite;
// on a read-only mapping it fails without touching the page.
func (d *DiskStore) QuantizeRowInPlace(id ID) error {
	if d.closed {
		return ErrClosed
	}
	if d.readonly {
		return ErrImmutableInput
	}
	row, err := d.GetRow(id)
	if err != nil {
		return err
	}
	if err := QuantizeVectorInPlace(d.grid, row); err != nil {
		return err
	}
	key := int(id) / d.metadata.RowsPerFile
	off := int(id) % d.metadata.RowsPerFile
	size := d.codec.rowSize(d.metadata.Dimensions)
	d.codec.encode(d.pages[key][off*size:(off+1)*size], row)
	return nil
}

func (d *DiskStore) ForEachRow(cb func(ID, Vector) error) error {
	if d.closed {
		return ErrClosed
	}
	var cbErr error
	d.present.Iterate(func(x uint32) bool {
		var row Vector
		row, cbErr = d.GetRow(ID(x))
		if cbErr != nil {
			return false
		}
		cbErr = cb(ID(x), row)
		return cbErr == nil
	})
	return cbErr
}

func (d *DiskStore) Info() StoreInfo {
	return StoreInfo{
		Rows:       int(d.present.GetCardinality()),
		Dimensions: d.metadata.Dimensions,
		Grid:       d.metadata.Grid,
		ReadOnly:   d.readonly,
	}
}

func (d *DiskStore) Sync() error {
	if d.closed {
		return ErrClosed
	}
	if d.readonly {
		return nil
	}
	for _, mm := range d.pages {
		if err := mm.FlushAsync(); err != nil {
			return err
		}
	}
	return d.savePresence()
}

func (d *DiskStore) Close() error {
	if d.closed {
		return ErrClosed
	}
	if !d.readonly {
		if err := d.savePresence(); err != nil {
			return err
		}
		if err := d.saveMetadata(); err != nil {
			return err
		}
	}
	for _, mm := range d.pages {
		if err := mm.Unmap(); err != nil {
			return err
		}
	}
	for _, f := range d.files {
		if err := f.Close(); err != nil {
			return err
		}
	}
	d.closed = true
	return nil
}

func mkPageFilepath(basedir string, key int) string {
	return filepath.Join(basedir, fmt.Sprintf("%08x.rows", key))
}
