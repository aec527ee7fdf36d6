package data

import (
	"errors"
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/oklog/ulid/v2"
)

// Errors returned when a store is built.
var (
	ErrNoDimensions       = errors.New("data: no dimensions")
	ErrDuplicateDimension = errors.New("data: duplicate dimension")
	ErrColumnLength       = errors.New("data: column length mismatch")
)

// Store is a columnar, immutable-buffer data store with a data-index view.
//
// A Store is not safe for concurrent use. Stores derived from one another
// share column buffers; the buffers are never written after creation.
type Store struct {
	id  ulid.ULID
	mem memory.Allocator

	dims     []Dimension
	dimIndex map[string]int
	cols     []*array.Float64
	rawCount int

	// indices maps data index to raw index; nil means identity.
	indices []int

	// inverted[d] maps a value of dimension d to its last raw index.
	inverted map[int]map[float64]int

	calc      CalculationInfo
	calcExtra map[string]any

	items []ItemOption // by raw index; nil when no item carries options

	visual      map[string]any
	itemVisuals map[int]map[string]any // by data index
}

// Option configures store creation.
type Option func(*storeOptions)

type storeOptions struct {
	mem   memory.Allocator
	items []ItemOption
}

// WithAllocator sets the Arrow allocator used for column buffers.
// The default is memory.NewGoAllocator().
func WithAllocator(mem memory.Allocator) Option {
	return func(o *storeOptions) {
		o.mem = mem
	}
}

// WithItems attaches per-item options (name, style, visualMap opt-out)
// indexed by raw index.
func WithItems(items []ItemOption) Option {
	return func(o *storeOptions) {
		o.items = items
	}
}

func applyOptions(opts []Option) storeOptions {
	o := storeOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.mem == nil {
		o.mem = memory.NewGoAllocator()
	}
	return o
}

// New builds a store from rows of raw cells. Each row holds one cell per
// dimension in order; short rows are padded with NaN. Cells may be numbers,
// numeric strings, category names, time.Time, time strings or nil.
func New(dims []Dimension, rows [][]any, opts ...Option) (*Store, error) {
	o := applyOptions(opts)
	s, err := newEmpty(dims, o.mem)
	if err != nil {
		return nil, err
	}

	values := make([][]float64, len(s.dims))
	for d := range s.dims {
		values[d] = make([]float64, len(rows))
		for r, row := range rows {
			if d < len(row) {
				values[d][r] = parseCell(&s.dims[d], row[d])
			} else {
				values[d][r] = math.NaN()
			}
		}
	}
	for d := range s.dims {
		s.cols[d] = s.build(values[d])
	}
	s.rawCount = len(rows)
	s.setItems(o.items)
	return s, nil
}

// FromColumns builds a store from already numeric columns, one per
// dimension, all of the same length.
func FromColumns(dims []Dimension, columns [][]float64, opts ...Option) (*Store, error) {
	o := applyOptions(opts)
	if len(columns) != len(dims) {
		return nil, fmt.Errorf("%w: %d columns for %d dimensions", ErrColumnLength, len(columns), len(dims))
	}
	s, err := newEmpty(dims, o.mem)
	if err != nil {
		return nil, err
	}
	n := 0
	if len(columns) > 0 {
		n = len(columns[0])
	}
	for d, col := range columns {
		if len(col) != n {
			return nil, fmt.Errorf("%w: dimension %q has %d values, want %d", ErrColumnLength, dims[d].Name, len(col), n)
		}
		s.cols[d] = s.build(col)
	}
	s.rawCount = n
	s.setItems(o.items)
	return s, nil
}

func newEmpty(dims []Dimension, mem memory.Allocator) (*Store, error) {
	if len(dims) == 0 {
		return nil, ErrNoDimensions
	}
	s := &Store{
		id:       ulid.Make(),
		mem:      mem,
		dims:     make([]Dimension, len(dims)),
		dimIndex: make(map[string]int, len(dims)),
		cols:     make([]*array.Float64, len(dims)),
	}
	copy(s.dims, dims)
	for i, d := range s.dims {
		if _, dup := s.dimIndex[d.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateDimension, d.Name)
		}
		s.dimIndex[d.Name] = i
		if d.Type == TypeOrdinal && d.Ordinal == nil {
			s.dims[i].Ordinal = NewOrdinalMeta()
		}
	}
	return s, nil
}

func (s *Store) build(values []float64) *array.Float64 {
	b := array.NewFloat64Builder(s.mem)
	defer b.Release()
	b.AppendValues(values, nil)
	return b.NewFloat64Array()
}

func (s *Store) setItems(items []ItemOption) {
	for _, it := range items {
		if !it.empty() {
			s.items = make([]ItemOption, s.rawCount)
			copy(s.items, items)
			return
		}
	}
}

// derive returns a shallow copy with a fresh ID. Column slices are copied
// so the derived store can replace columns; the arrays are shared.
func (s *Store) derive() *Store {
	out := &Store{
		id:        ulid.Make(),
		mem:       s.mem,
		dims:      make([]Dimension, len(s.dims)),
		dimIndex:  make(map[string]int, len(s.dimIndex)),
		cols:      make([]*array.Float64, len(s.cols)),
		rawCount:  s.rawCount,
		indices:   s.indices,
		calc:      s.calc,
		items:     s.items,
		calcExtra: make(map[string]any, len(s.calcExtra)),
	}
	copy(out.dims, s.dims)
	copy(out.cols, s.cols)
	for k, v := range s.dimIndex {
		out.dimIndex[k] = v
	}
	for k, v := range s.calcExtra {
		out.calcExtra[k] = v
	}
	return out
}

// ID returns the version id of this store. Every derived store gets a new
// one.
func (s *Store) ID() ulid.ULID {
	return s.id
}

// CloneShallow returns a store sharing the columns and view of s with a new
// ID and no visuals.
func (s *Store) CloneShallow() *Store {
	out := s.derive()
	if s.indices != nil {
		out.indices = append([]int(nil), s.indices...)
	}
	return out
}

// Count returns the number of rows in the view.
func (s *Store) Count() int {
	if s.indices != nil {
		return len(s.indices)
	}
	return s.rawCount
}

// RawCount returns the number of raw rows.
func (s *Store) RawCount() int {
	return s.rawCount
}

// Dimensions returns a copy of the dimension definitions.
func (s *Store) Dimensions() []Dimension {
	out := make([]Dimension, len(s.dims))
	copy(out, s.dims)
	return out
}

// Dimension returns the definition of the named dimension.
func (s *Store) Dimension(name string) (Dimension, bool) {
	i, ok := s.dimIndex[name]
	if !ok {
		return Dimension{}, false
	}
	return s.dims[i], true
}

// HasDimension reports whether the store has the named dimension.
func (s *Store) HasDimension(name string) bool {
	_, ok := s.dimIndex[name]
	return ok
}

// RawIndex maps a data index to its raw index, or -1 outside the view.
func (s *Store) RawIndex(dataIndex int) int {
	if dataIndex < 0 || dataIndex >= s.Count() {
		return -1
	}
	if s.indices == nil {
		return dataIndex
	}
	return s.indices[dataIndex]
}

// IndexOfRawIndex maps a raw index to its data index, or -1 when the raw
// row is not in the view.
func (s *Store) IndexOfRawIndex(rawIndex int) int {
	if rawIndex < 0 || rawIndex >= s.rawCount {
		return -1
	}
	if s.indices == nil {
		return rawIndex
	}
	// indices ascend
	lo, hi := 0, len(s.indices)-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		switch v := s.indices[mid]; {
		case v < rawIndex:
			lo = mid + 1
		case v > rawIndex:
			hi = mid - 1
		default:
			return mid
		}
	}
	return -1
}

// Get returns the value of dim at dataIndex, or NaN when the dimension is
// unknown or the index is outside the view.
func (s *Store) Get(dim string, dataIndex int) float64 {
	d, ok := s.dimIndex[dim]
	if !ok {
		return math.NaN()
	}
	raw := s.RawIndex(dataIndex)
	if raw < 0 {
		return math.NaN()
	}
	return s.cols[d].Value(raw)
}

// GetByRawIndex returns the value of dim at rawIndex, bypassing the view.
func (s *Store) GetByRawIndex(dim string, rawIndex int) float64 {
	d, ok := s.dimIndex[dim]
	if !ok || rawIndex < 0 || rawIndex >= s.rawCount {
		return math.NaN()
	}
	return s.cols[d].Value(rawIndex)
}

// Values returns every dimension's value at dataIndex in dimension order.
func (s *Store) Values(dataIndex int) []float64 {
	out := make([]float64, len(s.dims))
	raw := s.RawIndex(dataIndex)
	for d := range s.dims {
		if raw < 0 {
			out[d] = math.NaN()
		} else {
			out[d] = s.cols[d].Value(raw)
		}
	}
	return out
}

// Column returns the raw values of dim, indexed by raw index, or nil for an
// unknown dimension. The slice aliases the Arrow buffer and must not be
// modified.
func (s *Store) Column(dim string) []float64 {
	d, ok := s.dimIndex[dim]
	if !ok {
		return nil
	}
	return s.cols[d].Float64Values()
}

// RawIndexOf returns the raw index holding value in dim, or -1.
// Only dimensions with CreateInvertedIndices answer; the index is built on
// first use. When a value repeats, the last raw index wins.
func (s *Store) RawIndexOf(dim string, value float64) int {
	d, ok := s.dimIndex[dim]
	if !ok || !s.dims[d].CreateInvertedIndices || math.IsNaN(value) {
		return -1
	}
	inv := s.invertedIndex(d)
	raw, ok := inv[value]
	if !ok {
		return -1
	}
	return raw
}

func (s *Store) invertedIndex(d int) map[float64]int {
	if inv, ok := s.inverted[d]; ok {
		return inv
	}
	vals := s.cols[d].Float64Values()
	inv := make(map[float64]int, len(vals))
	for raw, v := range vals {
		if !math.IsNaN(v) {
			inv[v] = raw
		}
	}
	if s.inverted == nil {
		s.inverted = make(map[int]map[float64]int)
	}
	s.inverted[d] = inv
	return inv
}

// WithInvertedIndices returns a store that answers RawIndexOf for dim.
// It returns s itself when dim is unknown or already indexed.
func (s *Store) WithInvertedIndices(dim string) *Store {
	d, ok := s.dimIndex[dim]
	if !ok || s.dims[d].CreateInvertedIndices {
		return s
	}
	out := s.derive()
	out.dims[d].CreateInvertedIndices = true
	return out
}

// MapFunc receives the values of the mapped dimensions at dataIndex and
// returns their new values. The values slice is reused between calls.
type MapFunc func(values []float64, dataIndex int) []float64

// Map returns a new store whose dims columns hold fn's results for every
// row in the view. Dimensions that do not exist are created as calculated
// float dimensions filled with NaN outside the view. s is not modified.
func (s *Store) Map(dims []string, fn MapFunc) *Store {
	out := s.derive()

	idx := make([]int, len(dims))
	for i, name := range dims {
		d, ok := out.dimIndex[name]
		if !ok {
			d = len(out.dims)
			out.dims = append(out.dims, Dimension{Name: name, Type: TypeFloat, IsCalculation: true})
			out.cols = append(out.cols, nil)
			out.dimIndex[name] = d
		}
		idx[i] = d
	}

	buf := make([][]float64, len(dims))
	for i, d := range idx {
		buf[i] = make([]float64, s.rawCount)
		if d < len(s.cols) {
			copy(buf[i], s.cols[d].Float64Values())
		} else {
			for r := range buf[i] {
				buf[i][r] = math.NaN()
			}
		}
	}

	in := make([]float64, len(dims))
	n := s.Count()
	for di := 0; di < n; di++ {
		raw := s.RawIndex(di)
		for i := range idx {
			in[i] = buf[i][raw]
		}
		res := fn(in, di)
		for i := range idx {
			if i < len(res) {
				buf[i][raw] = res[i]
			} else {
				buf[i][raw] = math.NaN()
			}
		}
	}

	for i, d := range idx {
		out.cols[d] = out.build(buf[i])
	}
	return out
}

// Filter returns a store whose view keeps the rows for which keep returns
// true. Raw indices are unchanged.
func (s *Store) Filter(keep func(s *Store, dataIndex int) bool) *Store {
	n := s.Count()
	indices := make([]int, 0, n)
	for di := 0; di < n; di++ {
		if keep(s, di) {
			indices = append(indices, s.RawIndex(di))
		}
	}
	out := s.derive()
	out.indices = indices
	return out
}

// SelectRange keeps rows whose dim value lies in [lo, hi]. NaN rows are
// dropped.
func (s *Store) SelectRange(dim string, lo, hi float64) *Store {
	return s.Filter(func(st *Store, di int) bool {
		v := st.Get(dim, di)
		return v >= lo && v <= hi
	})
}

// AppendRows returns a store with rows appended after the last raw row.
// Appended rows are part of the view. items, when given, are the per-item
// options of the new rows.
func (s *Store) AppendRows(rows [][]any, items []ItemOption) *Store {
	out := s.derive()
	for d := range out.dims {
		vals := make([]float64, s.rawCount+len(rows))
		copy(vals, s.cols[d].Float64Values())
		for r, row := range rows {
			if d < len(row) {
				vals[s.rawCount+r] = parseCell(&out.dims[d], row[d])
			} else {
				vals[s.rawCount+r] = math.NaN()
			}
		}
		out.cols[d] = out.build(vals)
	}
	out.rawCount = s.rawCount + len(rows)

	if s.indices != nil {
		out.indices = make([]int, len(s.indices), len(s.indices)+len(rows))
		copy(out.indices, s.indices)
		for r := range rows {
			out.indices = append(out.indices, s.rawCount+r)
		}
	}

	if s.items != nil || len(items) > 0 {
		merged := make([]ItemOption, out.rawCount)
		copy(merged, s.items)
		copy(merged[s.rawCount:], items)
		out.items = merged
	}
	return out
}

// DataExtent returns [min, max] of dim over the view, ignoring NaN.
// An empty extent is [+Inf, -Inf].
func (s *Store) DataExtent(dim string) [2]float64 {
	ext := [2]float64{math.Inf(1), math.Inf(-1)}
	d, ok := s.dimIndex[dim]
	if !ok {
		return ext
	}
	vals := s.cols[d].Float64Values()
	n := s.Count()
	for di := 0; di < n; di++ {
		v := vals[s.RawIndex(di)]
		if math.IsNaN(v) {
			continue
		}
		if v < ext[0] {
			ext[0] = v
		}
		if v > ext[1] {
			ext[1] = v
		}
	}
	return ext
}

// Sum returns the sum of dim over the view, ignoring NaN.
func (s *Store) Sum(dim string) float64 {
	d, ok := s.dimIndex[dim]
	if !ok {
		return 0
	}
	vals := s.cols[d].Float64Values()
	var sum float64
	n := s.Count()
	for di := 0; di < n; di++ {
		if v := vals[s.RawIndex(di)]; !math.IsNaN(v) {
			sum += v
		}
	}
	return sum
}

// Record exports the view as an Arrow record with one nullable float64
// field per dimension; NaN cells become nulls. The caller must Release it.
func (s *Store) Record() arrow.Record {
	fields := make([]arrow.Field, len(s.dims))
	cols := make([]arrow.Array, len(s.dims))
	n := s.Count()

	b := array.NewFloat64Builder(s.mem)
	defer b.Release()
	for d, dim := range s.dims {
		fields[d] = arrow.Field{Name: dim.Name, Type: arrow.PrimitiveTypes.Float64, Nullable: true}
		b.Reserve(n)
		for di := 0; di < n; di++ {
			v := s.cols[d].Value(s.RawIndex(di))
			if math.IsNaN(v) {
				b.AppendNull()
			} else {
				b.Append(v)
			}
		}
		cols[d] = b.NewFloat64Array()
	}

	rec := array.NewRecord(arrow.NewSchema(fields, nil), cols, int64(n))
	for _, c := range cols {
		c.Release()
	}
	return rec
}
