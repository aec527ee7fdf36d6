package series

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gogpu/ggchart/data"
	"github.com/gogpu/ggchart/stack"
	"github.com/gogpu/ggchart/task"
)

// Pipeline defaults.
const (
	DefaultLargeThreshold       = 2000
	DefaultProgressive          = 400
	DefaultProgressiveThreshold = 3000
)

// Chunk modes for progressive rendering.
const (
	ChunkSequential = "sequential"
	ChunkMod        = "mod"
)

// ErrUnknownChunkMode is returned by New for a bad progressiveChunkMode.
var ErrUnknownChunkMode = errors.New("series: unknown progressive chunk mode")

// SeriesDataSource is the data surface stages use.
type SeriesDataSource interface {
	UID() string
	Store() *data.Store
	RawStore() *data.Store
	SetStore(*data.Store)
	PipelineContext() PipelineContext
}

// PipelineContext holds the per-series flags stages consult to choose
// between the per-item path and the whole-range fast path.
type PipelineContext struct {
	// Large is set when the series asks for large mode and has at least
	// largeThreshold rows. Per-item style overrides are skipped.
	Large bool
	// ProgressiveRender is set when stages after the block index run in
	// chunks across passes.
	ProgressiveRender bool
	// ModDataCount is the row count to shard over in mod chunk mode,
	// 0 in sequential mode.
	ModDataCount int
}

// Config describes a series to build.
type Config struct {
	Name string
	Type string

	Dimensions []data.Dimension
	Rows       [][]any
	Items      []data.ItemOption

	Stack stack.Options

	// ItemStyle is the series item style: "color", "opacity" and
	// state-prefixed keys such as "emphasis.color".
	ItemStyle map[string]any

	Large          bool
	LargeThreshold int

	// Progressive is the chunk size; 0 selects DefaultProgressive and a
	// negative value disables progressive rendering.
	Progressive          int
	ProgressiveThreshold int
	ProgressiveChunkMode string

	StoreOptions []data.Option
}

var (
	_ SeriesDataSource = (*Series)(nil)
	_ stack.Stackable  = (*Series)(nil)
)

// Series is one series of a chart. It is not safe for concurrent use.
type Series struct {
	uid   string
	name  string
	typ   string
	index int

	cfg   Config
	capab stack.Capability

	raw   *data.Store
	store *data.Store

	dataTask   *task.Task
	current    *task.Task
	pctx       PipelineContext
	dataFilter func(st *data.Store, dataIndex int) bool
}

// New builds a series and its raw store.
func New(cfg Config) (*Series, error) {
	switch cfg.ProgressiveChunkMode {
	case "", ChunkSequential, ChunkMod:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChunkMode, cfg.ProgressiveChunkMode)
	}

	opts := append([]data.Option(nil), cfg.StoreOptions...)
	if len(cfg.Items) > 0 {
		opts = append(opts, data.WithItems(cfg.Items))
	}
	raw, err := data.New(cfg.Dimensions, cfg.Rows, opts...)
	if err != nil {
		return nil, fmt.Errorf("series %q: %w", cfg.Name, err)
	}
	raw, capab, err := stack.Enable(raw, cfg.Stack)
	if err != nil {
		return nil, fmt.Errorf("series %q: %w", cfg.Name, err)
	}

	s := &Series{
		uid:   uuid.NewString(),
		name:  cfg.Name,
		typ:   cfg.Type,
		cfg:   cfg,
		capab: capab,
		raw:   raw,
		store: raw,
	}
	s.dataTask = task.New(task.Define{
		Name:  "data:" + s.name,
		Count: func(*task.Context) int { return s.raw.Count() },
		Reset: s.resetData,
	})
	s.dataTask.Context().Owner = s.uid
	return s, nil
}

func (s *Series) resetData(ctx *task.Context) (task.ResetResult, error) {
	prev := s.current
	s.current = s.dataTask
	if s.dataFilter != nil {
		st := s.raw.Filter(s.dataFilter)
		s.SetStore(st)
		s.dataTask.SetOutputEnd(st.Count())
	} else {
		s.SetStore(s.raw.CloneShallow())
	}
	s.current = prev
	return task.ResetResult{Progress: []task.ProgressFunc{
		func(p task.Params, notify task.Notify) error {
			notify(p.End)
			return nil
		},
	}}, nil
}

// UID returns the stable id of the series. It keys the series pipeline and
// its side-table entries.
func (s *Series) UID() string { return s.uid }

// Name returns the series name.
func (s *Series) Name() string { return s.name }

// Type returns the chart type, e.g. "bar".
func (s *Series) Type() string { return s.typ }

// Index returns the declaration index within the model.
func (s *Series) Index() int { return s.index }

// ItemStyle returns the series item style.
func (s *Series) ItemStyle() map[string]any { return s.cfg.ItemStyle }

// StackCapability returns the stacking state of the series.
func (s *Series) StackCapability() stack.Capability { return s.capab }

// DataTask returns the head task of the series pipeline.
func (s *Series) DataTask() *task.Task { return s.dataTask }

// RawStore returns the store built from the option data.
func (s *Series) RawStore() *data.Store { return s.raw }

// Store returns the store of the stage being performed, or the last store
// set when no stage is running.
func (s *Series) Store() *data.Store {
	if s.current != nil {
		if d := s.current.Context().Data; d != nil {
			return d
		}
	}
	return s.store
}

// SetStore replaces the current store. Inside a stage the new store
// becomes that stage's output; a store with a different row count, such as
// a filtered one, also fixes the stage's output end.
func (s *Series) SetStore(d *data.Store) {
	if t := s.current; t != nil {
		ctx := t.Context()
		prev := ctx.Data
		ctx.OutputData = d
		if t != s.dataTask {
			ctx.Data = d
			if prev != nil && d != nil && prev.Count() != d.Count() {
				t.SetOutputEnd(d.Count())
			}
		}
	}
	s.store = d
}

// SetDataFilter installs a row filter applied by the data task on its
// next reset. nil removes it.
func (s *Series) SetDataFilter(keep func(st *data.Store, dataIndex int) bool) {
	s.dataFilter = keep
}

// SetCurrentTask records the task being performed on this series.
func (s *Series) SetCurrentTask(t *task.Task) { s.current = t }

// CurrentTask returns the task being performed, or nil.
func (s *Series) CurrentTask() *task.Task { return s.current }

// PipelineContext returns the stream flags set by the scheduler.
func (s *Series) PipelineContext() PipelineContext { return s.pctx }

// SetPipelineContext sets the stream flags.
func (s *Series) SetPipelineContext(c PipelineContext) { s.pctx = c }

// Large reports whether the series asks for large mode.
func (s *Series) Large() bool { return s.cfg.Large }

// LargeThreshold returns the row count from which large mode applies.
func (s *Series) LargeThreshold() int {
	if s.cfg.LargeThreshold > 0 {
		return s.cfg.LargeThreshold
	}
	return DefaultLargeThreshold
}

// Progressive returns the chunk size, or 0 when progressive rendering is
// disabled.
func (s *Series) Progressive() int {
	switch {
	case s.cfg.Progressive < 0:
		return 0
	case s.cfg.Progressive == 0:
		return DefaultProgressive
	}
	return s.cfg.Progressive
}

// ProgressiveThreshold returns the row count from which progressive
// rendering applies.
func (s *Series) ProgressiveThreshold() int {
	if s.cfg.ProgressiveThreshold > 0 {
		return s.cfg.ProgressiveThreshold
	}
	return DefaultProgressiveThreshold
}

// ProgressiveChunkMode returns ChunkSequential or ChunkMod.
func (s *Series) ProgressiveChunkMode() string {
	if s.cfg.ProgressiveChunkMode == "" {
		return ChunkSequential
	}
	return s.cfg.ProgressiveChunkMode
}

// RestoreData marks the data task dirty so the next pass starts from the
// raw store.
func (s *Series) RestoreData() {
	s.dataTask.Dirty()
}

// AppendData appends rows to the raw store. The data task resumes after
// the rows it has already output.
func (s *Series) AppendData(rows [][]any, items []data.ItemOption) {
	prev := s.raw.Count()
	s.raw = s.raw.AppendRows(rows, items)
	s.dataTask.ResetTo(prev)
}
