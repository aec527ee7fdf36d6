package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gogpu/ggchart/data"
	"github.com/gogpu/ggchart/internal/cache"
	"github.com/gogpu/ggchart/series"
	"github.com/gogpu/ggchart/task"
)

// PipelineContext is the set of stream flags of a series pipeline.
type PipelineContext = series.PipelineContext

type pipeline struct {
	id   string
	head *task.Task
	tail *task.Task

	threshold          int
	progressiveEnabled bool
	blockIndex         int
	step               int
	count              int

	ctx    PipelineContext
	hasCtx bool
}

type taskInfo struct {
	pipeline *pipeline
	idx      int
	block    bool
}

// seriesTask binds a stage handler task to its series. The series is
// updated when the task is reused by a later PrepareStageTasks.
type seriesTask struct {
	task *task.Task
	s    *series.Series
}

type stub struct {
	task     *task.Task
	s        *series.Series
	agent    *task.Task
	progress bool
}

type stageRecord struct {
	handler *StageHandler
	model   *series.Model

	seriesTasks map[string]*seriesTask
	seriesOrder []string

	overall   *task.Task
	stubs     map[string]*stub
	stubOrder []string
}

// Scheduler builds and drives the pipelines of a series model.
type Scheduler struct {
	opts   options
	logger *slog.Logger

	dataProcessors []*stageRecord
	visualHandlers []*stageRecord

	pipelines map[string]*pipeline
	tasks     map[*task.Task]*taskInfo
	renders   map[string]*renderEntry

	stalls     map[*task.Task]int
	unfinished bool
	rows       int

	side *cache.Table[any]
}

// New creates a scheduler.
func New(opts ...Option) *Scheduler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	l := o.logger
	if l == nil {
		l = slog.New(discard{})
	}
	sc := &Scheduler{
		opts:      o,
		logger:    l,
		pipelines: make(map[string]*pipeline),
		tasks:     make(map[*task.Task]*taskInfo),
		renders:   make(map[string]*renderEntry),
		stalls:    make(map[*task.Task]int),
		side:      cache.New[any](o.sideTableSize),
	}
	for i := range o.dataProcessors {
		sc.dataProcessors = append(sc.dataProcessors, &stageRecord{handler: &o.dataProcessors[i]})
	}
	for i := range o.visualHandlers {
		sc.visualHandlers = append(sc.visualHandlers, &stageRecord{handler: &o.visualHandlers[i]})
	}
	return sc
}

type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }

// RestorePipelines rebuilds an empty pipeline for every series of m,
// headed by the series data task. It fails when a series was disposed.
func (sc *Scheduler) RestorePipelines(m *series.Model) error {
	sc.pipelines = make(map[string]*pipeline, m.Len())
	sc.tasks = make(map[*task.Task]*taskInfo)
	for _, s := range m.RawSeries() {
		progressive := s.Progressive()
		step := progressive
		if step <= 0 {
			step = sc.opts.defaultStep
		}
		sc.pipelines[s.UID()] = &pipeline{
			id:                 s.UID(),
			threshold:          s.ProgressiveThreshold(),
			progressiveEnabled: progressive > 0,
			blockIndex:         -1,
			step:               step,
		}
		if s.DataTask().Disposed() {
			return fmt.Errorf("%w: series %s", task.ErrDisposed, s.Name())
		}
		if err := sc.pipe(s, s.DataTask()); err != nil {
			return err
		}
	}
	return nil
}

func (sc *Scheduler) pipe(s *series.Series, t *task.Task) error {
	p := sc.pipelines[s.UID()]
	if p == nil {
		return fmt.Errorf("%w: %s", ErrNoPipeline, s.Name())
	}
	if p.head == nil {
		p.head = t
	}
	if p.tail != nil {
		if err := task.Pipe(p.tail, t); err != nil {
			return err
		}
	}
	p.tail = t
	sc.tasks[t] = &taskInfo{pipeline: p, idx: p.count}
	p.count++
	return nil
}

// PrepareStageTasks creates or reuses the stage tasks of every handler
// and pipes them into the series pipelines.
func (sc *Scheduler) PrepareStageTasks(m *series.Model) error {
	for _, rec := range sc.records() {
		h := rec.handler
		if !h.validate() {
			return fmt.Errorf("%w: %q", ErrInvalidHandler, h.Name)
		}
		rec.model = m
		var err error
		if h.Reset != nil {
			err = sc.createSeriesStageTasks(rec, m)
		} else {
			err = sc.createOverallStageTask(rec, m)
		}
		if err != nil {
			return fmt.Errorf("scheduler: stage %q: %w", h.Name, err)
		}
	}
	return nil
}

func (sc *Scheduler) records() []*stageRecord {
	out := make([]*stageRecord, 0, len(sc.dataProcessors)+len(sc.visualHandlers))
	out = append(out, sc.dataProcessors...)
	return append(out, sc.visualHandlers...)
}

func (sc *Scheduler) createSeriesStageTasks(rec *stageRecord, m *series.Model) error {
	h := rec.handler
	old := rec.seriesTasks
	rec.seriesTasks = make(map[string]*seriesTask)
	rec.seriesOrder = rec.seriesOrder[:0]

	for _, s := range h.targets(m) {
		uid := s.UID()
		st := old[uid]
		if st == nil {
			st = sc.newSeriesTask(h, s)
		}
		st.s = s
		rec.seriesTasks[uid] = st
		rec.seriesOrder = append(rec.seriesOrder, uid)
		if err := sc.pipe(s, st.task); err != nil {
			return err
		}
	}
	return nil
}

func (sc *Scheduler) newSeriesTask(h *StageHandler, s *series.Series) *seriesTask {
	st := &seriesTask{s: s}
	st.task = task.New(task.Define{
		Name: h.Name + ":" + s.Name(),
		Count: func(ctx *task.Context) int {
			if ctx.Data == nil {
				return 0
			}
			return ctx.Data.Count()
		},
		Plan: func(*task.Context) task.PlanResult {
			if h.Plan == nil {
				return task.PlanContinue
			}
			return h.Plan(st.s)
		},
		Reset: func(ctx *task.Context) (task.ResetResult, error) {
			if h.ClearVisual && ctx.Data != nil {
				ctx.Data.ClearAllVisual()
			}
			execs, err := h.Reset(st.s)
			if err != nil {
				return task.ResetResult{}, err
			}
			return task.ResetResult{Progress: task.BindAll(ctx, execs)}, nil
		},
	})
	st.task.Context().Owner = s.UID()
	return st
}

func (sc *Scheduler) createOverallStageTask(rec *stageRecord, m *series.Model) error {
	h := rec.handler
	if rec.overall == nil {
		rec.overall = task.New(task.Define{
			Name: h.Name,
			Reset: func(*task.Context) (task.ResetResult, error) {
				return task.ResetResult{}, h.OverallReset(rec.model)
			},
		})
	}

	progress := true
	targets := h.targets(m)
	if h.SeriesType == "" && h.GetTargetSeries == nil {
		progress = false
		targets = m.Series()
	}

	old := rec.stubs
	rec.stubs = make(map[string]*stub, len(targets))
	rec.stubOrder = rec.stubOrder[:0]
	dirty := false
	for _, s := range targets {
		uid := s.UID()
		st := old[uid]
		if st == nil {
			dirty = true
			st = newStub(h, s)
		}
		st.s = s
		st.agent = rec.overall
		st.progress = progress
		rec.stubs[uid] = st
		rec.stubOrder = append(rec.stubOrder, uid)
		if err := sc.pipe(s, st.task); err != nil {
			return err
		}
		sc.tasks[st.task].block = progress
	}
	if dirty || len(old) != len(rec.stubs) {
		rec.overall.Dirty()
	}
	return nil
}

func newStub(h *StageHandler, s *series.Series) *stub {
	st := &stub{s: s}
	st.task = task.New(task.Define{
		Name: h.Name + ":" + s.Name(),
		Reset: func(*task.Context) (task.ResetResult, error) {
			if !st.progress {
				return task.ResetResult{}, nil
			}
			return task.ResetResult{Progress: []task.ProgressFunc{st.run}}, nil
		},
		OnDirty: func(*task.Context) {
			if st.agent != nil {
				st.agent.Dirty()
			}
		},
	})
	st.task.Context().Owner = s.UID()
	return st
}

// run marks the overall task and the rest of the pipeline dirty whenever
// rows reach the stub.
func (st *stub) run(p task.Params, notify task.Notify) error {
	st.agent.Dirty()
	if d := st.task.Downstream(); d != nil {
		d.Dirty()
	}
	notify(p.End)
	return nil
}

// PrepareView appends the render task of v to the pipeline of s. The task
// blocks progressive stages unless v renders incrementally.
func (sc *Scheduler) PrepareView(s *series.Series, v View) error {
	e := sc.renders[s.UID()]
	if e == nil || e.view != v {
		e = sc.newRenderEntry(s, v)
		sc.renders[s.UID()] = e
	}
	e.s = s
	if err := sc.pipe(s, e.task); err != nil {
		return err
	}
	_, incremental := v.(IncrementalView)
	sc.tasks[e.task].block = !incremental
	return nil
}

// Plan records the block index of every pipeline: the position of the
// last blocking task. Tasks up to it never run in chunks.
func (sc *Scheduler) Plan() {
	for _, p := range sc.pipelines {
		p.blockIndex = -1
		for t := p.tail; t != nil; t = t.Upstream() {
			info := sc.tasks[t]
			if info != nil && info.block {
				p.blockIndex = info.idx
				break
			}
		}
	}
}

// UpdateStreamModes sets the pipeline context of every series from its
// current row count.
func (sc *Scheduler) UpdateStreamModes(m *series.Model) {
	for _, s := range m.RawSeries() {
		p := sc.pipelines[s.UID()]
		if p == nil {
			continue
		}
		n := 0
		if st := s.Store(); st != nil {
			n = st.Count()
		}
		var incremental bool
		if e := sc.renders[s.UID()]; e != nil {
			_, incremental = e.view.(IncrementalView)
		}
		pc := PipelineContext{
			ProgressiveRender: p.progressiveEnabled && incremental && n >= p.threshold,
			Large:             s.Large() && n >= s.LargeThreshold(),
		}
		if s.ProgressiveChunkMode() == series.ChunkMod {
			pc.ModDataCount = n
		}
		if pc != p.ctx || !p.hasCtx {
			sc.logger.Debug("scheduler: stream mode",
				"series", s.Name(), "count", n,
				"large", pc.Large, "progressive", pc.ProgressiveRender)
		}
		p.ctx, p.hasCtx = pc, true
		s.SetPipelineContext(pc)
	}
}

// PipelineContext returns the stream flags of the series with uid.
func (sc *Scheduler) PipelineContext(uid string) (PipelineContext, bool) {
	p := sc.pipelines[uid]
	if p == nil || !p.hasCtx {
		return PipelineContext{}, false
	}
	return p.ctx, true
}

// ResetData installs filter (nil for none) as the data filter of s and
// restarts its pipeline from the raw data. Overall tasks are dirtied too.
// It returns the head task of the pipeline.
func (sc *Scheduler) ResetData(s *series.Series, filter func(*data.Store, int) bool) *task.Task {
	s.SetDataFilter(filter)
	s.RestoreData()
	for _, rec := range sc.records() {
		if rec.overall != nil {
			rec.overall.Dirty()
		}
	}
	sc.unfinished = true
	return s.DataTask()
}

// RestoreData restarts every pipeline of m from its raw data.
func (sc *Scheduler) RestoreData(m *series.Model) {
	m.RestoreData()
	for _, rec := range sc.records() {
		if rec.overall != nil {
			rec.overall.Dirty()
		}
	}
	sc.unfinished = true
}

// DisposeSeries disposes the pipeline of the series with uid and drops
// its side-table entries.
func (sc *Scheduler) DisposeSeries(uid string) {
	if p := sc.pipelines[uid]; p != nil {
		var chain []*task.Task
		for t := p.head; t != nil; t = t.Downstream() {
			chain = append(chain, t)
		}
		for _, t := range chain {
			t.Dispose()
			delete(sc.tasks, t)
			delete(sc.stalls, t)
		}
		delete(sc.pipelines, uid)
	}
	for _, rec := range sc.records() {
		if st := rec.seriesTasks[uid]; st != nil {
			delete(rec.seriesTasks, uid)
			rec.seriesOrder = removeID(rec.seriesOrder, uid)
		}
		if st := rec.stubs[uid]; st != nil {
			delete(rec.stubs, uid)
			rec.stubOrder = removeID(rec.stubOrder, uid)
			rec.overall.Dirty()
		}
	}
	delete(sc.renders, uid)
	n := sc.Forget(uid)
	sc.logger.Info("scheduler: series disposed", "uid", uid, "sideEntries", n)
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// Unfinished reports whether the last pass left work for another pass.
func (sc *Scheduler) Unfinished() bool {
	return sc.unfinished
}
