package ggchart

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/ggchart/data"
	"github.com/gogpu/ggchart/option"
	"github.com/gogpu/ggchart/scheduler"
	"github.com/gogpu/ggchart/series"
	"github.com/gogpu/ggchart/visual"
)

// Chart applies options and drives the pipelines of their series.
//
// A Chart is not safe for concurrent use.
type Chart struct {
	opts   chartOptions
	logger *slog.Logger
	sc     *scheduler.Scheduler

	model *series.Model
	meta  map[string]*seriesMeta
	views map[string]scheduler.View
	style visual.StyleHandler
	maps  []*visual.MapComponent

	disposed bool
}

// New creates an empty chart. It logs through the logger set by SetLogger
// at the time of the call.
func New(opts ...Option) *Chart {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Chart{
		opts:   o,
		logger: Logger(),
		model:  series.NewModel(),
		meta:   make(map[string]*seriesMeta),
		views:  make(map[string]scheduler.View),
		style:  visual.StyleHandler{Palette: o.palette},
	}

	sopts := []scheduler.Option{
		scheduler.WithDataProcessors(c.windowHandler(), c.stackHandler()),
		scheduler.WithVisualHandlers(c.styleHandler(), c.visualMapHandler()),
		scheduler.WithLogger(c.logger),
	}
	if o.maxStalls > 0 {
		sopts = append(sopts, scheduler.WithMaxStalls(o.maxStalls))
	}
	c.sc = scheduler.New(append(sopts, o.scheduler...)...)
	return c
}

// SetOption replaces the series of the chart with those of o. Nothing
// changes when the option is invalid, a series cannot be built or its
// type has no registered view.
func (c *Chart) SetOption(o *option.Option) error {
	if c.disposed {
		return ErrDisposed
	}
	if o == nil {
		return ErrNoOption
	}
	if err := o.Validate(); err != nil {
		return err
	}

	built := make([]*series.Series, 0, len(o.Series))
	meta := make(map[string]*seriesMeta, len(o.Series))
	views := make(map[string]scheduler.View, len(o.Series))
	axes := axisMetas{}
	for i, so := range o.Series {
		cfg, m := seriesConfig(i, so, c.opts.step)
		axes.share(cfg.Dimensions)
		s, err := series.New(cfg)
		if err != nil {
			return fmt.Errorf("ggchart: %w", err)
		}
		v, err := NewView(s, c.opts.target)
		if err != nil {
			return fmt.Errorf("ggchart: series %q: %w", s.Name(), err)
		}
		built = append(built, s)
		meta[s.UID()] = m
		views[s.UID()] = v
	}

	for _, s := range c.model.RawSeries() {
		c.sc.DisposeSeries(s.UID())
	}
	c.model = series.NewModel(built...)
	c.meta, c.views = meta, views

	c.style.Palette = c.opts.palette
	if len(o.Color) > 0 {
		c.style.Palette = o.Color
	}
	c.maps = c.maps[:0]
	for _, vm := range o.VisualMap {
		c.maps = append(c.maps, mapComponent(vm, c.sc))
	}

	if err := c.prepare(); err != nil {
		return err
	}
	c.logger.Info("ggchart: option applied", "series", c.model.Len(), "visualMaps", len(c.maps))
	return nil
}

func (c *Chart) prepare() error {
	if err := c.sc.RestorePipelines(c.model); err != nil {
		return err
	}
	if err := c.sc.PrepareStageTasks(c.model); err != nil {
		return err
	}
	for _, s := range c.model.RawSeries() {
		if err := c.sc.PrepareView(s, c.views[s.UID()]); err != nil {
			return err
		}
	}
	c.sc.Plan()
	return nil
}

// PerformPass runs the pipelines until they finish or budget refuses
// another round, and reports whether work remains. A nil budget runs to
// completion.
func (c *Chart) PerformPass(budget scheduler.Budget) (bool, error) {
	if c.disposed {
		return false, ErrDisposed
	}
	return c.sc.PerformPass(c.model, budget)
}

// Flush runs the pipelines to completion.
func (c *Chart) Flush() error {
	_, err := c.PerformPass(scheduler.Unbounded())
	return err
}

// Unfinished reports whether the last pass left work.
func (c *Chart) Unfinished() bool {
	return c.sc.Unfinished()
}

// AppendData appends items to the series called name. The next pass
// processes the new rows only, except for stages that reset on change
// such as stacking.
func (c *Chart) AppendData(name string, items []option.DataItem) error {
	s, err := c.find(name)
	if err != nil {
		return err
	}
	first := s.RawStore().RawCount()
	s.AppendData(rows(items, c.meta[s.UID()].indexed, first), itemOptions(items))
	c.logger.Debug("ggchart: data appended", "series", name, "rows", len(items), "total", first+len(items))
	return nil
}

// SetDataFilter restarts the series called name from its raw data, keeping
// only the rows keep accepts. A nil keep removes the filter.
func (c *Chart) SetDataFilter(name string, keep func(st *data.Store, dataIndex int) bool) error {
	s, err := c.find(name)
	if err != nil {
		return err
	}
	c.sc.ResetData(s, keep)
	return nil
}

// SetSeriesFiltered hides or shows the series called name. Hidden series
// leave their stack group and are not rendered.
func (c *Chart) SetSeriesFiltered(name string, filtered bool) error {
	s, err := c.find(name)
	if err != nil {
		return err
	}
	c.model.SetFiltered(s.UID(), filtered)
	c.sc.RestoreData(c.model)
	return nil
}

// Series returns the series called name, or nil.
func (c *Chart) Series(name string) *series.Series {
	return c.model.FindByName(name)
}

// Model returns the series model.
func (c *Chart) Model() *series.Model {
	return c.model
}

// Scheduler returns the scheduler driving the chart.
func (c *Chart) Scheduler() *scheduler.Scheduler {
	return c.sc
}

// StreamMode returns the stream mode of the series called name in the
// last pass.
func (c *Chart) StreamMode(name string) (StreamMode, error) {
	s, err := c.find(name)
	if err != nil {
		return StreamModeNormal, err
	}
	pc, _ := c.sc.PipelineContext(s.UID())
	return SelectStreamMode(pc), nil
}

// Dispose releases every series pipeline. The chart cannot be used
// afterwards.
func (c *Chart) Dispose() {
	if c.disposed {
		return
	}
	for _, s := range c.model.RawSeries() {
		c.sc.DisposeSeries(s.UID())
	}
	c.model = series.NewModel()
	c.meta = nil
	c.views = nil
	c.disposed = true
	c.logger.Info("ggchart: chart disposed")
}

func (c *Chart) find(name string) (*series.Series, error) {
	if c.disposed {
		return nil, ErrDisposed
	}
	s := c.model.FindByName(name)
	if s == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSeries, name)
	}
	return s, nil
}
