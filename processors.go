package ggchart

import (
	"math"

	"github.com/gogpu/ggchart/scheduler"
	"github.com/gogpu/ggchart/series"
	"github.com/gogpu/ggchart/stack"
	"github.com/gogpu/ggchart/task"
)

// windowHandler keeps the rows of a series whose window dimension is
// inside the window range.
func (c *Chart) windowHandler() scheduler.StageHandler {
	return scheduler.StageHandler{
		Name: "window",
		GetTargetSeries: func(m *series.Model) []*series.Series {
			var out []*series.Series
			for _, s := range m.RawSeries() {
				if meta := c.meta[s.UID()]; meta != nil && meta.window != nil {
					out = append(out, s)
				}
			}
			return out
		},
		Reset: func(s *series.Series) ([]task.ProgressExecutor, error) {
			w := c.meta[s.UID()].window
			store := s.Store()
			if store == nil {
				return nil, nil
			}
			if !store.HasDimension(w.Dimension) {
				c.logger.Warn("ggchart: window dimension not found",
					"series", s.Name(), "dimension", w.Dimension)
				return nil, nil
			}
			lo, hi := math.Inf(-1), math.Inf(1)
			if w.Min != nil {
				lo = *w.Min
			}
			if w.Max != nil {
				hi = *w.Max
			}
			out := store.SelectRange(w.Dimension, lo, hi)
			c.logger.Debug("ggchart: window",
				"series", s.Name(), "rows", store.Count(), "kept", out.Count())
			s.SetStore(out)
			return nil, nil
		},
	}
}

// stackHandler resolves every stack group whenever a member changes.
func (c *Chart) stackHandler() scheduler.StageHandler {
	return scheduler.StageHandler{
		Name: "stack",
		GetTargetSeries: func(m *series.Model) []*series.Series {
			var out []*series.Series
			for _, s := range m.RawSeries() {
				capab := s.StackCapability()
				switch {
				case capab.Enabled:
					out = append(out, s)
				case capab.Reason != "":
					c.logger.Warn("ggchart: series not stacked",
						"series", s.Name(), "stack", capab.Key, "reason", capab.Reason)
				}
			}
			return out
		},
		OverallReset: func(m *series.Model) error {
			var members []stack.Stackable
			for _, s := range m.Series() {
				if s.StackCapability().Enabled {
					members = append(members, s)
				}
			}
			stack.Resolve(members)
			return nil
		},
	}
}

func (c *Chart) styleHandler() scheduler.StageHandler {
	return scheduler.StageHandler{
		Name:              "style",
		CreateOnAllSeries: true,
		ClearVisual:       true,
		Reset: func(s *series.Series) ([]task.ProgressExecutor, error) {
			return c.style.Reset(s)
		},
	}
}

// visualMapHandler applies every visualMap component targeting a series.
func (c *Chart) visualMapHandler() scheduler.StageHandler {
	return scheduler.StageHandler{
		Name:              "visualMap",
		CreateOnAllSeries: true,
		Reset: func(s *series.Series) ([]task.ProgressExecutor, error) {
			var out []task.ProgressExecutor
			for _, comp := range c.maps {
				execs, err := comp.Reset(s)
				if err != nil {
					return nil, err
				}
				out = append(out, execs...)
			}
			return out, nil
		},
	}
}
