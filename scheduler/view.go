package scheduler

import (
	"github.com/gogpu/ggchart/series"
	"github.com/gogpu/ggchart/task"
)

// View draws a series in one go.
type View interface {
	Render(s *series.Series) error
}

// IncrementalView draws a series chunk by chunk. A series whose row count
// reaches its progressive threshold is rendered through it across passes.
type IncrementalView interface {
	View
	IncrementalPrepareRender(s *series.Series) error
	IncrementalRender(p task.Params, s *series.Series) error
}

type renderEntry struct {
	view View
	task *task.Task
	s    *series.Series

	large       bool
	progressive bool
}

func (sc *Scheduler) newRenderEntry(s *series.Series, v View) *renderEntry {
	e := &renderEntry{view: v, s: s}
	e.task = task.New(task.Define{
		Name:  "render:" + s.Name(),
		Plan:  func(*task.Context) task.PlanResult { return e.plan() },
		Reset: func(*task.Context) (task.ResetResult, error) { return e.reset() },
	})
	e.task.Context().Owner = s.UID()
	return e
}

// plan resets the render task when the series switches between large and
// normal or between progressive and full rendering.
func (e *renderEntry) plan() task.PlanResult {
	pc := e.s.PipelineContext()
	changed := pc.Large != e.large || pc.ProgressiveRender != e.progressive
	e.large, e.progressive = pc.Large, pc.ProgressiveRender
	if changed {
		return task.PlanReset
	}
	return task.PlanContinue
}

func (e *renderEntry) reset() (task.ResetResult, error) {
	iv, ok := e.view.(IncrementalView)
	if ok && e.s.PipelineContext().ProgressiveRender {
		if err := iv.IncrementalPrepareRender(e.s); err != nil {
			return task.ResetResult{}, err
		}
		return task.ResetResult{Progress: []task.ProgressFunc{
			func(p task.Params, notify task.Notify) error {
				if err := iv.IncrementalRender(p, e.s); err != nil {
					return err
				}
				notify(p.End)
				return nil
			},
		}}, nil
	}
	return task.ResetResult{
		ForceFirstProgress: true,
		Progress: []task.ProgressFunc{
			func(p task.Params, notify task.Notify) error {
				if err := e.view.Render(e.s); err != nil {
					return err
				}
				notify(p.End)
				return nil
			},
		},
	}, nil
}
