package scheduler

import (
	"github.com/gogpu/ggchart/series"
	"github.com/gogpu/ggchart/task"
)

// StageHandler declares one processing stage.
//
// A series handler sets Reset and gets one task per target series: every
// raw series with CreateOnAllSeries, the series of SeriesType, or those
// returned by GetTargetSeries. An overall handler sets OverallReset and
// gets one overall task plus a stub per target series; without SeriesType
// and GetTargetSeries it targets every series but does not block
// progressive stages.
type StageHandler struct {
	Name string

	SeriesType        string
	CreateOnAllSeries bool
	GetTargetSeries   func(m *series.Model) []*series.Series

	// PerformRawSeries keeps the handler running on filtered series.
	PerformRawSeries bool
	// ClearVisual clears the visuals of the input store on reset.
	ClearVisual bool

	// Plan runs before each perform of a series task and may request a
	// reset.
	Plan func(s *series.Series) task.PlanResult
	// Reset starts a series task cycle. The executors it returns are run
	// over the due range of each chunk.
	Reset func(s *series.Series) ([]task.ProgressExecutor, error)

	// OverallReset runs once whenever a stub of the handler is dirty.
	OverallReset func(m *series.Model) error
}

func (h *StageHandler) validate() bool {
	switch {
	case (h.Reset == nil) == (h.OverallReset == nil):
		return false
	case h.OverallReset != nil && h.CreateOnAllSeries:
		return false
	}
	return true
}

func (h *StageHandler) targets(m *series.Model) []*series.Series {
	switch {
	case h.CreateOnAllSeries:
		return m.RawSeries()
	case h.SeriesType != "":
		return m.RawSeriesByType(h.SeriesType)
	case h.GetTargetSeries != nil:
		return h.GetTargetSeries(m)
	}
	return nil
}
