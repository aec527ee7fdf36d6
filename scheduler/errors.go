package scheduler

import "errors"

var (
	// ErrStalled is returned when a task reports no progress on
	// non-empty chunks several rounds in a row.
	ErrStalled = errors.New("scheduler: task stalled")

	// ErrInvalidHandler is returned by PrepareStageTasks for a stage
	// handler that sets both or neither of Reset and OverallReset, or an
	// overall handler with CreateOnAllSeries.
	ErrInvalidHandler = errors.New("scheduler: invalid stage handler")

	// ErrNoPipeline is returned when a series has no pipeline; call
	// RestorePipelines first.
	ErrNoPipeline = errors.New("scheduler: series has no pipeline")
)
