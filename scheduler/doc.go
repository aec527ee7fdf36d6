// Package scheduler drives the series pipelines of a chart.
//
// Every series owns a pipeline: its data task, one task per stage handler
// that targets it and finally its render task, linked with [task.Pipe].
// Stage handlers come in two kinds. Series handlers get one task per
// series. Overall handlers (stacking, for example) look across series: they
// get a single overall task plus a stub task in each target pipeline. The
// stubs block progressive rendering of everything before them, so a stack
// group is always resolved from complete data.
//
// A pass runs the stages in order:
//
//	PerformSeriesTasks        data tasks
//	PerformDataProcessorTasks processors, never chunked
//	UpdateStreamModes         large / progressive / mod flags per series
//	PerformVisualTasks        visual encoders
//	PerformRenderTasks        views
//
// [Scheduler.PerformPass] repeats the stages while tasks remain unfinished
// and the [Budget] allows. Stages after the block index of a progressive
// pipeline run one chunk per round.
//
// A Scheduler is not safe for concurrent use.
package scheduler
