// Package ggchart drives the series data pipeline of a chart: it turns a
// declarative option into series, runs them through data processors
// (window filtering, stacking), visual stages (palette, item styles,
// visualMap) and views, and renders large series progressively.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/ggchart"
//	    "github.com/gogpu/ggchart/option"
//	    "github.com/gogpu/ggchart/rasterview"
//	)
//
//	canvas := rasterview.NewCanvas(800, 600)
//	chart := ggchart.New(ggchart.WithTarget(canvas))
//
//	opt, err := option.Load("chart.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := chart.SetOption(opt); err != nil {
//	    log.Fatal(err)
//	}
//	for more := true; more; {
//	    if more, err = chart.PerformPass(scheduler.TimeBudget(16 * time.Millisecond)); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Pipelines
//
// Every series owns a pipeline of tasks: its data task, one task per stage
// handler and finally the render task of its view. A pass performs the
// pipelines chunk by chunk until the budget runs out. Series below their
// progressive threshold, and everything before a blocking stage such as
// stacking, are processed in a single chunk.
//
// # Views
//
// Views are registered per chart type with [RegisterView], the way
// database/sql drivers register themselves:
//
//	func init() {
//	    ggchart.RegisterView("bar", newBarView)
//	}
//
// # Logging
//
// ggchart is silent by default. Call [SetLogger] to enable structured
// logging through log/slog.
package ggchart
