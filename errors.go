package ggchart

import "errors"

var (
	// ErrUnknownChartType is returned when no view is registered for a
	// series type.
	ErrUnknownChartType = errors.New("ggchart: unknown chart type")

	// ErrUnknownSeries is returned for a series name the chart does not
	// hold.
	ErrUnknownSeries = errors.New("ggchart: unknown series")

	// ErrNoOption is returned by operations that need SetOption first.
	ErrNoOption = errors.New("ggchart: no option set")

	// ErrDisposed is returned by every operation on a disposed chart.
	ErrDisposed = errors.New("ggchart: chart disposed")
)
