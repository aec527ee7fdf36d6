package ggchart

import "github.com/gogpu/ggchart/scheduler"

// StreamMode summarizes how a series is processed in the current pass.
type StreamMode int

const (
	// StreamModeNormal processes every row in one chunk, item by item.
	StreamModeNormal StreamMode = iota

	// StreamModeLarge processes every row in one chunk on the whole-range
	// path. Per-item style overrides are skipped.
	StreamModeLarge

	// StreamModeProgressive renders in chunks across passes.
	StreamModeProgressive

	// StreamModeLargeProgressive combines large and progressive.
	StreamModeLargeProgressive
)

// String returns the stream mode name.
func (m StreamMode) String() string {
	switch m {
	case StreamModeNormal:
		return "Normal"
	case StreamModeLarge:
		return "Large"
	case StreamModeProgressive:
		return "Progressive"
	case StreamModeLargeProgressive:
		return "LargeProgressive"
	default:
		return "Unknown"
	}
}

// SelectStreamMode maps the pipeline flags of a series to its mode.
func SelectStreamMode(pc scheduler.PipelineContext) StreamMode {
	switch {
	case pc.Large && pc.ProgressiveRender:
		return StreamModeLargeProgressive
	case pc.ProgressiveRender:
		return StreamModeProgressive
	case pc.Large:
		return StreamModeLarge
	default:
		return StreamModeNormal
	}
}
