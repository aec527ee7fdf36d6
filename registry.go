package ggchart

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/ggchart/scheduler"
	"github.com/gogpu/ggchart/series"
)

// Target is the surface a chart draws on.
type Target interface {
	Size() (width, height int)
}

// ViewFactory creates the view rendering s onto target.
type ViewFactory func(s *series.Series, target Target) (scheduler.View, error)

var (
	registryMu sync.RWMutex
	views      = make(map[string]ViewFactory)
)

// RegisterView registers the view factory of a chart type. It is
// typically called from init in a view package:
//
//	func init() {
//	    ggchart.RegisterView("bar", newBarView)
//	}
//
// RegisterView panics if factory is nil or the chart type is already
// registered.
func RegisterView(chartType string, factory ViewFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("ggchart: RegisterView factory is nil")
	}
	if _, dup := views[chartType]; dup {
		panic("ggchart: RegisterView called twice for " + chartType)
	}
	views[chartType] = factory
}

// UnregisterView removes a chart type. Unknown types are ignored.
func UnregisterView(chartType string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(views, chartType)
}

// NewView creates the view of s through the factory of its type.
func NewView(s *series.Series, target Target) (scheduler.View, error) {
	registryMu.RLock()
	factory, ok := views[s.Type()]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (forgotten import?)", ErrUnknownChartType, s.Type())
	}
	return factory(s, target)
}

// Views returns the registered chart types, sorted.
func Views() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(views))
	for name := range views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether a view is registered for chartType.
func IsRegistered(chartType string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := views[chartType]
	return ok
}
