package task

import (
	"fmt"
	"math"

	"github.com/gogpu/ggchart/data"
)

// Context is the state shared by a task and its stage callbacks.
type Context struct {
	// Data is the input store; OutputData is what downstream tasks read.
	// A dirty task with an upstream inherits both from the upstream output.
	Data       *data.Store
	OutputData *data.Store

	// Owner identifies the series (or overall stage) that owns the task.
	Owner string
}

// Notify reports the new due index reached by a progress function.
type Notify func(newDueIndex int)

// ProgressFunc processes the chunk described by p and reports how far it
// got through notify. Returning an error aborts the pass without moving the
// cursor.
type ProgressFunc func(p Params, notify Notify) error

// ResetResult is what a reset callback returns: the progress functions for
// the new cycle. ForceFirstProgress runs them once even on an empty range.
type ResetResult struct {
	Progress           []ProgressFunc
	ForceFirstProgress bool
}

// PlanResult is the decision of a plan callback.
type PlanResult uint8

const (
	// PlanContinue keeps the current cycle.
	PlanContinue PlanResult = iota
	// PlanReset restarts the task from its reset callback.
	PlanReset
)

// Define declares the callbacks of a task. Every field is optional.
type Define struct {
	Name string

	// Count returns the size of the input for a head task.
	Count func(ctx *Context) int
	// Reset starts a new cycle and returns its progress functions.
	Reset func(ctx *Context) (ResetResult, error)
	// Plan runs before every perform and may request a reset.
	Plan func(ctx *Context) PlanResult
	// OnDirty is called whenever the task is marked dirty.
	OnDirty func(ctx *Context)
}

// PerformArgs controls one Perform call.
type PerformArgs struct {
	// Step bounds the chunk size; 0 means unbounded.
	Step int
	// Skip advances the cursor without running callbacks.
	Skip bool
	// ModBy and ModDataCount select mod-sharded iteration when ModBy > 1.
	ModBy        int
	ModDataCount int
}

// State is the lifecycle state of a task.
type State uint8

// Task states.
const (
	StateIdle State = iota
	StateRunning
	StateComplete
	StateDisposed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateComplete:
		return "complete"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

const unset = -1

// Task is a resumable unit of work. It is not safe for concurrent use.
type Task struct {
	define  Define
	context *Context

	progress   []ProgressFunc
	dirty      bool
	disposed   bool
	performed  bool
	generation uint64
	resumeAt   int

	modBy        int
	modDataCount int

	upstream   *Task
	downstream *Task

	dueIndex        int
	dueEnd          int
	outputDueEnd    int
	settedOutputEnd int

	stalled bool
	rows    int
}

// New creates a dirty task from define.
func New(define Define) *Task {
	return &Task{
		define:          define,
		context:         &Context{},
		dirty:           true,
		settedOutputEnd: unset,
	}
}

// Name returns the task name.
func (t *Task) Name() string {
	return t.define.Name
}

// Context returns the task context.
func (t *Task) Context() *Context {
	return t.context
}

// Perform runs one chunk. It reports whether rows remain.
func (t *Task) Perform(args PerformArgs) (bool, error) {
	if t.disposed {
		return false, fmt.Errorf("%w: %s", ErrDisposed, t.define.Name)
	}
	up := t.upstream
	t.stalled = false
	t.rows = 0

	if t.dirty && up != nil {
		t.context.Data = up.context.OutputData
		t.context.OutputData = up.context.OutputData
	}

	plan := PlanContinue
	if t.define.Plan != nil && !args.Skip {
		plan = t.define.Plan(t.context)
	}

	modBy := normalizeModBy(args.ModBy)
	modDataCount := max(args.ModDataCount, 0)
	if t.performed && (t.modBy != modBy || t.modDataCount != modDataCount) {
		plan = PlanReset
	}

	forceFirst := false
	if t.dirty || plan == PlanReset {
		t.dirty = false
		var err error
		if forceFirst, err = t.doReset(args.Skip); err != nil {
			t.dirty = true
			return false, fmt.Errorf("task %s: reset: %w", t.define.Name, err)
		}
	}
	t.modBy = modBy
	t.modDataCount = modDataCount
	t.performed = true

	if up != nil {
		t.dueEnd = up.outputDueEnd
	} else if t.define.Count != nil {
		t.dueEnd = t.define.Count(t.context)
	} else if len(t.progress) > 0 {
		return false, fmt.Errorf("%w: %s", ErrNoCount, t.define.Name)
	} else {
		t.dueEnd = math.MaxInt
	}

	if len(t.progress) == 0 {
		if t.settedOutputEnd != unset {
			t.dueIndex, t.outputDueEnd = t.settedOutputEnd, t.settedOutputEnd
		} else {
			t.dueIndex, t.outputDueEnd = t.dueEnd, t.dueEnd
		}
		return t.Unfinished(), nil
	}

	start := t.dueIndex
	end := t.dueEnd
	if args.Step > 0 && start+args.Step < end {
		end = start + args.Step
	}

	newDue := start
	switch {
	case args.Skip:
		newDue = end
	case forceFirst || start < end:
		reached, err := t.runProgress(start, end, modBy, modDataCount)
		if err != nil {
			return t.Unfinished(), fmt.Errorf("task %s: %w", t.define.Name, err)
		}
		newDue = reached
		t.stalled = start < end && reached == start
		t.rows = max(reached-start, 0)
	}

	t.dueIndex = newDue
	if t.settedOutputEnd != unset {
		t.outputDueEnd = t.settedOutputEnd
	} else if newDue > t.outputDueEnd {
		t.outputDueEnd = newDue
	}
	return t.Unfinished(), nil
}

// runProgress calls every progress function on [start, end) and returns
// the lowest due index they all reached.
func (t *Task) runProgress(start, end, modBy, modDataCount int) (int, error) {
	gen := t.generation
	reached := end
	for _, fn := range t.progress {
		got := start
		notify := func(v int) {
			if t.generation != gen || v < start {
				return
			}
			got = min(v, end)
		}
		p := Params{
			Start:    start,
			End:      end,
			DueIndex: start,
			DueEnd:   t.dueEnd,
			it:       newIterator(start, end, modBy, modDataCount),
		}
		if err := fn(p, notify); err != nil {
			return start, err
		}
		if t.generation != gen {
			// Reset from inside the chunk: the cursor belongs to the new cycle.
			return t.dueIndex, nil
		}
		reached = min(reached, got)
	}
	return reached, nil
}

func (t *Task) doReset(skip bool) (bool, error) {
	t.generation++
	t.dueIndex, t.outputDueEnd, t.dueEnd = 0, 0, 0
	t.settedOutputEnd = unset

	var res ResetResult
	if !skip && t.define.Reset != nil {
		var err error
		if res, err = t.define.Reset(t.context); err != nil {
			t.progress = nil
			return false, err
		}
	}
	t.progress = res.Progress
	if t.resumeAt > 0 {
		t.dueIndex, t.outputDueEnd = t.resumeAt, t.resumeAt
		t.resumeAt = 0
	}
	if t.downstream != nil {
		t.downstream.Dirty()
	}
	return res.ForceFirstProgress, nil
}

func normalizeModBy(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// Dirty marks the task for reset on its next Perform.
func (t *Task) Dirty() {
	t.dirty = true
	if t.define.OnDirty != nil {
		t.define.OnDirty(t.context)
	}
}

// IsDirty reports whether the task will reset on its next Perform.
func (t *Task) IsDirty() bool {
	return t.dirty
}

// Reset clears the cursor and starts a new generation. Notifications from
// chunks of the previous generation are ignored from now on.
func (t *Task) Reset() {
	t.ResetTo(0)
}

// ResetTo is like Reset but resumes the new cycle at dueIndex, keeping the
// rows before it.
func (t *Task) ResetTo(dueIndex int) {
	t.generation++
	t.resumeAt = max(dueIndex, 0)
	t.Dirty()
}

// Unfinished reports whether the task has progress functions and rows left.
func (t *Task) Unfinished() bool {
	return len(t.progress) > 0 && t.dueIndex < t.dueEnd
}

// Stalled reports whether the last Perform ran a non-empty chunk that
// reported no progress.
func (t *Task) Stalled() bool {
	return t.stalled
}

// Rows returns how many rows the last Perform passed to progress
// functions. Skipped rows and cursor jumps of tasks without progress
// functions are not counted.
func (t *Task) Rows() int {
	return t.rows
}

// State returns the lifecycle state.
func (t *Task) State() State {
	switch {
	case t.disposed:
		return StateDisposed
	case t.dirty || !t.performed:
		return StateIdle
	case t.Unfinished():
		return StateRunning
	default:
		return StateComplete
	}
}

// Generation returns the reset cycle counter.
func (t *Task) Generation() uint64 {
	return t.generation
}

// DueIndex returns the cursor.
func (t *Task) DueIndex() int {
	return t.dueIndex
}

// DueEnd returns the end of the current due range.
func (t *Task) DueEnd() int {
	return t.dueEnd
}

// OutputDueEnd returns how many rows downstream tasks may read.
func (t *Task) OutputDueEnd() int {
	return t.outputDueEnd
}

// SetOutputEnd fixes the output end, for tasks whose output size differs
// from their input.
func (t *Task) SetOutputEnd(end int) {
	t.outputDueEnd = end
	t.settedOutputEnd = end
}

// Upstream returns the task piped into t, or nil.
func (t *Task) Upstream() *Task {
	return t.upstream
}

// Downstream returns the task t pipes into, or nil.
func (t *Task) Downstream() *Task {
	return t.downstream
}

// Dispose unlinks the task. A disposed task cannot be piped or performed.
func (t *Task) Dispose() {
	if t.disposed {
		return
	}
	if t.upstream != nil {
		t.upstream.downstream = nil
	}
	if t.downstream != nil {
		t.downstream.upstream = nil
	}
	t.upstream, t.downstream = nil, nil
	t.dirty = false
	t.progress = nil
	t.disposed = true
}

// Disposed reports whether Dispose was called.
func (t *Task) Disposed() bool {
	return t.disposed
}

// Pipe makes b consume a's output: b's due range follows a's output end.
// b is dirtied when the link changes or a is dirty.
func Pipe(a, b *Task) error {
	if a == nil || b == nil {
		return fmt.Errorf("%w: nil task", ErrDisposed)
	}
	if a.disposed || b.disposed {
		return fmt.Errorf("%w: pipe %s -> %s", ErrDisposed, a.define.Name, b.define.Name)
	}
	if a == b {
		return fmt.Errorf("%w: %s piped into itself", ErrCyclicPipe, a.define.Name)
	}
	for n := b.downstream; n != nil; n = n.downstream {
		if n == a {
			return fmt.Errorf("%w: %s -> %s", ErrCyclicPipe, a.define.Name, b.define.Name)
		}
	}

	if a.downstream != b || a.dirty {
		if old := a.downstream; old != nil && old != b {
			old.upstream = nil
		}
		if old := b.upstream; old != nil && old != a {
			old.downstream = nil
		}
		a.downstream = b
		b.upstream = a
		b.Dirty()
	}
	return nil
}
