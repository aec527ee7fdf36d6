package scheduler

import (
	"fmt"
	"math"
	"time"

	"github.com/gogpu/ggchart/series"
	"github.com/gogpu/ggchart/task"
)

// Budget decides whether a pass may run another round, given the rows
// processed and the time spent so far in the pass.
type Budget func(rows int, elapsed time.Duration) bool

// RowBudget allows rounds until n rows have been processed.
func RowBudget(n int) Budget {
	return func(rows int, _ time.Duration) bool { return rows < n }
}

// TimeBudget allows rounds until d has elapsed.
func TimeBudget(d time.Duration) Budget {
	return func(_ int, elapsed time.Duration) bool { return elapsed < d }
}

// Unbounded allows rounds until every task is finished.
func Unbounded() Budget {
	return func(int, time.Duration) bool { return true }
}

func (sc *Scheduler) performArgs(t *task.Task, block bool) task.PerformArgs {
	info := sc.tasks[t]
	if info == nil {
		return task.PerformArgs{}
	}
	p := info.pipeline
	incremental := !block && p.progressiveEnabled &&
		(!p.hasCtx || p.ctx.ProgressiveRender) && info.idx > p.blockIndex
	if !incremental {
		return task.PerformArgs{}
	}
	args := task.PerformArgs{Step: p.step}
	if p.hasCtx && p.ctx.ModDataCount > 0 {
		args.ModDataCount = p.ctx.ModDataCount
		args.ModBy = int(math.Ceil(float64(p.ctx.ModDataCount) / float64(p.step)))
	}
	return args
}

// perform runs one chunk of t. s, when given, gets t as its current task
// so stage callbacks read and write the store flowing through t.
func (sc *Scheduler) perform(t *task.Task, s *series.Series, args task.PerformArgs) (bool, error) {
	if s != nil {
		s.SetCurrentTask(t)
	}
	more, err := t.Perform(args)
	if err != nil {
		return more, err
	}
	sc.rows += t.Rows()

	if !t.Stalled() {
		delete(sc.stalls, t)
		return more, nil
	}
	sc.stalls[t]++
	n := sc.stalls[t]
	sc.logger.Debug("scheduler: stalled chunk", "task", t.Name(), "owner", t.Context().Owner, "stalls", n)
	if n >= sc.opts.maxStalls {
		delete(sc.stalls, t)
		return false, fmt.Errorf("%w: task %q of series %s at row %d after %d chunks",
			ErrStalled, t.Name(), t.Context().Owner, t.DueIndex(), n)
	}
	return more, nil
}

// PerformSeriesTasks performs the data task of every unfiltered series.
func (sc *Scheduler) PerformSeriesTasks(m *series.Model) error {
	unfinished := false
	for _, s := range m.Series() {
		more, err := sc.perform(s.DataTask(), s, task.PerformArgs{})
		if err != nil {
			return err
		}
		unfinished = unfinished || more
	}
	sc.unfinished = sc.unfinished || unfinished
	return nil
}

// PerformDataProcessorTasks performs the data processor stages. They
// always run over the whole due range.
func (sc *Scheduler) PerformDataProcessorTasks(m *series.Model) error {
	return sc.performStageTasks(sc.dataProcessors, m, true)
}

// PerformVisualTasks performs the visual stages.
func (sc *Scheduler) PerformVisualTasks(m *series.Model) error {
	return sc.performStageTasks(sc.visualHandlers, m, false)
}

func (sc *Scheduler) performStageTasks(records []*stageRecord, m *series.Model, block bool) error {
	unfinished := false
	for _, rec := range records {
		if rec.overall != nil {
			var args task.PerformArgs
			for _, uid := range rec.stubOrder {
				st := rec.stubs[uid]
				if _, err := sc.perform(st.task, st.s, args); err != nil {
					return err
				}
			}
			more, err := sc.perform(rec.overall, nil, args)
			if err != nil {
				return err
			}
			unfinished = unfinished || more
			continue
		}
		for _, uid := range rec.seriesOrder {
			st := rec.seriesTasks[uid]
			args := sc.performArgs(st.task, block)
			args.Skip = !rec.handler.PerformRawSeries && m.IsFiltered(st.s)
			more, err := sc.perform(st.task, st.s, args)
			if err != nil {
				return err
			}
			unfinished = unfinished || more
		}
	}
	sc.unfinished = sc.unfinished || unfinished
	return nil
}

// PerformRenderTasks performs the render task of every unfiltered series
// with a view.
func (sc *Scheduler) PerformRenderTasks(m *series.Model) error {
	unfinished := false
	for _, s := range m.Series() {
		e := sc.renders[s.UID()]
		if e == nil || sc.tasks[e.task] == nil {
			continue
		}
		more, err := sc.perform(e.task, s, sc.performArgs(e.task, false))
		if err != nil {
			return err
		}
		unfinished = unfinished || more
	}
	sc.unfinished = sc.unfinished || unfinished
	return nil
}

// performRound runs every stage once.
func (sc *Scheduler) performRound(m *series.Model) error {
	if err := sc.PerformSeriesTasks(m); err != nil {
		return err
	}
	if err := sc.PerformDataProcessorTasks(m); err != nil {
		return err
	}
	sc.UpdateStreamModes(m)
	if err := sc.PerformVisualTasks(m); err != nil {
		return err
	}
	return sc.PerformRenderTasks(m)
}

// PerformPass runs rounds of every stage until no task is unfinished or
// budget refuses another round. At least one round runs. It reports
// whether work remains for a later pass.
func (sc *Scheduler) PerformPass(m *series.Model, budget Budget) (bool, error) {
	if budget == nil {
		budget = Unbounded()
	}
	start := time.Now()
	sc.rows = 0
	rounds := 0
	for {
		sc.unfinished = false
		if err := sc.performRound(m); err != nil {
			return sc.unfinished, err
		}
		rounds++
		if !sc.unfinished || !budget(sc.rows, time.Since(start)) {
			break
		}
	}
	sc.logger.Debug("scheduler: pass",
		"rounds", rounds, "rows", sc.rows,
		"elapsed", time.Since(start), "unfinished", sc.unfinished)
	return sc.unfinished, nil
}
