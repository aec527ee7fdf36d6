// Package task implements resumable, chunk-bounded units of pipeline work.
//
// A [Task] covers the rows [0, count) of its input and keeps a cursor, the
// due index, that marks how far it has got. Each call to [Task.Perform]
// processes one chunk [dueIndex, min(dueIndex+step, dueEnd)) by invoking the
// task's progress functions:
//
//	t := task.New(task.Define{
//		Name:  "visual",
//		Count: func(ctx *task.Context) int { return ctx.Data.Count() },
//		Reset: func(ctx *task.Context) (task.ResetResult, error) {
//			return task.ResetResult{Progress: []task.ProgressFunc{
//				func(p task.Params, notify task.Notify) error {
//					for i, ok := p.Next(); ok; i, ok = p.Next() {
//						// process row i
//					}
//					notify(p.End)
//					return nil
//				},
//			}}, nil
//		},
//	})
//
// The cursor moves only to the value a progress function reports through
// notify, and only after it returns nil. A progress function that does not
// notify has made no progress; one that returns an error leaves the cursor
// where it was. Every reset starts a new generation, and notifications from
// an older generation are ignored.
//
// Tasks are linked with [Pipe]: a downstream task never runs past the rows
// its upstream task has output.
package task
