package task

import "github.com/gogpu/ggchart/data"

// ProgressExecutor is one unit of work returned by a stage reset. At most
// one field is set: DataEach is called for every data index of a chunk,
// Progress receives the whole chunk at once, and Func is used as is and
// reports its own progress through notify.
type ProgressExecutor struct {
	DataEach func(s *data.Store, dataIndex int) error
	Progress func(p Params, s *data.Store) error
	Func     ProgressFunc
}

// Bind turns e into a ProgressFunc reading the store from ctx at call time.
// DataEach and Progress executors notify the chunk end after they return
// nil. An executor with no field set passes every chunk through.
func (e ProgressExecutor) Bind(ctx *Context) ProgressFunc {
	switch {
	case e.Func != nil:
		return e.Func
	case e.DataEach != nil:
		return func(p Params, notify Notify) error {
			for i, ok := p.Next(); ok; i, ok = p.Next() {
				if err := e.DataEach(ctx.Data, i); err != nil {
					return err
				}
			}
			notify(p.End)
			return nil
		}
	case e.Progress != nil:
		return func(p Params, notify Notify) error {
			if err := e.Progress(p, ctx.Data); err != nil {
				return err
			}
			notify(p.End)
			return nil
		}
	default:
		return func(p Params, notify Notify) error {
			notify(p.End)
			return nil
		}
	}
}

// BindAll binds every executor to ctx.
func BindAll(ctx *Context, execs []ProgressExecutor) []ProgressFunc {
	out := make([]ProgressFunc, 0, len(execs))
	for _, e := range execs {
		out = append(out, e.Bind(ctx))
	}
	return out
}
