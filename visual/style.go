package visual

import (
	"strings"

	"github.com/gogpu/ggchart/data"
	"github.com/gogpu/ggchart/series"
	"github.com/gogpu/ggchart/task"
)

// DefaultPalette is the series color palette.
var DefaultPalette = []string{
	"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de",
	"#3ba272", "#fc8452", "#9a60b4", "#ea7ccc",
}

// EmphasisLift is the lift level of the default emphasis color.
const EmphasisLift = -0.1

// StyleHandler assigns the series style visuals: the palette color (unless
// the series sets itemStyle.color), opacity and state visuals such as
// "emphasis.color". Explicit item styles become item visuals unless the
// series runs in large mode.
type StyleHandler struct {
	// Palette overrides DefaultPalette.
	Palette []string
}

// Reset sets the series visuals on the current store and returns the
// per-item executor, or nothing when no item carries a style.
func (h *StyleHandler) Reset(s *series.Series) ([]task.ProgressExecutor, error) {
	store := s.Store()
	if store == nil {
		return nil, nil
	}
	style := s.ItemStyle()

	fill, ok := style[string(Color)].(string)
	if !ok || fill == "" {
		fill = h.paletteColor(s.Index())
	}
	store.SetVisual(string(Color), fill)

	if op, ok := toFloat(style[string(Opacity)]); ok {
		store.SetVisual(string(Opacity), op)
	}
	for k, v := range style {
		if strings.Contains(k, ".") {
			store.SetVisual(k, v)
		}
	}
	if store.Visual(Key(StateEmphasis, Color)) == nil {
		store.SetVisual(Key(StateEmphasis, Color), parseColor(fill).Lift(EmphasisLift).String())
	}

	if s.PipelineContext().Large || !store.HasItemOption() {
		return nil, nil
	}
	return []task.ProgressExecutor{{DataEach: func(st *data.Store, dataIndex int) error {
		for k, v := range st.ItemStyle(dataIndex) {
			if v != nil {
				st.SetItemVisual(dataIndex, k, v)
			}
		}
		return nil
	}}}, nil
}

func (h *StyleHandler) paletteColor(index int) string {
	p := h.Palette
	if len(p) == 0 {
		p = DefaultPalette
	}
	if index < 0 {
		index = 0
	}
	return p[index%len(p)]
}
