package visual

import (
	"github.com/gogpu/ggchart/color"
	"github.com/gogpu/ggchart/data"
)

// ResolveItemVisual returns the visual of channel c for the item at
// dataIndex in state st. It looks at the item state visual, the item
// normal visual, the series state visual and the series normal visual, in
// that order.
func ResolveItemVisual(store *data.Store, dataIndex int, st State, c Channel) any {
	key := Key(st, c)
	if v, ok := store.ItemVisual(dataIndex, key); ok && v != nil {
		return v
	}
	if v, ok := store.ItemVisual(dataIndex, string(c)); ok && v != nil {
		return v
	}
	if v := store.Visual(key); v != nil {
		return v
	}
	return store.Visual(string(c))
}

// ResolveItemColor is ResolveItemVisual for the color channel, parsed.
// ok is false when no color is resolved.
func ResolveItemColor(store *data.Store, dataIndex int, st State) (c color.RGBA, ok bool) {
	v := ResolveItemVisual(store, dataIndex, st, Color)
	if v == nil {
		return color.RGBA{}, false
	}
	c = parseColor(v)
	if op, ok := toFloat(ResolveItemVisual(store, dataIndex, st, Opacity)); ok {
		c.A *= op
	}
	return c, true
}
