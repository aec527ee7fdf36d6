// Package visual maps data values to visual attributes such as color,
// opacity and symbol size.
//
// A [Mapping] turns a value into one channel's visual by one of four
// methods: linear over a data extent, piecewise over value pieces, by
// category, or fixed. [Mappings] groups mappings by value state
// ("inRange", "outOfRange", ...) and [ApplyVisual] writes the resolved
// visuals into a data store through a getter/setter pair, so channels
// applied later (colorAlpha, colorHue) modify the color resolved before
// them.
//
// Two stage handlers build on this: [StyleHandler] assigns palette and
// state colors per series, and [MapComponent] encodes a data dimension
// the way a visualMap component does.
package visual
