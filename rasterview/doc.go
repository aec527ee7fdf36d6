// Package rasterview renders bar series into an image.
//
// Importing the package registers the "bar" chart type with ggchart. Bar
// views draw onto a Canvas passed to the chart with ggchart.WithTarget:
//
//	canvas := rasterview.NewCanvas(800, 600)
//	chart := ggchart.New(ggchart.WithTarget(canvas))
//	...
//	err := canvas.WritePNG(f)
//
// Views only collect bars in data coordinates, chunk by chunk when the
// series renders progressively. Draw fits the axes to everything
// collected and rasterizes it with golang.org/x/image/vector.
package rasterview
