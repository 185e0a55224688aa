// Package colorutil provides shared overlay colors for the RBC analyzer.
package colorutil

import "image/color"

// Colors used by the drawing stages: overlay annotation, circle
// screening, and grid-mask rasterization. OpenCV stores images as BGR;
// gocv converts these RGBA values on each draw call, so the channel
// names here read naturally.
var (
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Blue  = color.RGBA{B: 255, A: 255}
	Green = color.RGBA{G: 255, A: 255}
	Red   = color.RGBA{R: 255, A: 255}
)
