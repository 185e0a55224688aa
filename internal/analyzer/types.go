// Package analyzer implements the haemocytometer cell counting pipeline:
// grid detection, cell segmentation, blob filtering, concentration
// estimation, and annotation of the source image.
package analyzer

import (
	"image"

	"rbc-analyzer/pkg/geometry"

	"gocv.io/x/gocv"
)

// Interpretation classifies an estimated concentration against the
// clinical reference range.
type Interpretation int

const (
	InterpretationLow Interpretation = iota
	InterpretationNormal
	InterpretationHigh
)

func (i Interpretation) String() string {
	switch i {
	case InterpretationLow:
		return "LOW RBC COUNT (Anemia)"
	case InterpretationNormal:
		return "NORMAL RBC COUNT"
	case InterpretationHigh:
		return "HIGH RBC COUNT (Polycythemia)"
	default:
		return "Unknown"
	}
}

// Blob is a connected foreground region accepted as a candidate cell.
// Contour coordinates are local to the mask the blob was extracted from;
// callers composing a region-of-interest crop must translate them by the
// ROI origin before drawing onto the full image.
type Blob struct {
	Contour []image.Point    // Boundary points, extraction order
	Area    float64          // Pixel area
	Center  geometry.Point2D // Center of the minimal enclosing circle
	Radius  float64          // Radius of the minimal enclosing circle
}

// Bounds returns the bounding rectangle of the blob contour.
func (b Blob) Bounds() geometry.RectInt {
	return geometry.BoundingBoxInt(b.Contour)
}

// Result holds the outcome of one analysis invocation. RawCount, PerUL and
// Interpretation are the numeric result; Annotated is a side output for
// audit and is never required for the numbers to be valid.
type Result struct {
	RawCount       int
	PerUL          int
	Interpretation Interpretation
	ROI            geometry.RectInt
	GridDetected   bool
	Blobs          []Blob
	Annotated      gocv.Mat
}

// Close releases the annotated image. Safe to call more than once.
func (r *Result) Close() {
	if r != nil {
		r.Annotated.Close()
	}
}
