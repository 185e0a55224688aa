package analyzer

import (
	"fmt"
	"image"
	"math"

	"rbc-analyzer/pkg/geometry"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// ScreenParams configures the Hough-circle morphology screen.
type ScreenParams struct {
	DP        float64 // Inverse accumulator resolution ratio
	MinDist   float64 // Minimum distance between circle centers
	Param1    float64 // Upper Canny threshold for the internal edge stage
	Param2    float64 // Accumulator threshold; smaller finds more circles
	MinRadius int     // Smallest circle considered a cell
	MaxRadius int     // Largest circle considered a cell

	// Radii outside [NormalMinRadius, NormalMaxRadius] flag the cell as
	// morphologically abnormal (microcyte/macrocyte candidates).
	NormalMinRadius float64
	NormalMaxRadius float64

	// Crude WBC figure as a fraction of the RBC count. This is a numeric
	// ratio only; there is no actual white-cell detection.
	WBCRatio float64
}

// DefaultScreenParams returns screen parameters tuned for typical
// haemocytometer magnification, where a red cell spans 5-15 pixels.
func DefaultScreenParams() ScreenParams {
	return ScreenParams{
		DP:              1.2,
		MinDist:         15,
		Param1:          50,
		Param2:          30,
		MinRadius:       5,
		MaxRadius:       15,
		NormalMinRadius: 6,
		NormalMaxRadius: 14,
		WBCRatio:        0.01,
	}
}

// AbnormalRadius reports whether a detected radius falls outside the
// normal morphology band.
func (p ScreenParams) AbnormalRadius(radius float64) bool {
	return radius < p.NormalMinRadius || radius > p.NormalMaxRadius
}

// DetectedCell is one circle found by the morphology screen.
type DetectedCell struct {
	Center   geometry.PointInt
	Radius   int
	Abnormal bool
}

// ScreenResult summarizes a Hough-circle pass over the whole image.
type ScreenResult struct {
	CellCount     int
	AbnormalCount int
	WBCEstimate   int
	MeanRadius    float64
	StdDevRadius  float64
	Cells         []DetectedCell
	Annotated     gocv.Mat
}

// Close releases the annotated image.
func (r *ScreenResult) Close() {
	if r != nil {
		r.Annotated.Close()
	}
}

// Screen runs circle detection over the full frame as a morphology check,
// independent of the grid-based counting pipeline. Each detected circle
// is a cell candidate; radii outside the normal band are flagged. The
// radius distribution summary uses gonum's stat routines.
func Screen(src gocv.Mat, p ScreenParams) (*ScreenResult, error) {
	if src.Empty() {
		return nil, ErrDecode
	}

	gray := Grayscale(src)
	defer gray.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.MedianBlur(gray, &blurred, 5)

	circles := gocv.NewMat()
	defer circles.Close()
	gocv.HoughCirclesWithParams(blurred, &circles, gocv.HoughGradient,
		p.DP, p.MinDist, p.Param1, p.Param2, p.MinRadius, p.MaxRadius)

	result := &ScreenResult{Annotated: src.Clone()}

	var radii []float64
	for i := 0; i < circles.Cols(); i++ {
		v := circles.GetVecfAt(0, i)
		if len(v) < 3 {
			continue
		}
		cell := DetectedCell{
			Center: geometry.PointInt{X: int(v[0]), Y: int(v[1])},
			Radius: int(math.Round(float64(v[2]))),
		}
		cell.Abnormal = p.AbnormalRadius(float64(cell.Radius))
		result.Cells = append(result.Cells, cell)
		radii = append(radii, float64(cell.Radius))

		c := blobColor
		if cell.Abnormal {
			c = flaggedColor
			result.AbnormalCount++
		}
		gocv.Circle(&result.Annotated, cell.Center.ToImagePoint(), cell.Radius, c, 2)
	}

	result.CellCount = len(result.Cells)
	result.WBCEstimate = int(float64(result.CellCount) * p.WBCRatio)
	if len(radii) > 0 {
		result.MeanRadius = stat.Mean(radii, nil)
	}
	if len(radii) > 1 {
		result.StdDevRadius = stat.StdDev(radii, nil)
	}

	caption := fmt.Sprintf("Cells: %d", result.CellCount)
	gocv.PutText(&result.Annotated, caption, image.Pt(10, 30), gocv.FontHersheySimplex, 0.8, captionColor, 2)

	return result, nil
}
