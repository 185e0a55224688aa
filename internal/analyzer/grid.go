package analyzer

import (
	"image"
	"math"

	"rbc-analyzer/pkg/colorutil"
	"rbc-analyzer/pkg/geometry"

	"gocv.io/x/gocv"
)

// GridRegion is the outcome of counting-grid detection. When Detected is
// false, ROI covers the full frame and analysis proceeds without a crop.
type GridRegion struct {
	ROI      geometry.RectInt
	Detected bool
}

// LocateGrid finds the haemocytometer counting grid in a grayscale image
// and returns its bounding region. The grid is recovered as straight line
// segments: blur, Canny edges, probabilistic Hough transform, then the
// segments are rasterized onto a mask and the largest connected component
// of that mask bounds the countable region.
//
// Absence of linear structure is not an error; the full image rectangle
// is returned with Detected=false.
func LocateGrid(gray gocv.Mat, p Params) GridRegion {
	fullFrame := GridRegion{
		ROI: geometry.NewRectInt(0, 0, gray.Cols(), gray.Rows()),
	}
	if gray.Empty() {
		return GridRegion{}
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(p.BlurKernel, p.BlurKernel), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, p.CannyLow, p.CannyHigh)

	lines := gocv.NewMat()
	defer lines.Close()
	gocv.HoughLinesPWithParams(edges, &lines, 1, math.Pi/180, p.HoughThresh, p.HoughMinLen, p.HoughMaxGap)

	if lines.Empty() || lines.Rows() == 0 {
		return fullFrame
	}

	// Rasterize every detected segment onto an empty mask. The grid shows
	// up as one large connected component of overlapping strokes.
	gridMask := gocv.Zeros(gray.Rows(), gray.Cols(), gocv.MatTypeCV8U)
	defer gridMask.Close()

	for i := 0; i < lines.Rows(); i++ {
		seg := lines.GetVeciAt(i, 0)
		p1 := image.Pt(int(seg[0]), int(seg[1]))
		p2 := image.Pt(int(seg[2]), int(seg[3]))
		gocv.Line(&gridMask, p1, p2, colorutil.White, p.GridLineWidth)
	}

	contours := gocv.FindContours(gridMask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return fullFrame
	}

	// Largest component wins; ties keep the earlier contour so the choice
	// is deterministic for a fixed traversal order.
	best := 0
	bestArea := gocv.ContourArea(contours.At(0))
	for i := 1; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > bestArea {
			best = i
			bestArea = area
		}
	}

	bounds := gocv.BoundingRect(contours.At(best))
	return GridRegion{
		ROI:      geometry.FromImageRect(bounds),
		Detected: true,
	}
}

// CropROI returns a copy of the region of interest. The crop is clamped
// to the image extent, so a GridRegion from any source stays in bounds.
func CropROI(gray gocv.Mat, roi geometry.RectInt) gocv.Mat {
	full := geometry.NewRectInt(0, 0, gray.Cols(), gray.Rows())
	clamped := roi.Intersect(full)
	if clamped.Empty() {
		clamped = full
	}

	region := gray.Region(clamped.ToImageRect())
	defer region.Close()
	return region.Clone()
}
