package analyzer

import (
	"fmt"
	"image"
	"image/color"

	"rbc-analyzer/pkg/colorutil"
	"rbc-analyzer/pkg/geometry"

	"gocv.io/x/gocv"
)

var (
	roiColor     = colorutil.Blue  // ROI outline
	blobColor    = colorutil.Green // Accepted blobs
	captionColor = colorutil.Red   // Caption text
	flaggedColor = colorutil.Red   // Abnormal cells
)

// Annotate draws the detected region and accepted blob outlines onto a
// copy of the original image for visual verification. The source Mat is
// never written to. Blob contours carry mask-local coordinates and are
// translated by the ROI origin before drawing.
//
// Annotation is a side output: a malformed contour is skipped rather than
// allowed to abort the numeric result, and the worst case degrades to
// returning the plain copy.
func Annotate(src gocv.Mat, region GridRegion, blobs []Blob, rawCount int) gocv.Mat {
	out := src.Clone()
	if out.Empty() {
		return out
	}

	if region.Detected {
		gocv.Rectangle(&out, region.ROI.ToImageRect(), roiColor, 3)
	}

	offset := region.ROI.Origin()
	for _, blob := range blobs {
		if len(blob.Contour) < 3 {
			continue
		}
		shifted := geometry.TranslateContour(blob.Contour, offset)
		drawContour(&out, shifted, blobColor, 2)
	}

	caption := fmt.Sprintf("Counted RBCs: %d", rawCount)
	gocv.PutText(&out, caption, image.Pt(10, 30), gocv.FontHersheySimplex, 0.8, captionColor, 2)

	return out
}

// drawContour renders one contour outline onto the image.
func drawContour(img *gocv.Mat, contour []image.Point, c color.RGBA, thickness int) {
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{contour})
	defer pv.Close()
	gocv.DrawContours(img, pv, 0, c, thickness)
}
