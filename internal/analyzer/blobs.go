package analyzer

import (
	"rbc-analyzer/pkg/geometry"

	"gocv.io/x/gocv"
)

// ExtractBlobs pulls the outer connected components out of a binary mask
// and keeps those within the configured plausible area range. The returned
// order follows contour extraction order, which is stable for a given
// mask, so repeated runs count identically.
//
// An all-background mask yields an empty slice; that is a valid count of
// zero, not an error.
func ExtractBlobs(mask gocv.Mat, p Params) []Blob {
	if mask.Empty() {
		return nil
	}

	hierarchy := gocv.NewMat()
	defer hierarchy.Close()
	contours := gocv.FindContoursWithParams(mask, &hierarchy, gocv.RetrievalCComp, gocv.ChainApproxSimple)
	defer contours.Close()

	var blobs []Blob
	for i := 0; i < contours.Size(); i++ {
		// Two-level retrieval keeps every component's outer border at the
		// top level even when the component sits inside another blob's
		// hole, e.g. cells enclosed by a closed grid ring. Hole borders
		// carry a parent index and are not blobs.
		if h := hierarchy.GetVeciAt(0, i); h[3] >= 0 {
			continue
		}

		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area <= p.MinBlobArea {
			continue
		}
		if p.MaxBlobArea > 0 && area >= p.MaxBlobArea {
			continue
		}

		x, y, radius := gocv.MinEnclosingCircle(contour)
		blobs = append(blobs, Blob{
			Contour: contour.ToPoints(),
			Area:    area,
			Center:  geometry.NewPoint2D(float64(x), float64(y)),
			Radius:  float64(radius),
		})
	}
	return blobs
}
