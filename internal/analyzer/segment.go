package analyzer

import (
	"image"

	"gocv.io/x/gocv"
)

// Segment converts a grayscale region into a binary mask isolating
// cell-like blobs, using the strategy selected in params. Cells are darker
// than the chamber background, so both strategies threshold with inverted
// polarity: foreground (255) marks candidate cells.
//
// A flat image legitimately yields an empty mask; no segmentation input
// is an error.
func Segment(gray gocv.Mat, p Params) gocv.Mat {
	switch p.Strategy {
	case StrategyAdaptive:
		return segmentAdaptive(gray, p)
	default:
		return segmentFixed(gray, p)
	}
}

// segmentFixed: median blur then a fixed global threshold. Assumes the
// background is roughly uniform, which holds inside a detected grid.
func segmentFixed(gray gocv.Mat, p Params) gocv.Mat {
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.MedianBlur(gray, &blurred, p.MedianKernel)

	mask := gocv.NewMat()
	gocv.Threshold(blurred, &mask, p.FixedThresh, 255, gocv.ThresholdBinaryInv)
	return mask
}

// segmentAdaptive: local mean threshold, then a morphological opening to
// knock out isolated noise pixels while preserving cell-sized blobs.
func segmentAdaptive(gray gocv.Mat, p Params) gocv.Mat {
	thresh := gocv.NewMat()
	gocv.AdaptiveThreshold(gray, &thresh, 255, gocv.AdaptiveThresholdMean, gocv.ThresholdBinaryInv, p.AdaptiveBlock, p.AdaptiveC)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(p.OpenKernel, p.OpenKernel))
	defer kernel.Close()

	mask := gocv.NewMat()
	gocv.MorphologyExWithParams(thresh, &mask, gocv.MorphOpen, kernel, p.OpenIterations, gocv.BorderConstant)
	thresh.Close()
	return mask
}
