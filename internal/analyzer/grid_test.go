package analyzer

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"rbc-analyzer/pkg/geometry"

	"gocv.io/x/gocv"
)

var inkBlack = color.RGBA{A: 255}

// gridTestParams lowers the Hough vote threshold so that the short
// synthetic grid lines used here register reliably.
func gridTestParams() Params {
	p := DefaultParams()
	p.HoughThresh = 60
	return p
}

func TestLocateGridNoLinearStructure(t *testing.T) {
	// Uniform image: no edges, no lines. Must fall back to the full
	// frame without raising.
	gray := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(200, 0, 0, 0), 120, 160, gocv.MatTypeCV8U)
	defer gray.Close()

	region := LocateGrid(gray, DefaultParams())
	require.False(t, region.Detected)
	require.Equal(t, 0, region.ROI.X)
	require.Equal(t, 0, region.ROI.Y)
	require.Equal(t, 160, region.ROI.Width)
	require.Equal(t, 120, region.ROI.Height)
}

func TestLocateGridDominantSquare(t *testing.T) {
	gray := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 200, 200, gocv.MatTypeCV8U)
	defer gray.Close()
	gocv.Rectangle(&gray, image.Rect(50, 50, 150, 150), inkBlack, 3)

	region := LocateGrid(gray, gridTestParams())
	require.True(t, region.Detected)

	// The bounding region must fully contain the drawn grid lines.
	roi := region.ROI.ToImageRect()
	require.True(t, image.Rect(50, 50, 150, 150).In(roi.Inset(-4)),
		"ROI %v should contain the grid square", region.ROI)
	require.Less(t, region.ROI.Width, 120)
	require.Less(t, region.ROI.Height, 120)
}

func TestLocateGridPicksLargestRegion(t *testing.T) {
	gray := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 300, 300, gocv.MatTypeCV8U)
	defer gray.Close()

	// Two disjoint squares; the larger one must win.
	gocv.Rectangle(&gray, image.Rect(10, 10, 80, 80), inkBlack, 3)
	gocv.Rectangle(&gray, image.Rect(120, 120, 280, 280), inkBlack, 3)

	region := LocateGrid(gray, gridTestParams())
	require.True(t, region.Detected)
	require.Greater(t, region.ROI.X, 100)
	require.Greater(t, region.ROI.Y, 100)
}

func TestCropROIClampsToImage(t *testing.T) {
	gray := gocv.Zeros(100, 100, gocv.MatTypeCV8U)
	defer gray.Close()

	crop := CropROI(gray, geometry.NewRectInt(80, 80, 50, 50))
	defer crop.Close()
	require.Equal(t, 20, crop.Cols())
	require.Equal(t, 20, crop.Rows())

	// A fully out-of-range ROI degrades to the whole image.
	full := CropROI(gray, geometry.NewRectInt(500, 500, 10, 10))
	defer full.Close()
	require.Equal(t, 100, full.Cols())
	require.Equal(t, 100, full.Rows())
}
