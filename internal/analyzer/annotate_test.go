package analyzer

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"rbc-analyzer/pkg/geometry"

	"gocv.io/x/gocv"
)

func TestAnnotateSkipsDegenerateContours(t *testing.T) {
	src := gocv.Zeros(100, 100, gocv.MatTypeCV8UC3)
	defer src.Close()

	before := src.Clone()
	defer before.Close()

	region := GridRegion{ROI: geometry.NewRectInt(0, 0, 100, 100)}
	blobs := []Blob{
		{Contour: []image.Point{{X: 10, Y: 10}}},
		{Contour: []image.Point{{X: 15, Y: 15}, {X: 18, Y: 15}}},
		{Contour: []image.Point{{X: 40, Y: 40}, {X: 60, Y: 40}, {X: 60, Y: 60}, {X: 40, Y: 60}}},
	}

	out := Annotate(src, region, blobs, 3)
	defer out.Close()

	require.False(t, out.Empty())
	// The well-formed contour is still drawn: green channel lights up on
	// its top edge.
	require.Equal(t, uint8(255), out.GetUCharAt(40, 50*3+1))

	// The degenerate contours never abort or mutate the source.
	wantBytes, err := before.DataPtrUint8()
	require.NoError(t, err)
	gotBytes, err := src.DataPtrUint8()
	require.NoError(t, err)
	require.Equal(t, wantBytes, gotBytes)
}

func TestAnnotateDegeneratesToPlainCopy(t *testing.T) {
	src := gocv.Zeros(80, 80, gocv.MatTypeCV8UC3)
	defer src.Close()

	region := GridRegion{ROI: geometry.NewRectInt(0, 0, 80, 80)}

	// Only malformed contours: the output must match an annotation pass
	// with no blobs at all.
	degenerate := Annotate(src, region, []Blob{{Contour: []image.Point{{X: 5, Y: 5}}}}, 1)
	defer degenerate.Close()
	none := Annotate(src, region, nil, 1)
	defer none.Close()

	wantBytes, err := none.DataPtrUint8()
	require.NoError(t, err)
	gotBytes, err := degenerate.DataPtrUint8()
	require.NoError(t, err)
	require.Equal(t, wantBytes, gotBytes)
}
