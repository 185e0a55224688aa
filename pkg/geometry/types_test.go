package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRectIntIntersect(t *testing.T) {
	a := NewRectInt(0, 0, 100, 100)
	b := NewRectInt(50, 50, 100, 100)
	require.Equal(t, NewRectInt(50, 50, 50, 50), a.Intersect(b))

	// Disjoint rectangles intersect to the empty rect.
	c := NewRectInt(200, 200, 10, 10)
	require.True(t, a.Intersect(c).Empty())
}

func TestRectIntContains(t *testing.T) {
	r := NewRectInt(10, 10, 20, 20)
	require.True(t, r.Contains(PointInt{X: 10, Y: 10}))
	require.True(t, r.Contains(PointInt{X: 29, Y: 29}))
	require.False(t, r.Contains(PointInt{X: 30, Y: 30}))
	require.False(t, r.Contains(PointInt{X: 9, Y: 15}))
}

func TestTranslateContour(t *testing.T) {
	contour := []image.Point{{X: 0, Y: 0}, {X: 5, Y: 3}, {X: 2, Y: 7}}
	shifted := TranslateContour(contour, PointInt{X: 40, Y: 60})

	require.Equal(t, []image.Point{{X: 40, Y: 60}, {X: 45, Y: 63}, {X: 42, Y: 67}}, shifted)

	// The input contour is left untouched.
	require.Equal(t, image.Point{X: 0, Y: 0}, contour[0])
}

func TestBoundingBoxInt(t *testing.T) {
	pts := []image.Point{{X: 3, Y: 9}, {X: 12, Y: 4}, {X: 7, Y: 15}}
	box := BoundingBoxInt(pts)
	require.Equal(t, NewRectInt(3, 4, 10, 12), box)

	require.True(t, BoundingBoxInt(nil).Empty())
}

func TestRoundTripImageRect(t *testing.T) {
	r := NewRectInt(4, 8, 15, 16)
	require.Equal(t, r, FromImageRect(r.ToImageRect()))
}
