package analyzer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ErrDecode indicates an unreadable or corrupt image. It is the only
// hard failure the loading stage produces; callers test for it with
// errors.Is to distinguish bad input from internal faults.
var ErrDecode = errors.New("cannot decode image")

// LoadMat reads an image file into a BGR Mat. The caller owns the
// returned Mat and must Close it.
func LoadMat(path string) (gocv.Mat, error) {
	if _, err := os.Stat(path); err != nil {
		return gocv.NewMat(), fmt.Errorf("open %s: %w", path, err)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		// OpenCV could not handle the file; retry through the pure-Go
		// decoders, which cover a few extra TIFF/BMP variants.
		mat.Close()
		return loadMatFallback(path)
	}
	return mat, nil
}

// DecodeMat decodes in-memory image bytes (e.g. an HTTP upload) into a
// BGR Mat. The caller owns the returned Mat and must Close it.
func DecodeMat(data []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	mat.Close()

	img, _, derr := image.Decode(bytes.NewReader(data))
	if derr != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", ErrDecode, derr)
	}
	return imageToMat(img), nil
}

// Grayscale returns the single-channel derivative of a BGR Mat.
func Grayscale(src gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	return gray
}

func loadMatFallback(path string) (gocv.Mat, error) {
	f, err := os.Open(path)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return imageToMat(img), nil
}

// imageToMat converts a Go image.Image to a BGR Mat.
func imageToMat(img image.Image) gocv.Mat {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}
	return mat
}

// SupportedFormats returns the list of accepted image file extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif", ".bmp"}
}

// IsSupportedFormat checks if the given path has a supported extension.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
