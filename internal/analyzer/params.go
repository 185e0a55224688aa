package analyzer

import "fmt"

// Strategy selects how the grayscale region of interest is segmented
// into a binary cell mask.
type Strategy int

const (
	// StrategyFixed applies a median blur and a fixed global threshold.
	// Appropriate after grid detection, where background illumination
	// inside the counting region is roughly uniform.
	StrategyFixed Strategy = iota
	// StrategyAdaptive applies a local mean threshold followed by a
	// morphological opening. More robust to uneven lighting, used when
	// no grid or uniform background can be assumed.
	StrategyAdaptive
)

func (s Strategy) String() string {
	switch s {
	case StrategyFixed:
		return "fixed"
	case StrategyAdaptive:
		return "adaptive"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a config string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "fixed":
		return StrategyFixed, nil
	case "adaptive":
		return StrategyAdaptive, nil
	default:
		return StrategyFixed, fmt.Errorf("unknown segmentation strategy %q", s)
	}
}

// Params configures one analyzer instance. The struct is copied at
// construction and never mutated during a run, so distinct analyzers can
// carry distinct threshold sets without shared state.
type Params struct {
	Strategy Strategy

	// Grid detection
	BlurKernel    int     // Gaussian blur kernel before edge detection
	CannyLow      float32 // Lower hysteresis threshold
	CannyHigh     float32 // Upper hysteresis threshold
	HoughThresh   int     // Accumulator votes for a line
	HoughMinLen   float32 // Minimum line segment length, pixels
	HoughMaxGap   float32 // Maximum gap between collinear segments
	GridLineWidth int     // Stroke width when rasterizing detected lines

	// Fixed-threshold segmentation
	MedianKernel int     // Median blur kernel size
	FixedThresh  float32 // Global threshold, inverted polarity

	// Adaptive segmentation
	AdaptiveBlock  int     // Local mean block size (odd)
	AdaptiveC      float32 // Offset subtracted from the local mean
	OpenKernel     int     // Structuring element size for opening
	OpenIterations int     // Opening iterations

	// Blob filtering
	MinBlobArea float64 // Accept blobs strictly larger than this
	MaxBlobArea float64 // Accept blobs strictly smaller than this; 0 disables

	// Concentration formula and reference range
	DilutionFactor  float64 // Sample dilution before chamber loading
	ChamberVolumeUL float64 // Counted chamber volume in microliters
	LowThreshold    int     // cells/uL below which the result is LOW
	HighThreshold   int     // cells/uL above which the result is HIGH
}

// DefaultParams returns parameters matching the reference haemocytometer
// protocol: 1:200 dilution counted over a 0.1 uL chamber, with the adult
// reference range of 4.0-6.0 million cells/uL.
func DefaultParams() Params {
	return Params{
		Strategy: StrategyFixed,

		BlurKernel:    5,
		CannyLow:      50,
		CannyHigh:     150,
		HoughThresh:   100,
		HoughMinLen:   50,
		HoughMaxGap:   5,
		GridLineWidth: 2,

		MedianKernel: 5,
		FixedThresh:  127,

		AdaptiveBlock:  35,
		AdaptiveC:      5,
		OpenKernel:     3,
		OpenIterations: 2,

		MinBlobArea: 50,
		MaxBlobArea: 0,

		DilutionFactor:  200,
		ChamberVolumeUL: 0.1,
		LowThreshold:    4_000_000,
		HighThreshold:   6_000_000,
	}
}

// WithStrategy returns a copy of params with the given segmentation strategy.
func (p Params) WithStrategy(s Strategy) Params {
	p.Strategy = s
	return p
}

// WithAreaRange returns a copy of params with custom blob area bounds.
func (p Params) WithAreaRange(minArea, maxArea float64) Params {
	p.MinBlobArea = minArea
	p.MaxBlobArea = maxArea
	return p
}

// Validate reports the first configuration error, if any. Invalid
// configuration is a hard error: the pipeline refuses to run rather than
// silently producing a zero count.
func (p Params) Validate() error {
	if p.Strategy != StrategyFixed && p.Strategy != StrategyAdaptive {
		return fmt.Errorf("invalid segmentation strategy %d", int(p.Strategy))
	}
	if p.MinBlobArea < 0 {
		return fmt.Errorf("negative minimum blob area %v", p.MinBlobArea)
	}
	if p.MaxBlobArea < 0 {
		return fmt.Errorf("negative maximum blob area %v", p.MaxBlobArea)
	}
	if p.MaxBlobArea > 0 && p.MaxBlobArea <= p.MinBlobArea {
		return fmt.Errorf("maximum blob area %v must exceed minimum %v", p.MaxBlobArea, p.MinBlobArea)
	}
	if p.DilutionFactor <= 0 {
		return fmt.Errorf("dilution factor must be positive, got %v", p.DilutionFactor)
	}
	if p.ChamberVolumeUL <= 0 {
		return fmt.Errorf("chamber volume must be positive, got %v", p.ChamberVolumeUL)
	}
	if p.LowThreshold < 0 || p.HighThreshold < p.LowThreshold {
		return fmt.Errorf("invalid reference range [%d, %d]", p.LowThreshold, p.HighThreshold)
	}
	if p.BlurKernel < 1 || p.BlurKernel%2 == 0 {
		return fmt.Errorf("blur kernel must be odd and positive, got %d", p.BlurKernel)
	}
	if p.MedianKernel < 1 || p.MedianKernel%2 == 0 {
		return fmt.Errorf("median kernel must be odd and positive, got %d", p.MedianKernel)
	}
	if p.AdaptiveBlock < 3 || p.AdaptiveBlock%2 == 0 {
		return fmt.Errorf("adaptive block size must be odd and >= 3, got %d", p.AdaptiveBlock)
	}
	return nil
}
