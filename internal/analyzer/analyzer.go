package analyzer

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Analyzer runs the counting pipeline with one immutable parameter set.
// It holds no per-run state, so a single Analyzer may serve concurrent
// invocations as long as each call gets its own Mat.
type Analyzer struct {
	params Params
}

// New creates an Analyzer, rejecting invalid configuration up front.
func New(params Params) (*Analyzer, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("analyzer config: %w", err)
	}
	return &Analyzer{params: params}, nil
}

// Params returns the analyzer's configuration.
func (a *Analyzer) Params() Params {
	return a.params
}

// AnalyzeFile loads an image from disk and analyzes it.
func (a *Analyzer) AnalyzeFile(path string) (*Result, error) {
	mat, err := LoadMat(path)
	if err != nil {
		return nil, err
	}
	defer mat.Close()
	return a.Analyze(mat)
}

// AnalyzeBytes decodes in-memory image bytes and analyzes them.
func (a *Analyzer) AnalyzeBytes(data []byte) (*Result, error) {
	mat, err := DecodeMat(data)
	if err != nil {
		return nil, err
	}
	defer mat.Close()
	return a.Analyze(mat)
}

// Analyze runs the full pipeline on a decoded BGR image: locate the
// counting grid, segment cells inside it, filter blobs by area, estimate
// concentration, and produce an annotated copy. The input Mat is read
// only; the caller keeps ownership of it and must Close the Result.
func (a *Analyzer) Analyze(src gocv.Mat) (*Result, error) {
	if src.Empty() {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}

	gray := Grayscale(src)
	defer gray.Close()

	region := LocateGrid(gray, a.params)

	roi := CropROI(gray, region.ROI)
	defer roi.Close()

	mask := Segment(roi, a.params)
	defer mask.Close()

	blobs := ExtractBlobs(mask, a.params)

	perUL, interp := Estimate(len(blobs), a.params)

	annotated := Annotate(src, region, blobs, len(blobs))

	return &Result{
		RawCount:       len(blobs),
		PerUL:          perUL,
		Interpretation: interp,
		ROI:            region.ROI,
		GridDetected:   region.Detected,
		Blobs:          blobs,
		Annotated:      annotated,
	}, nil
}
