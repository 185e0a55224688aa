// Command rbctest runs the counting pipeline on a chamber image and
// prints the results, optionally writing the annotated image.
package main

import (
	"flag"
	"fmt"
	"os"

	"rbc-analyzer/internal/analyzer"

	"gocv.io/x/gocv"
)

func main() {
	imagePath := flag.String("image", "", "Path to haemocytometer image (PNG, JPEG, TIFF, or BMP)")
	strategy := flag.String("strategy", "fixed", "Segmentation strategy: fixed or adaptive")
	minArea := flag.Float64("min-area", 50, "Minimum accepted blob area, px^2")
	maxArea := flag.Float64("max-area", 0, "Maximum accepted blob area, px^2 (0 disables)")
	outPath := flag.String("out", "", "Write annotated image to this path")
	screen := flag.Bool("screen", false, "Also run the Hough-circle morphology screen")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: rbctest -image <path> [-strategy fixed|adaptive] [-min-area 50] [-out annotated.png]")
		os.Exit(1)
	}

	strat, err := analyzer.ParseStrategy(*strategy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	params := analyzer.DefaultParams().
		WithStrategy(strat).
		WithAreaRange(*minArea, *maxArea)

	a, err := analyzer.New(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Analysis parameters:\n")
	fmt.Printf("  Strategy: %s\n", params.Strategy)
	fmt.Printf("  Blob area: > %.0f", params.MinBlobArea)
	if params.MaxBlobArea > 0 {
		fmt.Printf(", < %.0f", params.MaxBlobArea)
	}
	fmt.Printf(" px^2\n")
	fmt.Printf("  Dilution: 1:%.0f over %.2f uL (factor %d)\n",
		params.DilutionFactor, params.ChamberVolumeUL, int(params.DilutionFactor/params.ChamberVolumeUL))

	result, err := a.AnalyzeFile(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}
	defer result.Close()

	if result.GridDetected {
		fmt.Printf("\nGrid detected: ROI %dx%d at (%d, %d)\n",
			result.ROI.Width, result.ROI.Height, result.ROI.X, result.ROI.Y)
	} else {
		fmt.Printf("\nNo grid detected; analyzed full frame %dx%d\n", result.ROI.Width, result.ROI.Height)
	}

	fmt.Printf("Raw RBC count (in ROI): %d\n", result.RawCount)
	fmt.Printf("Estimated RBC count:    %d cells/uL\n", result.PerUL)
	fmt.Printf("Interpretation:         %s\n", result.Interpretation)

	if *outPath != "" {
		if ok := gocv.IMWrite(*outPath, result.Annotated); !ok {
			fmt.Fprintf(os.Stderr, "Failed to write annotated image to %s\n", *outPath)
			os.Exit(1)
		}
		fmt.Printf("Annotated image written to %s\n", *outPath)
	}

	if *screen {
		runScreen(*imagePath)
	}
}

func runScreen(path string) {
	mat, err := analyzer.LoadMat(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Screen failed: %v\n", err)
		os.Exit(1)
	}
	defer mat.Close()

	sr, err := analyzer.Screen(mat, analyzer.DefaultScreenParams())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Screen failed: %v\n", err)
		os.Exit(1)
	}
	defer sr.Close()

	fmt.Printf("\nMorphology screen (Hough circles):\n")
	fmt.Printf("  Cells found:   %d\n", sr.CellCount)
	fmt.Printf("  Abnormal size: %d\n", sr.AbnormalCount)
	fmt.Printf("  WBC estimate:  %d\n", sr.WBCEstimate)
	fmt.Printf("  Radius:        %.1f +/- %.1f px\n", sr.MeanRadius, sr.StdDevRadius)
}
