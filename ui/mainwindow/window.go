// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"rbc-analyzer/internal/analyzer"
	"rbc-analyzer/ui/prefs"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// MainWindow is the primary application window: pick a chamber image,
// run the analyzer, inspect the annotated result.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	prefs *prefs.Prefs

	params analyzer.Params

	imageView   *fynecanvas.Image
	resultLabel *widget.Label
	statusBar   *widget.Label
	strategySel *widget.Select
}

// New creates a new main window.
func New(fyneApp fyne.App, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Haemocytometer RBC Analyzer")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		prefs:  p,
		params: analyzer.DefaultParams(),
	}

	if s, err := analyzer.ParseStrategy(p.Strategy); err == nil {
		mw.params = mw.params.WithStrategy(s)
	}

	mw.setupUI()
	win.Resize(fyne.NewSize(800, 600))
	return mw
}

func (mw *MainWindow) setupUI() {
	mw.imageView = &fynecanvas.Image{FillMode: fynecanvas.ImageFillContain}
	mw.imageView.SetMinSize(fyne.NewSize(400, 400))

	mw.resultLabel = widget.NewLabel("Open a haemocytometer image to begin.")
	mw.statusBar = widget.NewLabel("Ready")

	openBtn := widget.NewButton("Open Image...", mw.onOpenImage)

	mw.strategySel = widget.NewSelect([]string{"fixed", "adaptive"}, func(choice string) {
		if s, err := analyzer.ParseStrategy(choice); err == nil {
			mw.params = mw.params.WithStrategy(s)
			mw.prefs.Strategy = choice
			_ = mw.prefs.Save()
		}
	})
	mw.strategySel.SetSelected(mw.params.Strategy.String())

	controls := container.NewHBox(
		openBtn,
		widget.NewLabel("Segmentation:"),
		mw.strategySel,
	)

	content := container.NewBorder(
		container.NewVBox(controls, mw.resultLabel), // top
		container.NewPadded(mw.statusBar),           // bottom
		nil,
		nil,
		mw.imageView,
	)
	mw.SetContent(content)
}

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()

		mw.prefs.LastDirectory = filepath.Dir(path)
		_ = mw.prefs.Save()

		mw.analyze(path)
	}, mw.Window)

	fd.SetFilter(storage.NewExtensionFileFilter(analyzer.SupportedFormats()))
	if last := mw.prefs.LastDirectory; last != "" {
		if lister, err := storage.ListerForURI(storage.NewFileURI(last)); err == nil {
			fd.SetLocation(lister)
		}
	}
	fd.Show()
}

func (mw *MainWindow) analyze(path string) {
	mw.statusBar.SetText("Analyzing " + filepath.Base(path) + "...")

	a, err := analyzer.New(mw.params)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		mw.statusBar.SetText("Ready")
		return
	}

	result, err := a.AnalyzeFile(path)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to process image: %w", err), mw.Window)
		mw.statusBar.SetText("Ready")
		return
	}
	defer result.Close()

	mw.resultLabel.SetText(fmt.Sprintf(
		"Raw RBC count (in ROI): %d\nEstimated RBC count: %d cells/uL\nInterpretation: %s",
		result.RawCount, result.PerUL, result.Interpretation))

	if img, err := result.Annotated.ToImage(); err == nil {
		mw.imageView.Image = img
		mw.imageView.Refresh()
	}

	grid := "no grid detected, analyzed full frame"
	if result.GridDetected {
		grid = fmt.Sprintf("grid ROI %dx%d at (%d, %d)",
			result.ROI.Width, result.ROI.Height, result.ROI.X, result.ROI.Y)
	}
	mw.statusBar.SetText("Done: " + grid)
}
