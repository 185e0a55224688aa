// Package main provides the entry point for the RBC Analyzer desktop app.
package main

import (
	"os"

	"rbc-analyzer/internal/version"
	"rbc-analyzer/ui/mainwindow"
	"rbc-analyzer/ui/prefs"

	"fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"
)

const appTitle = "Haemocytometer RBC Analyzer"

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	log.Info().Str("version", version.String()).Msgf("starting %s", appTitle)

	fyneApp := app.New()
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, appPrefs)

	win.ShowAndRun()

	if err := appPrefs.Save(); err != nil {
		log.Warn().Err(err).Msg("failed to save preferences")
	}
}
