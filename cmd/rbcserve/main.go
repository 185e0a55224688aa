// Command rbcserve runs the HTTP analysis service: upload a chamber
// image, get the estimated concentration back as JSON.
package main

import (
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/rs/zerolog"

	"rbc-analyzer/internal/analyzer"
	"rbc-analyzer/internal/resultdb"
	"rbc-analyzer/internal/server"
	"rbc-analyzer/internal/version"
)

func main() {
	parser := argparse.NewParser("rbcserve", "Haemocytometer RBC analysis service")
	port := parser.String("p", "port", &argparse.Options{Help: "Listen port", Default: "8080"})
	dbPath := parser.String("", "db", &argparse.Options{Help: "Result database file", Default: "rbc_results.sqlite"})
	storeDir := parser.String("", "store", &argparse.Options{Help: "Directory for annotated result images", Default: "stored_patterns"})
	strategy := parser.String("s", "strategy", &argparse.Options{Help: "Segmentation strategy: fixed or adaptive", Default: "fixed"})
	minArea := parser.Float("", "min-area", &argparse.Options{Help: "Minimum accepted blob area, px^2", Default: 50.0})
	maxArea := parser.Float("", "max-area", &argparse.Options{Help: "Maximum accepted blob area, px^2 (0 disables)", Default: 0.0})
	noStore := parser.Flag("", "no-store", &argparse.Options{Help: "Disable result persistence", Default: false})
	verbose := parser.Flag("v", "verbose", &argparse.Options{Help: "Debug logging", Default: false})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	log.Info().Str("version", version.String()).Msg("starting rbcserve")

	strat, err := analyzer.ParseStrategy(*strategy)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid strategy")
	}

	params := analyzer.DefaultParams().
		WithStrategy(strat).
		WithAreaRange(*minArea, *maxArea)
	a, err := analyzer.New(params)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid analyzer configuration")
	}

	var db *resultdb.DB
	if !*noStore {
		db, err = resultdb.Open(log, *dbPath, *storeDir)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open result store")
		}
	}

	srv := server.New(log, a, db)
	if err := srv.ListenAndServe(":" + *port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
