// Package resultdb persists analysis runs and their annotated images.
package resultdb

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"rbc-analyzer/internal/analyzer"

	"gocv.io/x/gocv"
)

// Record is one stored analysis run.
type Record struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	Filename       string    `json:"filename"`       // Path of the stored annotated image
	RawCount       int       `json:"raw_count"`      // Blobs counted inside the ROI
	PerUL          int       `json:"rbc_per_uL"`     // Estimated concentration, cells/uL
	Interpretation string    `json:"interpretation"` // e.g. "LOW RBC COUNT (Anemia)"
	CreatedAt      time.Time `json:"created_at"`
}

// DB stores analysis records in sqlite and annotated PNGs in a store
// directory alongside it.
type DB struct {
	log      zerolog.Logger
	db       *gorm.DB
	storeDir string
}

// Open creates or opens the result database and ensures the image store
// directory exists.
func Open(log zerolog.Logger, dbPath, storeDir string) (*DB, error) {
	if err := os.MkdirAll(storeDir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir %s: %w", storeDir, err)
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir %s: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open result db %s: %w", dbPath, err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate result db: %w", err)
	}

	log.Info().Str("db", dbPath).Str("store", storeDir).Msg("result db open")
	return &DB{log: log, db: db, storeDir: storeDir}, nil
}

// Add saves an analysis result: the annotated image goes to the store
// directory under a timestamped name and the numbers go to sqlite.
// The record is returned with its assigned ID and image path.
func (d *DB) Add(result *analyzer.Result, sourceName string) (*Record, error) {
	now := time.Now()
	base := "result"
	if sourceName != "" {
		base = stripExt(filepath.Base(sourceName))
	}
	imgPath := filepath.Join(d.storeDir, fmt.Sprintf("%s_%s.png", base, now.Format("20060102_150405")))

	if !result.Annotated.Empty() {
		if ok := gocv.IMWrite(imgPath, result.Annotated); !ok {
			// Losing the audit image is not fatal; the numeric record
			// still gets stored.
			d.log.Warn().Str("path", imgPath).Msg("failed to write annotated image")
			imgPath = ""
		}
	} else {
		imgPath = ""
	}

	rec := &Record{
		Filename:       imgPath,
		RawCount:       result.RawCount,
		PerUL:          result.PerUL,
		Interpretation: result.Interpretation.String(),
		CreatedAt:      now,
	}
	if err := d.db.Create(rec).Error; err != nil {
		return nil, fmt.Errorf("store record: %w", err)
	}

	d.log.Info().
		Int64("id", rec.ID).
		Int("raw_count", rec.RawCount).
		Int("per_uL", rec.PerUL).
		Str("interpretation", rec.Interpretation).
		Msg("analysis stored")
	return rec, nil
}

// Get fetches one record by ID.
func (d *DB) Get(id int64) (*Record, error) {
	rec := &Record{}
	if err := d.db.First(rec, id).Error; err != nil {
		return nil, fmt.Errorf("fetch record %d: %w", id, err)
	}
	return rec, nil
}

// Recent returns up to n records, newest first.
func (d *DB) Recent(n int) ([]Record, error) {
	var recs []Record
	if err := d.db.Order("id DESC").Limit(n).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return recs, nil
}

func stripExt(name string) string {
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)]
}
