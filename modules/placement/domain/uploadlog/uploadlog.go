// Package uploadlog records one audit row per (batch, sheet-type)
// ingestion attempt. Rows are immutable once written.
package uploadlog

import (
	"context"
	"time"
)

type SheetType string

const (
	SheetPlacements SheetType = "placements"
	SheetFmml       SheetType = "fmml"
	SheetKhub       SheetType = "khub"
)

type Record struct {
	ID             int64
	PassoutYear    int
	UploadType     SheetType
	FileName       string
	RecordsAdded   int
	RecordsSkipped int
	// Errors is the newline-joined list of per-row error messages, empty
	// when the sheet ingested cleanly.
	Errors     string
	UploadedBy int64
	UploadedAt time.Time
}

// HistoryRow is a Record joined with the uploader's identity.
type HistoryRow struct {
	Record
	Username       string
	UploadedByName string
}

type Repository interface {
	Insert(ctx context.Context, r Record) error
	History(ctx context.Context, passoutYear int) ([]HistoryRow, error)
	DeleteByYear(ctx context.Context, year int) (int64, error)
}
