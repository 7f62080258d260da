// Package intake holds the admin-maintained headcount per (year, college,
// branch), the denominator for every placement-rate calculation.
package intake

import (
	"context"

	"github.com/campusforge/placements/pkg/serrors"
)

var ErrNotFound = serrors.NewError("INTAKE_NOT_FOUND", "intake entry not found")

type Entry struct {
	ID            int64
	PassoutYear   int
	College       string
	Branch        string
	TotalStudents int
}

// YearSummary aggregates one passout year's intake entries together with
// live counts from the fact tables.
type YearSummary struct {
	PassoutYear        int
	Entries            []Entry
	TotalIntake        int64
	RegisteredStudents int64
	PlacedStudents     int64
	FmmlCount          int64
	KhubCount          int64
}

type Repository interface {
	Upsert(ctx context.Context, e Entry) (Entry, error)
	UpdateTotal(ctx context.Context, id int64, total int) (Entry, error)
	Delete(ctx context.Context, id int64) error
	DeleteByYear(ctx context.Context, year int) (int64, error)
	Years(ctx context.Context) ([]int, error)
	Summaries(ctx context.Context) ([]YearSummary, error)
}
