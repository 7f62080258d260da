// Package training models participation in the FMML training program.
package training

import (
	"context"
	"time"
)

// Participation is one student's enrollment in an FMML batch. Uniqueness is
// (roll_no, fmml_batch).
type Participation struct {
	ID             int64
	RollNo         string
	FmmlBatch      string
	Status         string
	ModuleName     *string
	Score          *float64
	CertificateID  *string
	CompletionDate *time.Time
}

// Merge resolves a re-upload of the same (student, batch): the status is
// always taken from the newer row, everything else fills missing values.
func Merge(existing, incoming Participation) Participation {
	out := existing
	out.Status = incoming.Status
	if incoming.ModuleName != nil {
		out.ModuleName = incoming.ModuleName
	}
	if incoming.Score != nil {
		out.Score = incoming.Score
	}
	if incoming.CertificateID != nil {
		out.CertificateID = incoming.CertificateID
	}
	if incoming.CompletionDate != nil {
		out.CompletionDate = incoming.CompletionDate
	}
	return out
}

type Repository interface {
	Upsert(ctx context.Context, p Participation) error
	ListByRollNo(ctx context.Context, rollNo string) ([]Participation, error)
	DeleteByYear(ctx context.Context, year int) (int64, error)
}
