package offer

import (
	"context"
	"time"

	"github.com/campusforge/placements/modules/placement/domain/normalize"
)

// Offer is one placement fact: a company's offer to a student. Uniqueness
// is (roll_no, lower(company_name)); a second offer from the same company
// merges into the first.
type Offer struct {
	ID          int64
	RollNo      string
	CompanyName string
	CtcLPA      float64
	OfferType   string
	Role        *string
	Source      string
	OfferDate   *time.Time
}

// CampusSourced reports whether the offer came through a campus channel as
// opposed to the KHUB mentorship network.
func CampusSourced(source string) bool {
	switch source {
	case normalize.SourceOnCampus, normalize.SourceOffCampus, normalize.SourcePool:
		return true
	}
	return false
}

// Merge resolves a conflicting upsert of the same (student, company) pair:
// compensation keeps the maximum, the channel keeps an already-set campus
// source over a mentorship one, and the remaining fields fill only if
// previously missing.
func Merge(existing, incoming Offer) Offer {
	out := existing
	if incoming.CtcLPA > out.CtcLPA {
		out.CtcLPA = incoming.CtcLPA
	}
	if out.OfferType == "" {
		out.OfferType = incoming.OfferType
	}
	if out.Role == nil {
		out.Role = incoming.Role
	}
	if !CampusSourced(out.Source) {
		out.Source = incoming.Source
	}
	if out.OfferDate == nil {
		out.OfferDate = incoming.OfferDate
	}
	return out
}

type Repository interface {
	Upsert(ctx context.Context, o Offer) error
	ListByRollNo(ctx context.Context, rollNo string) ([]Offer, error)
	// DeleteByYear removes offers for a passout year; source narrows the
	// delete to campus-only or KHUB-only when non-empty.
	DeleteByYear(ctx context.Context, year int, source string) (int64, error)
}

// Source filters accepted by Repository.DeleteByYear.
const (
	DeleteAll        = ""
	DeleteCampusOnly = "campus"
	DeleteKhubOnly   = "khub"
)
