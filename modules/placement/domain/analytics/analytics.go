// Package analytics defines the read models served by the dashboard
// endpoints. All rates use the admin-maintained intake as denominator;
// percentage fields are nil when the denominator is zero.
package analytics

import "context"

type Overview struct {
	TotalStudents    int64
	PlacedStudents   int64
	TotalPlacedAll   int64
	PlacementPct     *float64
	TotalOffers      int64
	MaxCtc           *float64
	TotalFmml        int64
	FmmlPlaced       int64
	FmmlPct          *float64
	TotalKhub        int64
	KhubPlaced       int64
	KhubMaxCtc       *float64
	CompaniesVisited int64
}

type PlacementRate struct {
	PassoutYear    int
	TotalStudents  int64
	PlacedStudents int64
	RatePct        *float64
	AvgCtc         *float64
	MaxCtc         *float64
	ITPlaced       int64
	NonITPlaced    int64
}

type BranchSummary struct {
	Branch         string
	TotalStudents  int64
	PlacedStudents int64
	PlacementRate  *float64
	FmmlPlaced     int64
	KhubStudents   int64
	MaxCtc         *float64
}

type CompanySummary struct {
	CompanyName    string
	OfferType      string
	TotalOffers    int64
	UniqueStudents int64
	MaxCtc         *float64
	FmmlStudents   int64
	KhubStudents   int64
}

type CtcBand struct {
	Band         string
	OfferCount   int64
	StudentCount int64
}

type Repository interface {
	// Overview aggregates the headline numbers; passoutYear 0 means all
	// years.
	Overview(ctx context.Context, passoutYear int) (Overview, error)
	PlacementRate(ctx context.Context) ([]PlacementRate, error)
	BranchSummaries(ctx context.Context, passoutYear int) ([]BranchSummary, error)
	CompanySummaries(ctx context.Context, limit int) ([]CompanySummary, error)
	CtcBands(ctx context.Context) ([]CtcBand, error)
	// Refresh re-materializes the dashboard views.
	Refresh(ctx context.Context) error
}
