package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/campusforge/placements/modules/placement/services"
	"github.com/campusforge/placements/pkg/application"
	"github.com/campusforge/placements/pkg/composables"
	"github.com/campusforge/placements/pkg/httpapi"
)

// AnalyticsController serves the public dashboard reads. Denominators come
// from the admin-maintained intake, so empty years render as null rates
// rather than zero.
type AnalyticsController struct {
	app       application.Application
	analytics *services.AnalyticsService
	basePath  string
}

func NewAnalyticsController(app application.Application) application.Controller {
	return &AnalyticsController{
		app:       app,
		analytics: app.Service(services.AnalyticsService{}).(*services.AnalyticsService),
		basePath:  "/api/analytics",
	}
}

func (c *AnalyticsController) Key() string {
	return c.basePath
}

func (c *AnalyticsController) Register(r *mux.Router) {
	api := r.PathPrefix(c.basePath).Subrouter()
	api.HandleFunc("/overview", c.Overview).Methods(http.MethodGet)
	api.HandleFunc("/placement-rate", c.PlacementRate).Methods(http.MethodGet)
	api.HandleFunc("/branch-summary", c.BranchSummary).Methods(http.MethodGet)
	api.HandleFunc("/company-summary", c.CompanySummary).Methods(http.MethodGet)
	api.HandleFunc("/ctc-bands", c.CtcBands).Methods(http.MethodGet)
	api.HandleFunc("/refresh", c.Refresh).Methods(http.MethodGet)
}

func (c *AnalyticsController) internal(w http.ResponseWriter, r *http.Request, what string, err error) {
	composables.UseLogger(r.Context()).WithError(err).Error(what + " failed")
	_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
}

type overviewDTO struct {
	TotalStudents    int64    `json:"total_students"`
	PlacedStudents   int64    `json:"placed_students"`
	TotalPlacedAll   int64    `json:"total_placed_all"`
	PlacementPct     *float64 `json:"placement_pct"`
	TotalOffers      int64    `json:"total_offers"`
	MaxCtc           *float64 `json:"max_ctc"`
	TotalFmml        int64    `json:"total_fmml"`
	FmmlPlaced       int64    `json:"fmml_placed"`
	FmmlPct          *float64 `json:"fmml_pct"`
	TotalKhub        int64    `json:"total_khub"`
	KhubPlaced       int64    `json:"khub_placed"`
	KhubMaxCtc       *float64 `json:"khub_max_ctc"`
	CompaniesVisited int64    `json:"companies_visited"`
}

func (c *AnalyticsController) Overview(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(r.URL.Query().Get("passout_year"))
	o, err := c.analytics.Overview(r.Context(), year)
	if err != nil {
		c.internal(w, r, "analytics overview", err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, overviewDTO{
		TotalStudents:    o.TotalStudents,
		PlacedStudents:   o.PlacedStudents,
		TotalPlacedAll:   o.TotalPlacedAll,
		PlacementPct:     o.PlacementPct,
		TotalOffers:      o.TotalOffers,
		MaxCtc:           o.MaxCtc,
		TotalFmml:        o.TotalFmml,
		FmmlPlaced:       o.FmmlPlaced,
		FmmlPct:          o.FmmlPct,
		TotalKhub:        o.TotalKhub,
		KhubPlaced:       o.KhubPlaced,
		KhubMaxCtc:       o.KhubMaxCtc,
		CompaniesVisited: o.CompaniesVisited,
	})
}

type placementRateDTO struct {
	PassoutYear      int      `json:"passout_year"`
	TotalStudents    int64    `json:"total_students"`
	PlacedStudents   int64    `json:"placed_students"`
	PlacementRatePct *float64 `json:"placement_rate_pct"`
	AvgCtc           *float64 `json:"avg_ctc"`
	MaxCtc           *float64 `json:"max_ctc"`
	ITPlaced         int64    `json:"it_placed"`
	NonITPlaced      int64    `json:"non_it_placed"`
}

func (c *AnalyticsController) PlacementRate(w http.ResponseWriter, r *http.Request) {
	rates, err := c.analytics.PlacementRate(r.Context())
	if err != nil {
		c.internal(w, r, "placement rate", err)
		return
	}
	out := make([]placementRateDTO, 0, len(rates))
	for _, p := range rates {
		out = append(out, placementRateDTO{
			PassoutYear:      p.PassoutYear,
			TotalStudents:    p.TotalStudents,
			PlacedStudents:   p.PlacedStudents,
			PlacementRatePct: p.RatePct,
			AvgCtc:           p.AvgCtc,
			MaxCtc:           p.MaxCtc,
			ITPlaced:         p.ITPlaced,
			NonITPlaced:      p.NonITPlaced,
		})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

type branchSummaryDTO struct {
	Branch         string   `json:"branch"`
	TotalStudents  int64    `json:"total_students"`
	PlacedStudents int64    `json:"placed_students"`
	PlacementRate  *float64 `json:"placement_rate"`
	FmmlPlaced     int64    `json:"fmml_placed"`
	KhubStudents   int64    `json:"khub_students"`
	MaxCtc         *float64 `json:"max_ctc"`
}

func (c *AnalyticsController) BranchSummary(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(r.URL.Query().Get("passout_year"))
	rows, err := c.analytics.BranchSummaries(r.Context(), year)
	if err != nil {
		c.internal(w, r, "branch summary", err)
		return
	}
	out := make([]branchSummaryDTO, 0, len(rows))
	for _, b := range rows {
		out = append(out, branchSummaryDTO{
			Branch:         b.Branch,
			TotalStudents:  b.TotalStudents,
			PlacedStudents: b.PlacedStudents,
			PlacementRate:  b.PlacementRate,
			FmmlPlaced:     b.FmmlPlaced,
			KhubStudents:   b.KhubStudents,
			MaxCtc:         b.MaxCtc,
		})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

type companySummaryDTO struct {
	CompanyName    string   `json:"company_name"`
	OfferType      string   `json:"offer_type"`
	TotalOffers    int64    `json:"total_offers"`
	UniqueStudents int64    `json:"unique_students"`
	MaxCtc         *float64 `json:"max_ctc"`
	FmmlStudents   int64    `json:"fmml_students"`
	KhubStudents   int64    `json:"khub_students"`
}

func (c *AnalyticsController) CompanySummary(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := c.analytics.CompanySummaries(r.Context(), limit)
	if err != nil {
		c.internal(w, r, "company summary", err)
		return
	}
	out := make([]companySummaryDTO, 0, len(rows))
	for _, cs := range rows {
		out = append(out, companySummaryDTO{
			CompanyName:    cs.CompanyName,
			OfferType:      cs.OfferType,
			TotalOffers:    cs.TotalOffers,
			UniqueStudents: cs.UniqueStudents,
			MaxCtc:         cs.MaxCtc,
			FmmlStudents:   cs.FmmlStudents,
			KhubStudents:   cs.KhubStudents,
		})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

type ctcBandDTO struct {
	SalaryBand   string `json:"salary_band"`
	OfferCount   int64  `json:"offer_count"`
	StudentCount int64  `json:"student_count"`
}

func (c *AnalyticsController) CtcBands(w http.ResponseWriter, r *http.Request) {
	bands, err := c.analytics.CtcBands(r.Context())
	if err != nil {
		c.internal(w, r, "ctc bands", err)
		return
	}
	out := make([]ctcBandDTO, 0, len(bands))
	for _, b := range bands {
		out = append(out, ctcBandDTO{SalaryBand: b.Band, OfferCount: b.OfferCount, StudentCount: b.StudentCount})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *AnalyticsController) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := c.analytics.Refresh(r.Context()); err != nil {
		c.internal(w, r, "analytics refresh", err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{"message": "Materialized views refreshed"})
}
