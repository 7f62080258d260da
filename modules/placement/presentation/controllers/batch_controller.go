package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/campusforge/placements/modules/placement/domain/intake"
	"github.com/campusforge/placements/modules/placement/services"
	"github.com/campusforge/placements/pkg/application"
	"github.com/campusforge/placements/pkg/composables"
	"github.com/campusforge/placements/pkg/configuration"
	"github.com/campusforge/placements/pkg/httpapi"
	"github.com/campusforge/placements/pkg/middleware"
)

type BatchController struct {
	app       application.Application
	batches   *services.BatchService
	jwtSecret string
	basePath  string
}

func NewBatchController(app application.Application) application.Controller {
	return &BatchController{
		app:       app,
		batches:   app.Service(services.BatchService{}).(*services.BatchService),
		jwtSecret: configuration.Use().Auth.JWTSecret,
		basePath:  "/api/batches",
	}
}

func (c *BatchController) Key() string {
	return c.basePath
}

func (c *BatchController) Register(r *mux.Router) {
	// the year list backs public dashboard filters
	r.HandleFunc(c.basePath+"/years", c.Years).Methods(http.MethodGet)

	api := r.PathPrefix(c.basePath).Subrouter()
	api.Use(middleware.Authenticate(c.jwtSecret))
	api.HandleFunc("", c.List).Methods(http.MethodGet)
	api.HandleFunc("", middleware.RequireAdmin(c.Create)).Methods(http.MethodPost)
	api.HandleFunc("/{id:[0-9]+}", middleware.RequireAdmin(c.Update)).Methods(http.MethodPut)
	api.HandleFunc("/{id:[0-9]+}", middleware.RequireAdmin(c.Delete)).Methods(http.MethodDelete)
	api.HandleFunc("/year/{year:[0-9]+}", middleware.RequireAdmin(c.PurgeYear)).Methods(http.MethodDelete)
}

type intakeEntryDTO struct {
	ID            int64  `json:"id"`
	College       string `json:"college"`
	Branch        string `json:"branch"`
	TotalStudents int    `json:"total_students"`
}

type yearSummaryDTO struct {
	PassoutYear        int              `json:"passout_year"`
	IntakeData         []intakeEntryDTO `json:"intake_data"`
	TotalIntake        int64            `json:"total_intake"`
	RegisteredStudents int64            `json:"registered_students"`
	PlacedStudents     int64            `json:"placed_students"`
	FmmlCount          int64            `json:"fmml_count"`
	KhubCount          int64            `json:"khub_count"`
}

func (c *BatchController) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := c.batches.Summaries(r.Context())
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("list batches failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		return
	}

	out := make([]yearSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		dto := yearSummaryDTO{
			PassoutYear:        s.PassoutYear,
			IntakeData:         make([]intakeEntryDTO, 0, len(s.Entries)),
			TotalIntake:        s.TotalIntake,
			RegisteredStudents: s.RegisteredStudents,
			PlacedStudents:     s.PlacedStudents,
			FmmlCount:          s.FmmlCount,
			KhubCount:          s.KhubCount,
		}
		for _, e := range s.Entries {
			dto.IntakeData = append(dto.IntakeData, intakeEntryDTO{
				ID: e.ID, College: e.College, Branch: e.Branch, TotalStudents: e.TotalStudents,
			})
		}
		out = append(out, dto)
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *BatchController) Years(w http.ResponseWriter, r *http.Request) {
	years, err := c.batches.Years(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		return
	}
	if years == nil {
		years = []int{}
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, years)
}

type createBatchDTO struct {
	PassoutYear int `json:"passout_year"`
	Entries     []struct {
		College       string `json:"college"`
		Branch        string `json:"branch"`
		TotalStudents int    `json:"total_students"`
	} `json:"entries"`
}

func (c *BatchController) Create(w http.ResponseWriter, r *http.Request) {
	var dto createBatchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil || dto.PassoutYear <= 0 || len(dto.Entries) == 0 {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BATCH_BAD_REQUEST", "passout_year and entries[] are required", nil)
		return
	}

	entries := make([]intake.Entry, 0, len(dto.Entries))
	for _, e := range dto.Entries {
		entries = append(entries, intake.Entry{
			College:       e.College,
			Branch:        e.Branch,
			TotalStudents: e.TotalStudents,
		})
	}
	saved, err := c.batches.SaveEntries(r.Context(), dto.PassoutYear, entries)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("save intake entries failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		return
	}

	out := make([]intakeEntryDTO, 0, len(saved))
	for _, e := range saved {
		out = append(out, intakeEntryDTO{ID: e.ID, College: e.College, Branch: e.Branch, TotalStudents: e.TotalStudents})
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": strconv.Itoa(len(out)) + " intake entries saved",
		"data":    out,
	})
}

func (c *BatchController) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var dto struct {
		TotalStudents int `json:"total_students"`
	}
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil || dto.TotalStudents <= 0 {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BATCH_BAD_REQUEST", "total_students must be > 0", nil)
		return
	}

	entry, err := c.batches.UpdateEntry(r.Context(), id, dto.TotalStudents)
	if err != nil {
		if errors.Is(err, intake.ErrNotFound) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "INTAKE_NOT_FOUND", "intake entry not found", nil)
			return
		}
		composables.UseLogger(r.Context()).WithError(err).Error("update intake entry failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, intakeEntryDTO{
		ID: entry.ID, College: entry.College, Branch: entry.Branch, TotalStudents: entry.TotalStudents,
	})
}

func (c *BatchController) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err := c.batches.DeleteEntry(r.Context(), id); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("delete intake entry failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

func (c *BatchController) PurgeYear(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(mux.Vars(r)["year"])
	if err := c.batches.PurgeYear(r.Context(), year); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("purge year failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "All data for batch " + strconv.Itoa(year) + " deleted",
	})
}
