package controllers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/campusforge/placements/modules/placement/services"
	"github.com/campusforge/placements/pkg/application"
	"github.com/campusforge/placements/pkg/composables"
	"github.com/campusforge/placements/pkg/configuration"
	"github.com/campusforge/placements/pkg/httpapi"
	"github.com/campusforge/placements/pkg/middleware"
)

type UploadController struct {
	app           application.Application
	ingest        *services.IngestService
	maxUploadSize int64
	jwtSecret     string
	basePath      string
}

func NewUploadController(app application.Application) application.Controller {
	conf := configuration.Use()
	return &UploadController{
		app:           app,
		ingest:        app.Service(services.IngestService{}).(*services.IngestService),
		maxUploadSize: conf.MaxUploadSize,
		jwtSecret:     conf.Auth.JWTSecret,
		basePath:      "/api/upload",
	}
}

func (c *UploadController) Key() string {
	return c.basePath
}

func (c *UploadController) Register(r *mux.Router) {
	// template download is unauthenticated
	r.HandleFunc(c.basePath+"/template", c.Template).Methods(http.MethodGet)

	api := r.PathPrefix(c.basePath).Subrouter()
	api.Use(middleware.Authenticate(c.jwtSecret))
	api.HandleFunc("/combined", middleware.RequireAdmin(c.Combined)).Methods(http.MethodPost)
	api.HandleFunc("/history", c.History).Methods(http.MethodGet)
	api.HandleFunc("/data", middleware.RequireAdmin(c.ClearData)).Methods(http.MethodDelete)
}

type sheetCountsDTO struct {
	Rows    int `json:"rows"`
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

type uploadResponseDTO struct {
	Message string `json:"message"`
	Summary struct {
		Placements sheetCountsDTO `json:"placements"`
		Fmml       sheetCountsDTO `json:"fmml"`
		Khub       sheetCountsDTO `json:"khub"`
	} `json:"summary"`
	TotalAdded   int      `json:"total_added"`
	TotalSkipped int      `json:"total_skipped"`
	Errors       []string `json:"errors"`
}

// Combined ingests one workbook carrying the Placements, FMML and KHUB
// sheets.
func (c *UploadController) Combined(w http.ResponseWriter, r *http.Request) {
	logger := composables.UseLogger(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadSize)
	if err := r.ParseMultipartForm(c.maxUploadSize); err != nil {
		_ = httpapi.WriteError(w, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE", "file exceeds the upload size limit", nil)
		return
	}

	passoutYear, err := strconv.Atoi(r.FormValue("passout_year"))
	if err != nil || passoutYear <= 0 {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "UPLOAD_BAD_REQUEST", "passout_year is required", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "UPLOAD_BAD_REQUEST", "Excel file is required", nil)
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".xlsx" {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "UPLOAD_BAD_FORMAT", "only .xlsx workbooks are supported", nil)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "UPLOAD_BAD_REQUEST", "could not read uploaded file", nil)
		return
	}

	result, err := c.ingest.Ingest(r.Context(), passoutYear, header.Filename, data)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			present, expected := vErr.Present, vErr.Expected
			if present == nil {
				present = []string{}
			}
			if expected == nil {
				expected = []string{}
			}
			_ = httpapi.WriteJSON(w, http.StatusBadRequest, map[string]any{
				"error":        vErr.Error(),
				"code":         "UPLOAD_MISSING_COLUMNS",
				"present_keys": present,
				"expected":     expected,
			})
			return
		}
		logger.WithError(err).Error("combined upload failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "UPLOAD_FAILED", "upload failed", nil)
		return
	}

	resp := uploadResponseDTO{
		Message:      "Data uploaded successfully",
		TotalAdded:   result.TotalAdded,
		TotalSkipped: result.TotalSkipped,
		Errors:       result.Errors,
	}
	if resp.Errors == nil {
		resp.Errors = []string{}
	}
	resp.Summary.Placements = sheetCountsDTO(result.Placements)
	resp.Summary.Fmml = sheetCountsDTO(result.Fmml)
	resp.Summary.Khub = sheetCountsDTO(result.Khub)
	_ = httpapi.WriteJSON(w, http.StatusOK, resp)
}

type historyRowDTO struct {
	ID             int64    `json:"id"`
	PassoutYear    int      `json:"passout_year"`
	UploadType     string   `json:"upload_type"`
	FileName       string   `json:"file_name"`
	RecordsAdded   int      `json:"records_added"`
	RecordsSkipped int      `json:"records_skipped"`
	Errors         []string `json:"errors"`
	UploadedBy     int64    `json:"uploaded_by"`
	UploadedAt     string   `json:"uploaded_at"`
	Username       string   `json:"username"`
	UploadedByName string   `json:"uploaded_by_name"`
}

func (c *UploadController) History(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(r.URL.Query().Get("passout_year"))
	rows, err := c.ingest.History(r.Context(), year)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("upload history query failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		return
	}

	out := make([]historyRowDTO, 0, len(rows))
	for _, h := range rows {
		dto := historyRowDTO{
			ID:             h.ID,
			PassoutYear:    h.PassoutYear,
			UploadType:     string(h.UploadType),
			FileName:       h.FileName,
			RecordsAdded:   h.RecordsAdded,
			RecordsSkipped: h.RecordsSkipped,
			Errors:         []string{},
			UploadedBy:     h.UploadedBy,
			UploadedAt:     h.UploadedAt.Format("2006-01-02T15:04:05Z07:00"),
			Username:       h.Username,
			UploadedByName: h.UploadedByName,
		}
		if h.Errors != "" {
			dto.Errors = strings.Split(h.Errors, "\n")
		}
		out = append(out, dto)
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *UploadController) ClearData(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("passout_year"))
	clearType := r.URL.Query().Get("type")
	if err != nil || year <= 0 || clearType == "" {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "UPLOAD_BAD_REQUEST", "passout_year and type are required", nil)
		return
	}

	deleted, err := c.ingest.ClearData(r.Context(), year, clearType)
	if err != nil {
		if errors.Is(err, services.ErrBadClearType) {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_CLEAR_TYPE", "type must be placements, fmml, khub, or all", nil)
			return
		}
		composables.UseLogger(r.Context()).WithError(err).Error("clear data failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Deleted " + strconv.FormatInt(deleted, 10) + " " + clearType + " records for batch " + strconv.Itoa(year),
		"deleted": deleted,
	})
}
