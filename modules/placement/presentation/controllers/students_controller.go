package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/campusforge/placements/modules/placement/domain/student"
	"github.com/campusforge/placements/modules/placement/services"
	"github.com/campusforge/placements/pkg/application"
	"github.com/campusforge/placements/pkg/composables"
	"github.com/campusforge/placements/pkg/httpapi"
)

type StudentsController struct {
	app      application.Application
	students *services.StudentService
	basePath string
}

func NewStudentsController(app application.Application) application.Controller {
	return &StudentsController{
		app:      app,
		students: app.Service(services.StudentService{}).(*services.StudentService),
		basePath: "/api/students",
	}
}

func (c *StudentsController) Key() string {
	return c.basePath
}

func (c *StudentsController) Register(r *mux.Router) {
	api := r.PathPrefix(c.basePath).Subrouter()
	api.HandleFunc("", c.List).Methods(http.MethodGet)
	api.HandleFunc("/{rollNo}", c.Detail).Methods(http.MethodGet)
}

type studentDTO struct {
	RollNo      string   `json:"roll_no"`
	Name        string   `json:"name"`
	College     string   `json:"college"`
	Branch      string   `json:"branch"`
	PassoutYear int      `json:"passout_year"`
	Gender      string   `json:"gender,omitempty"`
	TenthPct    *float64 `json:"tenth_pct"`
	TwelfthPct  *float64 `json:"twelfth_pct"`
	GradCGPA    *float64 `json:"grad_cgpa"`
	Phone       *string  `json:"phone"`
	Email       *string  `json:"email"`
}

func toStudentDTO(s student.Student) studentDTO {
	return studentDTO{
		RollNo:      s.RollNo,
		Name:        s.Name,
		College:     s.College,
		Branch:      s.Branch,
		PassoutYear: s.PassoutYear,
		Gender:      s.Gender,
		TenthPct:    s.TenthPct,
		TwelfthPct:  s.TwelfthPct,
		GradCGPA:    s.GradCGPA,
		Phone:       s.Phone,
		Email:       s.Email,
	}
}

func (c *StudentsController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	year, _ := strconv.Atoi(q.Get("passout_year"))

	params := &student.FindParams{
		PassoutYear: year,
		College:     q.Get("college"),
		Branch:      q.Get("branch"),
		Search:      q.Get("search"),
		Limit:       limit,
		Offset:      (page - 1) * limit,
	}
	rows, total, err := c.students.GetPaginated(r.Context(), params)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("list students failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		return
	}

	data := make([]studentDTO, 0, len(rows))
	for _, s := range rows {
		data = append(data, toStudentDTO(s))
	}
	totalPages := (total + int64(limit) - 1) / int64(limit)
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"data": data,
		"pagination": map[string]any{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

type offerDTO struct {
	ID          int64   `json:"placement_id"`
	CompanyName string  `json:"company_name"`
	CtcLPA      float64 `json:"ctc_lpa"`
	OfferType   string  `json:"offer_type"`
	Role        *string `json:"role"`
	Source      string  `json:"source"`
	OfferDate   *string `json:"offer_date"`
}

type trainingDTO struct {
	FmmlBatch      string   `json:"fmml_batch"`
	Status         string   `json:"status"`
	ModuleName     *string  `json:"module_name"`
	Score          *float64 `json:"score"`
	CertificateID  *string  `json:"certificate_id"`
	CompletionDate *string  `json:"completion_date"`
}

type mentorshipDTO struct {
	ActivityType string `json:"activity_type"`
	Status       string `json:"status"`
}

func (c *StudentsController) Detail(w http.ResponseWriter, r *http.Request) {
	rollNo := mux.Vars(r)["rollNo"]
	profile, err := c.students.Profile(r.Context(), rollNo)
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "STUDENT_NOT_FOUND", "student not found", nil)
			return
		}
		composables.UseLogger(r.Context()).WithError(err).Error("student detail failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		return
	}

	offers := make([]offerDTO, 0, len(profile.Offers))
	for _, o := range profile.Offers {
		offers = append(offers, offerDTO{
			ID:          o.ID,
			CompanyName: o.CompanyName,
			CtcLPA:      o.CtcLPA,
			OfferType:   o.OfferType,
			Role:        o.Role,
			Source:      o.Source,
			OfferDate:   formatDate(o.OfferDate),
		})
	}
	trainings := make([]trainingDTO, 0, len(profile.Trainings))
	for _, p := range profile.Trainings {
		trainings = append(trainings, trainingDTO{
			FmmlBatch:      p.FmmlBatch,
			Status:         p.Status,
			ModuleName:     p.ModuleName,
			Score:          p.Score,
			CertificateID:  p.CertificateID,
			CompletionDate: formatDate(p.CompletionDate),
		})
	}
	mentorships := make([]mentorshipDTO, 0, len(profile.Mentorships))
	for _, p := range profile.Mentorships {
		mentorships = append(mentorships, mentorshipDTO{ActivityType: p.ActivityType, Status: p.Status})
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"student":    toStudentDTO(profile.Student),
		"placements": offers,
		"fmml":       trainings,
		"khub":       mentorships,
	})
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
