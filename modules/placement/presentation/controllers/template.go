package controllers

import (
	"net/http"

	"github.com/xuri/excelize/v2"

	"github.com/campusforge/placements/pkg/composables"
	"github.com/campusforge/placements/pkg/httpapi"
)

type templateSheet struct {
	name    string
	headers []interface{}
	samples [][]interface{}
}

var templateSheets = []templateSheet{
	{
		name: "Placements",
		headers: []interface{}{
			"roll_no", "student_name", "company_name", "offer_type", "ctc_lpa",
			"role", "source", "offer_date",
			"gender", "tenth_pct", "twelfth_pct", "grad_cgpa", "phone", "email",
		},
		samples: [][]interface{}{
			{"22B21A0501", "John Doe", "TCS", "IT", 7.5, "Software Engineer", "On-Campus", "2025-03-15", "Male", 85.5, 78.3, 8.2, "9876543210", "john@example.com"},
			{"22JN1A0401", "Jane Smith", "Infosys", "Non-IT", 5.0, "Analyst", "On-Campus", "2025-04-10", "Female", 90.0, 88.5, 8.8, "9876543211", "jane@example.com"},
		},
	},
	{
		name: "FMML",
		headers: []interface{}{
			"roll_no", "student_name", "fmml_batch", "status", "module_name", "score", "certificate_id", "completion_date",
		},
		samples: [][]interface{}{
			{"22B21A0501", "John Doe", "FMML-2025", "Completed", "Module 1", 85.0, "FMML-CERT-001", "2025-06-15"},
		},
	},
	{
		name: "KHUB",
		headers: []interface{}{
			"roll_no", "student_name", "company_name", "offer_type", "ctc_lpa", "role", "offer_date",
		},
		samples: [][]interface{}{
			{"22B21A0501", "John Doe", "Wipro", "IT", 5.0, "Developer", "2025-05-20"},
			{"226Q1A0301", "Bob Wilson", "L&T", "Non-IT", 4.5, "Graduate Trainee", "2025-06-01"},
		},
	},
}

// Template serves a three-sheet workbook with sample rows so uploads start
// from the expected column layout.
func (c *UploadController) Template(w http.ResponseWriter, r *http.Request) {
	f := excelize.NewFile()
	defer f.Close()

	for i, ts := range templateSheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", ts.name); err != nil {
				c.templateError(w, r, err)
				return
			}
		} else {
			if _, err := f.NewSheet(ts.name); err != nil {
				c.templateError(w, r, err)
				return
			}
		}
		if err := f.SetSheetRow(ts.name, "A1", &ts.headers); err != nil {
			c.templateError(w, r, err)
			return
		}
		for j, sample := range ts.samples {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				c.templateError(w, r, err)
				return
			}
			if err := f.SetSheetRow(ts.name, cell, &sample); err != nil {
				c.templateError(w, r, err)
				return
			}
		}
	}

	w.Header().Set("Content-Disposition", `attachment; filename="batch_upload_template.xlsx"`)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(w); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("template write failed")
	}
}

func (c *UploadController) templateError(w http.ResponseWriter, r *http.Request, err error) {
	composables.UseLogger(r.Context()).WithError(err).Error("template build failed")
	_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
}
