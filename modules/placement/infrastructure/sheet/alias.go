package sheet

import (
	"regexp"
	"strings"
)

// Canonical field names produced by the alias resolver.
const (
	FieldRollNo         = "roll_no"
	FieldStudentName    = "student_name"
	FieldCompanyName    = "company_name"
	FieldCtcLPA         = "ctc_lpa"
	FieldOfferType      = "offer_type"
	FieldRole           = "role"
	FieldSource         = "source"
	FieldOfferDate      = "offer_date"
	FieldGender         = "gender"
	FieldCollege        = "college"
	FieldBranch         = "branch"
	FieldTenthPct       = "tenth_pct"
	FieldTwelfthPct     = "twelfth_pct"
	FieldGradCGPA       = "grad_cgpa"
	FieldPhone          = "phone"
	FieldEmail          = "email"
	FieldFmmlBatch      = "fmml_batch"
	FieldStatus         = "status"
	FieldModuleName     = "module_name"
	FieldScore          = "score"
	FieldCertificateID  = "certificate_id"
	FieldCompletionDate = "completion_date"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	emptyColRe   = regexp.MustCompile(`^__empty`)
	serialColRe  = regexp.MustCompile(`^s\.?n?o$|^sno$|^sl_?no$`)
	offerTypeRe  = regexp.MustCompile(`it.*non`)
)

// normalizeHeader trims and lower-snake-cases a column header.
func normalizeHeader(h string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(h)), "_")
}

// simple aliases, applied only when the canonical key is not already present
var aliases = []struct {
	canonical string
	alternate string
}{
	{FieldStudentName, "name"},
	{FieldRollNo, "rollno"},
	{FieldRollNo, "roll_number"},
	{FieldCompanyName, "company"},
	{FieldCtcLPA, "package"},
	{FieldCtcLPA, "ctc"},
}

// resolveAliases maps known alternate spellings onto canonical field names,
// drops serial-number columns and renames "IT/Non-IT"-style headers to the
// offer type field.
func resolveAliases(row Row) Row {
	mapped := Row{}
	for k, v := range row {
		if serialColRe.MatchString(k) {
			continue
		}
		if offerTypeRe.MatchString(k) || k == "it/non_it" || k == "it/non-it" {
			mapped[FieldOfferType] = v
			continue
		}
		mapped[k] = v
	}
	for _, a := range aliases {
		if _, ok := mapped[a.canonical]; ok {
			continue
		}
		if v, ok := mapped[a.alternate]; ok {
			mapped[a.canonical] = v
			delete(mapped, a.alternate)
		}
	}
	return mapped
}
