// Package normalize canonicalizes the free-text cell values found in
// placement spreadsheets. Every function is total: garbage input maps to a
// default, never an error.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Canonical vocabularies.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"

	OfferIT    = "IT"
	OfferNonIT = "Non-IT"
	OfferCore  = "Core"
	OfferNA    = "NA"

	SourceOnCampus  = "On-Campus"
	SourceOffCampus = "Off-Campus"
	SourcePool      = "Pool"
	SourceKhub      = "KHUB"

	FmmlEnrolled  = "Enrolled"
	FmmlCompleted = "Completed"
	FmmlDropped   = "Dropped"

	KhubActive    = "Active"
	KhubInactive  = "Inactive"
	KhubCompleted = "Completed"
)

// Gender maps M/MALE and F/FEMALE onto the canonical values; any other
// non-empty value is Other, empty stays empty (absent).
func Gender(val string) string {
	v := strings.ToUpper(strings.TrimSpace(val))
	switch {
	case v == "":
		return ""
	case v == "M" || v == "MALE":
		return GenderMale
	case v == "F" || v == "FEMALE":
		return GenderFemale
	default:
		return GenderOther
	}
}

// OfferType canonicalizes the IT/Non-IT/Core tag. NA is an explicit
// placeholder, distinct from absent.
func OfferType(val string) string {
	v := strings.ToUpper(strings.TrimSpace(val))
	switch v {
	case "IT":
		return OfferIT
	case "NON-IT", "NONIT", "NON IT":
		return OfferNonIT
	case "CORE":
		return OfferCore
	default:
		return OfferNA
	}
}

// Source canonicalizes the placement channel. On-Campus is the default for
// unrecognized or absent input.
func Source(val string) string {
	v := strings.ToUpper(strings.TrimSpace(val))
	switch {
	case strings.Contains(v, "OFF"):
		return SourceOffCampus
	case strings.Contains(v, "POOL"):
		return SourcePool
	default:
		return SourceOnCampus
	}
}

func FmmlStatus(val string) string {
	v := strings.ToUpper(strings.TrimSpace(val))
	switch {
	case strings.Contains(v, "COMP"):
		return FmmlCompleted
	case strings.Contains(v, "DROP"):
		return FmmlDropped
	default:
		return FmmlEnrolled
	}
}

func KhubStatus(val string) string {
	v := strings.ToUpper(strings.TrimSpace(val))
	switch {
	case strings.Contains(v, "COMP"):
		return KhubCompleted
	case strings.Contains(v, "INACT"):
		return KhubInactive
	default:
		return KhubActive
	}
}

var currencyRe = regexp.MustCompile(`(?i)₹|RS\.?|INR`)

// CompensationParser converts a raw CTC cell into lakhs per annum. It is an
// interface so a deployment with an explicit unit column can replace the
// magnitude heuristic without touching callers.
type CompensationParser interface {
	Parse(val string) float64
}

// CTCParser is the heuristic parser used by the spreadsheets in the wild:
//
//	"10k"    -> 10,000/month          -> 1.2 LPA
//	"15000"  -> 15,000/month          -> 1.8 LPA
//	"7.5"    -> already LPA           -> 7.5
//	"150"    -> 150,000/month (thousands) -> 18 LPA
//
// The >=1000 / <100 / 100..999 thresholds are a reproducibility contract
// with historical data; exactly 100 classifies as monthly-thousands.
type CTCParser struct{}

func (CTCParser) Parse(val string) float64 {
	str := strings.ToUpper(strings.TrimSpace(val))
	if str == "" {
		return 0
	}
	str = strings.TrimSpace(currencyRe.ReplaceAllString(str, ""))

	if strings.HasSuffix(str, "K") {
		num, err := strconv.ParseFloat(strings.TrimSuffix(str, "K"), 64)
		if err != nil {
			return 0
		}
		return round2(num * 0.12)
	}

	num, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0
	}

	if num >= 1000 {
		return round2(num * 12 / 100000)
	}
	if num < 100 {
		return round2(num)
	}
	return round2(num * 1000 * 12 / 100000)
}

func round2(f float64) float64 {
	v, _ := decimal.NewFromFloat(f).Round(2).Float64()
	return v
}

var placeholderCompanies = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "N.A": {}, "N.A.": {},
	"NONE": {}, "NIL": {}, "-": {}, "--": {}, "NA.": {},
}

// IsPlaceholderCompany reports whether a company cell is one of the fixed
// strings meaning "no company"; such rows are not real placements.
func IsPlaceholderCompany(name string) bool {
	_, ok := placeholderCompanies[strings.ToUpper(strings.TrimSpace(name))]
	return ok
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"01/02/2006",
	"2 Jan 2006",
	time.RFC3339,
}

// Date parses the date formats seen in exports; unparseable input yields
// nil rather than an error, matching the fill-missing merge rules.
func Date(val string) *time.Time {
	v := strings.TrimSpace(val)
	if v == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}

// Float parses an optional numeric cell. The second return is false for
// blank cells; malformed non-blank cells surface an error so the row can be
// rejected by the reconciler.
func Float(val string) (*float64, error) {
	v := strings.TrimSpace(val)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
