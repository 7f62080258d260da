package persistence

import (
	"context"

	"github.com/campusforge/placements/modules/placement/domain/analytics"
	"github.com/campusforge/placements/pkg/composables"
)

type AnalyticsRepository struct{}

func NewAnalyticsRepository() *AnalyticsRepository {
	return &AnalyticsRepository{}
}

const campusSources = `('On-Campus','Off-Campus','Pool')`

// Overview computes the headline numbers in one round trip. A passoutYear
// of 0 disables the year filter.
func (r *AnalyticsRepository) Overview(ctx context.Context, passoutYear int) (analytics.Overview, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return analytics.Overview{}, err
	}
	var o analytics.Overview
	err = tx.QueryRow(ctx, `
WITH scoped_students AS (
	SELECT roll_no FROM students WHERE ($1 = 0 OR passout_year = $1)
),
scoped_placements AS (
	SELECT p.* FROM placements p JOIN scoped_students s ON s.roll_no = p.roll_no
)
SELECT
	(SELECT COALESCE(SUM(total_students), 0) FROM yearly_intake WHERE ($1 = 0 OR passout_year = $1)) AS total_students,
	(SELECT COUNT(DISTINCT roll_no) FROM scoped_placements WHERE source IN `+campusSources+`) AS placed_students,
	(SELECT COUNT(DISTINCT roll_no) FROM scoped_placements) AS total_placed_all,
	ROUND(100.0 *
		(SELECT COUNT(DISTINCT roll_no) FROM scoped_placements WHERE source IN `+campusSources+`)
		/ NULLIF((SELECT COALESCE(SUM(total_students), 0) FROM yearly_intake WHERE ($1 = 0 OR passout_year = $1)), 0)
	, 2) AS placement_pct,
	(SELECT COUNT(*) FROM scoped_placements) AS total_offers,
	(SELECT ROUND(MAX(ctc_lpa)::numeric, 2) FROM scoped_placements) AS max_ctc,
	(SELECT COUNT(DISTINCT f.roll_no) FROM fmml_participation f JOIN scoped_students s ON s.roll_no = f.roll_no) AS total_fmml,
	(SELECT COUNT(DISTINCT f.roll_no) FROM fmml_participation f JOIN scoped_placements p ON p.roll_no = f.roll_no) AS fmml_placed,
	ROUND(100.0 *
		(SELECT COUNT(DISTINCT f.roll_no) FROM fmml_participation f JOIN scoped_placements p ON p.roll_no = f.roll_no)
		/ NULLIF((SELECT COUNT(DISTINCT f.roll_no) FROM fmml_participation f JOIN scoped_students s ON s.roll_no = f.roll_no), 0)
	, 2) AS fmml_pct,
	(SELECT COUNT(DISTINCT k.roll_no) FROM khub_participation k JOIN scoped_students s ON s.roll_no = k.roll_no) AS total_khub,
	(SELECT COUNT(DISTINCT k.roll_no) FROM khub_participation k JOIN scoped_placements p ON p.roll_no = k.roll_no) AS khub_placed,
	(SELECT ROUND(MAX(p.ctc_lpa)::numeric, 2) FROM khub_participation k JOIN scoped_placements p ON p.roll_no = k.roll_no) AS khub_max_ctc,
	(SELECT COUNT(DISTINCT company_name) FROM scoped_placements) AS companies_visited
`, passoutYear).Scan(
		&o.TotalStudents,
		&o.PlacedStudents,
		&o.TotalPlacedAll,
		&o.PlacementPct,
		&o.TotalOffers,
		&o.MaxCtc,
		&o.TotalFmml,
		&o.FmmlPlaced,
		&o.FmmlPct,
		&o.TotalKhub,
		&o.KhubPlaced,
		&o.KhubMaxCtc,
		&o.CompaniesVisited,
	)
	if err != nil {
		return analytics.Overview{}, err
	}
	return o, nil
}

func (r *AnalyticsRepository) PlacementRate(ctx context.Context) ([]analytics.PlacementRate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
SELECT
	yi.passout_year,
	SUM(yi.total_students) AS total_students,
	COUNT(DISTINCT p.roll_no) AS placed_students,
	ROUND(100.0 * COUNT(DISTINCT p.roll_no) / NULLIF(SUM(yi.total_students), 0), 2) AS placement_rate_pct,
	ROUND(AVG(p.ctc_lpa)::numeric, 2) AS avg_ctc,
	ROUND(MAX(p.ctc_lpa)::numeric, 2) AS max_ctc,
	COUNT(DISTINCT CASE WHEN p.offer_type = 'IT' THEN p.roll_no END) AS it_placed,
	COUNT(DISTINCT CASE WHEN p.offer_type = 'Non-IT' THEN p.roll_no END) AS non_it_placed
FROM yearly_intake yi
LEFT JOIN students s ON s.passout_year = yi.passout_year AND s.college = yi.college AND s.branch = yi.branch
LEFT JOIN placements p ON p.roll_no = s.roll_no
GROUP BY yi.passout_year
ORDER BY yi.passout_year
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []analytics.PlacementRate
	for rows.Next() {
		var p analytics.PlacementRate
		if err := rows.Scan(&p.PassoutYear, &p.TotalStudents, &p.PlacedStudents, &p.RatePct, &p.AvgCtc, &p.MaxCtc, &p.ITPlaced, &p.NonITPlaced); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepository) BranchSummaries(ctx context.Context, passoutYear int) ([]analytics.BranchSummary, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
WITH intake AS (
	SELECT branch, SUM(total_students) AS total_students
	FROM yearly_intake
	WHERE ($1 = 0 OR passout_year = $1)
	GROUP BY branch
),
placed AS (
	SELECT s.branch,
		COUNT(DISTINCT CASE WHEN p.source IN `+campusSources+` THEN p.roll_no END) AS campus_placed,
		ROUND(MAX(p.ctc_lpa)::numeric, 2) AS max_ctc
	FROM students s
	JOIN placements p ON p.roll_no = s.roll_no
	WHERE ($1 = 0 OR s.passout_year = $1)
	GROUP BY s.branch
),
fmml AS (
	SELECT s.branch,
		COUNT(DISTINCT CASE WHEN p.roll_no IS NOT NULL THEN f.roll_no END) AS fmml_placed
	FROM fmml_participation f
	JOIN students s ON s.roll_no = f.roll_no
	LEFT JOIN placements p ON p.roll_no = f.roll_no
	WHERE ($1 = 0 OR s.passout_year = $1)
	GROUP BY s.branch
),
khub AS (
	SELECT s.branch,
		COUNT(DISTINCT kp.roll_no) AS khub_registered
	FROM khub_participation kp
	JOIN students s ON s.roll_no = kp.roll_no
	WHERE ($1 = 0 OR s.passout_year = $1)
	GROUP BY s.branch
)
SELECT
	i.branch,
	i.total_students,
	COALESCE(pl.campus_placed, 0) AS placed_students,
	ROUND(100.0 * COALESCE(pl.campus_placed, 0) / NULLIF(i.total_students, 0), 2) AS placement_rate,
	COALESCE(fm.fmml_placed, 0) AS fmml_placed,
	COALESCE(kh.khub_registered, 0) AS khub_students,
	pl.max_ctc
FROM intake i
LEFT JOIN placed pl ON pl.branch = i.branch
LEFT JOIN fmml fm ON fm.branch = i.branch
LEFT JOIN khub kh ON kh.branch = i.branch
ORDER BY placement_rate DESC NULLS LAST
`, passoutYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []analytics.BranchSummary
	for rows.Next() {
		var b analytics.BranchSummary
		if err := rows.Scan(&b.Branch, &b.TotalStudents, &b.PlacedStudents, &b.PlacementRate, &b.FmmlPlaced, &b.KhubStudents, &b.MaxCtc); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepository) CompanySummaries(ctx context.Context, limit int) ([]analytics.CompanySummary, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
SELECT
	p.company_name,
	COALESCE(p.offer_type, '') AS offer_type,
	COUNT(*) AS total_offers,
	COUNT(DISTINCT p.roll_no) AS unique_students,
	ROUND(MAX(p.ctc_lpa)::numeric, 2) AS max_ctc,
	COUNT(DISTINCT CASE WHEN f.roll_no IS NOT NULL THEN p.roll_no END) AS fmml_students,
	COUNT(DISTINCT CASE WHEN k.roll_no IS NOT NULL THEN p.roll_no END) AS khub_students
FROM placements p
LEFT JOIN fmml_participation f ON f.roll_no = p.roll_no
LEFT JOIN khub_participation k ON k.roll_no = p.roll_no
GROUP BY p.company_name, p.offer_type
ORDER BY total_offers DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []analytics.CompanySummary
	for rows.Next() {
		var c analytics.CompanySummary
		if err := rows.Scan(&c.CompanyName, &c.OfferType, &c.TotalOffers, &c.UniqueStudents, &c.MaxCtc, &c.FmmlStudents, &c.KhubStudents); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepository) CtcBands(ctx context.Context) ([]analytics.CtcBand, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
SELECT
	CASE
		WHEN ctc_lpa >= 20 THEN '20+ LPA'
		WHEN ctc_lpa >= 12 THEN '12-20 LPA'
		WHEN ctc_lpa >= 8  THEN '8-12 LPA'
		WHEN ctc_lpa >= 5  THEN '5-8 LPA'
		WHEN ctc_lpa >= 3  THEN '3-5 LPA'
		ELSE 'Below 3 LPA'
	END AS salary_band,
	COUNT(*) AS offer_count,
	COUNT(DISTINCT roll_no) AS student_count,
	CASE
		WHEN ctc_lpa >= 20 THEN 6
		WHEN ctc_lpa >= 12 THEN 5
		WHEN ctc_lpa >= 8  THEN 4
		WHEN ctc_lpa >= 5  THEN 3
		WHEN ctc_lpa >= 3  THEN 2
		ELSE 1
	END AS band_order
FROM placements
GROUP BY salary_band, band_order
ORDER BY band_order DESC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []analytics.CtcBand
	for rows.Next() {
		var b analytics.CtcBand
		var order int
		if err := rows.Scan(&b.Band, &b.OfferCount, &b.StudentCount, &order); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepository) Refresh(ctx context.Context) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `SELECT refresh_analytics()`)
	return err
}
