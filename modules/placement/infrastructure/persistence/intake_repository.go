package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/campusforge/placements/modules/placement/domain/intake"
	"github.com/campusforge/placements/pkg/composables"
)

type IntakeRepository struct{}

func NewIntakeRepository() *IntakeRepository {
	return &IntakeRepository{}
}

func (r *IntakeRepository) Upsert(ctx context.Context, e intake.Entry) (intake.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return intake.Entry{}, err
	}
	var out intake.Entry
	err = tx.QueryRow(ctx, `
INSERT INTO yearly_intake (passout_year, college, branch, total_students)
VALUES ($1,$2,$3,$4)
ON CONFLICT (passout_year, college, branch) DO UPDATE SET total_students = EXCLUDED.total_students
RETURNING id, passout_year, college, branch, total_students
`, e.PassoutYear, e.College, e.Branch, e.TotalStudents).Scan(
		&out.ID, &out.PassoutYear, &out.College, &out.Branch, &out.TotalStudents,
	)
	if err != nil {
		return intake.Entry{}, err
	}
	return out, nil
}

func (r *IntakeRepository) UpdateTotal(ctx context.Context, id int64, total int) (intake.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return intake.Entry{}, err
	}
	var out intake.Entry
	err = tx.QueryRow(ctx, `
UPDATE yearly_intake SET total_students = $1 WHERE id = $2
RETURNING id, passout_year, college, branch, total_students
`, total, id).Scan(&out.ID, &out.PassoutYear, &out.College, &out.Branch, &out.TotalStudents)
	if errors.Is(err, pgx.ErrNoRows) {
		return intake.Entry{}, intake.ErrNotFound
	}
	if err != nil {
		return intake.Entry{}, err
	}
	return out, nil
}

func (r *IntakeRepository) Delete(ctx context.Context, id int64) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM yearly_intake WHERE id = $1`, id)
	return err
}

func (r *IntakeRepository) DeleteByYear(ctx context.Context, year int) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM yearly_intake WHERE passout_year = $1`, year)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *IntakeRepository) Years(ctx context.Context) ([]int, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `SELECT DISTINCT passout_year FROM yearly_intake ORDER BY passout_year DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		out = append(out, y)
	}
	return out, rows.Err()
}

// Summaries returns one row per passout year: the intake entries plus live
// counts from the fact tables.
func (r *IntakeRepository) Summaries(ctx context.Context) ([]intake.YearSummary, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
SELECT
	yi.passout_year,
	SUM(yi.total_students) AS total_intake,
	(SELECT COUNT(DISTINCT s.roll_no) FROM students s WHERE s.passout_year = yi.passout_year) AS registered_students,
	(SELECT COUNT(DISTINCT p.roll_no) FROM placements p JOIN students s ON s.roll_no = p.roll_no WHERE s.passout_year = yi.passout_year) AS placed_students,
	(SELECT COUNT(DISTINCT f.roll_no) FROM fmml_participation f JOIN students s ON s.roll_no = f.roll_no WHERE s.passout_year = yi.passout_year) AS fmml_count,
	(SELECT COUNT(DISTINCT k.roll_no) FROM khub_participation k JOIN students s ON s.roll_no = k.roll_no WHERE s.passout_year = yi.passout_year) AS khub_count
FROM yearly_intake yi
GROUP BY yi.passout_year
ORDER BY yi.passout_year DESC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []intake.YearSummary
	for rows.Next() {
		var s intake.YearSummary
		if err := rows.Scan(&s.PassoutYear, &s.TotalIntake, &s.RegisteredStudents, &s.PlacedStudents, &s.FmmlCount, &s.KhubCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		entries, err := r.entriesForYear(ctx, out[i].PassoutYear)
		if err != nil {
			return nil, err
		}
		out[i].Entries = entries
	}
	return out, nil
}

func (r *IntakeRepository) entriesForYear(ctx context.Context, year int) ([]intake.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
SELECT id, passout_year, college, branch, total_students
FROM yearly_intake
WHERE passout_year = $1
ORDER BY college, branch
`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []intake.Entry
	for rows.Next() {
		var e intake.Entry
		if err := rows.Scan(&e.ID, &e.PassoutYear, &e.College, &e.Branch, &e.TotalStudents); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
