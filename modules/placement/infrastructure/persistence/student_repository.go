package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/campusforge/placements/modules/placement/domain/student"
	"github.com/campusforge/placements/pkg/composables"
)

type StudentRepository struct{}

func NewStudentRepository() *StudentRepository {
	return &StudentRepository{}
}

// Upsert inserts the student or merges into the existing row via
// student.Merge. Empty incoming values never erase stored ones;
// passout_year keeps the first value seen.
func (r *StudentRepository) Upsert(ctx context.Context, s student.Student) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	existing, err := r.GetByRollNo(ctx, s.RollNo)
	if errors.Is(err, student.ErrNotFound) {
		_, err = tx.Exec(ctx, `
INSERT INTO students (roll_no, name, college, branch, passout_year, gender, tenth_pct, twelfth_pct, grad_cgpa, phone, email)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`,
			s.RollNo,
			s.Name,
			s.College,
			s.Branch,
			s.PassoutYear,
			emptyAsNull(s.Gender),
			pgNullableFloat8(s.TenthPct),
			pgNullableFloat8(s.TwelfthPct),
			pgNullableFloat8(s.GradCGPA),
			pgNullableText(s.Phone),
			pgNullableText(s.Email),
		)
		return err
	}
	if err != nil {
		return err
	}

	merged := student.Merge(existing, s)
	_, err = tx.Exec(ctx, `
UPDATE students
SET name = $1, college = $2, branch = $3, gender = $4,
	tenth_pct = $5, twelfth_pct = $6, grad_cgpa = $7,
	phone = $8, email = $9, updated_at = now()
WHERE roll_no = $10
`,
		merged.Name,
		merged.College,
		merged.Branch,
		emptyAsNull(merged.Gender),
		pgNullableFloat8(merged.TenthPct),
		pgNullableFloat8(merged.TwelfthPct),
		pgNullableFloat8(merged.GradCGPA),
		pgNullableText(merged.Phone),
		pgNullableText(merged.Email),
		s.RollNo,
	)
	return err
}

func (r *StudentRepository) GetByRollNo(ctx context.Context, rollNo string) (student.Student, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return student.Student{}, err
	}
	var s student.Student
	err = tx.QueryRow(ctx, `
SELECT roll_no, name, college, branch, passout_year, COALESCE(gender, ''), tenth_pct, twelfth_pct, grad_cgpa, phone, email
FROM students
WHERE roll_no = $1
`, rollNo).Scan(
		&s.RollNo, &s.Name, &s.College, &s.Branch, &s.PassoutYear, &s.Gender,
		&s.TenthPct, &s.TwelfthPct, &s.GradCGPA, &s.Phone, &s.Email,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return student.Student{}, student.ErrNotFound
	}
	if err != nil {
		return student.Student{}, err
	}
	return s, nil
}

func (r *StudentRepository) GetPaginated(ctx context.Context, params *student.FindParams) ([]student.Student, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := []string{"1=1"}
	args := []any{}
	if params.PassoutYear != 0 {
		args = append(args, params.PassoutYear)
		where = append(where, fmt.Sprintf("passout_year = $%d", len(args)))
	}
	if params.College != "" {
		args = append(args, params.College)
		where = append(where, fmt.Sprintf("college = $%d", len(args)))
	}
	if params.Branch != "" {
		args = append(args, params.Branch)
		where = append(where, fmt.Sprintf("branch = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR roll_no ILIKE $%d)", len(args), len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM students WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	rows, err := tx.Query(ctx, fmt.Sprintf(`
SELECT roll_no, name, college, branch, passout_year, COALESCE(gender, ''), tenth_pct, twelfth_pct, grad_cgpa, phone, email
FROM students
WHERE %s
ORDER BY name ASC
LIMIT $%d OFFSET $%d
`, cond, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []student.Student
	for rows.Next() {
		var s student.Student
		if err := rows.Scan(
			&s.RollNo, &s.Name, &s.College, &s.Branch, &s.PassoutYear, &s.Gender,
			&s.TenthPct, &s.TwelfthPct, &s.GradCGPA, &s.Phone, &s.Email,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *StudentRepository) DeleteByYear(ctx context.Context, year int) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM students WHERE passout_year = $1`, year)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
