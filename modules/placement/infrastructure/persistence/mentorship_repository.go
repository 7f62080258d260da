package persistence

import (
	"context"

	"github.com/campusforge/placements/modules/placement/domain/mentorship"
	"github.com/campusforge/placements/pkg/composables"
)

type MentorshipRepository struct{}

func NewMentorshipRepository() *MentorshipRepository {
	return &MentorshipRepository{}
}

// InsertIgnore records membership once; a repeat insert for the same
// (roll_no, activity_type) is a no-op.
func (r *MentorshipRepository) InsertIgnore(ctx context.Context, p mentorship.Participation) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
INSERT INTO khub_participation (roll_no, activity_type, status)
VALUES ($1,$2,$3)
ON CONFLICT (roll_no, activity_type) DO NOTHING
`, p.RollNo, p.ActivityType, p.Status)
	return err
}

func (r *MentorshipRepository) ListByRollNo(ctx context.Context, rollNo string) ([]mentorship.Participation, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
SELECT id, roll_no, activity_type, status
FROM khub_participation
WHERE roll_no = $1
ORDER BY activity_type
`, rollNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []mentorship.Participation
	for rows.Next() {
		var p mentorship.Participation
		if err := rows.Scan(&p.ID, &p.RollNo, &p.ActivityType, &p.Status); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *MentorshipRepository) DeleteByYear(ctx context.Context, year int) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `
DELETE FROM khub_participation
WHERE roll_no IN (SELECT roll_no FROM students WHERE passout_year = $1)
`, year)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
