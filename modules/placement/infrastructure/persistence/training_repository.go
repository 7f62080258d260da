package persistence

import (
	"context"

	"github.com/campusforge/placements/modules/placement/domain/training"
	"github.com/campusforge/placements/pkg/composables"
)

type TrainingRepository struct{}

func NewTrainingRepository() *TrainingRepository {
	return &TrainingRepository{}
}

// Upsert inserts the participation or merges into the existing (roll_no,
// batch) row. Status always takes the incoming value; the other fields fill
// missing only.
func (r *TrainingRepository) Upsert(ctx context.Context, p training.Participation) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
INSERT INTO fmml_participation (roll_no, fmml_batch, status, module_name, score, certificate_id, completion_date)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (roll_no, fmml_batch) DO UPDATE SET
	status = EXCLUDED.status,
	module_name = COALESCE(EXCLUDED.module_name, fmml_participation.module_name),
	score = COALESCE(EXCLUDED.score, fmml_participation.score),
	certificate_id = COALESCE(EXCLUDED.certificate_id, fmml_participation.certificate_id),
	completion_date = COALESCE(EXCLUDED.completion_date, fmml_participation.completion_date)
`,
		p.RollNo,
		p.FmmlBatch,
		p.Status,
		pgNullableText(p.ModuleName),
		pgNullableFloat8(p.Score),
		pgNullableText(p.CertificateID),
		pgNullableDate(p.CompletionDate),
	)
	return err
}

func (r *TrainingRepository) ListByRollNo(ctx context.Context, rollNo string) ([]training.Participation, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
SELECT id, roll_no, fmml_batch, status, module_name, score, certificate_id, completion_date
FROM fmml_participation
WHERE roll_no = $1
ORDER BY fmml_batch
`, rollNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []training.Participation
	for rows.Next() {
		var p training.Participation
		if err := rows.Scan(&p.ID, &p.RollNo, &p.FmmlBatch, &p.Status, &p.ModuleName, &p.Score, &p.CertificateID, &p.CompletionDate); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *TrainingRepository) DeleteByYear(ctx context.Context, year int) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `
DELETE FROM fmml_participation
WHERE roll_no IN (SELECT roll_no FROM students WHERE passout_year = $1)
`, year)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
