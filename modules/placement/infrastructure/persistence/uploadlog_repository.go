package persistence

import (
	"context"

	"github.com/campusforge/placements/modules/placement/domain/uploadlog"
	"github.com/campusforge/placements/pkg/composables"
)

type UploadLogRepository struct{}

func NewUploadLogRepository() *UploadLogRepository {
	return &UploadLogRepository{}
}

func (r *UploadLogRepository) Insert(ctx context.Context, rec uploadlog.Record) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
INSERT INTO upload_history (passout_year, upload_type, file_name, records_added, records_skipped, errors, uploaded_by)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`,
		rec.PassoutYear,
		string(rec.UploadType),
		rec.FileName,
		rec.RecordsAdded,
		rec.RecordsSkipped,
		emptyAsNull(rec.Errors),
		rec.UploadedBy,
	)
	return err
}

func (r *UploadLogRepository) History(ctx context.Context, passoutYear int) ([]uploadlog.HistoryRow, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
SELECT h.id, h.passout_year, h.upload_type, h.file_name, h.records_added, h.records_skipped,
	COALESCE(h.errors, ''), COALESCE(h.uploaded_by, 0), h.uploaded_at,
	COALESCE(u.username, ''), COALESCE(u.full_name, '')
FROM upload_history h
LEFT JOIN users u ON u.id = h.uploaded_by
WHERE ($1 = 0 OR h.passout_year = $1)
ORDER BY h.uploaded_at DESC
`, passoutYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uploadlog.HistoryRow
	for rows.Next() {
		var h uploadlog.HistoryRow
		if err := rows.Scan(
			&h.ID, &h.PassoutYear, &h.UploadType, &h.FileName, &h.RecordsAdded, &h.RecordsSkipped,
			&h.Errors, &h.UploadedBy, &h.UploadedAt,
			&h.Username, &h.UploadedByName,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *UploadLogRepository) DeleteByYear(ctx context.Context, year int) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM upload_history WHERE passout_year = $1`, year)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
