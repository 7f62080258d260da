package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/campusforge/placements/modules/placement/domain/offer"
	"github.com/campusforge/placements/pkg/composables"
)

type OfferRepository struct{}

func NewOfferRepository() *OfferRepository {
	return &OfferRepository{}
}

// Upsert inserts the offer or merges into the existing (roll_no, company)
// row via offer.Merge. A race on the first insert surfaces as a unique
// violation and fails only that row's savepoint.
func (r *OfferRepository) Upsert(ctx context.Context, o offer.Offer) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	var existing offer.Offer
	err = tx.QueryRow(ctx, `
SELECT placement_id, roll_no, company_name, ctc_lpa, COALESCE(offer_type, ''), role, COALESCE(source, ''), offer_date
FROM placements
WHERE roll_no = $1 AND LOWER(company_name) = LOWER($2)
`, o.RollNo, o.CompanyName).Scan(
		&existing.ID, &existing.RollNo, &existing.CompanyName, &existing.CtcLPA,
		&existing.OfferType, &existing.Role, &existing.Source, &existing.OfferDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		_, err = tx.Exec(ctx, `
INSERT INTO placements (roll_no, company_name, ctc_lpa, offer_type, role, source, offer_date)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`,
			o.RollNo,
			o.CompanyName,
			o.CtcLPA,
			o.OfferType,
			pgNullableText(o.Role),
			o.Source,
			pgNullableDate(o.OfferDate),
		)
		return err
	}
	if err != nil {
		return err
	}

	merged := offer.Merge(existing, o)
	_, err = tx.Exec(ctx, `
UPDATE placements
SET ctc_lpa = $1, offer_type = $2, role = $3, source = $4, offer_date = $5
WHERE placement_id = $6
`,
		merged.CtcLPA,
		merged.OfferType,
		pgNullableText(merged.Role),
		merged.Source,
		pgNullableDate(merged.OfferDate),
		existing.ID,
	)
	return err
}

func (r *OfferRepository) ListByRollNo(ctx context.Context, rollNo string) ([]offer.Offer, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
SELECT placement_id, roll_no, company_name, ctc_lpa, COALESCE(offer_type, ''), role, source, offer_date
FROM placements
WHERE roll_no = $1
ORDER BY ctc_lpa DESC
`, rollNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []offer.Offer
	for rows.Next() {
		var o offer.Offer
		if err := rows.Scan(&o.ID, &o.RollNo, &o.CompanyName, &o.CtcLPA, &o.OfferType, &o.Role, &o.Source, &o.OfferDate); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OfferRepository) DeleteByYear(ctx context.Context, year int, source string) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	q := `DELETE FROM placements WHERE roll_no IN (SELECT roll_no FROM students WHERE passout_year = $1)`
	switch source {
	case offer.DeleteCampusOnly:
		q += ` AND source IN ('On-Campus','Off-Campus','Pool')`
	case offer.DeleteKhubOnly:
		q += ` AND source = 'KHUB'`
	}
	tag, err := tx.Exec(ctx, q, year)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
