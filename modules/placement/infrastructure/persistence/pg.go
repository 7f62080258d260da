// Package persistence implements the placement repositories on postgres via
// pgx. Write methods require the transaction carried in ctx; read methods
// fall back to the pool.
package persistence

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func pgNullableText(v *string) pgtype.Text {
	if v == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *v, Valid: true}
}

// emptyAsNull stores "" as NULL so COALESCE-based merge rules treat it as
// absent.
func emptyAsNull(v string) pgtype.Text {
	if v == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: v, Valid: true}
}

func pgNullableFloat8(v *float64) pgtype.Float8 {
	if v == nil {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: *v, Valid: true}
}

func pgNullableDate(v *time.Time) pgtype.Date {
	if v == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *v, Valid: true}
}
