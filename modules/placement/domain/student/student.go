package student

import (
	"context"

	"github.com/campusforge/placements/pkg/serrors"
)

var ErrNotFound = serrors.NewError("STUDENT_NOT_FOUND", "student not found")

// Student is the subject every placement, FMML and KHUB fact hangs off.
// Pointer fields are optional; empty Gender means unknown.
type Student struct {
	RollNo      string
	Name        string
	College     string
	Branch      string
	PassoutYear int
	Gender      string
	TenthPct    *float64
	TwelfthPct  *float64
	GradCGPA    *float64
	Phone       *string
	Email       *string
}

// Merge applies the fill-missing rule: an incoming non-null value replaces
// the stored one, an incoming null never erases anything.
func Merge(existing, incoming Student) Student {
	out := existing
	if incoming.Name != "" {
		out.Name = incoming.Name
	}
	if incoming.College != "" {
		out.College = incoming.College
	}
	if incoming.Branch != "" {
		out.Branch = incoming.Branch
	}
	if incoming.Gender != "" {
		out.Gender = incoming.Gender
	}
	if incoming.TenthPct != nil {
		out.TenthPct = incoming.TenthPct
	}
	if incoming.TwelfthPct != nil {
		out.TwelfthPct = incoming.TwelfthPct
	}
	if incoming.GradCGPA != nil {
		out.GradCGPA = incoming.GradCGPA
	}
	if incoming.Phone != nil {
		out.Phone = incoming.Phone
	}
	if incoming.Email != nil {
		out.Email = incoming.Email
	}
	return out
}

type FindParams struct {
	PassoutYear int
	College     string
	Branch      string
	Search      string
	Limit       int
	Offset      int
}

type Repository interface {
	Upsert(ctx context.Context, s Student) error
	GetByRollNo(ctx context.Context, rollNo string) (Student, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Student, int64, error)
	DeleteByYear(ctx context.Context, year int) (int64, error)
}
