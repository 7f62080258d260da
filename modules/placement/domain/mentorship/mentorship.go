// Package mentorship models membership in the KHUB mentorship network.
package mentorship

import "context"

// Participation records that a student took part in a KHUB activity.
// Uniqueness is (roll_no, activity_type); a second insert is ignored, there
// is no merge. A KHUB-sourced placement offer is a separate fact related
// only by the shared roll number.
type Participation struct {
	ID           int64
	RollNo       string
	ActivityType string
	Status       string
}

const ActivityPlacement = "Placement"

type Repository interface {
	InsertIgnore(ctx context.Context, p Participation) error
	ListByRollNo(ctx context.Context, rollNo string) ([]Participation, error)
	DeleteByYear(ctx context.Context, year int) (int64, error)
}
