package services

import (
	"context"

	"github.com/campusforge/placements/modules/placement/domain/mentorship"
	"github.com/campusforge/placements/modules/placement/domain/offer"
	"github.com/campusforge/placements/modules/placement/domain/student"
	"github.com/campusforge/placements/modules/placement/domain/training"
)

// Profile is a student joined with every fact recorded against them.
type Profile struct {
	Student     student.Student
	Offers      []offer.Offer
	Trainings   []training.Participation
	Mentorships []mentorship.Participation
}

type StudentService struct {
	students    student.Repository
	offers      offer.Repository
	trainings   training.Repository
	mentorships mentorship.Repository
}

func NewStudentService(
	students student.Repository,
	offers offer.Repository,
	trainings training.Repository,
	mentorships mentorship.Repository,
) *StudentService {
	return &StudentService{
		students:    students,
		offers:      offers,
		trainings:   trainings,
		mentorships: mentorships,
	}
}

func (s *StudentService) GetPaginated(ctx context.Context, params *student.FindParams) ([]student.Student, int64, error) {
	if params.Limit <= 0 {
		params.Limit = 20
	}
	return s.students.GetPaginated(ctx, params)
}

func (s *StudentService) Profile(ctx context.Context, rollNo string) (Profile, error) {
	st, err := s.students.GetByRollNo(ctx, rollNo)
	if err != nil {
		return Profile{}, err
	}
	offers, err := s.offers.ListByRollNo(ctx, rollNo)
	if err != nil {
		return Profile{}, err
	}
	trainings, err := s.trainings.ListByRollNo(ctx, rollNo)
	if err != nil {
		return Profile{}, err
	}
	mentorships, err := s.mentorships.ListByRollNo(ctx, rollNo)
	if err != nil {
		return Profile{}, err
	}
	return Profile{Student: st, Offers: offers, Trainings: trainings, Mentorships: mentorships}, nil
}
