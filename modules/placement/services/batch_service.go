package services

import (
	"context"

	"github.com/campusforge/placements/modules/placement/domain/analytics"
	"github.com/campusforge/placements/modules/placement/domain/intake"
	"github.com/campusforge/placements/modules/placement/domain/mentorship"
	"github.com/campusforge/placements/modules/placement/domain/offer"
	"github.com/campusforge/placements/modules/placement/domain/student"
	"github.com/campusforge/placements/modules/placement/domain/training"
	"github.com/campusforge/placements/modules/placement/domain/uploadlog"
	"github.com/campusforge/placements/pkg/composables"
	"github.com/campusforge/placements/pkg/eventbus"
)

type BatchService struct {
	intakes     intake.Repository
	students    student.Repository
	offers      offer.Repository
	trainings   training.Repository
	mentorships mentorship.Repository
	logs        uploadlog.Repository
	analytics   analytics.Repository
	publisher   eventbus.EventBus
}

func NewBatchService(
	intakes intake.Repository,
	students student.Repository,
	offers offer.Repository,
	trainings training.Repository,
	mentorships mentorship.Repository,
	logs uploadlog.Repository,
	analyticsRepo analytics.Repository,
	publisher eventbus.EventBus,
) *BatchService {
	return &BatchService{
		intakes:     intakes,
		students:    students,
		offers:      offers,
		trainings:   trainings,
		mentorships: mentorships,
		logs:        logs,
		analytics:   analyticsRepo,
		publisher:   publisher,
	}
}

func (s *BatchService) Summaries(ctx context.Context) ([]intake.YearSummary, error) {
	return s.intakes.Summaries(ctx)
}

func (s *BatchService) Years(ctx context.Context) ([]int, error) {
	return s.intakes.Years(ctx)
}

// SaveEntries upserts a year's intake entries in one transaction. Entries
// without a college, branch or positive headcount are ignored.
func (s *BatchService) SaveEntries(ctx context.Context, passoutYear int, entries []intake.Entry) ([]intake.Entry, error) {
	var saved []intake.Entry
	err := inTxFn(ctx, func(txCtx context.Context) error {
		for _, e := range entries {
			if e.College == "" || e.Branch == "" || e.TotalStudents <= 0 {
				continue
			}
			e.PassoutYear = passoutYear
			out, err := s.intakes.Upsert(txCtx, e)
			if err != nil {
				return err
			}
			saved = append(saved, out)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish("intake.saved", saved)
	return saved, nil
}

func (s *BatchService) UpdateEntry(ctx context.Context, id int64, total int) (intake.Entry, error) {
	return s.intakes.UpdateTotal(ctx, id, total)
}

func (s *BatchService) DeleteEntry(ctx context.Context, id int64) error {
	return s.intakes.Delete(ctx, id)
}

// PurgeYear removes everything recorded for a passout year: facts first,
// then students, intake and audit rows, all in one transaction.
func (s *BatchService) PurgeYear(ctx context.Context, year int) error {
	logger := composables.UseLogger(ctx)

	err := inTxFn(ctx, func(txCtx context.Context) error {
		if _, err := s.mentorships.DeleteByYear(txCtx, year); err != nil {
			return err
		}
		if _, err := s.trainings.DeleteByYear(txCtx, year); err != nil {
			return err
		}
		if _, err := s.offers.DeleteByYear(txCtx, year, offer.DeleteAll); err != nil {
			return err
		}
		if _, err := s.students.DeleteByYear(txCtx, year); err != nil {
			return err
		}
		if _, err := s.intakes.DeleteByYear(txCtx, year); err != nil {
			return err
		}
		if _, err := s.logs.DeleteByYear(txCtx, year); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.analytics.Refresh(ctx); err != nil {
		logger.WithError(err).Warn("analytics refresh after purge failed")
	}
	s.publisher.Publish("batch.purged", year)
	return nil
}
