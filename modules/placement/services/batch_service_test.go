package services

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/campusforge/placements/modules/placement/domain/intake"
	"github.com/campusforge/placements/pkg/eventbus"
)

func newBatchFixture(t *testing.T) (*BatchService, *mockIntakeRepo, *mockAnalyticsRepo) {
	t.Helper()

	intakes := &mockIntakeRepo{}
	analyticsRepo := &mockAnalyticsRepo{}
	svc := NewBatchService(
		intakes,
		&mockStudentRepo{}, &mockOfferRepo{}, &mockTrainingRepo{}, &mockMentorshipRepo{},
		&mockUploadLogRepo{}, analyticsRepo,
		eventbus.NewEventPublisher(logrus.New()),
	)

	orig := inTxFn
	inTxFn = func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }
	t.Cleanup(func() { inTxFn = orig })
	return svc, intakes, analyticsRepo
}

func TestSaveEntriesSkipsInvalid(t *testing.T) {
	svc, intakes, _ := newBatchFixture(t)

	saved, err := svc.SaveEntries(actorCtx(), 2025, []intake.Entry{
		{College: "KIET", Branch: "CSE", TotalStudents: 120},
		{College: "", Branch: "ECE", TotalStudents: 60},
		{College: "KIEW", Branch: "ECE", TotalStudents: 0},
		{College: "KIEW", Branch: "CSM", TotalStudents: 60},
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	require.Len(t, intakes.entries, 2)
	require.Equal(t, 2025, intakes.entries[0].PassoutYear)
	require.Equal(t, "KIET", intakes.entries[0].College)
}

func TestPurgeYearRefreshesAnalytics(t *testing.T) {
	svc, _, analyticsRepo := newBatchFixture(t)

	require.NoError(t, svc.PurgeYear(actorCtx(), 2024))
	require.Equal(t, 1, analyticsRepo.refreshed)
}
