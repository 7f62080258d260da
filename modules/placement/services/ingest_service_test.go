package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/campusforge/placements/modules/placement/domain/analytics"
	"github.com/campusforge/placements/modules/placement/domain/intake"
	"github.com/campusforge/placements/modules/placement/domain/mentorship"
	"github.com/campusforge/placements/modules/placement/domain/normalize"
	"github.com/campusforge/placements/modules/placement/domain/offer"
	"github.com/campusforge/placements/modules/placement/domain/rollcode"
	"github.com/campusforge/placements/modules/placement/domain/student"
	"github.com/campusforge/placements/modules/placement/domain/training"
	"github.com/campusforge/placements/modules/placement/domain/uploadlog"
	"github.com/campusforge/placements/pkg/composables"
	"github.com/campusforge/placements/pkg/eventbus"
	"github.com/sirupsen/logrus"
)

// ── in-package mocks ─────────────────────────────────────────────

type mockStudentRepo struct {
	upserts []student.Student
	err     error
}

func (m *mockStudentRepo) Upsert(_ context.Context, s student.Student) error {
	if m.err != nil {
		return m.err
	}
	m.upserts = append(m.upserts, s)
	return nil
}

func (m *mockStudentRepo) GetByRollNo(context.Context, string) (student.Student, error) {
	return student.Student{}, student.ErrNotFound
}

func (m *mockStudentRepo) GetPaginated(context.Context, *student.FindParams) ([]student.Student, int64, error) {
	return nil, 0, nil
}

func (m *mockStudentRepo) DeleteByYear(context.Context, int) (int64, error) { return 0, nil }

type mockOfferRepo struct {
	upserts []offer.Offer
	deleted []string
}

func (m *mockOfferRepo) Upsert(_ context.Context, o offer.Offer) error {
	m.upserts = append(m.upserts, o)
	return nil
}

func (m *mockOfferRepo) ListByRollNo(context.Context, string) ([]offer.Offer, error) {
	return nil, nil
}

func (m *mockOfferRepo) DeleteByYear(_ context.Context, _ int, source string) (int64, error) {
	m.deleted = append(m.deleted, source)
	return 1, nil
}

type mockTrainingRepo struct {
	upserts []training.Participation
}

func (m *mockTrainingRepo) Upsert(_ context.Context, p training.Participation) error {
	m.upserts = append(m.upserts, p)
	return nil
}

func (m *mockTrainingRepo) ListByRollNo(context.Context, string) ([]training.Participation, error) {
	return nil, nil
}

func (m *mockTrainingRepo) DeleteByYear(context.Context, int) (int64, error) { return 1, nil }

type mockMentorshipRepo struct {
	inserts []mentorship.Participation
}

func (m *mockMentorshipRepo) InsertIgnore(_ context.Context, p mentorship.Participation) error {
	m.inserts = append(m.inserts, p)
	return nil
}

func (m *mockMentorshipRepo) ListByRollNo(context.Context, string) ([]mentorship.Participation, error) {
	return nil, nil
}

func (m *mockMentorshipRepo) DeleteByYear(context.Context, int) (int64, error) { return 1, nil }

type mockUploadLogRepo struct {
	records []uploadlog.Record
}

func (m *mockUploadLogRepo) Insert(_ context.Context, r uploadlog.Record) error {
	m.records = append(m.records, r)
	return nil
}

func (m *mockUploadLogRepo) History(context.Context, int) ([]uploadlog.HistoryRow, error) {
	return nil, nil
}

func (m *mockUploadLogRepo) DeleteByYear(context.Context, int) (int64, error) { return 0, nil }

type mockAnalyticsRepo struct {
	refreshed int
}

func (m *mockAnalyticsRepo) Overview(context.Context, int) (analytics.Overview, error) {
	return analytics.Overview{}, nil
}

func (m *mockAnalyticsRepo) PlacementRate(context.Context) ([]analytics.PlacementRate, error) {
	return nil, nil
}

func (m *mockAnalyticsRepo) BranchSummaries(context.Context, int) ([]analytics.BranchSummary, error) {
	return nil, nil
}

func (m *mockAnalyticsRepo) CompanySummaries(context.Context, int) ([]analytics.CompanySummary, error) {
	return nil, nil
}

func (m *mockAnalyticsRepo) CtcBands(context.Context) ([]analytics.CtcBand, error) {
	return nil, nil
}

func (m *mockAnalyticsRepo) Refresh(context.Context) error {
	m.refreshed++
	return nil
}

var _ intake.Repository = (*mockIntakeRepo)(nil)

type mockIntakeRepo struct {
	entries []intake.Entry
}

func (m *mockIntakeRepo) Upsert(_ context.Context, e intake.Entry) (intake.Entry, error) {
	e.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *mockIntakeRepo) UpdateTotal(context.Context, int64, int) (intake.Entry, error) {
	return intake.Entry{}, intake.ErrNotFound
}

func (m *mockIntakeRepo) Delete(context.Context, int64) error          { return nil }
func (m *mockIntakeRepo) DeleteByYear(context.Context, int) (int64, error) { return 0, nil }
func (m *mockIntakeRepo) Years(context.Context) ([]int, error)         { return nil, nil }
func (m *mockIntakeRepo) Summaries(context.Context) ([]intake.YearSummary, error) {
	return nil, nil
}

// ── fixtures ─────────────────────────────────────────────────────

type ingestFixture struct {
	svc         *IngestService
	students    *mockStudentRepo
	offers      *mockOfferRepo
	trainings   *mockTrainingRepo
	mentorships *mockMentorshipRepo
	logs        *mockUploadLogRepo
	analytics   *mockAnalyticsRepo
	txCalls     *int
}

func newIngestFixture(t *testing.T) *ingestFixture {
	t.Helper()

	f := &ingestFixture{
		students:    &mockStudentRepo{},
		offers:      &mockOfferRepo{},
		trainings:   &mockTrainingRepo{},
		mentorships: &mockMentorshipRepo{},
		logs:        &mockUploadLogRepo{},
		analytics:   &mockAnalyticsRepo{},
		txCalls:     new(int),
	}
	f.svc = NewIngestService(
		f.students, f.offers, f.trainings, f.mentorships, f.logs, f.analytics,
		rollcode.Default(), normalize.CTCParser{},
		eventbus.NewEventPublisher(logrus.New()),
	)

	origTx, origSp := inTxFn, inSavepointFn
	origRec, origObs := recordRowsFn, observeBatchFn
	inTxFn = func(ctx context.Context, fn func(context.Context) error) error {
		*f.txCalls++
		return fn(ctx)
	}
	inSavepointFn = func(ctx context.Context, fn func(context.Context) error) error {
		return fn(ctx)
	}
	recordRowsFn = func(string, int, int) {}
	observeBatchFn = func(time.Duration) {}
	t.Cleanup(func() {
		inTxFn, inSavepointFn = origTx, origSp
		recordRowsFn, observeBatchFn = origRec, origObs
	})
	return f
}

func actorCtx() context.Context {
	return composables.WithUser(context.Background(), composables.Actor{ID: 7, Username: "admin", Role: "admin"})
}

func buildUpload(t *testing.T, placements, fmml, khub [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Placements"))
	write := func(name string, rows [][]interface{}) {
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	write("Placements", placements)
	_, err := f.NewSheet("FMML")
	require.NoError(t, err)
	write("FMML", fmml)
	_, err = f.NewSheet("KHUB")
	require.NoError(t, err)
	write("KHUB", khub)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

var placementHeader = []interface{}{"roll_no", "student_name", "company_name", "ctc_lpa", "tenth_pct"}

// ── tests ────────────────────────────────────────────────────────

func TestIngestMalformedRowIsRejectedAlone(t *testing.T) {
	f := newIngestFixture(t)

	data := buildUpload(t,
		[][]interface{}{
			placementHeader,
			{"22JN1A0501", "A", "TCS", "3.6", "85"},
			{"22JN1A0502", "B", "Wipro", "10k", "80"},
			{"22JN1A0503", "C", "Infosys", "4.2", "not-a-number"},
			{"22JN1A0504", "D", "TCS", "15000", ""},
			{"22JN1A0505", "E", "HCL", "5", "90"},
		},
		nil, nil,
	)

	res, err := f.svc.Ingest(actorCtx(), 2025, "batch.xlsx", data)
	require.NoError(t, err)

	require.Equal(t, 5, res.Placements.Rows)
	require.Equal(t, 4, res.Placements.Added)
	require.Equal(t, 1, res.Placements.Skipped)
	require.Len(t, res.Errors, 1)
	require.Contains(t, res.Errors[0], "Placements Row 4")
	require.Contains(t, res.Errors[0], "tenth_pct")

	// one audit row: only the placements sheet had data
	require.Len(t, f.logs.records, 1)
	require.Equal(t, uploadlog.SheetPlacements, f.logs.records[0].UploadType)
	require.Equal(t, 4, f.logs.records[0].RecordsAdded)
	require.Equal(t, int64(7), f.logs.records[0].UploadedBy)
	require.Equal(t, 1, f.analytics.refreshed)
}

func TestIngestValidationFailureCommitsNothing(t *testing.T) {
	f := newIngestFixture(t)

	data := buildUpload(t,
		[][]interface{}{
			{"roll_no", "student_name", "ctc_lpa"},
			{"22JN1A0501", "A", "3.6"},
		},
		nil, nil,
	)

	_, err := f.svc.Ingest(actorCtx(), 2025, "batch.xlsx", data)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "Placements", vErr.Sheet)
	require.Equal(t, []string{"company_name"}, vErr.Missing)
	require.Zero(t, *f.txCalls)
	require.Empty(t, f.logs.records)
	require.Zero(t, f.analytics.refreshed)
}

func TestIngestBlankTrailingCellIsNotMissingColumn(t *testing.T) {
	f := newIngestFixture(t)

	data := buildUpload(t,
		[][]interface{}{
			placementHeader,
			{"22JN1A0501", "A", "TCS", "", ""},
		},
		nil, nil,
	)

	res, err := f.svc.Ingest(actorCtx(), 2025, "batch.xlsx", data)
	require.NoError(t, err)
	require.Equal(t, 1, res.Placements.Added)
	require.Len(t, f.offers.upserts, 1)
	require.Zero(t, f.offers.upserts[0].CtcLPA)
}

func TestIngestPlaceholderCompanySkipped(t *testing.T) {
	f := newIngestFixture(t)

	data := buildUpload(t,
		[][]interface{}{
			placementHeader,
			{"22JN1A0501", "A", "N/A", "3.6", ""},
			{"22JN1A0502", "B", "TCS", "3.6", ""},
		},
		nil, nil,
	)

	res, err := f.svc.Ingest(actorCtx(), 2025, "batch.xlsx", data)
	require.NoError(t, err)
	require.Equal(t, 1, res.Placements.Added)
	require.Equal(t, 1, res.Placements.Skipped)
	require.Len(t, res.Errors, 1)
	require.Contains(t, res.Errors[0], "invalid company_name")
	require.Len(t, f.offers.upserts, 1)
	require.Equal(t, "TCS", f.offers.upserts[0].CompanyName)
}

func TestIngestKhubRowWithoutRollNoSkipped(t *testing.T) {
	f := newIngestFixture(t)

	data := buildUpload(t,
		nil, nil,
		[][]interface{}{
			{"roll_no", "student_name", "company_name", "ctc_lpa"},
			{"", "Ghost", "TCS", "3.6"},
			{"22JN1A0501", "A", "Wipro", "10k"},
		},
	)

	res, err := f.svc.Ingest(actorCtx(), 2025, "batch.xlsx", data)
	require.NoError(t, err)
	require.Equal(t, 1, res.Khub.Added)
	require.Equal(t, 1, res.Khub.Skipped)
	require.Contains(t, res.Errors[0], "KHUB Row 2")
	require.Contains(t, res.Errors[0], "no roll_no")

	require.Len(t, f.mentorships.inserts, 1)
	require.Equal(t, "22JN1A0501", f.mentorships.inserts[0].RollNo)
	require.Len(t, f.offers.upserts, 1)
	require.Equal(t, normalize.SourceKhub, f.offers.upserts[0].Source)
	require.InDelta(t, 1.2, f.offers.upserts[0].CtcLPA, 1e-9)
}

func TestIngestKhubPlaceholderCompanyStillCountsMembership(t *testing.T) {
	f := newIngestFixture(t)

	data := buildUpload(t,
		nil, nil,
		[][]interface{}{
			{"roll_no", "student_name", "company_name", "ctc_lpa"},
			{"22JN1A0501", "A", "NA", ""},
		},
	)

	res, err := f.svc.Ingest(actorCtx(), 2025, "batch.xlsx", data)
	require.NoError(t, err)
	require.Equal(t, 1, res.Khub.Added)
	require.Zero(t, res.Khub.Skipped)
	require.Len(t, f.mentorships.inserts, 1)
	require.Empty(t, f.offers.upserts)
}

func TestIngestFmmlDefaultBatchAndDerivedBranch(t *testing.T) {
	f := newIngestFixture(t)

	data := buildUpload(t,
		nil,
		[][]interface{}{
			{"roll_no", "student_name", "status"},
			{"22JN1A0501", "A", "completed"},
		},
		nil,
	)

	res, err := f.svc.Ingest(actorCtx(), 2025, "batch.xlsx", data)
	require.NoError(t, err)
	require.Equal(t, 1, res.Fmml.Added)

	require.Len(t, f.trainings.upserts, 1)
	require.Equal(t, "FMML-2025", f.trainings.upserts[0].FmmlBatch)
	require.Equal(t, normalize.FmmlCompleted, f.trainings.upserts[0].Status)

	require.Len(t, f.students.upserts, 1)
	require.Equal(t, "KIEW", f.students.upserts[0].College)
	require.Equal(t, "CSE", f.students.upserts[0].Branch)
	require.Equal(t, 2025, f.students.upserts[0].PassoutYear)
}

func TestIngestRequiresActor(t *testing.T) {
	f := newIngestFixture(t)

	data := buildUpload(t,
		[][]interface{}{placementHeader, {"22JN1A0501", "A", "TCS", "3.6", ""}},
		nil, nil,
	)

	_, err := f.svc.Ingest(context.Background(), 2025, "batch.xlsx", data)
	require.ErrorIs(t, err, composables.ErrNoUser)
	require.Zero(t, *f.txCalls)
}

func TestClearDataBadType(t *testing.T) {
	f := newIngestFixture(t)

	_, err := f.svc.ClearData(actorCtx(), 2025, "everything")
	require.ErrorIs(t, err, ErrBadClearType)
}

func TestClearDataKhubRemovesOffersAndMembership(t *testing.T) {
	f := newIngestFixture(t)

	n, err := f.svc.ClearData(actorCtx(), 2025, ClearKhub)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
	require.Equal(t, []string{offer.DeleteKhubOnly}, f.offers.deleted)
	require.Equal(t, 1, f.analytics.refreshed)
}

func TestIngestRowFailureDoesNotAbortBatch(t *testing.T) {
	f := newIngestFixture(t)

	// fail the first student upsert only
	boom := errors.New("duplicate key")
	f.students.err = boom
	origSp := inSavepointFn
	calls := 0
	inSavepointFn = func(ctx context.Context, fn func(context.Context) error) error {
		calls++
		if calls > 1 {
			f.students.err = nil
		}
		return fn(ctx)
	}
	t.Cleanup(func() { inSavepointFn = origSp })

	data := buildUpload(t,
		[][]interface{}{
			placementHeader,
			{"22JN1A0501", "A", "TCS", "3.6", ""},
			{"22JN1A0502", "B", "Wipro", "4.0", ""},
		},
		nil, nil,
	)

	res, err := f.svc.Ingest(actorCtx(), 2025, "batch.xlsx", data)
	require.NoError(t, err)
	require.Equal(t, 1, res.Placements.Added)
	require.Equal(t, 1, res.Placements.Skipped)
	require.Contains(t, res.Errors[0], "Placements Row 2")
	require.Contains(t, res.Errors[0], "duplicate key")
}
