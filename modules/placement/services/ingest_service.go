package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/campusforge/placements/modules/placement/domain/analytics"
	"github.com/campusforge/placements/modules/placement/domain/mentorship"
	"github.com/campusforge/placements/modules/placement/domain/normalize"
	"github.com/campusforge/placements/modules/placement/domain/offer"
	"github.com/campusforge/placements/modules/placement/domain/rollcode"
	"github.com/campusforge/placements/modules/placement/domain/student"
	"github.com/campusforge/placements/modules/placement/domain/training"
	"github.com/campusforge/placements/modules/placement/domain/uploadlog"
	"github.com/campusforge/placements/modules/placement/infrastructure/sheet"
	"github.com/campusforge/placements/pkg/composables"
	"github.com/campusforge/placements/pkg/eventbus"
	"github.com/campusforge/placements/pkg/metrics"
)

// maxReportedErrors caps the per-row error sample returned to the client;
// the full list still goes into the audit row.
const maxReportedErrors = 30

// seams for tests
var (
	inTxFn         = composables.InTx
	inSavepointFn  = composables.InSavepoint
	recordRowsFn   = metrics.RecordIngestRows
	observeBatchFn = metrics.ObserveIngestDuration
)

type SheetCounts struct {
	Rows    int
	Added   int
	Skipped int
}

type IngestResult struct {
	Placements   SheetCounts
	Fmml         SheetCounts
	Khub         SheetCounts
	TotalAdded   int
	TotalSkipped int
	Errors       []string
}

// ValidationError reports mandatory columns missing from a sheet's first
// row. Nothing is committed when it is returned.
type ValidationError struct {
	Sheet    string
	Missing  []string
	Present  []string
	Expected []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s sheet: missing required columns: %s", e.Sheet, strings.Join(e.Missing, ", "))
}

var (
	placementColumns = []string{sheet.FieldRollNo, sheet.FieldStudentName, sheet.FieldCompanyName, sheet.FieldCtcLPA}
	fmmlColumns      = []string{sheet.FieldRollNo, sheet.FieldStudentName}
	khubColumns      = []string{sheet.FieldStudentName, sheet.FieldCompanyName, sheet.FieldCtcLPA}
)

type IngestService struct {
	students    student.Repository
	offers      offer.Repository
	trainings   training.Repository
	mentorships mentorship.Repository
	logs        uploadlog.Repository
	analytics   analytics.Repository
	codebook    rollcode.Codebook
	ctc         normalize.CompensationParser
	publisher   eventbus.EventBus
}

func NewIngestService(
	students student.Repository,
	offers offer.Repository,
	trainings training.Repository,
	mentorships mentorship.Repository,
	logs uploadlog.Repository,
	analyticsRepo analytics.Repository,
	codebook rollcode.Codebook,
	ctc normalize.CompensationParser,
	publisher eventbus.EventBus,
) *IngestService {
	return &IngestService{
		students:    students,
		offers:      offers,
		trainings:   trainings,
		mentorships: mentorships,
		logs:        logs,
		analytics:   analyticsRepo,
		codebook:    codebook,
		ctc:         ctc,
		publisher:   publisher,
	}
}

// Ingest loads the three sheets from the workbook, validates their headers,
// reconciles every row inside one transaction and writes one audit row per
// non-empty sheet. A row failure rolls back only that row; a validation
// failure commits nothing. The analytics refresh afterwards is best effort.
func (s *IngestService) Ingest(ctx context.Context, passoutYear int, fileName string, data []byte) (IngestResult, error) {
	logger := composables.UseLogger(ctx)
	started := time.Now()

	wb, err := sheet.Open(data)
	if err != nil {
		return IngestResult{}, err
	}
	defer wb.Close()

	placements, err := wb.Find(0, "placement", "placed")
	if err != nil {
		return IngestResult{}, err
	}
	fmml, err := wb.Find(1, "fmml")
	if err != nil {
		return IngestResult{}, err
	}
	khub, err := wb.Find(2, "khub")
	if err != nil {
		return IngestResult{}, err
	}

	if err := validateColumns("Placements", placements, placementColumns); err != nil {
		return IngestResult{}, err
	}
	if err := validateColumns("FMML", fmml, fmmlColumns); err != nil {
		return IngestResult{}, err
	}
	if err := validateColumns("KHUB", khub, khubColumns); err != nil {
		return IngestResult{}, err
	}

	actor, err := composables.UseUser(ctx)
	if err != nil {
		return IngestResult{}, err
	}

	var pRes, fRes, kRes sheetResult
	err = inTxFn(ctx, func(txCtx context.Context) error {
		pRes = s.reconcilePlacements(txCtx, placements.Rows, passoutYear)
		fRes = s.reconcileTraining(txCtx, fmml.Rows, passoutYear)
		kRes = s.reconcileMentorship(txCtx, khub.Rows, passoutYear)

		for _, entry := range []struct {
			kind uploadlog.SheetType
			rows int
			res  sheetResult
		}{
			{uploadlog.SheetPlacements, len(placements.Rows), pRes},
			{uploadlog.SheetFmml, len(fmml.Rows), fRes},
			{uploadlog.SheetKhub, len(khub.Rows), kRes},
		} {
			if entry.rows == 0 {
				continue
			}
			if err := s.logs.Insert(txCtx, uploadlog.Record{
				PassoutYear:    passoutYear,
				UploadType:     entry.kind,
				FileName:       fileName,
				RecordsAdded:   entry.res.added,
				RecordsSkipped: entry.res.skipped,
				Errors:         strings.Join(entry.res.errs, "\n"),
				UploadedBy:     actor.ID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return IngestResult{}, err
	}

	if err := s.analytics.Refresh(ctx); err != nil {
		logger.WithError(err).Warn("analytics refresh after ingest failed")
	}

	recordRowsFn("placements", pRes.added, pRes.skipped)
	recordRowsFn("fmml", fRes.added, fRes.skipped)
	recordRowsFn("khub", kRes.added, kRes.skipped)
	observeBatchFn(time.Since(started))

	result := IngestResult{
		Placements:   SheetCounts{Rows: len(placements.Rows), Added: pRes.added, Skipped: pRes.skipped},
		Fmml:         SheetCounts{Rows: len(fmml.Rows), Added: fRes.added, Skipped: fRes.skipped},
		Khub:         SheetCounts{Rows: len(khub.Rows), Added: kRes.added, Skipped: kRes.skipped},
		TotalAdded:   pRes.added + fRes.added + kRes.added,
		TotalSkipped: pRes.skipped + fRes.skipped + kRes.skipped,
	}
	allErrors := append(append(pRes.errs, fRes.errs...), kRes.errs...)
	if len(allErrors) > maxReportedErrors {
		allErrors = allErrors[:maxReportedErrors]
	}
	result.Errors = allErrors

	s.publisher.Publish("batch.ingested", result)
	return result, nil
}

func (s *IngestService) History(ctx context.Context, passoutYear int) ([]uploadlog.HistoryRow, error) {
	return s.logs.History(ctx, passoutYear)
}

// validateColumns checks the first data row of a non-empty sheet for the
// mandatory columns. An empty sheet passes.
func validateColumns(label string, sh *sheet.Sheet, required []string) error {
	first, ok := sh.First()
	if !ok {
		return nil
	}
	var missing []string
	for _, col := range required {
		if _, ok := first[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	present := make([]string, 0, len(first))
	for k := range first {
		present = append(present, k)
	}
	return &ValidationError{Sheet: label, Missing: missing, Present: present, Expected: required}
}
