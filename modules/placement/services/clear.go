package services

import (
	"context"

	"github.com/campusforge/placements/modules/placement/domain/offer"
	"github.com/campusforge/placements/pkg/composables"
	"github.com/campusforge/placements/pkg/serrors"
)

// Clear types accepted by ClearData.
const (
	ClearPlacements = "placements"
	ClearFmml       = "fmml"
	ClearKhub       = "khub"
	ClearAll        = "all"
)

var ErrBadClearType = serrors.NewError("BAD_CLEAR_TYPE", "type must be placements, fmml, khub, or all")

// ClearData deletes ingested data for a passout year, scoped by type.
// "placements" removes campus offers only, "khub" removes KHUB offers and
// memberships, "all" removes every fact plus the students and audit rows.
// Returns the number of rows deleted.
func (s *IngestService) ClearData(ctx context.Context, passoutYear int, clearType string) (int64, error) {
	logger := composables.UseLogger(ctx)

	var deleted int64
	err := inTxFn(ctx, func(txCtx context.Context) error {
		switch clearType {
		case ClearPlacements:
			n, err := s.offers.DeleteByYear(txCtx, passoutYear, offer.DeleteCampusOnly)
			if err != nil {
				return err
			}
			deleted = n
		case ClearFmml:
			n, err := s.trainings.DeleteByYear(txCtx, passoutYear)
			if err != nil {
				return err
			}
			deleted = n
		case ClearKhub:
			n1, err := s.offers.DeleteByYear(txCtx, passoutYear, offer.DeleteKhubOnly)
			if err != nil {
				return err
			}
			n2, err := s.mentorships.DeleteByYear(txCtx, passoutYear)
			if err != nil {
				return err
			}
			deleted = n1 + n2
		case ClearAll:
			n1, err := s.offers.DeleteByYear(txCtx, passoutYear, offer.DeleteAll)
			if err != nil {
				return err
			}
			n2, err := s.trainings.DeleteByYear(txCtx, passoutYear)
			if err != nil {
				return err
			}
			n3, err := s.mentorships.DeleteByYear(txCtx, passoutYear)
			if err != nil {
				return err
			}
			n4, err := s.students.DeleteByYear(txCtx, passoutYear)
			if err != nil {
				return err
			}
			if _, err := s.logs.DeleteByYear(txCtx, passoutYear); err != nil {
				return err
			}
			deleted = n1 + n2 + n3 + n4
		default:
			return ErrBadClearType
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := s.analytics.Refresh(ctx); err != nil {
		logger.WithError(err).Warn("analytics refresh after clear failed")
	}
	s.publisher.Publish("data.cleared", clearType)
	return deleted, nil
}
