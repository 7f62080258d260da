package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusforge/placements/modules/placement/domain/mentorship"
	"github.com/campusforge/placements/modules/placement/domain/normalize"
	"github.com/campusforge/placements/modules/placement/domain/offer"
	"github.com/campusforge/placements/modules/placement/domain/student"
	"github.com/campusforge/placements/modules/placement/domain/training"
	"github.com/campusforge/placements/modules/placement/infrastructure/sheet"
)

// Row numbers in error messages are 1-based spreadsheet rows; data starts
// at row 2 because of the header.
const headerOffset = 2

type sheetResult struct {
	added   int
	skipped int
	errs    []string
}

// reconcilePlacements upserts one student and one offer per row. Each row
// runs in its own savepoint so a bad row cannot abort the batch.
func (s *IngestService) reconcilePlacements(ctx context.Context, rows []sheet.Row, passoutYear int) sheetResult {
	var res sheetResult
	for i, row := range rows {
		rollNo := strings.TrimSpace(row[sheet.FieldRollNo])
		if rollNo == "" {
			res.skipped++
			continue
		}

		companyName := strings.TrimSpace(row[sheet.FieldCompanyName])
		if normalize.IsPlaceholderCompany(companyName) {
			res.skipped++
			res.errs = append(res.errs, fmt.Sprintf("Placements Row %d: skipped, invalid company_name: %q", i+headerOffset, row[sheet.FieldCompanyName]))
			continue
		}

		err := inSavepointFn(ctx, func(spCtx context.Context) error {
			st, err := s.buildStudent(row, rollNo, passoutYear, true)
			if err != nil {
				return err
			}
			if err := s.students.Upsert(spCtx, st); err != nil {
				return err
			}
			return s.offers.Upsert(spCtx, offer.Offer{
				RollNo:      rollNo,
				CompanyName: companyName,
				CtcLPA:      s.ctc.Parse(row[sheet.FieldCtcLPA]),
				OfferType:   normalize.OfferType(row[sheet.FieldOfferType]),
				Role:        optionalText(row[sheet.FieldRole]),
				Source:      normalize.Source(row[sheet.FieldSource]),
				OfferDate:   normalize.Date(row[sheet.FieldOfferDate]),
			})
		})
		if err != nil {
			res.skipped++
			res.errs = append(res.errs, fmt.Sprintf("Placements Row %d: %v", i+headerOffset, err))
			continue
		}
		res.added++
	}
	return res
}

// reconcileTraining upserts one student and one FMML participation per row.
func (s *IngestService) reconcileTraining(ctx context.Context, rows []sheet.Row, passoutYear int) sheetResult {
	var res sheetResult
	for i, row := range rows {
		rollNo := strings.TrimSpace(row[sheet.FieldRollNo])
		if rollNo == "" {
			res.skipped++
			continue
		}

		err := inSavepointFn(ctx, func(spCtx context.Context) error {
			st, err := s.buildStudent(row, rollNo, passoutYear, false)
			if err != nil {
				return err
			}
			if err := s.students.Upsert(spCtx, st); err != nil {
				return err
			}

			score, err := normalize.Float(row[sheet.FieldScore])
			if err != nil {
				return fmt.Errorf("score: %w", err)
			}
			batch := strings.TrimSpace(row[sheet.FieldFmmlBatch])
			if batch == "" {
				batch = fmt.Sprintf("FMML-%d", passoutYear)
			}
			return s.trainings.Upsert(spCtx, training.Participation{
				RollNo:         rollNo,
				FmmlBatch:      batch,
				Status:         normalize.FmmlStatus(row[sheet.FieldStatus]),
				ModuleName:     optionalText(row[sheet.FieldModuleName]),
				Score:          score,
				CertificateID:  optionalText(row[sheet.FieldCertificateID]),
				CompletionDate: normalize.Date(row[sheet.FieldCompletionDate]),
			})
		})
		if err != nil {
			res.skipped++
			res.errs = append(res.errs, fmt.Sprintf("FMML Row %d: %v", i+headerOffset, err))
			continue
		}
		res.added++
	}
	return res
}

// reconcileMentorship records KHUB membership for every row and an offer
// when the row names a real company. Membership without a company still
// counts as added.
func (s *IngestService) reconcileMentorship(ctx context.Context, rows []sheet.Row, passoutYear int) sheetResult {
	var res sheetResult
	for i, row := range rows {
		rollNo := strings.TrimSpace(row[sheet.FieldRollNo])
		if rollNo == "" {
			res.skipped++
			res.errs = append(res.errs, fmt.Sprintf("KHUB Row %d: skipped, no roll_no", i+headerOffset))
			continue
		}

		err := inSavepointFn(ctx, func(spCtx context.Context) error {
			st, err := s.buildStudent(row, rollNo, passoutYear, false)
			if err != nil {
				return err
			}
			if err := s.students.Upsert(spCtx, st); err != nil {
				return err
			}

			if err := s.mentorships.InsertIgnore(spCtx, mentorship.Participation{
				RollNo:       rollNo,
				ActivityType: mentorship.ActivityPlacement,
				Status:       normalize.KhubStatus(row[sheet.FieldStatus]),
			}); err != nil {
				return err
			}

			companyName := strings.TrimSpace(row[sheet.FieldCompanyName])
			if normalize.IsPlaceholderCompany(companyName) {
				return nil
			}
			return s.offers.Upsert(spCtx, offer.Offer{
				RollNo:      rollNo,
				CompanyName: companyName,
				CtcLPA:      s.ctc.Parse(row[sheet.FieldCtcLPA]),
				OfferType:   normalize.OfferType(row[sheet.FieldOfferType]),
				Role:        optionalText(row[sheet.FieldRole]),
				Source:      normalize.SourceKhub,
				OfferDate:   normalize.Date(row[sheet.FieldOfferDate]),
			})
		})
		if err != nil {
			res.skipped++
			res.errs = append(res.errs, fmt.Sprintf("KHUB Row %d: %v", i+headerOffset, err))
			continue
		}
		res.added++
	}
	return res
}

// buildStudent assembles the student upsert for a row. College and branch
// come from explicit columns when present, otherwise from the roll number
// codebook, otherwise the institutional defaults. The full flag includes
// the academic profile columns only the placements sheet carries.
func (s *IngestService) buildStudent(row sheet.Row, rollNo string, passoutYear int, full bool) (student.Student, error) {
	derivedCollege, derivedBranch := s.codebook.Decode(rollNo)

	college := strings.TrimSpace(row[sheet.FieldCollege])
	if college == "" {
		college = derivedCollege
	}
	if college == "" {
		college = "KIET"
	}
	branch := strings.TrimSpace(row[sheet.FieldBranch])
	if branch == "" {
		branch = derivedBranch
	}
	if branch == "" {
		branch = "CSE"
	}
	name := strings.TrimSpace(row[sheet.FieldStudentName])
	if name == "" {
		name = "Unknown"
	}

	st := student.Student{
		RollNo:      rollNo,
		Name:        name,
		College:     strings.ToUpper(college),
		Branch:      branch,
		PassoutYear: passoutYear,
		Gender:      normalize.Gender(row[sheet.FieldGender]),
	}
	if !full {
		return st, nil
	}

	var err error
	if st.TenthPct, err = normalize.Float(row[sheet.FieldTenthPct]); err != nil {
		return student.Student{}, fmt.Errorf("tenth_pct: %w", err)
	}
	if st.TwelfthPct, err = normalize.Float(row[sheet.FieldTwelfthPct]); err != nil {
		return student.Student{}, fmt.Errorf("twelfth_pct: %w", err)
	}
	if st.GradCGPA, err = normalize.Float(row[sheet.FieldGradCGPA]); err != nil {
		return student.Student{}, fmt.Errorf("grad_cgpa: %w", err)
	}
	st.Phone = optionalText(row[sheet.FieldPhone])
	st.Email = optionalText(row[sheet.FieldEmail])
	return st, nil
}

func optionalText(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
