package sheet

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheets map[string][][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestFindByNameSubstring(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		" Placed Students 2025 ": {
			{"S.No", "Name", "Roll No", "Company", "Package"},
			{1, "Jane Smith", "22JN1A0501", "TCS", "3.6"},
		},
	})
	wb, err := Open(data)
	require.NoError(t, err)
	defer wb.Close()

	s, err := wb.Find(0, "placement", "placed")
	require.NoError(t, err)
	require.Equal(t, " Placed Students 2025 ", s.Name)
	require.Len(t, s.Rows, 1)

	row := s.Rows[0]
	require.Equal(t, "Jane Smith", row[FieldStudentName])
	require.Equal(t, "22JN1A0501", row[FieldRollNo])
	require.Equal(t, "TCS", row[FieldCompanyName])
	require.Equal(t, "3.6", row[FieldCtcLPA])
	_, hasSerial := row["s.no"]
	require.False(t, hasSerial)
}

func TestFindPositionFallback(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"Data": {
			{"roll_no", "student_name"},
			{"22JN1A0501", "Jane Smith"},
		},
	})
	wb, err := Open(data)
	require.NoError(t, err)
	defer wb.Close()

	s, err := wb.Find(0, "fmml")
	require.NoError(t, err)
	require.Equal(t, "Data", s.Name)
	require.Len(t, s.Rows, 1)

	missing, err := wb.Find(2, "khub")
	require.NoError(t, err)
	require.Empty(t, missing.Name)
	require.Empty(t, missing.Rows)
}

func TestLoadDropsBlankRowsAndEmptyHeaders(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"Placements": {
			{"Roll Number", "Student Name", "", "IT / Non IT"},
			{"22JN1A0501", "Jane Smith", "stray", "IT"},
			{"", "", "", ""},
			{"22B21A0402", "John Doe", nil, "Non-IT"},
		},
	})
	wb, err := Open(data)
	require.NoError(t, err)
	defer wb.Close()

	s, err := wb.Find(0, "placement")
	require.NoError(t, err)
	require.Len(t, s.Rows, 2)

	require.Equal(t, "IT", s.Rows[0][FieldOfferType])
	require.Equal(t, "Non-IT", s.Rows[1][FieldOfferType])
	require.Equal(t, "22JN1A0501", s.Rows[0][FieldRollNo])
	for k := range s.Rows[0] {
		require.NotEmpty(t, k)
	}
}

func TestLoadKeepsTrailingBlankCells(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"Placements": {
			{"Roll No", "Student Name", "Company", "CTC LPA"},
			{"22JN1A0501", "Jane Smith", "TCS", ""},
		},
	})
	wb, err := Open(data)
	require.NoError(t, err)
	defer wb.Close()

	s, err := wb.Find(0, "placement")
	require.NoError(t, err)
	require.Len(t, s.Rows, 1)

	// Trailing blank cells are truncated by the xlsx reader; the row must
	// still carry every header key with an empty value.
	v, ok := s.Rows[0][FieldCtcLPA]
	require.True(t, ok)
	require.Equal(t, "", v)
	require.Equal(t, "TCS", s.Rows[0][FieldCompanyName])
}

func TestAliasDoesNotClobberCanonical(t *testing.T) {
	row := Row{"ctc_lpa": "4.5", "package": "ignored", "name": "Jane"}
	mapped := resolveAliases(row)
	require.Equal(t, "4.5", mapped[FieldCtcLPA])
	require.Equal(t, "Jane", mapped[FieldStudentName])
	_, ok := mapped["name"]
	require.False(t, ok)
}

func TestNormalizeHeader(t *testing.T) {
	require.Equal(t, "roll_number", normalizeHeader("  Roll   Number "))
	require.Equal(t, "it/non-it", normalizeHeader("IT/Non-IT"))
	require.Equal(t, "s.no", normalizeHeader("S.No"))
}
