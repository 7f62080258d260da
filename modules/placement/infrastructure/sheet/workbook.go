// Package sheet loads xlsx workbooks into header-keyed rows. Sheet lookup
// is tolerant of naming drift: case-insensitive substring match first,
// positional fallback second.
package sheet

import (
	"bytes"
	"strings"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

// Row is one spreadsheet row keyed by normalized, alias-resolved headers.
// Cell values keep their raw string form.
type Row map[string]string

type Sheet struct {
	Name string
	Rows []Row
}

// First returns the first data row, used for mandatory-column validation.
func (s *Sheet) First() (Row, bool) {
	if len(s.Rows) == 0 {
		return nil, false
	}
	return s.Rows[0], true
}

type Workbook struct {
	file *excelize.File
}

func Open(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	return &Workbook{file: f}, nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Find locates a sheet whose name contains any of the given substrings,
// ignoring case and whitespace. When no name matches it falls
// back to the sheet at position (0-based), so single-sheet exports without
// conventional names still load.
func (w *Workbook) Find(position int, substrings ...string) (*Sheet, error) {
	names := w.file.GetSheetList()
	for _, name := range names {
		folded := whitespaceRe.ReplaceAllString(strings.ToLower(name), "")
		for _, sub := range substrings {
			if strings.Contains(folded, sub) {
				return w.load(name)
			}
		}
	}
	if position >= 0 && position < len(names) {
		return w.load(names[position])
	}
	return &Sheet{}, nil
}

func (w *Workbook) load(name string) (*Sheet, error) {
	raw, err := w.file.GetRows(name)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", name)
	}
	if len(raw) == 0 {
		return &Sheet{Name: name}, nil
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = normalizeHeader(h)
	}

	rows := make([]Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := Row{}
		// Iterate over headers, not cells: excelize truncates trailing
		// blanks, and a blank cell must still keep its key.
		for i, key := range headers {
			if key == "" || emptyColRe.MatchString(key) {
				continue
			}
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			row[key] = strings.TrimSpace(cell)
		}
		if blank(row) {
			continue
		}
		rows = append(rows, resolveAliases(row))
	}
	return &Sheet{Name: name, Rows: rows}, nil
}

func blank(row Row) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
