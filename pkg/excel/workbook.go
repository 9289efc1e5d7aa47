package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mineworks/giftissue/pkg/serrors"
)

var (
	ErrUnreadableWorkbook = serrors.NewError("WORKBOOK_UNREADABLE", "workbook bytes could not be decoded")
	ErrEmptyWorkbook      = serrors.NewError("WORKBOOK_EMPTY", "workbook contains no sheets")
)

// Row maps resolved header names to raw cell values. Cells beyond the header
// width are dropped, missing trailing cells are empty strings.
type Row map[string]string

type Sheet struct {
	Name    string
	Headers []string
	Rows    []Row
}

// Workbook is the typed in-memory form of an uploaded spreadsheet.
// SheetNames preserves workbook order.
type Workbook struct {
	SheetNames []string
	Sheets     map[string]*Sheet
}

func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	s, ok := w.Sheets[name]
	return s, ok
}

// Parse decodes xlsx bytes into a Workbook. The first row of every sheet is
// the header row; blank header cells are replaced with "Column <n>" so
// headers are always usable as keys.
func Parse(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, ErrEmptyWorkbook
	}

	wb := &Workbook{
		SheetNames: make([]string, 0, len(names)),
		Sheets:     make(map[string]*Sheet, len(names)),
	}
	for _, name := range names {
		raw, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %v", ErrUnreadableWorkbook, name, err)
		}
		wb.SheetNames = append(wb.SheetNames, name)
		wb.Sheets[name] = parseSheet(name, raw)
	}
	return wb, nil
}

func parseSheet(name string, raw [][]string) *Sheet {
	sheet := &Sheet{Name: name}
	if len(raw) == 0 {
		return sheet
	}

	sheet.Headers = make([]string, len(raw[0]))
	for i, h := range raw[0] {
		header := Trim(h)
		if header == "" {
			header = fmt.Sprintf("Column %d", i+1)
		}
		sheet.Headers[i] = header
	}

	sheet.Rows = make([]Row, 0, len(raw)-1)
	for _, r := range raw[1:] {
		row := make(Row, len(sheet.Headers))
		for i, header := range sheet.Headers {
			if i < len(r) {
				row[header] = r[i]
			} else {
				row[header] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}
