package services

import (
	"github.com/mineworks/giftissue/pkg/excel"
)

// SheetPreview is a bounded cut of one sheet, enough for the operator to map
// columns without shipping the whole workbook back.
type SheetPreview struct {
	Name      string      `json:"name"`
	Headers   []string    `json:"headers"`
	Rows      []excel.Row `json:"rows"`
	TotalRows int         `json:"totalRows"`
}

type WorkbookPreview struct {
	SheetNames []string       `json:"sheetNames"`
	Sheets     []SheetPreview `json:"sheets"`
}

// Preview parses workbook bytes and returns the first rows of every sheet.
func (s *ImportService) Preview(data []byte) (*WorkbookPreview, error) {
	wb, err := excel.Parse(data)
	if err != nil {
		return nil, err
	}

	preview := &WorkbookPreview{SheetNames: wb.SheetNames}
	for _, name := range wb.SheetNames {
		sheet := wb.Sheets[name]
		limit := s.opts.PreviewRows
		if limit <= 0 || limit > len(sheet.Rows) {
			limit = len(sheet.Rows)
		}
		preview.Sheets = append(preview.Sheets, SheetPreview{
			Name:      name,
			Headers:   sheet.Headers,
			Rows:      sheet.Rows[:limit],
			TotalRows: len(sheet.Rows),
		})
	}
	return preview, nil
}
