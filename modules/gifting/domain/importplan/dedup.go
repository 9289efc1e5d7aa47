package importplan

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/mineworks/giftissue/pkg/excel"
)

// Candidate is one deduplicated employee row ready for persistence.
type Candidate struct {
	EmployeeNumber string
	FirstName      *string
	LastName       *string
	ExtraData      map[string]string

	// Row is the source row, kept for qualification evaluation.
	Row excel.Row
}

// FileScan is the in-file half of the diff: rows classified before any store
// lookup happens.
type FileScan struct {
	Candidates                   []Candidate
	FoundInExcel                 int
	SkippedDuplicatesInFile      int
	SkippedMissingEmployeeNumber int
}

// ScanEmployeeTable walks the plan's sheet in row order, dropping rows with
// a blank employee number and in-file duplicates (first occurrence wins,
// compared case-insensitively but stored with original casing).
func (p *Plan) ScanEmployeeTable() *FileScan {
	mapped := map[string]struct{}{p.Columns.EmployeeNumber: {}}
	if p.Columns.FirstName != nil {
		mapped[*p.Columns.FirstName] = struct{}{}
	}
	if p.Columns.LastName != nil {
		mapped[*p.Columns.LastName] = struct{}{}
	}

	scan := &FileScan{FoundInExcel: len(p.Sheet.Rows)}
	seen := make(map[string]struct{}, len(p.Sheet.Rows))

	for _, row := range p.Sheet.Rows {
		number := excel.Trim(row[p.Columns.EmployeeNumber])
		if number == "" {
			scan.SkippedMissingEmployeeNumber++
			continue
		}
		dedupKey := strings.ToLower(number)
		if _, dup := seen[dedupKey]; dup {
			scan.SkippedDuplicatesInFile++
			continue
		}
		seen[dedupKey] = struct{}{}

		extra := make(map[string]string)
		for _, header := range p.Sheet.Headers {
			if _, isMapped := mapped[header]; isMapped {
				continue
			}
			extra[header] = row[header]
		}

		scan.Candidates = append(scan.Candidates, Candidate{
			EmployeeNumber: number,
			FirstName:      optionalCell(row, p.Columns.FirstName),
			LastName:       optionalCell(row, p.Columns.LastName),
			ExtraData:      extra,
			Row:            row,
		})
	}
	return scan
}

func optionalCell(row excel.Row, column *string) *string {
	if column == nil {
		return nil
	}
	v := excel.Trim(row[*column])
	if v == "" {
		return nil
	}
	return &v
}

// SheetNumbers holds the deduplicated employee numbers of one mapped gift
// sheet, in first-occurrence order.
type SheetNumbers struct {
	SheetName string
	SlotID    uuid.UUID
	Numbers   []string
}

// GiftSheetScan is the in-file half of a Mode B diff. Union preserves the
// first-seen casing of every employee number across all mapped sheets.
type GiftSheetScan struct {
	Union  []string
	Sheets []SheetNumbers

	FoundInExcel                 int
	SkippedDuplicatesInFile      int
	SkippedMissingEmployeeNumber int
}

// ScanGiftSheets collects employee numbers from column 0 of every mapped
// sheet, in workbook sheet order. A first header that itself looks like an
// employee number is treated as one more number (the header row of such
// sheets is usually data pasted without headers).
func (p *Plan) ScanGiftSheets() *GiftSheetScan {
	scan := &GiftSheetScan{}
	unionSeen := make(map[string]struct{})

	for _, sheetName := range p.Workbook.SheetNames {
		slotID, mapped := p.SheetSlots[sheetName]
		if !mapped {
			continue
		}
		sheet := p.Workbook.Sheets[sheetName]

		numbers := make([]string, 0, len(sheet.Rows)+1)
		sheetSeen := make(map[string]struct{}, len(sheet.Rows)+1)

		collect := func(raw string) {
			number := excel.Trim(raw)
			if number == "" {
				scan.SkippedMissingEmployeeNumber++
				return
			}
			dedupKey := strings.ToLower(number)
			if _, dup := sheetSeen[dedupKey]; dup {
				scan.SkippedDuplicatesInFile++
				return
			}
			sheetSeen[dedupKey] = struct{}{}
			numbers = append(numbers, number)

			if _, known := unionSeen[dedupKey]; !known {
				unionSeen[dedupKey] = struct{}{}
				scan.Union = append(scan.Union, number)
			}
		}

		if len(sheet.Headers) > 0 && LooksLikeEmployeeNumber(sheet.Headers[0]) {
			collect(sheet.Headers[0])
		}
		for _, row := range sheet.Rows {
			if len(sheet.Headers) == 0 {
				break
			}
			collect(row[sheet.Headers[0]])
		}

		scan.Sheets = append(scan.Sheets, SheetNumbers{
			SheetName: sheetName,
			SlotID:    slotID,
			Numbers:   numbers,
		})
	}

	scan.FoundInExcel = len(scan.Union)
	return scan
}

// LooksLikeEmployeeNumber reports whether a header cell is plausibly an
// employee number rather than a column title: short and carrying at least
// one digit.
func LooksLikeEmployeeNumber(s string) bool {
	s = excel.Trim(s)
	if s == "" || len(s) > 20 {
		return false
	}
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
