package services

import (
	"bytes"
	"fmt"

	gerrors "github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

// TemplateFilename is the suggested download name of the employee template.
const TemplateFilename = "Master_Employee_Import_Template.xlsx"

// TemplateHeaders is the fixed header row of the employee template. Row 1
// must keep these names; extra columns to the right end up in extra_data.
var TemplateHeaders = []string{
	"employee_number",
	"first_name",
	"last_name",
	"mine",
	"department",
	"shift",
	"crew",
	"job_title",
}

var templateExampleRows = [][]any{
	{"10001", "John", "Doe", "Shaft 1", "Engineering", "Day", "A", "Operator"},
	{"10002", "Jane", "Smith", "Shaft 1", "Operations", "Night", "B", "Supervisor"},
}

var templateInstructions = []string{
	"How to use this template",
	"1) Keep row 1 as headers (do not rename them).",
	"2) Paste employee rows starting from row 2.",
	"3) You can add extra columns to the right; they will be saved as extra_data.",
	"4) Do not use merged cells.",
	"5) Save as .xlsx.",
	"",
	"Import steps in the app",
	"Dashboard -> Upload file -> Mode: Employee table -> Sheet: Employees",
	"Map employee_number (required). first_name/last_name are optional.",
	"",
	"Gift qualification notes",
	"If you use a qualification column, matching is case-insensitive and ignores spaces/punctuation.",
	"Example: Powerbank, power bank, POWER-BANK will match.",
}

type TemplateService struct{}

func NewTemplateService() *TemplateService {
	return &TemplateService{}
}

// EmployeeTemplate builds the bundled xlsx template: an Employees sheet with
// a frozen header row and two example rows, plus a README sheet.
func (s *TemplateService) EmployeeTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Employees"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, gerrors.Wrap(err, "failed to name template sheet")
	}

	headerRow := make([]any, len(TemplateHeaders))
	for i, h := range TemplateHeaders {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return nil, gerrors.Wrap(err, "failed to write template headers")
	}
	for i, row := range templateExampleRows {
		cell := fmt.Sprintf("A%d", i+2)
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, gerrors.Wrap(err, "failed to write template example row")
		}
	}

	for i, h := range TemplateHeaders {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, gerrors.Wrap(err, "failed to resolve template column")
		}
		width := float64(len(h) + 2)
		if width < 14 {
			width = 14
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return nil, gerrors.Wrap(err, "failed to size template column")
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, gerrors.Wrap(err, "failed to freeze template header row")
	}

	if _, err := f.NewSheet("README"); err != nil {
		return nil, gerrors.Wrap(err, "failed to add README sheet")
	}
	for i, line := range templateInstructions {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetCellStr("README", cell, line); err != nil {
			return nil, gerrors.Wrap(err, "failed to write README line")
		}
	}
	if err := f.SetColWidth("README", "A", "A", 90); err != nil {
		return nil, gerrors.Wrap(err, "failed to size README column")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, gerrors.Wrap(err, "failed to encode template workbook")
	}
	return buf.Bytes(), nil
}
