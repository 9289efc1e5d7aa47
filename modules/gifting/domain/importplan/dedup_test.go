package importplan

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestScanEmployeeTable(t *testing.T) {
	iss := testIssuing()
	slots := testSlots(iss)
	first, last := "first_name", "last_name"

	wb := workbookOf(sheetOf(
		"Employees",
		[]string{"employee_number", "first_name", "last_name", "department"},
		[]string{"10001", "John", "Doe", "Drilling"},
		[]string{" 10002 ", "Jane", "", "Hauling"},
		[]string{"", "Ghost", "", ""},
		[]string{"10001", "John", "Doe", "Drilling"},
		[]string{"10001 ", "JOHN", "DOE", "Drilling"},
	))

	plan, err := NewEmployeeTablePlan(iss, slots, wb, "", ColumnMapping{
		EmployeeNumber: "employee_number",
		FirstName:      &first,
		LastName:       &last,
	}, nil)
	require.NoError(t, err)

	scan := plan.ScanEmployeeTable()
	require.Equal(t, 5, scan.FoundInExcel)
	require.Equal(t, 2, scan.SkippedDuplicatesInFile)
	require.Equal(t, 1, scan.SkippedMissingEmployeeNumber)
	require.Len(t, scan.Candidates, 2)

	c := scan.Candidates[0]
	require.Equal(t, "10001", c.EmployeeNumber)
	require.Equal(t, "John", *c.FirstName)
	require.Equal(t, "Doe", *c.LastName)
	require.Equal(t, map[string]string{"department": "Drilling"}, c.ExtraData)

	// the employee number is trimmed, blank optional cells become nil
	c = scan.Candidates[1]
	require.Equal(t, "10002", c.EmployeeNumber)
	require.Nil(t, c.LastName)
}

func TestScanEmployeeTable_ExtraDataExcludesMappedColumns(t *testing.T) {
	iss := testIssuing()
	slots := testSlots(iss)

	wb := workbookOf(sheetOf(
		"Employees",
		[]string{"employee_number", "first_name", "shift"},
		[]string{"10001", "John", "Night"},
	))

	plan, err := NewEmployeeTablePlan(iss, slots, wb, "", ColumnMapping{EmployeeNumber: "employee_number"}, nil)
	require.NoError(t, err)

	scan := plan.ScanEmployeeTable()
	require.Len(t, scan.Candidates, 1)
	// first_name is not mapped here, so it stays in extra_data
	require.Equal(t, map[string]string{"first_name": "John", "shift": "Night"}, scan.Candidates[0].ExtraData)
}

func TestScanGiftSheets(t *testing.T) {
	iss := testIssuing()
	slots := testSlots(iss)
	boots, lamp := slots[0], slots[1]

	wb := workbookOf(
		sheetOf("Boots", []string{"Employees"}, []string{"10001"}, []string{"10002"}),
		sheetOf("Lamp", []string{"Employees"}, []string{"10002"}, []string{"10003"}, []string{"10002"}, []string{""}),
		sheetOf("Ignored", []string{"Employees"}, []string{"99999"}),
	)

	plan, err := NewGiftSheetsPlan(iss, slots, wb, map[string]uuid.UUID{
		"Boots": boots.ID,
		"Lamp":  lamp.ID,
	})
	require.NoError(t, err)

	scan := plan.ScanGiftSheets()
	require.Equal(t, []string{"10001", "10002", "10003"}, scan.Union)
	require.Equal(t, 3, scan.FoundInExcel)
	require.Equal(t, 1, scan.SkippedDuplicatesInFile)
	require.Equal(t, 1, scan.SkippedMissingEmployeeNumber)

	require.Len(t, scan.Sheets, 2)
	require.Equal(t, boots.ID, scan.Sheets[0].SlotID)
	require.Equal(t, []string{"10001", "10002"}, scan.Sheets[0].Numbers)
	require.Equal(t, []string{"10002", "10003"}, scan.Sheets[1].Numbers)
}

func TestScanGiftSheets_HeaderAsEmployeeNumber(t *testing.T) {
	iss := testIssuing()
	slots := testSlots(iss)

	// the sheet was pasted without a header row, so row 1 is data
	wb := workbookOf(sheetOf("Boots", []string{"10001"}, []string{"10002"}))
	plan, err := NewGiftSheetsPlan(iss, slots, wb, map[string]uuid.UUID{"Boots": slots[0].ID})
	require.NoError(t, err)

	scan := plan.ScanGiftSheets()
	require.Equal(t, []string{"10001", "10002"}, scan.Union)
}

func TestScanGiftSheets_KeepsFirstSeenCasing(t *testing.T) {
	iss := testIssuing()
	slots := testSlots(iss)

	wb := workbookOf(
		sheetOf("Boots", []string{"Employees"}, []string{"EMP-001"}),
		sheetOf("Lamp", []string{"Employees"}, []string{"emp-001"}),
	)
	plan, err := NewGiftSheetsPlan(iss, slots, wb, map[string]uuid.UUID{
		"Boots": slots[0].ID,
		"Lamp":  slots[1].ID,
	})
	require.NoError(t, err)

	scan := plan.ScanGiftSheets()
	require.Equal(t, []string{"EMP-001"}, scan.Union)
	// each sheet still lists its own spelling for link resolution
	require.Equal(t, []string{"emp-001"}, scan.Sheets[1].Numbers)
}

func TestLooksLikeEmployeeNumber(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"10001", true},
		{" 10001 ", true},
		{"EMP-42", true},
		{"employee_number", false},
		{"Employees", false},
		{"", false},
		{"   ", false},
		{"1234567890123456789012345", false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, LooksLikeEmployeeNumber(tc.in), "input %q", tc.in)
	}
}
