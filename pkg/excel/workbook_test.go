package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheets map[string][][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

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
			row := row
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestParse_HeadersAndRows(t *testing.T) {
	data := buildWorkbook(t, map[string][][]any{
		"Employees": {
			{"employee_number", "first_name", "last_name"},
			{"10001", "John", "Doe"},
			{"10002", "Jane"},
		},
	})

	wb, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, []string{"Employees"}, wb.SheetNames)

	sheet, ok := wb.Sheet("Employees")
	require.True(t, ok)
	require.Equal(t, []string{"employee_number", "first_name", "last_name"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2)
	require.Equal(t, "Doe", sheet.Rows[0]["last_name"])
	// missing trailing cells become empty strings
	require.Equal(t, "", sheet.Rows[1]["last_name"])
}

func TestParse_BlankHeadersGetPositionalNames(t *testing.T) {
	data := buildWorkbook(t, map[string][][]any{
		"Sheet": {
			{"employee_number", "", "  ", "shift"},
			{"10001", "x", "y", "Night"},
		},
	})

	wb, err := Parse(data)
	require.NoError(t, err)

	sheet := wb.Sheets["Sheet"]
	require.Equal(t, []string{"employee_number", "Column 2", "Column 3", "shift"}, sheet.Headers)
	require.Equal(t, "x", sheet.Rows[0]["Column 2"])
}

func TestParse_NumericCellsBecomeStrings(t *testing.T) {
	data := buildWorkbook(t, map[string][][]any{
		"Sheet": {
			{"employee_number", "active"},
			{10001, true},
		},
	})

	wb, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, "10001", wb.Sheets["Sheet"].Rows[0]["employee_number"])
	require.Equal(t, "TRUE", wb.Sheets["Sheet"].Rows[0]["active"])
}

func TestParse_EmptySheetHasNoHeaders(t *testing.T) {
	data := buildWorkbook(t, map[string][][]any{"Empty": nil})

	wb, err := Parse(data)
	require.NoError(t, err)
	sheet := wb.Sheets["Empty"]
	require.Empty(t, sheet.Headers)
	require.Empty(t, sheet.Rows)
}

func TestParse_UnreadableBytes(t *testing.T) {
	_, err := Parse([]byte("definitely not a spreadsheet"))
	require.ErrorIs(t, err, ErrUnreadableWorkbook)
}

func TestParse_PreservesSheetOrder(t *testing.T) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	require.NoError(t, f.SetSheetName("Sheet1", "Boots"))
	for _, name := range []string{"Lamp", "Helmet"} {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	wb, err := Parse(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, []string{"Boots", "Lamp", "Helmet"}, wb.SheetNames)
}
