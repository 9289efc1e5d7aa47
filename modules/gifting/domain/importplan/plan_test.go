package importplan

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mineworks/giftissue/modules/gifting/domain/entities/giftslot"
	"github.com/mineworks/giftissue/modules/gifting/domain/entities/issuing"
	"github.com/mineworks/giftissue/pkg/excel"
)

func testIssuing() *issuing.Issuing {
	return &issuing.Issuing{ID: uuid.New(), CompanyID: uuid.New(), Name: "Year End", MineName: "North Pit"}
}

func testSlots(iss *issuing.Issuing) []giftslot.GiftSlot {
	return []giftslot.GiftSlot{
		{ID: uuid.New(), IssuingID: iss.ID, Name: "Boots", CreatedAt: time.Now().Add(-time.Hour)},
		{ID: uuid.New(), IssuingID: iss.ID, Name: "Lamp", CreatedAt: time.Now()},
	}
}

func sheetOf(name string, headers []string, rows ...[]string) *excel.Sheet {
	sheet := &excel.Sheet{Name: name, Headers: headers}
	for _, r := range rows {
		row := make(excel.Row, len(headers))
		for i, h := range headers {
			if i < len(r) {
				row[h] = r[i]
			} else {
				row[h] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

func workbookOf(sheets ...*excel.Sheet) *excel.Workbook {
	wb := &excel.Workbook{Sheets: make(map[string]*excel.Sheet, len(sheets))}
	for _, s := range sheets {
		wb.SheetNames = append(wb.SheetNames, s.Name)
		wb.Sheets[s.Name] = s
	}
	return wb
}

func TestNewEmployeeTablePlan_DefaultsAndValidation(t *testing.T) {
	iss := testIssuing()
	slots := testSlots(iss)
	wb := workbookOf(sheetOf("Employees", []string{"employee_number", "first_name"}))

	t.Run("defaults to first sheet and rule all", func(t *testing.T) {
		plan, err := NewEmployeeTablePlan(iss, slots, wb, "", ColumnMapping{EmployeeNumber: "employee_number"}, nil)
		require.NoError(t, err)
		require.Equal(t, "Employees", plan.Sheet.Name)
		require.Equal(t, ModeEmployeeTable, plan.Mode)
		for _, s := range slots {
			require.Equal(t, SlotRule{Mode: RuleAll}, plan.Rules[s.ID])
		}
	})

	t.Run("missing employee number column", func(t *testing.T) {
		_, err := NewEmployeeTablePlan(iss, slots, wb, "", ColumnMapping{}, nil)
		require.True(t, IsInvalidMapping(err))
	})

	t.Run("employee number column not in sheet", func(t *testing.T) {
		_, err := NewEmployeeTablePlan(iss, slots, wb, "", ColumnMapping{EmployeeNumber: "nope"}, nil)
		require.True(t, IsInvalidMapping(err))
	})

	t.Run("optional column not in sheet", func(t *testing.T) {
		missing := "nope"
		_, err := NewEmployeeTablePlan(iss, slots, wb, "", ColumnMapping{EmployeeNumber: "employee_number", FirstName: &missing}, nil)
		require.True(t, IsInvalidMapping(err))
	})

	t.Run("unknown sheet", func(t *testing.T) {
		_, err := NewEmployeeTablePlan(iss, slots, wb, "Ghost", ColumnMapping{EmployeeNumber: "employee_number"}, nil)
		require.True(t, IsInvalidMapping(err))
	})

	t.Run("rule references missing column", func(t *testing.T) {
		rules := map[uuid.UUID]SlotRule{
			slots[0].ID: {Mode: RuleColumn, Column: "nope", Value: "x"},
		}
		_, err := NewEmployeeTablePlan(iss, slots, wb, "", ColumnMapping{EmployeeNumber: "employee_number"}, rules)
		require.True(t, IsInvalidMapping(err))
	})

	t.Run("unknown rule mode", func(t *testing.T) {
		rules := map[uuid.UUID]SlotRule{
			slots[0].ID: {Mode: "sometimes"},
		}
		_, err := NewEmployeeTablePlan(iss, slots, wb, "", ColumnMapping{EmployeeNumber: "employee_number"}, rules)
		require.True(t, IsInvalidMapping(err))
	})

	t.Run("rules for unknown slots are dropped", func(t *testing.T) {
		strayID := uuid.New()
		rules := map[uuid.UUID]SlotRule{
			strayID: {Mode: RuleColumn, Column: "nope", Value: "x"},
		}
		plan, err := NewEmployeeTablePlan(iss, slots, wb, "", ColumnMapping{EmployeeNumber: "employee_number"}, rules)
		require.NoError(t, err)
		_, ok := plan.Rules[strayID]
		require.False(t, ok)
	})
}

func TestNewGiftSheetsPlan_Validation(t *testing.T) {
	iss := testIssuing()
	slots := testSlots(iss)
	wb := workbookOf(
		sheetOf("Boots", []string{"A"}),
		sheetOf("Lamp", []string{"A"}),
	)

	t.Run("valid mapping", func(t *testing.T) {
		plan, err := NewGiftSheetsPlan(iss, slots, wb, map[string]uuid.UUID{
			"Boots": slots[0].ID,
			"Lamp":  uuid.Nil,
		})
		require.NoError(t, err)
		require.Equal(t, ModeGiftSheets, plan.Mode)
		require.Len(t, plan.SheetSlots, 1)
	})

	t.Run("unknown sheet", func(t *testing.T) {
		_, err := NewGiftSheetsPlan(iss, slots, wb, map[string]uuid.UUID{"Ghost": slots[0].ID})
		require.True(t, IsInvalidMapping(err))
	})

	t.Run("slot of another issuing", func(t *testing.T) {
		_, err := NewGiftSheetsPlan(iss, slots, wb, map[string]uuid.UUID{"Boots": uuid.New()})
		require.True(t, IsInvalidMapping(err))
	})

	t.Run("no mapped sheets", func(t *testing.T) {
		_, err := NewGiftSheetsPlan(iss, slots, wb, map[string]uuid.UUID{"Boots": uuid.Nil})
		require.True(t, IsInvalidMapping(err))
	})
}
