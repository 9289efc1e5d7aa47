package importplan

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mineworks/giftissue/pkg/excel"
)

func TestQualifyingSlots(t *testing.T) {
	iss := testIssuing()
	slots := testSlots(iss)
	boots, lamp := slots[0], slots[1]
	wb := workbookOf(sheetOf("Employees", []string{"employee_number", "qualifies_lamp"}))

	newPlan := func(t *testing.T, lampValue string) *Plan {
		t.Helper()
		plan, err := NewEmployeeTablePlan(iss, slots, wb, "", ColumnMapping{EmployeeNumber: "employee_number"}, map[uuid.UUID]SlotRule{
			boots.ID: {Mode: RuleAll},
			lamp.ID:  {Mode: RuleColumn, Column: "qualifies_lamp", Value: lampValue},
		})
		require.NoError(t, err)
		return plan
	}

	t.Run("all rule always qualifies", func(t *testing.T) {
		plan := newPlan(t, "YES")
		got := plan.QualifyingSlots(excel.Row{"employee_number": "10001", "qualifies_lamp": ""})
		require.Equal(t, []uuid.UUID{boots.ID}, got)
	})

	t.Run("column rule matches exactly", func(t *testing.T) {
		plan := newPlan(t, "YES")
		got := plan.QualifyingSlots(excel.Row{"employee_number": "10001", "qualifies_lamp": "YES"})
		require.Equal(t, []uuid.UUID{boots.ID, lamp.ID}, got)
	})

	t.Run("column rule matches fuzzily", func(t *testing.T) {
		plan := newPlan(t, "Power-Bank")
		for _, cell := range []string{"powerbank", "power bank", "POWER-BANK", " Power Bank "} {
			got := plan.QualifyingSlots(excel.Row{"qualifies_lamp": cell})
			require.Contains(t, got, lamp.ID, "cell %q should match", cell)
		}
	})

	t.Run("mismatch does not qualify", func(t *testing.T) {
		plan := newPlan(t, "YES")
		got := plan.QualifyingSlots(excel.Row{"qualifies_lamp": "power-bank"})
		require.NotContains(t, got, lamp.ID)
	})

	t.Run("empty keys never match", func(t *testing.T) {
		plan := newPlan(t, "---")
		got := plan.QualifyingSlots(excel.Row{"qualifies_lamp": "***"})
		require.NotContains(t, got, lamp.ID)
	})

	t.Run("output preserves slot order", func(t *testing.T) {
		plan := newPlan(t, "YES")
		got := plan.QualifyingSlots(excel.Row{"qualifies_lamp": "yes"})
		require.Equal(t, []uuid.UUID{boots.ID, lamp.ID}, got)
	})
}
