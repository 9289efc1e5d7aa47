package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mineworks/giftissue/modules/gifting/domain/importplan"
	"github.com/mineworks/giftissue/pkg/serrors"
)

func employeeTableXLSX(t *testing.T) []byte {
	t.Helper()
	svc := NewTemplateService()
	data, err := svc.EmployeeTemplate()
	require.NoError(t, err)
	return data
}

func TestImportSession_ModeAHappyPath(t *testing.T) {
	f := newFixture(t, ImportOptions{})
	session := NewImportSession(f.service)
	ctx := context.Background()

	require.Equal(t, StateIdle, session.State())

	require.NoError(t, session.SelectIssuing(ctx, f.issuing.ID))
	require.Equal(t, StateIssuingChosen, session.State())

	require.NoError(t, session.AttachWorkbook(employeeTableXLSX(t)))
	require.Equal(t, StateFileParsed, session.State())

	require.NoError(t, session.MapColumns("Employees", importplan.ColumnMapping{EmployeeNumber: "employee_number"}))
	require.Equal(t, StateColumnsMapped, session.State())

	require.NoError(t, session.MapRules(map[uuid.UUID]importplan.SlotRule{
		f.bootsID: {Mode: importplan.RuleAll},
	}))
	require.Equal(t, StateSlotsMapped, session.State())

	require.NoError(t, session.Confirm())
	require.Equal(t, StateConfirmed, session.State())

	summary, err := session.Persist(ctx)
	require.NoError(t, err)
	require.Equal(t, StateDone, session.State())
	require.Equal(t, 2, summary.Imported)
	require.Equal(t, summary, session.Summary())
}

func TestImportSession_ModeBSkipsColumnMapping(t *testing.T) {
	f := newFixture(t, ImportOptions{})
	session := NewImportSession(f.service)
	ctx := context.Background()

	require.NoError(t, session.SelectIssuing(ctx, f.issuing.ID))
	require.NoError(t, session.AttachWorkbook(employeeTableXLSX(t)))

	require.NoError(t, session.MapSheets(map[string]uuid.UUID{"Employees": f.bootsID}))
	require.Equal(t, StateSlotsMapped, session.State())

	require.NoError(t, session.Confirm())
	summary, err := session.Persist(ctx)
	require.NoError(t, err)
	require.Equal(t, StateDone, session.State())
	require.Equal(t, importplan.ModeGiftSheets, session.plan.Mode)
	require.NotZero(t, summary.Imported)
}

func TestImportSession_BackRestoresPreviousState(t *testing.T) {
	f := newFixture(t, ImportOptions{})
	session := NewImportSession(f.service)
	ctx := context.Background()

	require.NoError(t, session.SelectIssuing(ctx, f.issuing.ID))
	require.NoError(t, session.AttachWorkbook(employeeTableXLSX(t)))
	require.NoError(t, session.MapColumns("Employees", importplan.ColumnMapping{EmployeeNumber: "employee_number"}))

	require.NoError(t, session.Back())
	require.Equal(t, StateFileParsed, session.State())

	// workbook survived, the operator can map columns again
	require.NoError(t, session.MapColumns("Employees", importplan.ColumnMapping{EmployeeNumber: "employee_number"}))
	require.Equal(t, StateColumnsMapped, session.State())
}

func TestImportSession_InvalidTransitions(t *testing.T) {
	f := newFixture(t, ImportOptions{})
	session := NewImportSession(f.service)

	err := session.Confirm()
	var be *serrors.BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, InvalidTransitionCode, be.Code)

	require.Error(t, session.AttachWorkbook(nil))
	require.Error(t, session.Back())

	_, err = session.Persist(context.Background())
	require.Error(t, err)
}

func TestImportSession_InvalidMappingKeepsSlotsMapped(t *testing.T) {
	f := newFixture(t, ImportOptions{})
	session := NewImportSession(f.service)
	ctx := context.Background()

	require.NoError(t, session.SelectIssuing(ctx, f.issuing.ID))
	require.NoError(t, session.AttachWorkbook(employeeTableXLSX(t)))
	require.NoError(t, session.MapColumns("Employees", importplan.ColumnMapping{EmployeeNumber: "no_such_column"}))
	require.NoError(t, session.MapRules(nil))

	err := session.Confirm()
	require.True(t, importplan.IsInvalidMapping(err))
	require.Equal(t, StateSlotsMapped, session.State())

	// fix the mapping and confirm again
	require.NoError(t, session.MapColumns("Employees", importplan.ColumnMapping{EmployeeNumber: "employee_number"}))
	require.NoError(t, session.Confirm())
	require.Equal(t, StateConfirmed, session.State())
}

func TestImportSession_PersistFailureIsTerminal(t *testing.T) {
	f := newFixture(t, ImportOptions{})
	f.employees.upsertErr = errors.New("connection reset")
	session := NewImportSession(f.service)
	ctx := context.Background()

	require.NoError(t, session.SelectIssuing(ctx, f.issuing.ID))
	require.NoError(t, session.AttachWorkbook(employeeTableXLSX(t)))
	require.NoError(t, session.MapColumns("Employees", importplan.ColumnMapping{EmployeeNumber: "employee_number"}))
	require.NoError(t, session.MapRules(nil))
	require.NoError(t, session.Confirm())

	_, err := session.Persist(ctx)
	require.Error(t, err)
	require.Equal(t, StateFailed, session.State())
	require.Error(t, session.Failure())
	require.Error(t, session.Back())
}
