package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mineworks/giftissue/modules/gifting/domain/aggregates/employee"
	"github.com/mineworks/giftissue/modules/gifting/domain/entities/giftslot"
	"github.com/mineworks/giftissue/modules/gifting/domain/entities/issuing"
	"github.com/mineworks/giftissue/modules/gifting/domain/entitlement"
	"github.com/mineworks/giftissue/modules/gifting/domain/importplan"
	"github.com/mineworks/giftissue/modules/gifting/domain/importrun"
	"github.com/mineworks/giftissue/pkg/eventbus"
	"github.com/mineworks/giftissue/pkg/excel"
	"github.com/mineworks/giftissue/pkg/metrics"
	"github.com/mineworks/giftissue/pkg/middleware"
	"github.com/mineworks/giftissue/pkg/serrors"
)

const (
	LookupFailedCode  = "IMPORT_LOOKUP_FAILED"
	PersistFailedCode = "IMPORT_PERSIST_FAILED"
)

var (
	errLookupFailed  = serrors.NewError(LookupFailedCode, "could not look up existing employees, please retry")
	errPersistFailed = serrors.NewError(PersistFailedCode, "import could not be fully persisted; re-running the same import completes the remainder")
)

// ImportOptions is the service-level slice of the runtime configuration.
type ImportOptions struct {
	PreviewRows           int
	LinkExistingEmployees bool
}

type ImportService struct {
	issuings     issuing.Repository
	slots        giftslot.Repository
	employees    employee.Repository
	entitlements entitlement.Repository
	runs         importrun.Repository
	publisher    eventbus.EventBus
	log          *logrus.Logger
	opts         ImportOptions
}

func NewImportService(
	issuings issuing.Repository,
	slots giftslot.Repository,
	employees employee.Repository,
	entitlements entitlement.Repository,
	runs importrun.Repository,
	publisher eventbus.EventBus,
	log *logrus.Logger,
	opts ImportOptions,
) *ImportService {
	return &ImportService{
		issuings:     issuings,
		slots:        slots,
		employees:    employees,
		entitlements: entitlements,
		runs:         runs,
		publisher:    publisher,
		log:          log,
		opts:         opts,
	}
}

// Slots lists the issuing's gift slots in creation order.
func (s *ImportService) Slots(ctx context.Context, issuingID uuid.UUID) ([]giftslot.GiftSlot, error) {
	return s.slots.ListByIssuing(ctx, issuingID)
}

// Runs lists the issuing's past import runs, newest first.
func (s *ImportService) Runs(ctx context.Context, issuingID uuid.UUID) ([]importrun.Run, error) {
	return s.runs.ListByIssuing(ctx, issuingID)
}

// EmployeeTableParams describes a Mode A import: one sheet of employee rows,
// three column roles and one qualification rule per slot.
type EmployeeTableParams struct {
	IssuingID uuid.UUID
	Workbook  *excel.Workbook
	SheetName string
	Columns   importplan.ColumnMapping
	Rules     map[uuid.UUID]importplan.SlotRule
}

// GiftSheetsParams describes a Mode B import: whole sheets of employee
// numbers, each mapped to one slot.
type GiftSheetsParams struct {
	IssuingID  uuid.UUID
	Workbook   *excel.Workbook
	SheetSlots map[string]uuid.UUID
}

func (s *ImportService) issuingWithSlots(ctx context.Context, issuingID uuid.UUID) (*issuing.Issuing, []giftslot.GiftSlot, error) {
	iss, err := s.issuings.GetByID(ctx, issuingID)
	if err != nil {
		return nil, nil, err
	}
	slots, err := s.slots.ListByIssuing(ctx, issuingID)
	if err != nil {
		return nil, nil, err
	}
	return iss, slots, nil
}

func (s *ImportService) ImportEmployeeTable(ctx context.Context, params EmployeeTableParams) (*importplan.Summary, error) {
	iss, slots, err := s.issuingWithSlots(ctx, params.IssuingID)
	if err != nil {
		return nil, err
	}
	plan, err := importplan.NewEmployeeTablePlan(iss, slots, params.Workbook, params.SheetName, params.Columns, params.Rules)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, plan)
}

func (s *ImportService) ImportGiftSheets(ctx context.Context, params GiftSheetsParams) (*importplan.Summary, error) {
	iss, slots, err := s.issuingWithSlots(ctx, params.IssuingID)
	if err != nil {
		return nil, err
	}
	plan, err := importplan.NewGiftSheetsPlan(iss, slots, params.Workbook, params.SheetSlots)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, plan)
}

// Run executes a previously validated plan, for callers that drive the
// mapping steps themselves (the import session).
func (s *ImportService) Run(ctx context.Context, plan *importplan.Plan) (*importplan.Summary, error) {
	return s.run(ctx, plan)
}

func (s *ImportService) run(ctx context.Context, plan *importplan.Plan) (*importplan.Summary, error) {
	log := middleware.UseLogger(ctx, s.log).WithFields(logrus.Fields{
		"issuing-id": plan.IssuingID,
		"mode":       plan.Mode,
	})
	started := time.Now()

	var (
		summary *importplan.Summary
		err     error
	)
	switch plan.Mode {
	case importplan.ModeGiftSheets:
		summary, err = s.runGiftSheets(ctx, plan)
	default:
		summary, err = s.runEmployeeTable(ctx, plan)
	}

	duration := time.Since(started)
	metrics.ImportDuration.Observe(duration.Seconds())
	if err != nil {
		metrics.ImportsTotal.WithLabelValues(string(plan.Mode), "failed").Inc()
		log.WithError(err).Error("import failed")
		return nil, err
	}

	metrics.ObserveSummary(
		string(plan.Mode), "done",
		summary.FoundInExcel,
		summary.Imported,
		summary.SkippedDuplicatesInFile,
		summary.SkippedDuplicatesExisting,
		summary.SkippedMissingEmployeeNumber,
	)
	s.publisher.Publish(importplan.ImportCompletedEvent{
		IssuingID: plan.IssuingID,
		CompanyID: plan.CompanyID,
		Mode:      plan.Mode,
		Summary:   *summary,
		Duration:  duration,
	})

	if s.runs != nil {
		run := &importrun.Run{
			IssuingID:  plan.IssuingID,
			CompanyID:  plan.CompanyID,
			Mode:       plan.Mode,
			Summary:    *summary,
			StartedAt:  started,
			FinishedAt: time.Now(),
		}
		if rErr := s.runs.Create(ctx, run); rErr != nil {
			log.WithError(rErr).Warn("import succeeded but audit record could not be written")
		}
	}

	log.WithFields(logrus.Fields{
		"found":               summary.FoundInExcel,
		"imported":            summary.Imported,
		"duplicates-in-file":  summary.SkippedDuplicatesInFile,
		"duplicates-existing": summary.SkippedDuplicatesExisting,
		"missing-number":      summary.SkippedMissingEmployeeNumber,
		"duration":            duration,
	}).Info("import completed")
	return summary, nil
}

func (s *ImportService) runEmployeeTable(ctx context.Context, plan *importplan.Plan) (*importplan.Summary, error) {
	scan := plan.ScanEmployeeTable()
	summary := &importplan.Summary{
		FoundInExcel:                 scan.FoundInExcel,
		SkippedDuplicatesInFile:      scan.SkippedDuplicatesInFile,
		SkippedMissingEmployeeNumber: scan.SkippedMissingEmployeeNumber,
	}

	numbers := make([]string, len(scan.Candidates))
	byKey := make(map[string]importplan.Candidate, len(scan.Candidates))
	for i, c := range scan.Candidates {
		numbers[i] = c.EmployeeNumber
		byKey[strings.ToLower(c.EmployeeNumber)] = c
	}

	existing, err := s.employees.SelectByNumbers(ctx, plan.IssuingID, numbers)
	if err != nil {
		return nil, wrapLookupFailed(err)
	}
	existingByKey := make(map[string]employee.Ref, len(existing))
	for _, ref := range existing {
		existingByKey[strings.ToLower(ref.EmployeeNumber)] = ref
	}

	toInsert := make([]employee.Employee, 0, len(scan.Candidates))
	for _, c := range scan.Candidates {
		if _, exists := existingByKey[strings.ToLower(c.EmployeeNumber)]; exists {
			summary.SkippedDuplicatesExisting++
			continue
		}
		toInsert = append(toInsert, employee.Employee{
			CompanyID:      plan.CompanyID,
			IssuingID:      plan.IssuingID,
			EmployeeNumber: c.EmployeeNumber,
			FirstName:      c.FirstName,
			LastName:       c.LastName,
			ExtraData:      c.ExtraData,
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	inserted, err := s.employees.UpsertMany(ctx, toInsert)
	if err != nil {
		return nil, wrapPersistFailed(err)
	}
	summary.Imported = len(inserted)
	// rows lost to a concurrent import show up as store duplicates
	summary.SkippedDuplicatesExisting += len(toInsert) - len(inserted)

	linkable := inserted
	if s.opts.LinkExistingEmployees {
		linkable = append(linkable, existing...)
	}

	links := make([]entitlement.EmployeeSlot, 0, len(linkable))
	for _, ref := range linkable {
		c, ok := byKey[strings.ToLower(ref.EmployeeNumber)]
		if !ok {
			continue
		}
		for _, slotID := range plan.QualifyingSlots(c.Row) {
			links = append(links, entitlement.EmployeeSlot{
				EmployeeID: ref.ID,
				SlotID:     slotID,
				CompanyID:  plan.CompanyID,
			})
		}
	}
	if err := s.entitlements.UpsertMany(ctx, links); err != nil {
		return nil, wrapPersistFailed(err)
	}
	return summary, nil
}

func (s *ImportService) runGiftSheets(ctx context.Context, plan *importplan.Plan) (*importplan.Summary, error) {
	scan := plan.ScanGiftSheets()
	summary := &importplan.Summary{
		FoundInExcel:                 scan.FoundInExcel,
		SkippedDuplicatesInFile:      scan.SkippedDuplicatesInFile,
		SkippedMissingEmployeeNumber: scan.SkippedMissingEmployeeNumber,
	}

	existing, err := s.employees.SelectByNumbers(ctx, plan.IssuingID, scan.Union)
	if err != nil {
		return nil, wrapLookupFailed(err)
	}
	idByKey := make(map[string]uuid.UUID, len(scan.Union))
	for _, ref := range existing {
		idByKey[strings.ToLower(ref.EmployeeNumber)] = ref.ID
	}
	summary.SkippedDuplicatesExisting = len(existing)

	toInsert := make([]employee.Employee, 0, len(scan.Union))
	for _, number := range scan.Union {
		if _, exists := idByKey[strings.ToLower(number)]; exists {
			continue
		}
		toInsert = append(toInsert, employee.Employee{
			CompanyID:      plan.CompanyID,
			IssuingID:      plan.IssuingID,
			EmployeeNumber: number,
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	inserted, err := s.employees.UpsertMany(ctx, toInsert)
	if err != nil {
		return nil, wrapPersistFailed(err)
	}
	summary.Imported = len(inserted)
	summary.SkippedDuplicatesExisting += len(toInsert) - len(inserted)
	for _, ref := range inserted {
		idByKey[strings.ToLower(ref.EmployeeNumber)] = ref.ID
	}

	// Entitlements are re-asserted for every resolvable employee so that
	// mapping a new sheet later still links employees imported earlier.
	var links []entitlement.EmployeeSlot
	for _, sheet := range scan.Sheets {
		for _, number := range sheet.Numbers {
			id, ok := idByKey[strings.ToLower(number)]
			if !ok {
				continue
			}
			links = append(links, entitlement.EmployeeSlot{
				EmployeeID: id,
				SlotID:     sheet.SlotID,
				CompanyID:  plan.CompanyID,
			})
		}
	}
	if err := s.entitlements.UpsertMany(ctx, links); err != nil {
		return nil, wrapPersistFailed(err)
	}
	return summary, nil
}

func wrapLookupFailed(err error) error {
	if err == nil {
		return nil
	}
	return &pipelineError{kind: errLookupFailed, cause: err}
}

func wrapPersistFailed(err error) error {
	if err == nil {
		return nil
	}
	return &pipelineError{kind: errPersistFailed, cause: err}
}

// pipelineError pairs the user-facing structured error with the raw sink
// error, which only ends up in logs.
type pipelineError struct {
	kind  *serrors.BaseError
	cause error
}

func (e *pipelineError) Error() string {
	return e.kind.Error() + ": " + e.cause.Error()
}

func (e *pipelineError) Unwrap() error { return e.cause }

func (e *pipelineError) As(target any) bool {
	if t, ok := target.(**serrors.BaseError); ok {
		*t = e.kind
		return true
	}
	return false
}
