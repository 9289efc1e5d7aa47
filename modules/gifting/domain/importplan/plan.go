package importplan

import (
	"errors"

	"github.com/google/uuid"

	"github.com/mineworks/giftissue/modules/gifting/domain/entities/giftslot"
	"github.com/mineworks/giftissue/modules/gifting/domain/entities/issuing"
	"github.com/mineworks/giftissue/pkg/excel"
	"github.com/mineworks/giftissue/pkg/serrors"
)

type Mode string

const (
	// ModeEmployeeTable imports one sheet of employee rows with per-slot
	// qualification rules.
	ModeEmployeeTable Mode = "employee_table"
	// ModeGiftSheets maps whole sheets of employee numbers to slots.
	ModeGiftSheets Mode = "gift_sheets"
)

const InvalidMappingCode = "IMPORT_INVALID_MAPPING"

func invalidMapping(format string, args ...any) error {
	return serrors.NewErrorf(InvalidMappingCode, format, args...)
}

func IsInvalidMapping(err error) bool {
	var be *serrors.BaseError
	return errors.As(err, &be) && be.Code == InvalidMappingCode
}

type RuleMode string

const (
	RuleAll    RuleMode = "all"
	RuleColumn RuleMode = "column"
)

// SlotRule decides who qualifies for one gift slot: either everyone, or the
// rows whose cell in Column fuzzy-matches Value.
type SlotRule struct {
	Mode   RuleMode `json:"mode"`
	Column string   `json:"column,omitempty"`
	Value  string   `json:"value,omitempty"`
}

// ColumnMapping names the operator-chosen column roles of an employee-table
// import. FirstName and LastName are optional.
type ColumnMapping struct {
	EmployeeNumber string  `json:"employee_number"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
}

// Plan is the transient, validated description of one import. It owns the
// derived rows until they are persisted, then it is discarded.
type Plan struct {
	IssuingID uuid.UUID
	CompanyID uuid.UUID
	Mode      Mode

	// Slots are the issuing's gift slots in creation order; qualification
	// output preserves this order.
	Slots []giftslot.GiftSlot

	// Employee-table mode.
	Sheet   *excel.Sheet
	Columns ColumnMapping
	Rules   map[uuid.UUID]SlotRule

	// Gift-sheets mode.
	Workbook   *excel.Workbook
	SheetSlots map[string]uuid.UUID
}

func hasHeader(sheet *excel.Sheet, header string) bool {
	for _, h := range sheet.Headers {
		if h == header {
			return true
		}
	}
	return false
}

// NewEmployeeTablePlan validates the operator's column and rule choices
// against the workbook and produces a Mode A plan. Rules referencing unknown
// slots are dropped; slots without a rule default to "all".
func NewEmployeeTablePlan(
	iss *issuing.Issuing,
	slots []giftslot.GiftSlot,
	wb *excel.Workbook,
	sheetName string,
	columns ColumnMapping,
	rules map[uuid.UUID]SlotRule,
) (*Plan, error) {
	if sheetName == "" && len(wb.SheetNames) > 0 {
		sheetName = wb.SheetNames[0]
	}
	sheet, ok := wb.Sheet(sheetName)
	if !ok {
		return nil, invalidMapping("sheet %q not found in workbook", sheetName)
	}

	if columns.EmployeeNumber == "" {
		return nil, invalidMapping("employee_number column is required")
	}
	if !hasHeader(sheet, columns.EmployeeNumber) {
		return nil, invalidMapping("employee_number column %q not found in sheet %q", columns.EmployeeNumber, sheetName)
	}
	for _, optional := range []*string{columns.FirstName, columns.LastName} {
		if optional != nil && !hasHeader(sheet, *optional) {
			return nil, invalidMapping("mapped column %q not found in sheet %q", *optional, sheetName)
		}
	}

	known := make(map[uuid.UUID]struct{}, len(slots))
	for _, s := range slots {
		known[s.ID] = struct{}{}
	}

	resolved := make(map[uuid.UUID]SlotRule, len(slots))
	for slotID, rule := range rules {
		if _, ok := known[slotID]; !ok {
			continue
		}
		switch rule.Mode {
		case RuleAll:
		case RuleColumn:
			if !hasHeader(sheet, rule.Column) {
				return nil, invalidMapping("qualification column %q not found in sheet %q", rule.Column, sheetName)
			}
		default:
			return nil, invalidMapping("unknown slot rule mode %q", rule.Mode)
		}
		resolved[slotID] = rule
	}
	for _, s := range slots {
		if _, ok := resolved[s.ID]; !ok {
			resolved[s.ID] = SlotRule{Mode: RuleAll}
		}
	}

	return &Plan{
		IssuingID: iss.ID,
		CompanyID: iss.CompanyID,
		Mode:      ModeEmployeeTable,
		Slots:     slots,
		Sheet:     sheet,
		Columns:   columns,
		Rules:     resolved,
	}, nil
}

// NewGiftSheetsPlan validates the operator's sheet-to-slot map and produces
// a Mode B plan. Empty slot ids mean "ignore this sheet"; at least one sheet
// must remain mapped.
func NewGiftSheetsPlan(
	iss *issuing.Issuing,
	slots []giftslot.GiftSlot,
	wb *excel.Workbook,
	sheetSlots map[string]uuid.UUID,
) (*Plan, error) {
	known := make(map[uuid.UUID]struct{}, len(slots))
	for _, s := range slots {
		known[s.ID] = struct{}{}
	}

	mapped := make(map[string]uuid.UUID, len(sheetSlots))
	for sheetName, slotID := range sheetSlots {
		if slotID == uuid.Nil {
			continue
		}
		if _, ok := wb.Sheet(sheetName); !ok {
			return nil, invalidMapping("sheet %q not found in workbook", sheetName)
		}
		if _, ok := known[slotID]; !ok {
			return nil, invalidMapping("slot %s does not belong to issuing %s", slotID, iss.ID)
		}
		mapped[sheetName] = slotID
	}
	if len(mapped) == 0 {
		return nil, invalidMapping("at least one sheet must be mapped to a gift slot")
	}

	return &Plan{
		IssuingID:  iss.ID,
		CompanyID:  iss.CompanyID,
		Mode:       ModeGiftSheets,
		Slots:      slots,
		Workbook:   wb,
		SheetSlots: mapped,
	}, nil
}
