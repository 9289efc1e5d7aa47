package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mineworks/giftissue/modules/gifting/domain/entities/giftslot"
	"github.com/mineworks/giftissue/modules/gifting/domain/entities/issuing"
	"github.com/mineworks/giftissue/modules/gifting/domain/importplan"
	"github.com/mineworks/giftissue/pkg/excel"
	"github.com/mineworks/giftissue/pkg/serrors"
)

type SessionState string

const (
	StateIdle          SessionState = "IDLE"
	StateIssuingChosen SessionState = "ISSUING_SELECTED"
	StateFileParsed    SessionState = "FILE_PARSED"
	StateColumnsMapped SessionState = "COLUMNS_MAPPED"
	StateSlotsMapped   SessionState = "SLOTS_MAPPED"
	StateConfirmed     SessionState = "CONFIRMED"
	StatePersisting    SessionState = "PERSISTING"
	StateDone          SessionState = "DONE"
	StateFailed        SessionState = "FAILED"
)

const InvalidTransitionCode = "IMPORT_INVALID_TRANSITION"

func invalidTransition(from SessionState, action string) error {
	return serrors.NewErrorf(InvalidTransitionCode, "cannot %s while in state %s", action, from)
}

// ImportSession drives one operator's import through the mapping steps.
// Every step before persistence can be undone with Back without losing the
// parsed workbook or earlier mappings; once persistence starts the session
// only moves to DONE or FAILED.
type ImportSession struct {
	mu sync.Mutex

	state    SessionState
	previous []SessionState

	service *ImportService

	issuing *issuing.Issuing
	slots   []giftslot.GiftSlot

	workbook *excel.Workbook

	mode      importplan.Mode
	sheetName string
	columns   importplan.ColumnMapping
	rules     map[uuid.UUID]importplan.SlotRule

	sheetSlots map[string]uuid.UUID

	plan    *importplan.Plan
	summary *importplan.Summary
	failure error
}

func NewImportSession(service *ImportService) *ImportSession {
	return &ImportSession{state: StateIdle, service: service}
}

func (s *ImportSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *ImportSession) advance(to SessionState) {
	s.previous = append(s.previous, s.state)
	s.state = to
}

// Back returns to the previous mapping step. Mappings and the workbook stay
// in memory so the operator can adjust and move forward again.
func (s *ImportSession) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateIdle, StatePersisting, StateDone, StateFailed:
		return invalidTransition(s.state, "go back")
	}
	s.state = s.previous[len(s.previous)-1]
	s.previous = s.previous[:len(s.previous)-1]
	return nil
}

func (s *ImportSession) SelectIssuing(ctx context.Context, issuingID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return invalidTransition(s.state, "select issuing")
	}
	iss, slots, err := s.service.issuingWithSlots(ctx, issuingID)
	if err != nil {
		return err
	}
	s.issuing = iss
	s.slots = slots
	s.advance(StateIssuingChosen)
	return nil
}

func (s *ImportSession) AttachWorkbook(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIssuingChosen {
		return invalidTransition(s.state, "attach workbook")
	}
	wb, err := excel.Parse(data)
	if err != nil {
		return err
	}
	s.workbook = wb
	s.advance(StateFileParsed)
	return nil
}

// MapColumns sets the Mode A column roles. Validation happens at Confirm,
// when the full plan is built.
func (s *ImportSession) MapColumns(sheetName string, columns importplan.ColumnMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateFileParsed && s.state != StateColumnsMapped && s.state != StateSlotsMapped {
		return invalidTransition(s.state, "map columns")
	}
	s.mode = importplan.ModeEmployeeTable
	s.sheetName = sheetName
	s.columns = columns
	if s.state == StateFileParsed {
		s.advance(StateColumnsMapped)
	}
	return nil
}

// MapRules sets the Mode A per-slot qualification rules.
func (s *ImportSession) MapRules(rules map[uuid.UUID]importplan.SlotRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateColumnsMapped && s.state != StateSlotsMapped {
		return invalidTransition(s.state, "map slot rules")
	}
	s.rules = rules
	if s.state == StateColumnsMapped {
		s.advance(StateSlotsMapped)
	}
	return nil
}

// MapSheets sets the Mode B sheet-to-slot mapping, skipping the column
// mapping step entirely.
func (s *ImportSession) MapSheets(sheetSlots map[string]uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateFileParsed && s.state != StateSlotsMapped {
		return invalidTransition(s.state, "map sheets")
	}
	s.mode = importplan.ModeGiftSheets
	s.sheetSlots = sheetSlots
	if s.state == StateFileParsed {
		s.advance(StateSlotsMapped)
	}
	return nil
}

// Confirm validates the collected mappings into a plan. An invalid mapping
// keeps the session in SLOTS_MAPPED so the operator can fix and re-confirm.
func (s *ImportSession) Confirm() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSlotsMapped {
		return invalidTransition(s.state, "confirm")
	}

	var (
		plan *importplan.Plan
		err  error
	)
	switch s.mode {
	case importplan.ModeGiftSheets:
		plan, err = importplan.NewGiftSheetsPlan(s.issuing, s.slots, s.workbook, s.sheetSlots)
	default:
		plan, err = importplan.NewEmployeeTablePlan(s.issuing, s.slots, s.workbook, s.sheetName, s.columns, s.rules)
	}
	if err != nil {
		return err
	}
	s.plan = plan
	s.advance(StateConfirmed)
	return nil
}

// Persist runs the confirmed plan. This is the single irreversible step.
func (s *ImportSession) Persist(ctx context.Context) (*importplan.Summary, error) {
	s.mu.Lock()
	if s.state != StateConfirmed {
		state := s.state
		s.mu.Unlock()
		return nil, invalidTransition(state, "persist")
	}
	s.advance(StatePersisting)
	plan := s.plan
	s.mu.Unlock()

	summary, err := s.service.Run(ctx, plan)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateFailed
		s.failure = err
		return nil, err
	}
	s.state = StateDone
	s.summary = summary
	return summary, nil
}

// Summary returns the result of a finished session, nil until DONE.
func (s *ImportSession) Summary() *importplan.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Failure returns the terminal error of a FAILED session.
func (s *ImportSession) Failure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}
