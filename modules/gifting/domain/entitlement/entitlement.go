package entitlement

import (
	"context"

	"github.com/google/uuid"
)

// EmployeeSlot records that an employee qualifies for a gift slot within the
// employee's issuing. Unique over (employee_id, slot_id).
type EmployeeSlot struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
	SlotID     uuid.UUID
	CompanyID  uuid.UUID
}

type Repository interface {
	// UpsertMany inserts links in bounded batches with conflict key
	// (employee_id, slot_id); conflicting rows are ignored. Safe to re-run.
	UpsertMany(ctx context.Context, links []EmployeeSlot) error
}
