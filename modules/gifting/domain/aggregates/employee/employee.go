package employee

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Employee is created by the import engine. Uniqueness over
// (issuing_id, employee_number) is case-insensitive on the employee number;
// the first-seen casing is stored.
type Employee struct {
	ID             uuid.UUID
	CompanyID      uuid.UUID
	IssuingID      uuid.UUID
	EmployeeNumber string
	FirstName      *string
	LastName       *string
	ExtraData      map[string]string
	CreatedAt      time.Time
}

// Ref is the store's answer for lookup and upsert calls: just enough to
// resolve entitlement links.
type Ref struct {
	ID             uuid.UUID
	EmployeeNumber string
}

type Repository interface {
	// SelectByNumbers returns refs for the given employee numbers within one
	// issuing, compared case-insensitively. Implementations chunk the lookup
	// to stay under statement parameter limits.
	SelectByNumbers(ctx context.Context, issuingID uuid.UUID, numbers []string) ([]Ref, error)

	// UpsertMany inserts employees in bounded batches with conflict key
	// (issuing_id, employee_number); conflicting rows are ignored. Refs are
	// returned for freshly inserted rows only. Safe to re-run.
	UpsertMany(ctx context.Context, rows []Employee) ([]Ref, error)
}
