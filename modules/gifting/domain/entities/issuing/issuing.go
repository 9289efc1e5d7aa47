package issuing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Company is referenced only; the import engine never creates companies.
type Company struct {
	ID   uuid.UUID
	Name string
}

// Issuing is a one-off gift handout event scoped to one company and one
// mine. All imported employees and entitlements live under exactly one
// issuing.
type Issuing struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Name      string
	MineName  string
	IsActive  bool
	CreatedAt time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Issuing, error)
}
