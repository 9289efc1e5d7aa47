package importrun

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mineworks/giftissue/modules/gifting/domain/importplan"
)

// Run is the audit record of one completed import: which issuing, which
// mode, what the reconciliation counts were and how long it took.
type Run struct {
	ID         uuid.UUID
	IssuingID  uuid.UUID
	CompanyID  uuid.UUID
	Mode       importplan.Mode
	Summary    importplan.Summary
	StartedAt  time.Time
	FinishedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, run *Run) error
	ListByIssuing(ctx context.Context, issuingID uuid.UUID) ([]Run, error)
}
