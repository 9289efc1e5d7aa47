package giftslot

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GiftSlot is a category of gift within an issuing. A choice slot has
// multiple options and the recipient picks one at issuance; a fixed slot
// hands out exactly one option.
type GiftSlot struct {
	ID        uuid.UUID
	IssuingID uuid.UUID
	Name      string
	IsChoice  bool
	CreatedAt time.Time
}

// GiftOption is a concrete item within a slot. StockQuantity nil means
// unlimited stock.
type GiftOption struct {
	ID            uuid.UUID
	SlotID        uuid.UUID
	ItemName      string
	StockQuantity *int
	CreatedAt     time.Time
}

type Repository interface {
	// ListByIssuing returns the issuing's slots in creation order.
	ListByIssuing(ctx context.Context, issuingID uuid.UUID) ([]GiftSlot, error)
	ListOptions(ctx context.Context, slotID uuid.UUID) ([]GiftOption, error)
}
