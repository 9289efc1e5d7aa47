package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/mineworks/giftissue/modules/gifting/domain/entities/giftslot"
	"github.com/mineworks/giftissue/pkg/composables"
)

const (
	selectSlotsByIssuingSQL = `
		SELECT id, issuing_id, name, is_choice, created_at
		FROM gift_slots
		WHERE issuing_id = $1
		ORDER BY created_at, id`

	selectOptionsBySlotSQL = `
		SELECT id, slot_id, item_name, stock_quantity, created_at
		FROM gift_options
		WHERE slot_id = $1
		ORDER BY created_at, id`
)

type PgGiftSlotRepository struct{}

func NewGiftSlotRepository() giftslot.Repository {
	return &PgGiftSlotRepository{}
}

func (g *PgGiftSlotRepository) ListByIssuing(ctx context.Context, issuingID uuid.UUID) ([]giftslot.GiftSlot, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectSlotsByIssuingSQL, pgUUID(issuingID))
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to list gift slots")
	}
	defer rows.Close()

	var slots []giftslot.GiftSlot
	for rows.Next() {
		var s giftslot.GiftSlot
		if err := rows.Scan(&s.ID, &s.IssuingID, &s.Name, &s.IsChoice, &s.CreatedAt); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan gift slot")
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (g *PgGiftSlotRepository) ListOptions(ctx context.Context, slotID uuid.UUID) ([]giftslot.GiftOption, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectOptionsBySlotSQL, pgUUID(slotID))
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to list gift options")
	}
	defer rows.Close()

	var options []giftslot.GiftOption
	for rows.Next() {
		var o giftslot.GiftOption
		if err := rows.Scan(&o.ID, &o.SlotID, &o.ItemName, &o.StockQuantity, &o.CreatedAt); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan gift option")
		}
		options = append(options, o)
	}
	return options, rows.Err()
}
