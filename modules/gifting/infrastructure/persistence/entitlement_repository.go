package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mineworks/giftissue/modules/gifting/domain/entitlement"
	"github.com/mineworks/giftissue/pkg/composables"
)

const insertEmployeeSlotsSQL = `
	INSERT INTO employee_slots (id, employee_id, slot_id, company_id)
	SELECT u.id, u.employee_id, u.slot_id, u.company_id
	FROM unnest($1::uuid[], $2::uuid[], $3::uuid[], $4::uuid[])
		AS u(id, employee_id, slot_id, company_id)
	ON CONFLICT (employee_id, slot_id) DO NOTHING`

type PgEntitlementRepository struct {
	batches BatchConfig
}

func NewEntitlementRepository(batches BatchConfig) entitlement.Repository {
	return &PgEntitlementRepository{batches: batches}
}

func (g *PgEntitlementRepository) UpsertMany(ctx context.Context, links []entitlement.EmployeeSlot) error {
	for _, part := range chunk(links, g.batches.LinkBatchSize) {
		n := len(part)
		ids := make([]pgtype.UUID, n)
		employeeIDs := make([]pgtype.UUID, n)
		slotIDs := make([]pgtype.UUID, n)
		companyIDs := make([]pgtype.UUID, n)
		for i, l := range part {
			id := l.ID
			if id == uuid.Nil {
				id = uuid.New()
			}
			ids[i] = pgUUID(id)
			employeeIDs[i] = pgUUID(l.EmployeeID)
			slotIDs[i] = pgUUID(l.SlotID)
			companyIDs[i] = pgUUID(l.CompanyID)
		}

		err := withBatchRetry(ctx, g.batches.BatchTimeout, func(bctx context.Context) error {
			tx, err := composables.UseTx(bctx)
			if err != nil {
				return err
			}
			_, err = tx.Exec(bctx, insertEmployeeSlotsSQL, ids, employeeIDs, slotIDs, companyIDs)
			return err
		})
		if err != nil {
			return gerrors.Wrap(err, "failed to upsert employee slots")
		}
	}
	return nil
}
