package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mineworks/giftissue/modules/gifting/domain/entities/issuing"
	"github.com/mineworks/giftissue/pkg/composables"
)

var ErrIssuingNotFound = gerrors.New("issuing not found")

const selectIssuingByIDSQL = `
	SELECT id, company_id, name, mine_name, is_active, created_at
	FROM issuings
	WHERE id = $1`

type PgIssuingRepository struct{}

func NewIssuingRepository() issuing.Repository {
	return &PgIssuingRepository{}
}

func (g *PgIssuingRepository) GetByID(ctx context.Context, id uuid.UUID) (*issuing.Issuing, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var entity issuing.Issuing
	err = tx.QueryRow(ctx, selectIssuingByIDSQL, pgUUID(id)).Scan(
		&entity.ID,
		&entity.CompanyID,
		&entity.Name,
		&entity.MineName,
		&entity.IsActive,
		&entity.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrIssuingNotFound
	}
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to get issuing")
	}
	return &entity, nil
}
