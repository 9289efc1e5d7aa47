package persistence

import (
	"context"
	"encoding/json"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mineworks/giftissue/modules/gifting/domain/aggregates/employee"
	"github.com/mineworks/giftissue/pkg/composables"
)

const (
	selectEmployeesByNumbersSQL = `
		SELECT id, employee_number
		FROM employees
		WHERE issuing_id = $1 AND lower(employee_number) = ANY($2::text[])`

	insertEmployeesSQL = `
		INSERT INTO employees (id, company_id, issuing_id, employee_number, first_name, last_name, extra_data)
		SELECT u.id, u.company_id, u.issuing_id, u.employee_number, u.first_name, u.last_name, u.extra_data::jsonb
		FROM unnest(
			$1::uuid[], $2::uuid[], $3::uuid[], $4::text[], $5::text[], $6::text[], $7::text[]
		) AS u(id, company_id, issuing_id, employee_number, first_name, last_name, extra_data)
		ON CONFLICT (issuing_id, lower(employee_number)) DO NOTHING
		RETURNING id, employee_number`
)

type PgEmployeeRepository struct {
	batches BatchConfig
}

func NewEmployeeRepository(batches BatchConfig) employee.Repository {
	return &PgEmployeeRepository{batches: batches}
}

func (g *PgEmployeeRepository) SelectByNumbers(
	ctx context.Context,
	issuingID uuid.UUID,
	numbers []string,
) ([]employee.Ref, error) {
	lowered := make([]string, len(numbers))
	for i, n := range numbers {
		lowered[i] = strings.ToLower(n)
	}

	var refs []employee.Ref
	for _, part := range chunk(lowered, g.batches.LookupChunkSize) {
		part := part
		var batch []employee.Ref
		err := withBatchRetry(ctx, g.batches.BatchTimeout, func(bctx context.Context) error {
			batch = batch[:0]
			tx, err := composables.UseTx(bctx)
			if err != nil {
				return err
			}
			rows, err := tx.Query(bctx, selectEmployeesByNumbersSQL, pgUUID(issuingID), part)
			if err != nil {
				return err
			}
			defer rows.Close()
			for rows.Next() {
				var ref employee.Ref
				if err := rows.Scan(&ref.ID, &ref.EmployeeNumber); err != nil {
					return err
				}
				batch = append(batch, ref)
			}
			return rows.Err()
		})
		if err != nil {
			return nil, gerrors.Wrap(err, "failed to select employees by number")
		}
		refs = append(refs, batch...)
	}
	return refs, nil
}

func (g *PgEmployeeRepository) UpsertMany(
	ctx context.Context,
	entities []employee.Employee,
) ([]employee.Ref, error) {
	var inserted []employee.Ref
	for _, part := range chunk(entities, g.batches.EmployeeBatchSize) {
		args, err := employeeInsertArgs(part)
		if err != nil {
			return nil, err
		}
		var batch []employee.Ref
		err = withBatchRetry(ctx, g.batches.BatchTimeout, func(bctx context.Context) error {
			batch = batch[:0]
			tx, err := composables.UseTx(bctx)
			if err != nil {
				return err
			}
			rows, err := tx.Query(bctx, insertEmployeesSQL, args...)
			if err != nil {
				return err
			}
			defer rows.Close()
			for rows.Next() {
				var ref employee.Ref
				if err := rows.Scan(&ref.ID, &ref.EmployeeNumber); err != nil {
					return err
				}
				batch = append(batch, ref)
			}
			return rows.Err()
		})
		if err != nil {
			return nil, gerrors.Wrap(err, "failed to upsert employees")
		}
		inserted = append(inserted, batch...)
	}
	return inserted, nil
}

func employeeInsertArgs(entities []employee.Employee) ([]any, error) {
	n := len(entities)
	ids := make([]pgtype.UUID, n)
	companyIDs := make([]pgtype.UUID, n)
	issuingIDs := make([]pgtype.UUID, n)
	numbers := make([]string, n)
	firstNames := make([]pgtype.Text, n)
	lastNames := make([]pgtype.Text, n)
	extras := make([]string, n)

	for i, e := range entities {
		id := e.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		ids[i] = pgUUID(id)
		companyIDs[i] = pgUUID(e.CompanyID)
		issuingIDs[i] = pgUUID(e.IssuingID)
		numbers[i] = e.EmployeeNumber
		firstNames[i] = pgNullableText(e.FirstName)
		lastNames[i] = pgNullableText(e.LastName)

		extra := e.ExtraData
		if extra == nil {
			extra = map[string]string{}
		}
		raw, err := json.Marshal(extra)
		if err != nil {
			return nil, gerrors.Wrap(err, "failed to encode employee extra data")
		}
		extras[i] = string(raw)
	}

	return []any{ids, companyIDs, issuingIDs, numbers, firstNames, lastNames, extras}, nil
}
