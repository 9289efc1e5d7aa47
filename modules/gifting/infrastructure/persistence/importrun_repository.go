package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mineworks/giftissue/modules/gifting/domain/importrun"
	"github.com/mineworks/giftissue/pkg/composables"
)

const (
	insertImportRunSQL = `
		INSERT INTO import_runs (
			id, issuing_id, company_id, mode,
			found_in_excel, imported,
			skipped_duplicates_in_file, skipped_duplicates_existing, skipped_missing_employee_number,
			started_at, finished_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	selectImportRunsByIssuingSQL = `
		SELECT
			id, issuing_id, company_id, mode,
			found_in_excel, imported,
			skipped_duplicates_in_file, skipped_duplicates_existing, skipped_missing_employee_number,
			started_at, finished_at
		FROM import_runs
		WHERE issuing_id = $1
		ORDER BY started_at DESC`
)

type PgImportRunRepository struct{}

func NewImportRunRepository() importrun.Repository {
	return &PgImportRunRepository{}
}

func (g *PgImportRunRepository) Create(ctx context.Context, run *importrun.Run) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	id := run.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err = tx.Exec(ctx, insertImportRunSQL,
		pgUUID(id),
		pgUUID(run.IssuingID),
		pgUUID(run.CompanyID),
		string(run.Mode),
		run.Summary.FoundInExcel,
		run.Summary.Imported,
		run.Summary.SkippedDuplicatesInFile,
		run.Summary.SkippedDuplicatesExisting,
		run.Summary.SkippedMissingEmployeeNumber,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create import run")
	}
	return nil
}

func (g *PgImportRunRepository) ListByIssuing(ctx context.Context, issuingID uuid.UUID) ([]importrun.Run, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectImportRunsByIssuingSQL, pgUUID(issuingID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list import runs")
	}
	defer rows.Close()

	var runs []importrun.Run
	for rows.Next() {
		var (
			run  importrun.Run
			mode string
		)
		err := rows.Scan(
			&run.ID,
			&run.IssuingID,
			&run.CompanyID,
			&mode,
			&run.Summary.FoundInExcel,
			&run.Summary.Imported,
			&run.Summary.SkippedDuplicatesInFile,
			&run.Summary.SkippedDuplicatesExisting,
			&run.Summary.SkippedMissingEmployeeNumber,
			&run.StartedAt,
			&run.FinishedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan import run")
		}
		run.Mode = importplanMode(mode)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
