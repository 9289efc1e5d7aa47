package importplan

import (
	"time"

	"github.com/google/uuid"
)

// Summary reconciles one import run. In employee-table mode
// FoundInExcel == Imported + the three Skipped counts.
type Summary struct {
	FoundInExcel                 int `json:"foundInExcel"`
	Imported                     int `json:"imported"`
	SkippedDuplicatesInFile      int `json:"skippedDuplicatesInFile"`
	SkippedDuplicatesExisting    int `json:"skippedDuplicatesExisting"`
	SkippedMissingEmployeeNumber int `json:"skippedMissingEmployeeNumber"`
}

// ImportCompletedEvent is published after an import run has fully persisted.
type ImportCompletedEvent struct {
	IssuingID uuid.UUID
	CompanyID uuid.UUID
	Mode      Mode
	Summary   Summary
	Duration  time.Duration
}
