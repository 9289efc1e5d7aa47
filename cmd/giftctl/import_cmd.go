package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mineworks/giftissue/modules/gifting"
	"github.com/mineworks/giftissue/modules/gifting/domain/importplan"
	"github.com/mineworks/giftissue/modules/gifting/services"
	"github.com/mineworks/giftissue/pkg/excel"
)

type cliSlotRule struct {
	Mode   string `json:"mode"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

type cliEmployeeTableMapping struct {
	SheetName string                 `json:"sheetName"`
	Columns   struct {
		EmployeeNumber string  `json:"employeeNumber"`
		FirstName      *string `json:"firstName"`
		LastName       *string `json:"lastName"`
	} `json:"columns"`
	Rules map[string]cliSlotRule `json:"rules"`
}

type cliGiftSheetsMapping struct {
	SheetSlots map[string]string `json:"sheetSlots"`
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Run a spreadsheet import against an issuing",
	}
	cmd.AddCommand(newEmployeeTableCmd(), newGiftSheetsCmd())
	return cmd
}

func parseIssuingFlag(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("--issuing must be a valid uuid: %w", err)
	}
	return id, nil
}

func loadWorkbook(path string) (*excel.Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return excel.Parse(data)
}

func loadMapping(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

func printSummary(cmd *cobra.Command, summary *importplan.Summary) error {
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func newEmployeeTableCmd() *cobra.Command {
	var (
		issuingRaw  string
		filePath    string
		mappingPath string
	)

	cmd := &cobra.Command{
		Use:   "employee-table",
		Short: "Import one sheet of employee rows with per-slot rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			issuingID, err := parseIssuingFlag(issuingRaw)
			if err != nil {
				return err
			}
			wb, err := loadWorkbook(filePath)
			if err != nil {
				return err
			}
			var mapping cliEmployeeTableMapping
			if err := loadMapping(mappingPath, &mapping); err != nil {
				return err
			}

			rules := make(map[uuid.UUID]importplan.SlotRule, len(mapping.Rules))
			for rawID, rule := range mapping.Rules {
				slotID, err := uuid.Parse(rawID)
				if err != nil {
					return fmt.Errorf("rule slot id %q is not a uuid: %w", rawID, err)
				}
				rules[slotID] = importplan.SlotRule{
					Mode:   importplan.RuleMode(rule.Mode),
					Column: rule.Column,
					Value:  rule.Value,
				}
			}

			return withModule(cmd.Context(), func(ctx context.Context, module *gifting.Module) error {
				summary, err := module.ImportService.ImportEmployeeTable(ctx, services.EmployeeTableParams{
					IssuingID: issuingID,
					Workbook:  wb,
					SheetName: mapping.SheetName,
					Columns: importplan.ColumnMapping{
						EmployeeNumber: mapping.Columns.EmployeeNumber,
						FirstName:      mapping.Columns.FirstName,
						LastName:       mapping.Columns.LastName,
					},
					Rules: rules,
				})
				if err != nil {
					return err
				}
				return printSummary(cmd, summary)
			})
		},
	}

	cmd.Flags().StringVar(&issuingRaw, "issuing", "", "Issuing UUID (required)")
	cmd.Flags().StringVar(&filePath, "file", "", "Path to the xlsx workbook (required)")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "Path to the mapping JSON (required)")
	_ = cmd.MarkFlagRequired("issuing")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("mapping")
	return cmd
}

func newGiftSheetsCmd() *cobra.Command {
	var (
		issuingRaw  string
		filePath    string
		mappingPath string
	)

	cmd := &cobra.Command{
		Use:   "gift-sheets",
		Short: "Import sheets of employee numbers, one slot per sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			issuingID, err := parseIssuingFlag(issuingRaw)
			if err != nil {
				return err
			}
			wb, err := loadWorkbook(filePath)
			if err != nil {
				return err
			}
			var mapping cliGiftSheetsMapping
			if err := loadMapping(mappingPath, &mapping); err != nil {
				return err
			}

			sheetSlots := make(map[string]uuid.UUID, len(mapping.SheetSlots))
			for sheetName, rawID := range mapping.SheetSlots {
				if rawID == "" {
					sheetSlots[sheetName] = uuid.Nil
					continue
				}
				slotID, err := uuid.Parse(rawID)
				if err != nil {
					return fmt.Errorf("slot id %q for sheet %q is not a uuid: %w", rawID, sheetName, err)
				}
				sheetSlots[sheetName] = slotID
			}

			return withModule(cmd.Context(), func(ctx context.Context, module *gifting.Module) error {
				summary, err := module.ImportService.ImportGiftSheets(ctx, services.GiftSheetsParams{
					IssuingID:  issuingID,
					Workbook:   wb,
					SheetSlots: sheetSlots,
				})
				if err != nil {
					return err
				}
				return printSummary(cmd, summary)
			})
		},
	}

	cmd.Flags().StringVar(&issuingRaw, "issuing", "", "Issuing UUID (required)")
	cmd.Flags().StringVar(&filePath, "file", "", "Path to the xlsx workbook (required)")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "Path to the mapping JSON (required)")
	_ = cmd.MarkFlagRequired("issuing")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("mapping")
	return cmd
}
