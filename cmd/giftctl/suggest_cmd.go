package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mineworks/giftissue/modules/gifting"
)

func newSuggestCmd() *cobra.Command {
	var (
		issuingRaw string
		filePath   string
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest a slot for every sheet of a workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			issuingID, err := parseIssuingFlag(issuingRaw)
			if err != nil {
				return err
			}
			wb, err := loadWorkbook(filePath)
			if err != nil {
				return err
			}

			return withModule(cmd.Context(), func(ctx context.Context, module *gifting.Module) error {
				suggestions, err := module.ImportService.SuggestSlots(ctx, issuingID, wb.SheetNames)
				if err != nil {
					return err
				}
				out, err := json.MarshalIndent(suggestions, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&issuingRaw, "issuing", "", "Issuing UUID (required)")
	cmd.Flags().StringVar(&filePath, "file", "", "Path to the xlsx workbook (required)")
	_ = cmd.MarkFlagRequired("issuing")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newRunsCmd() *cobra.Command {
	var issuingRaw string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List past import runs of an issuing",
		RunE: func(cmd *cobra.Command, args []string) error {
			issuingID, err := parseIssuingFlag(issuingRaw)
			if err != nil {
				return err
			}

			return withModule(cmd.Context(), func(ctx context.Context, module *gifting.Module) error {
				runs, err := module.ImportService.Runs(ctx, issuingID)
				if err != nil {
					return err
				}
				for _, run := range runs {
					fmt.Fprintf(cmd.OutOrStdout(),
						"%s  %-14s  found=%d imported=%d dupFile=%d dupExisting=%d missing=%d  %s\n",
						run.StartedAt.Format("2006-01-02 15:04:05"),
						run.Mode,
						run.Summary.FoundInExcel,
						run.Summary.Imported,
						run.Summary.SkippedDuplicatesInFile,
						run.Summary.SkippedDuplicatesExisting,
						run.Summary.SkippedMissingEmployeeNumber,
						run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond),
					)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&issuingRaw, "issuing", "", "Issuing UUID (required)")
	_ = cmd.MarkFlagRequired("issuing")
	return cmd
}
