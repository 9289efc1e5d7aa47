package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mineworks/giftissue/modules/gifting/services"
)

func newTemplateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the employee import template",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := services.NewTemplateService().EmployeeTemplate()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", filepath.Join("templates", services.TemplateFilename), "Output path for the xlsx template")
	return cmd
}
