package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gradelookup/backend/internal/report"
)

// configCmd prints the report layout
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved report layout",
	Long: `Print the subjects of the report layout in display order, with the
maximum marks each one resolves to.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		layout, err := report.LoadConfig(resolveReportConfig())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderLayout(layout))
		return nil
	},
}
