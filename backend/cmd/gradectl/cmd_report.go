package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"gradelookup/backend/internal/records"
	"gradelookup/backend/internal/report"
	"gradelookup/backend/internal/shared"
)

var recordsAddr string

// reportCmd resolves one student and prints the grade report
var reportCmd = &cobra.Command{
	Use:   "report <student-id>",
	Short: "Print the grade report for one student",
	Long: `Look a student up through the record service and print the same report
the results page shows.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&recordsAddr, "records-addr", "",
		"Record service address (default: $RECORDS_SERVICE_ADDR, then localhost:"+shared.DefaultRecordsServicePort+")")
}

// resolveRecordsAddr prefers --records-addr over RECORDS_SERVICE_ADDR, read
// after the env file is loaded.
func resolveRecordsAddr() string {
	if recordsAddr != "" {
		return recordsAddr
	}
	return shared.GetEnv("RECORDS_SERVICE_ADDR", "localhost:"+shared.DefaultRecordsServicePort)
}

func runReport(cmd *cobra.Command, args []string) error {
	layout, err := report.LoadConfig(resolveReportConfig())
	if err != nil {
		return err
	}

	client, err := records.Dial(resolveRecordsAddr(), timeout)
	if err != nil {
		return err
	}
	defer client.Close()

	return printReport(cmd.Context(), cmd.OutOrStdout(), client, report.NewBuilder(layout), args[0])
}

type resolver interface {
	Lookup(ctx context.Context, studentID string) (report.RawRecord, error)
}

func printReport(ctx context.Context, w io.Writer, r resolver, builder *report.Builder, studentID string) error {
	rec, err := r.Lookup(ctx, studentID)
	switch {
	case errors.Is(err, records.ErrInvalidID):
		return fmt.Errorf("please enter a student id")
	case errors.Is(err, records.ErrNotFound):
		return fmt.Errorf("student %q not found", studentID)
	case errors.Is(err, records.ErrAccessDenied):
		return fmt.Errorf("access denied by the record store")
	case err != nil:
		return fmt.Errorf("lookup failed: %w", err)
	}

	fmt.Fprint(w, renderView(report.NewView(builder.Build(rec))))
	return nil
}
