package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wWordDevw/terap-ia/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Work with saved JSON reports",
}

var reportValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a saved JSON report",
	Long: `Check a report written with --format json against the report schema and
recompute its digest. A report that was edited after it was written fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runReportValidate,
}

var reportSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of saved reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := cmd.OutOrStdout().Write(report.Schema())
		return err
	},
}

func init() {
	reportCmd.AddCommand(reportValidateCmd)
	reportCmd.AddCommand(reportSchemaCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReportValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	doc, err := report.ValidateJSON(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	body := doc.Report
	overall := "FAIL"
	if body.Summary.AllPassed {
		overall = "PASS"
	}
	generated, _ := time.Parse(time.RFC3339, body.GeneratedAt) //nolint:errcheck // empty when absent

	cmd.Printf("%s: valid\n", args[0])
	cmd.Printf("  Run:       %s\n", body.RunID)
	cmd.Printf("  Group:     %s\n", body.GroupID)
	cmd.Printf("  Week:      %s\n", body.WeekID)
	cmd.Printf("  Generated: %s\n", reportTime(generated))
	cmd.Printf("  Days:      %d verified, %d passed, %d failed, %d unverifiable\n",
		body.Summary.Verified, body.Summary.Passed, body.Summary.Failed, body.Summary.Unverifiable)
	cmd.Printf("  Overall:   %s\n", overall)
	cmd.Printf("  Digest:    %s\n", doc.Digest)
	return nil
}

// reportTime formats a report timestamp for display.
func reportTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
