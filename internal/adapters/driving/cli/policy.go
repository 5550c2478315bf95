package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
)

var policyCmd = &cobra.Command{
	Use:   "policy [date]",
	Short: "Show the expected goal for each day of a week",
	Long: `Show the Monday to Friday dates of the week containing date (YYYY-MM-DD,
default today) and the goal the selection policy expects to be checked on each.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPolicy,
}

func init() {
	rootCmd.AddCommand(policyCmd)
}

func runPolicy(cmd *cobra.Command, args []string) error {
	ref := time.Now()
	if len(args) == 1 {
		var err error
		if ref, err = domain.ParseDate(args[0]); err != nil {
			return err
		}
	}

	cmd.Println("Goal selection policy")
	cmd.Println("=====================")
	cmd.Println()
	for _, day := range domain.WeekDates(ref) {
		goal, _ := day.ExpectedGoal()
		cmd.Printf("  %s  %-9s  GOAL#%d  (day code %02d%02d)\n",
			day.Date.Format(domain.DateLayout), day.Name(), goal, int(day.Date.Month()), day.Date.Day())
	}
	return nil
}
