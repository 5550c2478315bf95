package cli

import (
	"github.com/spf13/cobra"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
)

var historyFlags struct {
	group string
	week  string
	limit int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded verification runs",
	Long: `Every run that produces a report is recorded in the run history, unless
--no-history is given. The history keeps the summary and the JSON report.`,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the JSON report of a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	for _, c := range []*cobra.Command{historyCmd, historyListCmd} {
		f := c.Flags()
		f.StringVar(&historyFlags.group, "group", "", "only runs for this group")
		f.StringVar(&historyFlags.week, "week", "", "only runs for this week")
		f.IntVar(&historyFlags.limit, "limit", domain.DefaultHistoryLimit, "maximum number of runs")
	}
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	svc, err := history()
	if err != nil {
		return err
	}

	runs, err := svc.List(commandContext(cmd), domain.HistoryFilter{
		GroupID: historyFlags.group,
		WeekID:  historyFlags.week,
		Limit:   historyFlags.limit,
	})
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		cmd.Println("No recorded runs.")
		return nil
	}

	for i := range runs {
		r := &runs[i]
		overall := "FAIL"
		if r.Passed() {
			overall = "PASS"
		}
		cmd.Printf("%s  %s\n", r.RunID, overall)
		cmd.Printf("    Generated: %s\n", reportTime(r.GeneratedAt))
		if r.GroupID != "" || r.WeekID != "" {
			cmd.Printf("    Group:     %s  Week: %s\n", orDash(r.GroupID), orDash(r.WeekID))
		}
		cmd.Printf("    Source:    %s (%s)\n", orDash(r.Source), orDash(r.Strategy))
		cmd.Printf("    Days:      %d verified, %d passed, %d failed, %d unverifiable\n",
			r.Summary.Verified, r.Summary.Passed, r.Summary.Failed, r.Summary.Unverifiable)
		cmd.Println()
	}
	cmd.Printf("Total: %d runs\n", len(runs))
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	svc, err := history()
	if err != nil {
		return err
	}

	run, err := svc.Get(commandContext(cmd), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := out.Write(run.Document); err != nil {
		return err
	}
	if n := len(run.Document); n > 0 && run.Document[n-1] != '\n' {
		_, err = out.Write([]byte{'\n'})
	}
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
