package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driving"
	"github.com/wWordDevw/terap-ia/internal/logger"
	"github.com/wWordDevw/terap-ia/internal/report"
)

// Report formats.
const (
	formatText = "text"
	formatJSON = "json"
)

// runFlags holds the verification flags shared by the root, verify and analyze commands.
var runFlags struct {
	baseURL       string
	timeout       int
	token         string
	maxDays       int
	strategy      string
	referenceDate string
	format        string
	preview       int
	strictLabels  bool
	strictIDs     bool
	output        string
	noHistory     bool
}

var verifyCmd = &cobra.Command{
	Use:   "verify <groupId> <weekId>",
	Short: "Generate a week of notes and verify goal selection",
	Long: `Generate a week of notes for a group through the note generation service
and verify each sampled day against the goal selection policy.

This is the same as running noteverify with the two identifiers directly.`,
	Args: cobra.ExactArgs(2),
	RunE: runVerify,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>...",
	Short: "Verify notes already on disk",
	Long: `Verify notes that were generated earlier. Each path may be a zip archive
as returned by the generation service, a single .docx note, or a directory
searched for .docx notes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	addRunFlags(verifyCmd)
	addRunFlags(analyzeCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func addRunFlags(cmd *cobra.Command) {
	defaults := domain.DefaultAppSettings()
	f := cmd.Flags()
	f.StringVar(&runFlags.baseURL, "base-url", defaults.Service.BaseURL, "note generation service URL")
	f.IntVar(&runFlags.timeout, "timeout", defaults.Service.TimeoutSeconds, "generation request timeout in seconds")
	f.StringVar(&runFlags.token, "token", "", "bearer token for the generation service")
	f.IntVar(&runFlags.maxDays, "max-days", defaults.Verify.MaxDays, "maximum number of days to verify")
	f.StringVar(&runFlags.strategy, "strategy", string(defaults.Extraction.Strategy),
		"text extraction strategy (auto, structured, runs)")
	f.StringVar(&runFlags.referenceDate, "reference-date", "",
		"date (YYYY-MM-DD) that day codes are resolved against (default today)")
	f.StringVarP(&runFlags.format, "format", "f", formatText, "report format (text, json)")
	f.IntVar(&runFlags.preview, "preview", 0, "include the first N characters of each extracted text")
	f.BoolVar(&runFlags.strictLabels, "strict-labels", defaults.Verify.StrictLabels,
		"fail days whose client-response labels reference another goal")
	f.BoolVar(&runFlags.strictIDs, "strict-ids", false, "require group and week identifiers to be UUIDs")
	f.StringVarP(&runFlags.output, "output", "o", "", "write the report to a file instead of stdout")
	f.BoolVar(&runFlags.noHistory, "no-history", false, "do not record the run in the run history")
}

func runVerify(cmd *cobra.Command, args []string) error {
	return runVerification(cmd, func(ctx context.Context, svc driving.VerificationService) (*domain.RunReport, error) {
		return svc.Verify(ctx, args[0], args[1])
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	return runVerification(cmd, func(ctx context.Context, svc driving.VerificationService) (*domain.RunReport, error) {
		return svc.Analyze(ctx, args)
	})
}

func runVerification(
	cmd *cobra.Command,
	run func(context.Context, driving.VerificationService) (*domain.RunReport, error),
) error {
	svc, err := verifier(cmd)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	rep, err := run(ctx, svc)
	if err != nil {
		return err
	}
	if err := writeReport(cmd, rep); err != nil {
		return err
	}
	recordRun(ctx, rep)
	return nil
}

// verifier checks the run flags and builds a verification service.
func verifier(cmd *cobra.Command) (driving.VerificationService, error) {
	if newVerifier == nil {
		return nil, errors.New("verification service not configured")
	}
	if runFlags.format != formatText && runFlags.format != formatJSON {
		return nil, fmt.Errorf("%w: unknown format %q (text, json)", domain.ErrInvalidInput, runFlags.format)
	}

	current, err := effectiveSettings(cmd)
	if err != nil {
		return nil, err
	}
	opts, err := runOptions()
	if err != nil {
		return nil, err
	}
	return newVerifier(*current, opts)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// recordRun adds the run to the run history. History problems never fail a run.
func recordRun(ctx context.Context, rep *domain.RunReport) {
	if runFlags.noHistory {
		return
	}
	svc, err := history()
	if err != nil {
		logger.Warn("run history unavailable: %v", err)
		return
	}
	doc, err := report.NewDocument(rep)
	if err != nil {
		logger.Warn("run %s not recorded: %v", rep.RunID, err)
		return
	}
	data, err := json.Marshal(doc)
	if err != nil {
		logger.Warn("run %s not recorded: %v", rep.RunID, err)
		return
	}
	if err := svc.Record(ctx, rep, data, doc.Digest); err != nil {
		logger.Warn("run %s not recorded: %v", rep.RunID, err)
		return
	}
	logger.Debug("recorded run %s", rep.RunID)
}

// effectiveSettings overlays explicitly set flags on the stored settings.
func effectiveSettings(cmd *cobra.Command) (*domain.AppSettings, error) {
	svc, err := settings()
	if err != nil {
		return nil, err
	}
	current, err := svc.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	f := cmd.Flags()
	if f.Changed("base-url") {
		current.Service.BaseURL = strings.TrimRight(runFlags.baseURL, "/")
	}
	if f.Changed("timeout") {
		current.Service.TimeoutSeconds = runFlags.timeout
	}
	if f.Changed("token") {
		current.Service.Token = runFlags.token
	}
	if f.Changed("max-days") {
		current.Verify.MaxDays = runFlags.maxDays
	}
	if f.Changed("strategy") {
		current.Extraction.Strategy = domain.ExtractionStrategy(strings.ToLower(runFlags.strategy))
	}
	if f.Changed("strict-labels") {
		current.Verify.StrictLabels = runFlags.strictLabels
	}

	if err := current.Validate(); err != nil {
		return nil, err
	}
	return current, nil
}

func runOptions() (RunOptions, error) {
	opts := RunOptions{
		StrictIDs:     runFlags.strictIDs,
		PreviewLength: runFlags.preview,
	}
	if opts.PreviewLength < 0 {
		return opts, fmt.Errorf("%w: --preview must not be negative", domain.ErrInvalidInput)
	}
	if runFlags.referenceDate != "" {
		ref, err := domain.ParseDate(runFlags.referenceDate)
		if err != nil {
			return opts, err
		}
		opts.Reference = ref
	}
	return opts, nil
}

func writeReport(cmd *cobra.Command, rep *domain.RunReport) (err error) {
	var w io.Writer = cmd.OutOrStdout()
	if runFlags.output != "" {
		f, createErr := os.Create(runFlags.output)
		if createErr != nil {
			return fmt.Errorf("create report file: %w", createErr)
		}
		defer func() {
			if cerr := f.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("close report file: %w", cerr)
			}
		}()
		w = f
	}

	if runFlags.format == formatJSON {
		return report.EncodeJSON(w, rep)
	}

	opts := report.TextOptions{}
	if !noColor && isTerminal(w) {
		opts.Styles = report.DefaultStyles()
	}
	return report.RenderText(w, rep, opts)
}
