// Package cli provides the noteverify command line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driving"
	"github.com/wWordDevw/terap-ia/internal/logger"
)

// ConfigDirEnv overrides the configuration directory.
const ConfigDirEnv = "NOTEVERIFY_CONFIG_DIR"

// version is set at build time.
var version = "dev"

// RunOptions are the per-invocation options that are not stored settings.
type RunOptions struct {
	// StrictIDs requires group and week identifiers to be UUIDs.
	StrictIDs bool

	// PreviewLength keeps the first n characters of each extracted text.
	PreviewLength int

	// Reference is the date day codes are resolved against; zero means today.
	Reference time.Time
}

// SettingsFactory opens the settings stored in configDir.
// An empty configDir selects the default location.
type SettingsFactory func(configDir string) (driving.SettingsService, error)

// VerifierFactory builds a verification service for the effective settings.
type VerifierFactory func(settings domain.AppSettings, opts RunOptions) (driving.VerificationService, error)

// HistoryFactory opens the run history kept in configDir. The closer
// releases it once the command has finished.
type HistoryFactory func(configDir string) (driving.HistoryService, io.Closer, error)

var (
	openSettings SettingsFactory
	newVerifier  VerifierFactory
	openHistory  HistoryFactory

	// settingsService and historyService are opened on first use.
	settingsService driving.SettingsService
	historyService  driving.HistoryService
	historyCloser   io.Closer
)

var (
	verbose   bool
	noColor   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "noteverify <groupId> <weekId>",
	Short: "Verify goal selection in generated session notes",
	Long: `noteverify asks the note generation service for a group's week of notes,
samples one document per day and checks that each day's checked goal matches
the goal selection policy:

  Monday GOAL#1, Tuesday GOAL#2, Wednesday GOAL#3, Thursday GOAL#4, Friday GOAL#1

The report lists the four goal checkboxes and the four client-response labels
of every sampled day. The exit status is 0 whenever a report is produced, even
when days fail; it is 1 when the run could not complete.`,
	Args:              cobra.ExactArgs(2),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runVerify,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"configuration directory (default ~/.noteverify, or $"+ConfigDirEnv+")")
	addRunFlags(rootCmd)
}

// Configure sets the factories the commands use.
func Configure(settings SettingsFactory, verifier VerifierFactory) {
	openSettings = settings
	newVerifier = verifier
}

// ConfigureHistory sets the run history factory. Without one, runs are
// not recorded and the history commands fail.
func ConfigureHistory(history HistoryFactory) {
	openHistory = history
}

// Execute runs the root command. Errors are returned for the caller to print.
func Execute(ctx context.Context) error {
	defer closeHistory()
	return rootCmd.ExecuteContext(ctx)
}

// setup configures logging before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetVerbose(verbose)
	logger.SetColor(!noColor && isTerminal(cmd.ErrOrStderr()))
	return nil
}

// settings opens the stored settings on first use.
func settings() (driving.SettingsService, error) {
	if settingsService != nil {
		return settingsService, nil
	}
	if openSettings == nil {
		return nil, errors.New("settings service not configured")
	}
	svc, err := openSettings(resolvedConfigDir())
	if err != nil {
		return nil, err
	}
	settingsService = svc
	return svc, nil
}

// history opens the run history on first use.
func history() (driving.HistoryService, error) {
	if historyService != nil {
		return historyService, nil
	}
	if openHistory == nil {
		return nil, errors.New("run history not configured")
	}
	svc, closer, err := openHistory(resolvedConfigDir())
	if err != nil {
		return nil, err
	}
	historyService, historyCloser = svc, closer
	return svc, nil
}

func closeHistory() {
	if historyCloser != nil {
		if err := historyCloser.Close(); err != nil {
			logger.Warn("closing run history: %v", err)
		}
	}
	historyService, historyCloser = nil, nil
}

// resolvedConfigDir is --config-dir, then $NOTEVERIFY_CONFIG_DIR.
func resolvedConfigDir() string {
	if configDir != "" {
		return configDir
	}
	return os.Getenv(ConfigDirEnv)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
