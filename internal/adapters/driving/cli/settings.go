package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
)

// tokenKey is the settings key whose value is read without echo.
//
//nolint:gosec // G101: config key name, not a credential.
const tokenKey = "service.token"

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the stored defaults for the generation service,
verification and text extraction. Command line flags override them per run.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Change a setting",
	Long: `Change one setting and save it.

Keys:
  service.base_url         note generation service URL
  service.timeout_seconds  generation request timeout
  service.token            bearer token (prompted without echo when no value is given)
  verify.max_days          maximum number of days verified per run
  verify.excerpt_length    goal excerpt length in characters
  verify.label_length      client-response label length in characters
  verify.strict_labels     fail days whose labels reference another goal (true, false)
  verify.label_rules       label pattern order, e.g. specific,general
  extraction.strategy      auto, structured or runs`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, err := settings()
	if err != nil {
		return err
	}

	current, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Service]")
	cmd.Printf("  Base URL: %s\n", current.Service.BaseURL)
	cmd.Printf("  Timeout: %s\n", current.Service.Timeout())
	if current.Service.Token != "" {
		cmd.Printf("  Token: %s\n", maskToken(current.Service.Token))
	} else {
		cmd.Printf("  Token: (not set)\n")
	}
	cmd.Println()

	cmd.Println("[Verify]")
	cmd.Printf("  Max days: %d\n", current.Verify.MaxDays)
	cmd.Printf("  Excerpt length: %d\n", current.Verify.ExcerptLength)
	cmd.Printf("  Label length: %d\n", current.Verify.LabelLength)
	cmd.Printf("  Strict labels: %s\n", yesNo(current.Verify.StrictLabels))
	cmd.Printf("  Label rules: %s\n", domain.FormatLabelRules(current.Verify.LabelRules))
	cmd.Println()

	cmd.Println("[Extraction]")
	cmd.Printf("  Strategy: %s\n", current.Extraction.Strategy.Description())
	cmd.Println()

	if err := current.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'noteverify settings set <key> <value>' to fix it.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	svc, err := settings()
	if err != nil {
		return err
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case key == tokenKey:
		cmd.Print("Token: ")
		value = readSecret()
		cmd.Println()
	default:
		return fmt.Errorf("%w: %s needs a value", domain.ErrInvalidInput, key)
	}

	if err := svc.Set(key, value); err != nil {
		return err
	}
	if key == tokenKey {
		cmd.Printf("%s saved\n", key)
	} else {
		cmd.Printf("%s = %s\n", key, strings.TrimSpace(value))
	}
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(secret)
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
