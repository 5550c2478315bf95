package domain

import (
	"fmt"
	"strings"
	"time"
)

const unknownDescription = "Unknown"

// ExtractionStrategy selects how document text is extracted.
type ExtractionStrategy string

// Available extraction strategies.
const (
	// ExtractionAuto probes the structured strategy and falls back to runs.
	ExtractionAuto ExtractionStrategy = "auto"

	// ExtractionStructured reads paragraphs and tables from the document model.
	ExtractionStructured ExtractionStrategy = "structured"

	// ExtractionRuns concatenates every text node of the body part.
	ExtractionRuns ExtractionStrategy = "runs"
)

// IsValid returns true if the strategy is recognised.
func (s ExtractionStrategy) IsValid() bool {
	switch s {
	case ExtractionAuto, ExtractionStructured, ExtractionRuns:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s ExtractionStrategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s ExtractionStrategy) Description() string {
	switch s {
	case ExtractionAuto:
		return "Auto (structured, falling back to text runs)"
	case ExtractionStructured:
		return "Structured (paragraphs, then table cells)"
	case ExtractionRuns:
		return "Text runs (every text node in document order)"
	default:
		return unknownDescription
	}
}

// AllExtractionStrategies returns every strategy.
func AllExtractionStrategies() []ExtractionStrategy {
	return []ExtractionStrategy{ExtractionAuto, ExtractionStructured, ExtractionRuns}
}

// LabelRule names a client-response label pattern.
type LabelRule string

// Label rules. Specific requires a Goal#n cross-reference inside the
// label; general accepts any "Group n ... Client Response:" heading.
const (
	LabelRuleSpecific LabelRule = "specific"
	LabelRuleGeneral  LabelRule = "general"
)

// IsValid returns true if the rule is recognised.
func (r LabelRule) IsValid() bool {
	return r == LabelRuleSpecific || r == LabelRuleGeneral
}

// DefaultLabelRules returns the precedence used when none is configured.
func DefaultLabelRules() []LabelRule {
	return []LabelRule{LabelRuleSpecific, LabelRuleGeneral}
}

// ParseLabelRules reads a comma-separated rule list such as "general,specific".
func ParseLabelRules(s string) ([]LabelRule, error) {
	var rules []LabelRule
	for _, name := range strings.Split(s, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		rule := LabelRule(name)
		if !rule.IsValid() {
			return nil, fmt.Errorf("%w: label rule %q (valid: %s, %s)",
				ErrInvalidInput, name, LabelRuleSpecific, LabelRuleGeneral)
		}
		rules = append(rules, rule)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: no label rules in %q", ErrInvalidInput, s)
	}
	return rules, nil
}

// FormatLabelRules is the inverse of ParseLabelRules.
func FormatLabelRules(rules []LabelRule) string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = string(r)
	}
	return strings.Join(names, ",")
}

// ServiceSettings holds generation service configuration.
type ServiceSettings struct {
	// BaseURL is the service root (e.g. http://localhost:3002).
	BaseURL string

	// TimeoutSeconds bounds the generation request.
	TimeoutSeconds int

	// Token is an optional bearer token.
	Token string
}

// Timeout returns TimeoutSeconds as a duration.
func (s ServiceSettings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// VerifySettings holds verification behaviour.
type VerifySettings struct {
	// MaxDays caps the number of days verified per run.
	MaxDays int

	// ExcerptLength bounds goal body excerpts, in characters.
	ExcerptLength int

	// LabelLength bounds raw client-response labels, in characters.
	LabelLength int

	// StrictLabels makes label misalignment fail a day.
	StrictLabels bool

	// LabelRules is the order in which label patterns are tried.
	LabelRules []LabelRule
}

// ExtractionSettings holds text extraction configuration.
type ExtractionSettings struct {
	Strategy ExtractionStrategy
}

// AppSettings holds all application settings.
type AppSettings struct {
	Service    ServiceSettings
	Verify     VerifySettings
	Extraction ExtractionSettings
}

// Default settings values.
const (
	DefaultBaseURL        = "http://localhost:3002"
	DefaultTimeoutSeconds = 300
	DefaultMaxDays        = 5
	DefaultExcerptLength  = 100
	DefaultLabelLength    = 120
)

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Service: ServiceSettings{
			BaseURL:        DefaultBaseURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Verify: VerifySettings{
			MaxDays:       DefaultMaxDays,
			ExcerptLength: DefaultExcerptLength,
			LabelLength:   DefaultLabelLength,
			LabelRules:    DefaultLabelRules(),
		},
		Extraction: ExtractionSettings{
			Strategy: ExtractionAuto,
		},
	}
}

// Validate checks that every setting is usable.
func (s AppSettings) Validate() error {
	if s.Service.BaseURL == "" {
		return fmt.Errorf("%w: service.base_url is empty", ErrInvalidInput)
	}
	if s.Service.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: service.timeout_seconds must be positive", ErrInvalidInput)
	}
	if s.Verify.MaxDays <= 0 {
		return fmt.Errorf("%w: verify.max_days must be positive", ErrInvalidInput)
	}
	if s.Verify.ExcerptLength <= 0 || s.Verify.LabelLength <= 0 {
		return fmt.Errorf("%w: excerpt and label lengths must be positive", ErrInvalidInput)
	}
	if len(s.Verify.LabelRules) == 0 {
		return fmt.Errorf("%w: verify.label_rules is empty", ErrInvalidInput)
	}
	for _, r := range s.Verify.LabelRules {
		if !r.IsValid() {
			return fmt.Errorf("%w: verify.label_rules has %q", ErrInvalidInput, r)
		}
	}
	if !s.Extraction.Strategy.IsValid() {
		return fmt.Errorf("%w: extraction.strategy %q", ErrUnsupportedType, s.Extraction.Strategy)
	}
	return nil
}
