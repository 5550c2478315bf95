package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driven"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyBaseURL        = "service.base_url"
	KeyTimeoutSeconds = "service.timeout_seconds"
	KeyToken          = "service.token"
	KeyMaxDays        = "verify.max_days"
	KeyExcerptLength  = "verify.excerpt_length"
	KeyLabelLength    = "verify.label_length"
	KeyStrictLabels   = "verify.strict_labels"
	KeyLabelRules     = "verify.label_rules"
	KeyStrategy       = "extraction.strategy"
)

// settingKeys is the display order of the settable keys.
var settingKeys = []string{
	KeyBaseURL,
	KeyTimeoutSeconds,
	KeyToken,
	KeyMaxDays,
	KeyExcerptLength,
	KeyLabelLength,
	KeyStrictLabels,
	KeyLabelRules,
	KeyStrategy,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or unusable
// values fall back to their defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Service: domain.ServiceSettings{
			BaseURL:        s.getString(KeyBaseURL, defaults.Service.BaseURL),
			TimeoutSeconds: s.getInt(KeyTimeoutSeconds, defaults.Service.TimeoutSeconds),
			Token:          s.configStore.GetString(KeyToken), // No default - empty means anonymous
		},
		Verify: domain.VerifySettings{
			MaxDays:       s.getInt(KeyMaxDays, defaults.Verify.MaxDays),
			ExcerptLength: s.getInt(KeyExcerptLength, defaults.Verify.ExcerptLength),
			LabelLength:   s.getInt(KeyLabelLength, defaults.Verify.LabelLength),
			StrictLabels:  s.getBool(KeyStrictLabels, defaults.Verify.StrictLabels),
			LabelRules:    s.getLabelRules(defaults.Verify.LabelRules),
		},
		Extraction: domain.ExtractionSettings{
			Strategy: s.getStrategy(defaults.Extraction.Strategy),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyBaseURL, settings.Service.BaseURL},
		{KeyTimeoutSeconds, settings.Service.TimeoutSeconds},
		{KeyToken, settings.Service.Token},
		{KeyMaxDays, settings.Verify.MaxDays},
		{KeyExcerptLength, settings.Verify.ExcerptLength},
		{KeyLabelLength, settings.Verify.LabelLength},
		{KeyStrictLabels, settings.Verify.StrictLabels},
		{KeyLabelRules, domain.FormatLabelRules(settings.Verify.LabelRules)},
		{KeyStrategy, settings.Extraction.Strategy.String()},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("write %s: %w", s.configStore.Path(), err)
	}
	return nil
}

// Set parses value for key, applies it to the current settings and saves.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	switch key {
	case KeyBaseURL:
		settings.Service.BaseURL = strings.TrimRight(value, "/")
	case KeyTimeoutSeconds:
		settings.Service.TimeoutSeconds, err = parseInt(key, value)
	case KeyToken:
		settings.Service.Token = value
	case KeyMaxDays:
		settings.Verify.MaxDays, err = parseInt(key, value)
	case KeyExcerptLength:
		settings.Verify.ExcerptLength, err = parseInt(key, value)
	case KeyLabelLength:
		settings.Verify.LabelLength, err = parseInt(key, value)
	case KeyStrictLabels:
		settings.Verify.StrictLabels, err = strconv.ParseBool(value)
		if err != nil {
			err = fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
	case KeyLabelRules:
		settings.Verify.LabelRules, err = domain.ParseLabelRules(value)
	case KeyStrategy:
		settings.Extraction.Strategy = domain.ExtractionStrategy(strings.ToLower(value))
	default:
		return fmt.Errorf("%w: unknown setting %q (valid: %s)", domain.ErrNotFound, key, strings.Join(settingKeys, ", "))
	}
	if err != nil {
		return err
	}
	return s.Save(settings)
}

// Keys lists the settable keys in display order.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
	}
	return n, nil
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getLabelRules(defaultVal []domain.LabelRule) []domain.LabelRule {
	val := s.configStore.GetString(KeyLabelRules)
	if val == "" {
		return defaultVal
	}
	rules, err := domain.ParseLabelRules(val)
	if err != nil {
		return defaultVal
	}
	return rules
}

func (s *SettingsService) getStrategy(defaultVal domain.ExtractionStrategy) domain.ExtractionStrategy {
	val := s.configStore.GetString(KeyStrategy)
	if val == "" {
		return defaultVal
	}
	strategy := domain.ExtractionStrategy(val)
	if !strategy.IsValid() {
		return defaultVal
	}
	return strategy
}
