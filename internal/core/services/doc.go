// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Verifier runs the verification pipeline. SettingsService maps the
// flat config store onto domain.AppSettings. HistoryService records
// finished runs.
package services
