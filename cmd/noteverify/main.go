// Command noteverify checks that generated session notes follow the goal
// selection policy.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/wWordDevw/terap-ia/internal/adapters/driven/archive"
	"github.com/wWordDevw/terap-ia/internal/adapters/driven/config/file"
	"github.com/wWordDevw/terap-ia/internal/adapters/driven/notesapi"
	"github.com/wWordDevw/terap-ia/internal/adapters/driven/storage/sqlite"
	"github.com/wWordDevw/terap-ia/internal/adapters/driven/watch"
	"github.com/wWordDevw/terap-ia/internal/adapters/driving/cli"
	"github.com/wWordDevw/terap-ia/internal/core/domain"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driven"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driving"
	"github.com/wWordDevw/terap-ia/internal/core/services"
	"github.com/wWordDevw/terap-ia/internal/extractors"
	"github.com/wWordDevw/terap-ia/internal/extractors/docx"
	"github.com/wWordDevw/terap-ia/internal/markers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Configure(openSettings, newVerifier)
	cli.ConfigureHistory(openHistory)
	cli.ConfigureWatch(newWatcher)
	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func openSettings(configDir string) (driving.SettingsService, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	return services.NewSettingsService(store), nil
}

func openHistory(configDir string) (driving.HistoryService, io.Closer, error) {
	store, err := sqlite.NewStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open run history: %w", err)
	}
	return services.NewHistoryService(store), store, nil
}

func newWatcher(dir string) (driven.ArchiveWatcher, error) {
	return watch.New(dir, watch.Options{})
}

func newVerifier(settings domain.AppSettings, opts cli.RunOptions) (driving.VerificationService, error) {
	client := notesapi.New(notesapi.Config{
		BaseURL: settings.Service.BaseURL,
		Timeout: settings.Service.Timeout(),
		Token:   settings.Service.Token,
	})
	selector := extractors.NewSelector(docx.NewStructured(), docx.NewRuns())
	matcher := markers.New(
		markers.WithExcerptLength(settings.Verify.ExcerptLength),
		markers.WithLabelLength(settings.Verify.LabelLength),
		markers.WithLabelRules(settings.Verify.LabelRules...),
	)

	return services.NewVerifier(client, archive.NewLoader(), selector, matcher, services.VerifierOptions{
		MaxDays:       settings.Verify.MaxDays,
		StrictLabels:  settings.Verify.StrictLabels,
		StrictIDs:     opts.StrictIDs,
		PreviewLength: opts.PreviewLength,
		Strategy:      settings.Extraction.Strategy,
		Reference:     opts.Reference,
	}), nil
}
