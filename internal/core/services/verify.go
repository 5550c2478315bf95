package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driven"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driving"
	"github.com/wWordDevw/terap-ia/internal/logger"
)

// Ensure Verifier implements the interface.
var _ driving.VerificationService = (*Verifier)(nil)

// VerifierOptions tunes a verification run.
type VerifierOptions struct {
	// MaxDays caps the number of sampled days (default 5).
	MaxDays int

	// StrictLabels makes label misalignment fail a day.
	StrictLabels bool

	// StrictIDs requires group and week identifiers to be UUIDs.
	StrictIDs bool

	// PreviewLength is how much extracted text each day report keeps; 0 keeps none.
	PreviewLength int

	// Strategy selects the text extractor.
	Strategy domain.ExtractionStrategy

	// Reference is the date day codes are resolved against; zero means today.
	Reference time.Time

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// StateHook observes pipeline state transitions.
type StateHook func(state domain.RunState)

// Verifier retrieves a week of notes and checks each sampled day
// against the goal selection policy.
type Verifier struct {
	generator driven.NoteGenerator
	loader    driven.BatchLoader
	selector  driven.ExtractorSelector
	matcher   driven.MarkerMatcher
	opts      VerifierOptions
	onState   StateHook
}

// NewVerifier creates a verifier. loader may be nil when offline
// analysis is not needed.
func NewVerifier(
	generator driven.NoteGenerator,
	loader driven.BatchLoader,
	selector driven.ExtractorSelector,
	matcher driven.MarkerMatcher,
	opts VerifierOptions,
) *Verifier {
	if opts.MaxDays <= 0 {
		opts.MaxDays = domain.DefaultMaxDays
	}
	if opts.Strategy == "" {
		opts.Strategy = domain.ExtractionAuto
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Verifier{
		generator: generator,
		loader:    loader,
		selector:  selector,
		matcher:   matcher,
		opts:      opts,
		onState: func(state domain.RunState) {
			logger.Debug("state: %s", state)
		},
	}
}

// WithStateHook replaces the state observer.
func (v *Verifier) WithStateHook(hook StateHook) *Verifier {
	if hook != nil {
		v.onState = hook
	}
	return v
}

// Verify generates the notes for a group and week and checks them.
func (v *Verifier) Verify(ctx context.Context, groupID, weekID string) (*domain.RunReport, error) {
	if err := v.validateIDs(groupID, weekID); err != nil {
		return nil, err
	}
	if v.generator == nil {
		return nil, fmt.Errorf("%w: no generation service configured", domain.ErrInvalidInput)
	}

	v.onState(domain.StateIdle)
	logger.Section("Retrieval")
	v.onState(domain.StateRetrieving)

	batch, err := v.generator.GenerateGroupWeek(ctx, groupID, weekID)
	if err != nil {
		return nil, err
	}
	return v.verifyBatch(ctx, batch)
}

// Analyze checks documents already on disk.
func (v *Verifier) Analyze(ctx context.Context, paths []string) (*domain.RunReport, error) {
	if v.loader == nil {
		return nil, fmt.Errorf("%w: no batch loader configured", domain.ErrInvalidInput)
	}

	v.onState(domain.StateIdle)
	logger.Section("Loading")
	v.onState(domain.StateRetrieving)

	batch, err := v.loader.Load(ctx, paths)
	if err != nil {
		return nil, err
	}
	return v.verifyBatch(ctx, batch)
}

// VerifyBatch checks an already retrieved batch.
func (v *Verifier) VerifyBatch(ctx context.Context, batch *domain.DocumentBatch) (*domain.RunReport, error) {
	if batch == nil {
		return nil, fmt.Errorf("%w: nil batch", domain.ErrInvalidInput)
	}
	v.onState(domain.StateIdle)
	return v.verifyBatch(ctx, batch)
}

func (v *Verifier) verifyBatch(ctx context.Context, batch *domain.DocumentBatch) (*domain.RunReport, error) {
	logger.Section("Grouping")
	v.onState(domain.StateGrouping)

	sampled, err := v.sampleDays(batch)
	if err != nil {
		return nil, err
	}

	extractor, err := v.selector.Select(ctx, v.opts.Strategy)
	if err != nil {
		return nil, fmt.Errorf("select extractor: %w", err)
	}

	logger.Section("Verification")
	days := make([]domain.VerificationReport, 0, len(sampled))
	for i := range sampled {
		if err := v.checkDay(ctx, extractor, &sampled[i]); err != nil {
			return nil, err
		}
		days = append(days, sampled[i].report)
	}

	v.onState(domain.StateReporting)
	report := &domain.RunReport{
		RunID:       uuid.NewString(),
		GroupID:     batch.GroupID,
		WeekID:      batch.WeekID,
		Source:      batch.Source,
		Strategy:    extractor.Name(),
		GeneratedAt: v.opts.Now(),
		Members:     len(batch.Members),
		Unmatched:   batch.Unmatched(),
		Days:        days,
	}

	s := report.Summary()
	logger.Info("verified %d days: %d passed, %d failed, %d unverifiable",
		s.Verified, s.Passed, s.Failed, s.Unverifiable)
	v.onState(domain.StateDone)
	return report, nil
}

// sampledDay pairs a day report with the document it will be built from.
type sampledDay struct {
	report domain.VerificationReport
	member domain.BatchMember
}

// sampleDays picks one member per day, places each on the calendar and
// keeps the first MaxDays in date order. Days without a calendar date
// sort last so they never displace a real one.
func (v *Verifier) sampleDays(batch *domain.DocumentBatch) ([]sampledDay, error) {
	samples := batch.SampleFirstPerDay()
	if len(samples) == 0 {
		return nil, &domain.RetrievalError{
			Op:  "group",
			Err: fmt.Errorf("%w: no day-coded documents among %d members", domain.ErrNotFound, len(batch.Members)),
		}
	}

	ref := v.opts.Reference
	if ref.IsZero() {
		ref = v.opts.Now()
	}

	days := make([]sampledDay, 0, len(samples))
	for _, sample := range samples {
		day := sampledDay{
			report: domain.VerificationReport{
				Code:       sample.Code,
				Member:     sample.Member.Name,
				Candidates: sample.Candidates,
			},
			member: sample.Member,
		}
		date, err := sample.Code.Resolve(ref)
		if err != nil {
			day.report.MarkUnverifiable(err)
		} else {
			day.report.Day = domain.NewWeekDay(date)
		}
		logger.Debug("day %s -> %s (%s, %d candidates)",
			sample.Code, day.report.Day.Date.Format(domain.DateLayout), sample.Member.Name, sample.Candidates)
		days = append(days, day)
	}

	sort.SliceStable(days, func(i, j int) bool {
		a, b := days[i].report.Day.Date, days[j].report.Day.Date
		if a.IsZero() != b.IsZero() {
			return b.IsZero()
		}
		return a.Before(b)
	})
	if len(days) > v.opts.MaxDays {
		logger.Info("verifying the first %d of %d days", v.opts.MaxDays, len(days))
		days = days[:v.opts.MaxDays]
	}
	return days, nil
}

// checkDay extracts, matches and evaluates one sampled document. Only
// cancellation is returned; document failures mark the day unverifiable.
func (v *Verifier) checkDay(ctx context.Context, extractor driven.TextExtractor, day *sampledDay) error {
	report := &day.report
	if report.Status == domain.StatusUnverifiable {
		return nil
	}

	v.onState(domain.StateExtracting)
	text, err := extractor.Extract(ctx, day.member)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.Warn("%s: %v", report.Member, err)
		report.MarkUnverifiable(err)
		return nil
	}

	v.onState(domain.StateMatching)
	report.Markers = v.matcher.Match(text)
	report.Preview = preview(text, v.opts.PreviewLength)

	v.onState(domain.StateValidating)
	report.Evaluate(v.opts.StrictLabels)
	if report.Status == domain.StatusUnverifiable {
		logger.Warn("%s: %s", report.Member, report.Reason)
	}
	logger.Debug("%s: %s %s", report.Day, report.Status, report.Reason)
	return nil
}

func (v *Verifier) validateIDs(groupID, weekID string) error {
	for _, id := range []struct{ name, value string }{{"group id", groupID}, {"week id", weekID}} {
		if id.value == "" {
			return fmt.Errorf("%w: %s is empty", domain.ErrInvalidInput, id.name)
		}
		if v.opts.StrictIDs {
			if _, err := uuid.Parse(id.value); err != nil {
				return fmt.Errorf("%w: %s %q is not a UUID", domain.ErrInvalidInput, id.name, id.value)
			}
		}
	}
	return nil
}

// preview returns the first n characters of text.
func preview(text string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n])
}
