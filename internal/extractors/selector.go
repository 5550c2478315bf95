package extractors

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driven"
	"github.com/wWordDevw/terap-ia/internal/logger"
)

// Ensure Selector implements the interface.
var _ driven.ExtractorSelector = (*Selector)(nil)

// Selector picks an extractor by name or by probing in priority order.
// Probe results are cached so each strategy is probed at most once.
type Selector struct {
	mu         sync.Mutex
	extractors []driven.TextExtractor
	probed     map[string]error
}

// NewSelector creates a selector with the given extractors.
func NewSelector(extractors ...driven.TextExtractor) *Selector {
	s := &Selector{probed: make(map[string]error)}
	for _, e := range extractors {
		s.Register(e)
	}
	return s
}

// Register adds an extractor, keeping the list ordered by priority.
func (s *Selector) Register(e driven.TextExtractor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.extractors = append(s.extractors, e)
	sort.SliceStable(s.extractors, func(i, j int) bool {
		return s.extractors[i].Priority() > s.extractors[j].Priority()
	})
}

// Names returns the registered extractor names in priority order.
func (s *Selector) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.extractors))
	for _, e := range s.extractors {
		names = append(names, e.Name())
	}
	return names
}

// Select returns the extractor for strategy.
func (s *Selector) Select(ctx context.Context, strategy domain.ExtractionStrategy) (driven.TextExtractor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strategy == domain.ExtractionAuto || strategy == "" {
		return s.selectAuto(ctx)
	}

	for _, e := range s.extractors {
		if e.Name() != string(strategy) {
			continue
		}
		if err := s.probe(ctx, e); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrStrategyUnavailable, e.Name(), err)
		}
		return e, nil
	}
	return nil, fmt.Errorf("%w: extraction strategy %q", domain.ErrUnsupportedType, strategy)
}

func (s *Selector) selectAuto(ctx context.Context) (driven.TextExtractor, error) {
	for _, e := range s.extractors {
		err := s.probe(ctx, e)
		if err == nil {
			logger.Debug("extraction strategy: %s", e.Name())
			return e, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("extraction strategy %s unavailable: %v", e.Name(), err)
	}
	return nil, fmt.Errorf("%w: no extractor passed its probe", domain.ErrStrategyUnavailable)
}

// probe runs e's capability check once. Callers hold mu.
func (s *Selector) probe(ctx context.Context, e driven.TextExtractor) error {
	if err, ok := s.probed[e.Name()]; ok {
		return err
	}
	err := e.Probe(ctx)
	if ctx.Err() == nil {
		s.probed[e.Name()] = err
	}
	return err
}
