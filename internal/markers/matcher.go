package markers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driven"
)

// Ensure Matcher implements the interface.
var _ driven.MarkerMatcher = (*Matcher)(nil)

// normalizedExcerptLength bounds the text quoted in a normalised label.
const normalizedExcerptLength = 80

// Matcher applies the goal and label rules to document text.
// A Matcher is immutable after construction and safe for concurrent use.
type Matcher struct {
	excerptLength int
	labelLength   int
	labelRules    []LabelRule
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithExcerptLength bounds goal body excerpts, in characters.
func WithExcerptLength(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.excerptLength = n
		}
	}
}

// WithLabelLength bounds raw client-response labels, in characters.
func WithLabelLength(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.labelLength = n
		}
	}
}

// WithLabelRules sets the label rule precedence. Unknown rules are skipped.
func WithLabelRules(rules ...LabelRule) Option {
	return func(m *Matcher) {
		var kept []LabelRule
		for _, r := range rules {
			if r.IsValid() {
				kept = append(kept, r)
			}
		}
		if len(kept) > 0 {
			m.labelRules = kept
		}
	}
}

// New creates a matcher.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		excerptLength: domain.DefaultExcerptLength,
		labelLength:   domain.DefaultLabelLength,
		labelRules:    domain.DefaultLabelRules(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match returns every marker found in text. Diagnostics are filled
// only for the marker kinds that were not found at all.
func (m *Matcher) Match(text string) domain.MarkerSet {
	set := domain.MarkerSet{
		Goals:  m.MatchGoals(text),
		Labels: m.MatchLabels(text),
	}

	if !set.AnyGoalFound() || len(set.Labels) == 0 {
		diag := Diagnose(text)
		if !set.AnyGoalFound() {
			set.Diagnostics.GoalReferences = diag.GoalReferences
		}
		if len(set.Labels) == 0 {
			set.Diagnostics.LabelFragments = diag.LabelFragments
		}
	}
	return set
}

// MatchGoals returns one annotation per goal. For each goal the glyph
// rule is tried first, then the bare rule; the first occurrence wins.
func (m *Matcher) MatchGoals(text string) [domain.GoalCount]domain.GoalAnnotation {
	var goals [domain.GoalCount]domain.GoalAnnotation
	for i := range goals {
		goal := domain.GoalAnnotation{Index: i + 1}

		if sub := glyphGoal[i].FindStringSubmatch(text); sub != nil {
			goal.Found = true
			goal.Glyph = sub[1]
			goal.State = stateOf(sub[1])
			goal.Excerpt = truncate(strings.TrimSpace(sub[2]), m.excerptLength)
			goal.Rule = RuleGlyph
		} else if sub := bareGoal[i].FindStringSubmatch(text); sub != nil {
			goal.Found = true
			goal.State = domain.CheckboxNotFound
			goal.Excerpt = truncate(strings.TrimSpace(sub[1]), m.excerptLength)
			goal.Rule = RuleBare
		}
		if goal.Found {
			goal.Label = fmt.Sprintf("GOAL#%d", i+1)
		}
		goals[i] = goal
	}
	return goals
}

// MatchLabels returns at most one label per group, ordered by group.
func (m *Matcher) MatchLabels(text string) []domain.ClientResponseLabel {
	var labels []domain.ClientResponseLabel
	for i := 0; i < domain.GoalCount; i++ {
		for _, rule := range m.labelRules {
			segment := labelPatterns(rule)[i].FindString(text)
			if segment == "" {
				continue
			}
			labels = append(labels, m.label(i+1, segment, rule))
			break
		}
	}
	return labels
}

func (m *Matcher) label(group int, segment string, rule LabelRule) domain.ClientResponseLabel {
	flat := collapse(segment)
	l := domain.ClientResponseLabel{
		Group: group,
		Raw:   truncate(flat, m.labelLength),
		Rule:  string(rule),
	}
	l.Text = l.Raw

	if ref := goalReference.FindStringSubmatch(segment); ref != nil {
		l.ReferencedGoal, _ = strconv.Atoi(ref[1])
		quoted := truncate(flat, normalizedExcerptLength)
		if quoted != flat {
			quoted += "..."
		}
		l.Text = fmt.Sprintf("Group %d: Client Response(Goal#%d/Obj%dA): %s",
			group, l.ReferencedGoal, l.ReferencedGoal, quoted)
	}
	return l
}

// Diagnose collects loose marker references. It is used to explain why
// structured markers were not found.
func Diagnose(text string) domain.MarkerDiagnostics {
	var diag domain.MarkerDiagnostics

	seen := make(map[string]bool)
	for _, ref := range looseGoal.FindAllString(text, -1) {
		ref = strings.ToUpper(ref)
		if !seen[ref] {
			seen[ref] = true
			diag.GoalReferences = append(diag.GoalReferences, ref)
		}
	}

	for _, frag := range looseLabel.FindAllString(text, domain.GoalCount) {
		diag.LabelFragments = append(diag.LabelFragments, truncate(collapse(frag), normalizedExcerptLength))
	}
	return diag
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// collapse folds whitespace runs, including line breaks, into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
