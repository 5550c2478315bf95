package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gowebpki/jcs"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
)

// Version identifies the JSON report layout.
const Version = "noteverify.report/v1"

// DigestPrefix names the digest algorithm.
const DigestPrefix = "sha256:"

// Document is the JSON form of a run.
type Document struct {
	Version string `json:"version"`
	Report  Body   `json:"report"`

	// Digest is DigestPrefix followed by the hex SHA-256 of the canonical Report.
	Digest string `json:"digest"`
}

// Body is the digested part of a Document.
type Body struct {
	RunID       string   `json:"run_id"`
	GroupID     string   `json:"group_id"`
	WeekID      string   `json:"week_id"`
	Source      string   `json:"source"`
	Strategy    string   `json:"strategy"`
	GeneratedAt string   `json:"generated_at"`
	Members     int      `json:"members"`
	Unmatched   []string `json:"unmatched"`
	Days        []Day    `json:"days"`
	Summary     Summary  `json:"summary"`
}

// Day is one sampled day.
type Day struct {
	Date            string       `json:"date,omitempty"`
	Weekday         string       `json:"weekday,omitempty"`
	Code            string       `json:"code"`
	Member          string       `json:"member"`
	Candidates      int          `json:"candidates"`
	ExpectedGoal    int          `json:"expected_goal"`
	Status          string       `json:"status"`
	Reason          string       `json:"reason,omitempty"`
	PolicySatisfied bool         `json:"policy_satisfied"`
	Goals           []Goal       `json:"goals"`
	Labels          []Label      `json:"labels"`
	Diagnostics     *Diagnostics `json:"diagnostics,omitempty"`
	Preview         string       `json:"preview,omitempty"`
}

// Goal is one goal annotation.
type Goal struct {
	Index   int    `json:"index"`
	Found   bool   `json:"found"`
	State   string `json:"state"`
	Glyph   string `json:"glyph,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
	Rule    string `json:"rule,omitempty"`
}

// Label is one client-response group. Groups without a label have Found false.
type Label struct {
	Group          int    `json:"group"`
	Found          bool   `json:"found"`
	Text           string `json:"text,omitempty"`
	Raw            string `json:"raw,omitempty"`
	ReferencedGoal int    `json:"referenced_goal,omitempty"`
	Aligned        bool   `json:"aligned"`
	Rule           string `json:"rule,omitempty"`
}

// Diagnostics lists loose marker references.
type Diagnostics struct {
	GoalReferences []string `json:"goal_references,omitempty"`
	LabelFragments []string `json:"label_fragments,omitempty"`
}

// Summary counts day verdicts.
type Summary struct {
	Verified     int  `json:"verified"`
	Passed       int  `json:"passed"`
	Failed       int  `json:"failed"`
	Unverifiable int  `json:"unverifiable"`
	AllPassed    bool `json:"all_passed"`
}

// NewDocument converts a run into its digested JSON form.
func NewDocument(r *domain.RunReport) (*Document, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil report", domain.ErrInvalidInput)
	}
	body := newBody(r)
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	digest, err := Digest(raw)
	if err != nil {
		return nil, err
	}
	return &Document{Version: Version, Report: body, Digest: digest}, nil
}

// EncodeJSON writes the indented JSON document for a run.
func EncodeJSON(w io.Writer, r *domain.RunReport) error {
	doc, err := NewDocument(r)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// Digest returns the prefixed SHA-256 of the canonical form of a JSON value.
// Key order and whitespace in body do not change the result.
func Digest(body []byte) (string, error) {
	canonical, err := jcs.Transform(body)
	if err != nil {
		return "", fmt.Errorf("%w: canonicalize report: %v", domain.ErrInvalidInput, err)
	}
	sum := sha256.Sum256(canonical)
	return DigestPrefix + hex.EncodeToString(sum[:]), nil
}

func newBody(r *domain.RunReport) Body {
	s := r.Summary()
	body := Body{
		RunID:     r.RunID,
		GroupID:   r.GroupID,
		WeekID:    r.WeekID,
		Source:    r.Source,
		Strategy:  r.Strategy,
		Members:   r.Members,
		Unmatched: append([]string{}, r.Unmatched...),
		Days:      make([]Day, 0, len(r.Days)),
		Summary: Summary{
			Verified:     s.Verified,
			Passed:       s.Passed,
			Failed:       s.Failed,
			Unverifiable: s.Unverifiable,
			AllPassed:    s.AllPassed(),
		},
	}
	if !r.GeneratedAt.IsZero() {
		body.GeneratedAt = r.GeneratedAt.UTC().Format(time.RFC3339)
	}
	for i := range r.Days {
		body.Days = append(body.Days, newDay(&r.Days[i]))
	}
	return body
}

func newDay(d *domain.VerificationReport) Day {
	day := Day{
		Code:            d.Code.String(),
		Member:          d.Member,
		Candidates:      d.Candidates,
		ExpectedGoal:    d.ExpectedGoal,
		Status:          string(d.Status),
		Reason:          d.Reason,
		PolicySatisfied: d.PolicySatisfied,
		Goals:           []Goal{},
		Labels:          []Label{},
		Preview:         d.Preview,
	}
	if !d.Day.Date.IsZero() {
		day.Date = d.Day.Date.Format(domain.DateLayout)
		day.Weekday = d.Day.Name()
	}
	if d.Markers.Empty() {
		return day
	}

	for _, g := range d.Markers.Goals {
		day.Goals = append(day.Goals, Goal{
			Index:   g.Index,
			Found:   g.Found,
			State:   g.State.String(),
			Glyph:   g.Glyph,
			Excerpt: g.Excerpt,
			Rule:    g.Rule,
		})
	}
	for group := 1; group <= domain.GoalCount; group++ {
		label := Label{Group: group}
		if l, ok := d.Markers.Label(group); ok {
			label.Found = true
			label.Text = l.Text
			label.Raw = l.Raw
			label.ReferencedGoal = l.ReferencedGoal
			label.Aligned = d.ExpectedGoal > 0 && l.ReferencedGoal == d.ExpectedGoal
			label.Rule = l.Rule
		}
		day.Labels = append(day.Labels, label)
	}
	if diag := d.Markers.Diagnostics; len(diag.GoalReferences) > 0 || len(diag.LabelFragments) > 0 {
		day.Diagnostics = &Diagnostics{
			GoalReferences: diag.GoalReferences,
			LabelFragments: diag.LabelFragments,
		}
	}
	return day
}
