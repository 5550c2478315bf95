package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
)

// TextOptions control RenderText.
type TextOptions struct {
	// Styles colours the output. Nil renders plain text.
	Styles *Styles
}

// RenderText writes the human-readable report for a run.
// Every goal and client-response group is listed, including the ones
// that were not found.
func RenderText(w io.Writer, r *domain.RunReport, opts TextOptions) error {
	if r == nil {
		return fmt.Errorf("%w: nil report", domain.ErrInvalidInput)
	}
	s := opts.Styles
	if s == nil {
		s = PlainStyles()
	}

	p := &printer{w: w, s: s}
	p.header(r)
	for i := range r.Days {
		p.line("")
		p.day(&r.Days[i])
	}
	p.line("")
	p.summary(r.Summary())
	return p.err
}

// printer keeps the first write error so rendering code stays linear.
type printer struct {
	w   io.Writer
	s   *Styles
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) field(indent, name, value string) {
	p.line("%s%s %s", indent, p.s.render(p.s.Field, fmt.Sprintf("%-12s", name)), value)
}

func (p *printer) header(r *domain.RunReport) {
	p.line("%s", p.s.render(p.s.Title, "Note verification report"))
	p.field("  ", "Run", r.RunID)
	p.field("  ", "Group", r.GroupID)
	p.field("  ", "Week", r.WeekID)
	if r.Source != "" {
		p.field("  ", "Source", r.Source)
	}
	p.field("  ", "Strategy", r.Strategy)
	if !r.GeneratedAt.IsZero() {
		p.field("  ", "Generated", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	}
	members := strconv.Itoa(r.Members)
	if n := len(r.Unmatched); n > 0 {
		members += p.s.render(p.s.Muted, fmt.Sprintf(" (%d without a day code)", n))
	}
	p.field("  ", "Members", members)
}

func (p *printer) day(d *domain.VerificationReport) {
	title := "[" + d.Code.String() + "]"
	if !d.Day.Date.IsZero() {
		title = d.Day.String() + "  " + title
	}
	p.line("%s", p.s.render(p.s.Day, title))

	doc := d.Member
	if d.Candidates > 1 {
		doc += p.s.render(p.s.Muted, fmt.Sprintf(" (first of %d)", d.Candidates))
	}
	p.field("  ", "Document", doc)
	if d.ExpectedGoal > 0 {
		p.field("  ", "Expected", fmt.Sprintf("GOAL#%d", d.ExpectedGoal))
	}

	if !d.Markers.Empty() {
		p.goals(d)
		p.labels(d)
		p.diagnostics(&d.Markers.Diagnostics)
	}
	if d.Preview != "" {
		p.field("  ", "Preview", strconv.Quote(d.Preview))
	}
	p.field("  ", "Result", p.verdict(d.Status, d.Reason))
}

func (p *printer) goals(d *domain.VerificationReport) {
	p.line("  %s", p.s.render(p.s.Field, "Goals"))
	for _, g := range d.Markers.Goals {
		name := fmt.Sprintf("GOAL#%d:", g.Index)
		if !g.Found {
			p.line("    %s %s", name, p.s.render(p.s.Warning, "NOT FOUND"))
			continue
		}

		state := g.State.String()
		if g.State == domain.CheckboxNotFound {
			state = "NO CHECKBOX"
		}
		state = fmt.Sprintf("%-11s", state)
		switch {
		case g.State == domain.CheckboxChecked && g.Index == d.ExpectedGoal:
			state = p.s.render(p.s.Success, state)
		case g.State == domain.CheckboxChecked:
			state = p.s.render(p.s.Error, state)
		case g.State != domain.CheckboxUnchecked:
			state = p.s.render(p.s.Warning, state)
		}

		glyph := g.Glyph
		if glyph == "" {
			glyph = "-"
		}
		p.line("    %s %s %s %s", name, state, glyph, g.Excerpt)
	}
}

func (p *printer) labels(d *domain.VerificationReport) {
	p.line("  %s", p.s.render(p.s.Field, "Client responses"))
	for group := 1; group <= domain.GoalCount; group++ {
		name := fmt.Sprintf("Group %d:", group)
		label, ok := d.Markers.Label(group)
		if !ok {
			p.line("    %s %s", name, p.s.render(p.s.Warning, "NOT FOUND"))
			continue
		}

		var ref string
		switch {
		case !label.HasGoalReference():
			ref = p.s.render(p.s.Muted, fmt.Sprintf("%-18s", "no goal reference"))
		case d.ExpectedGoal == 0:
			ref = fmt.Sprintf("%-18s", fmt.Sprintf("Goal#%d", label.ReferencedGoal))
		case label.ReferencedGoal == d.ExpectedGoal:
			ref = p.s.render(p.s.Success, fmt.Sprintf("%-18s", fmt.Sprintf("Goal#%d aligned", label.ReferencedGoal)))
		default:
			ref = p.s.render(p.s.Warning, fmt.Sprintf("%-18s", fmt.Sprintf("Goal#%d misaligned", label.ReferencedGoal)))
		}
		p.line("    %s %s %s", name, ref, label.Text)
	}
}

func (p *printer) diagnostics(diag *domain.MarkerDiagnostics) {
	if len(diag.GoalReferences) == 0 && len(diag.LabelFragments) == 0 {
		return
	}
	p.line("  %s", p.s.render(p.s.Field, "Diagnostics"))
	if len(diag.GoalReferences) > 0 {
		p.line("    goal references: %s", strings.Join(diag.GoalReferences, ", "))
	}
	for _, f := range diag.LabelFragments {
		p.line("    label fragment: %s", f)
	}
}

func (p *printer) verdict(status domain.DayStatus, reason string) string {
	var style lipgloss.Style
	switch status {
	case domain.StatusPassed:
		style = p.s.Success
	case domain.StatusFailed:
		style = p.s.Error
	default:
		style = p.s.Warning
	}
	out := p.s.render(style, string(status))
	if reason != "" {
		out += " " + reason
	}
	return out
}

func (p *printer) summary(s domain.Summary) {
	p.line("%s", p.s.render(p.s.Title, "Summary"))
	p.field("  ", "Verified", strconv.Itoa(s.Verified))
	p.field("  ", "Passed", strconv.Itoa(s.Passed))
	p.field("  ", "Failed", strconv.Itoa(s.Failed))
	p.field("  ", "Unverifiable", strconv.Itoa(s.Unverifiable))

	overall := p.s.render(p.s.Error, "FAIL")
	if s.AllPassed() {
		overall = p.s.render(p.s.Success, "PASS")
	}
	p.field("  ", "Overall", overall)
}
