package domain

import (
	"fmt"
	"strings"
	"time"
)

// RunState is a step of the verification pipeline.
type RunState string

// Pipeline states, in the order a run moves through them.
const (
	StateIdle       RunState = "IDLE"
	StateRetrieving RunState = "RETRIEVING"
	StateGrouping   RunState = "GROUPING"
	StateExtracting RunState = "EXTRACTING"
	StateMatching   RunState = "MATCHING"
	StateValidating RunState = "VALIDATING"
	StateReporting  RunState = "REPORTING"
	StateDone       RunState = "DONE"
)

// DayStatus is the verdict for one sampled day.
type DayStatus string

// Day verdicts.
const (
	StatusPassed       DayStatus = "PASS"
	StatusFailed       DayStatus = "FAIL"
	StatusUnverifiable DayStatus = "UNVERIFIABLE"
)

// LabelFinding compares a group's client-response label with the expected goal.
type LabelFinding struct {
	Group int

	// Found is false when the document has no label for the group.
	Found bool

	// ReferencedGoal is the label's Goal#n, 0 when absent.
	ReferencedGoal int

	// Aligned is true when the label references the expected goal.
	Aligned bool
}

// VerificationReport is the outcome for one sampled document.
type VerificationReport struct {
	Day  WeekDay
	Code DayCode

	// Member is the sampled archive member.
	Member string

	// Candidates is the number of members the archive held for the day.
	Candidates int

	// ExpectedGoal is the policy goal for Day, 0 when the day has no rule.
	ExpectedGoal int

	Markers MarkerSet

	// Preview is the leading part of the extracted text, when requested.
	Preview string

	PolicySatisfied bool
	LabelFindings   []LabelFinding
	Status          DayStatus

	// Reason explains a FAIL or UNVERIFIABLE verdict.
	Reason string
}

// MarkUnverifiable records that the document could not be checked.
func (r *VerificationReport) MarkUnverifiable(err error) {
	r.Status = StatusUnverifiable
	r.PolicySatisfied = false
	r.Reason = err.Error()
}

// Evaluate checks the markers against the selection policy.
// The day passes when exactly the expected goal is checked. With
// strictLabels, every found client-response label must also reference
// the expected goal.
func (r *VerificationReport) Evaluate(strictLabels bool) {
	expected, ok := r.Day.ExpectedGoal()
	if !ok {
		r.MarkUnverifiable(fmt.Errorf("%w: %s", ErrNoPolicy, r.Day.Name()))
		return
	}
	r.ExpectedGoal = expected
	r.LabelFindings = r.labelFindings(expected)

	checked := r.Markers.CheckedGoals()
	var reasons []string
	switch {
	case !r.Markers.AnyGoalFound():
		reasons = append(reasons, "no goal markers found")
	case len(checked) == 0:
		goal, _ := r.Markers.Goal(expected)
		reasons = append(reasons, fmt.Sprintf("GOAL#%d expected CHECKED, found %s", expected, goal.State))
	default:
		for _, idx := range checked {
			if idx != expected {
				reasons = append(reasons, fmt.Sprintf("GOAL#%d checked but GOAL#%d expected", idx, expected))
			}
		}
		if !containsInt(checked, expected) {
			goal, _ := r.Markers.Goal(expected)
			reasons = append(reasons, fmt.Sprintf("GOAL#%d expected CHECKED, found %s", expected, goal.State))
		}
	}
	r.PolicySatisfied = len(reasons) == 0

	if strictLabels {
		for _, f := range r.LabelFindings {
			if f.Found && !f.Aligned {
				reasons = append(reasons, fmt.Sprintf("Group %d label references Goal#%d, expected Goal#%d",
					f.Group, f.ReferencedGoal, expected))
			}
		}
	}

	if len(reasons) == 0 {
		r.Status = StatusPassed
		r.Reason = ""
		return
	}
	r.Status = StatusFailed
	r.Reason = strings.Join(reasons, "; ")
}

func (r *VerificationReport) labelFindings(expected int) []LabelFinding {
	findings := make([]LabelFinding, 0, GoalCount)
	for group := 1; group <= GoalCount; group++ {
		label, found := r.Markers.Label(group)
		findings = append(findings, LabelFinding{
			Group:          group,
			Found:          found,
			ReferencedGoal: label.ReferencedGoal,
			Aligned:        found && label.ReferencedGoal == expected,
		})
	}
	return findings
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// RunReport aggregates one verification run.
type RunReport struct {
	RunID   string
	GroupID string
	WeekID  string

	// Source is where the batch came from.
	Source string

	// Strategy is the extraction strategy used for every document.
	Strategy string

	GeneratedAt time.Time

	// Members is the number of files in the archive.
	Members int

	// Unmatched lists member names without a day code.
	Unmatched []string

	// Days holds one report per sampled day, in date order.
	Days []VerificationReport
}

// Summary counts verdicts over the run.
type Summary struct {
	Verified     int
	Passed       int
	Failed       int
	Unverifiable int
}

// AllPassed reports whether at least one day was checked and none failed.
// A run where nothing could be verified does not pass.
func (s Summary) AllPassed() bool {
	return s.Passed > 0 && s.Failed == 0 && s.Unverifiable == 0
}

// Summary tallies the day verdicts.
func (r *RunReport) Summary() Summary {
	s := Summary{Verified: len(r.Days)}
	for i := range r.Days {
		switch r.Days[i].Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		default:
			s.Unverifiable++
		}
	}
	return s
}
