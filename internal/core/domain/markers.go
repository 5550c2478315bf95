package domain

// CheckboxState is the state of a goal's checkbox glyph.
type CheckboxState int

const (
	// CheckboxNotFound means no glyph was seen; the goal label may still exist.
	CheckboxNotFound CheckboxState = iota

	// CheckboxChecked is a ticked box (☒).
	CheckboxChecked

	// CheckboxUnchecked is an empty box (☐).
	CheckboxUnchecked

	// CheckboxUnknown is a glyph that is neither a ticked nor an empty box.
	CheckboxUnknown
)

// String returns the report spelling of the state.
func (s CheckboxState) String() string {
	switch s {
	case CheckboxChecked:
		return "CHECKED"
	case CheckboxUnchecked:
		return "UNCHECKED"
	case CheckboxUnknown:
		return "UNKNOWN"
	default:
		return "NOT_FOUND"
	}
}

// MarshalText encodes the state by name.
func (s CheckboxState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// GoalAnnotation is what a document says about one goal.
type GoalAnnotation struct {
	// Index is the goal number, 1..GoalCount.
	Index int

	// Found reports whether a GOAL#n marker exists at all.
	// Found with an empty Excerpt means the marker had no body text.
	Found bool

	// State is the checkbox state; CheckboxNotFound when Found is false
	// or the marker carries no glyph.
	State CheckboxState

	// Glyph is the literal checkbox glyph, if any.
	Glyph string

	// Label is the marker token (e.g. "GOAL#2"), empty when not found.
	Label string

	// Excerpt is the bounded remainder of the marker line.
	Excerpt string

	// Rule names the matcher rule that produced the annotation.
	Rule string
}

// ClientResponseLabel is the client-response heading found for a group.
type ClientResponseLabel struct {
	// Group is the group number, 1..GoalCount.
	Group int

	// Raw is the bounded matched segment.
	Raw string

	// Text is the normalised label, or Raw when no goal is referenced.
	Text string

	// ReferencedGoal is the Goal#n cross-reference, 0 when absent.
	ReferencedGoal int

	// Rule names the matcher rule that produced the label.
	Rule string
}

// HasGoalReference reports whether the label names a goal.
func (l ClientResponseLabel) HasGoalReference() bool {
	return l.ReferencedGoal > 0
}

// MarkerDiagnostics lists loose references found when structured markers are missing.
type MarkerDiagnostics struct {
	// GoalReferences are distinct GOAL#n tokens seen anywhere in the text.
	GoalReferences []string

	// LabelFragments are "Group n ... Client Response" fragments seen in the text.
	LabelFragments []string
}

// MarkerSet is the result of matching one document's text.
type MarkerSet struct {
	// Goals always holds GoalCount entries, Goals[i].Index == i+1.
	Goals [GoalCount]GoalAnnotation

	// Labels holds at most one label per group, ordered by group.
	Labels []ClientResponseLabel

	Diagnostics MarkerDiagnostics
}

// Goal returns the annotation for a 1-based goal index.
func (m *MarkerSet) Goal(index int) (GoalAnnotation, bool) {
	if index < 1 || index > GoalCount {
		return GoalAnnotation{}, false
	}
	return m.Goals[index-1], true
}

// Label returns the label for a 1-based group index.
func (m *MarkerSet) Label(group int) (ClientResponseLabel, bool) {
	for _, l := range m.Labels {
		if l.Group == group {
			return l, true
		}
	}
	return ClientResponseLabel{}, false
}

// CheckedGoals returns the indexes of goals whose box is checked.
func (m *MarkerSet) CheckedGoals() []int {
	var checked []int
	for _, g := range m.Goals {
		if g.State == CheckboxChecked {
			checked = append(checked, g.Index)
		}
	}
	return checked
}

// AnyGoalFound reports whether at least one goal marker exists.
func (m *MarkerSet) AnyGoalFound() bool {
	for _, g := range m.Goals {
		if g.Found {
			return true
		}
	}
	return false
}

// Empty reports whether the set was never filled by a matcher, as for
// a document that could not be extracted.
func (m *MarkerSet) Empty() bool {
	return m.Goals[0].Index == 0
}
