package domain

import "time"

// GoalCount is the number of treatment goals on a note.
const GoalCount = 4

// GoalSelectionPolicy maps each business day to the goal that must be checked.
// Friday wraps back to the first goal.
type GoalSelectionPolicy map[time.Weekday]int

// DefaultGoalPolicy is the weekday rotation used by the generation service.
var DefaultGoalPolicy = GoalSelectionPolicy{
	time.Monday:    1,
	time.Tuesday:   2,
	time.Wednesday: 3,
	time.Thursday:  4,
	time.Friday:    1,
}

// Expected returns the goal index for day. Weekend days have no entry.
func (p GoalSelectionPolicy) Expected(day time.Weekday) (int, bool) {
	goal, ok := p[day]
	return goal, ok
}

// ExpectedGoal looks day up in DefaultGoalPolicy.
func ExpectedGoal(day time.Weekday) (int, bool) {
	return DefaultGoalPolicy.Expected(day)
}
