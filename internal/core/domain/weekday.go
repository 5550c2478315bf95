package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used in reports and flags.
const DateLayout = "2006-01-02"

// BusinessDays is the number of days in a verified week.
const BusinessDays = 5

// WeekDay is one Monday-to-Friday business day.
type WeekDay struct {
	// Date is midnight of the day in the reference location.
	Date time.Time

	// Weekday is the day of the week of Date.
	Weekday time.Weekday
}

// NewWeekDay truncates t to its calendar day.
func NewWeekDay(t time.Time) WeekDay {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return WeekDay{Date: d, Weekday: d.Weekday()}
}

// Name returns the English day name (e.g. "Monday").
func (d WeekDay) Name() string {
	return d.Weekday.String()
}

// String returns "2006-01-02 Monday".
func (d WeekDay) String() string {
	return fmt.Sprintf("%s %s", d.Date.Format(DateLayout), d.Name())
}

// ExpectedGoal returns the goal the selection policy requires for this day.
func (d WeekDay) ExpectedGoal() (int, bool) {
	return ExpectedGoal(d.Weekday)
}

// WeekDates expands ref to the Monday..Friday of its calendar week.
// Sunday belongs to the week that started six days earlier.
func WeekDates(ref time.Time) []WeekDay {
	day := NewWeekDay(ref)
	offset := (int(day.Weekday) + 6) % 7
	monday := day.Date.AddDate(0, 0, -offset)

	week := make([]WeekDay, 0, BusinessDays)
	for i := 0; i < BusinessDays; i++ {
		week = append(week, NewWeekDay(monday.AddDate(0, 0, i)))
	}
	return week
}

// ParseDate parses a YYYY-MM-DD date in the local time zone.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, s)
	}
	return t, nil
}
