package domain

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"time"
)

// dayCodePattern matches "1027.docx" and the double-note forms "1027 1.docx", "1027 2.docx".
// Any extension is accepted; the extractor decides whether the content is usable.
var dayCodePattern = regexp.MustCompile(`(\d{2})(\d{2})(?: (\d+))?\.[A-Za-z0-9]+$`)

// DayCode is the MMDD token a generated note carries in its file name.
type DayCode struct {
	Month time.Month
	Day   int

	// Note is the note number for days with two notes, 0 otherwise.
	Note int
}

// ParseDayCode extracts the day code from an archive member name.
// Directory components are ignored. It returns false when the name
// has no day code or the code is not a possible calendar day.
func ParseDayCode(name string) (DayCode, bool) {
	m := dayCodePattern.FindStringSubmatch(path.Base(name))
	if m == nil {
		return DayCode{}, false
	}

	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 || day > daysIn(time.Month(month)) {
		return DayCode{}, false
	}

	code := DayCode{Month: time.Month(month), Day: day}
	if m[3] != "" {
		code.Note, _ = strconv.Atoi(m[3])
	}
	return code, true
}

// String returns the four-digit MMDD form.
func (c DayCode) String() string {
	return fmt.Sprintf("%02d%02d", int(c.Month), c.Day)
}

// Resolve places the code in the year that brings it closest to ref.
// Only the year before, of and after ref are considered.
func (c DayCode) Resolve(ref time.Time) (time.Time, error) {
	var (
		best  time.Time
		found bool
	)
	for year := ref.Year() - 1; year <= ref.Year()+1; year++ {
		candidate := time.Date(year, c.Month, c.Day, 0, 0, 0, 0, ref.Location())
		if candidate.Day() != c.Day {
			continue // e.g. 0229 outside a leap year
		}
		if !found || absDuration(candidate.Sub(ref)) < absDuration(best.Sub(ref)) {
			best, found = candidate, true
		}
	}
	if !found {
		return time.Time{}, fmt.Errorf("%w: day code %s has no calendar date near %s",
			ErrInvalidInput, c, ref.Format(DateLayout))
	}
	return best, nil
}

// daysIn returns the longest the month can be, so 0229 stays a valid code.
func daysIn(m time.Month) int {
	// 2000 is a leap year.
	return time.Date(2000, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
