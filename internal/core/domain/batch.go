package domain

import "sort"

// BatchMember is one file inside a generated archive.
type BatchMember struct {
	// Name is the member path inside the archive (e.g. "Jane Doe/1027.docx").
	Name string

	// Content is the raw document bytes.
	Content []byte
}

// DocumentBatch is the archive produced for one group and week.
// Members keep the order in which they appear in the archive.
type DocumentBatch struct {
	GroupID string
	WeekID  string

	// Source describes where the batch came from (service URL or local paths).
	Source string

	Members []BatchMember
}

// DayGroup holds every member that carries the same day code.
type DayGroup struct {
	Code    DayCode
	Members []BatchMember
}

// DaySample is the member chosen to represent a day.
type DaySample struct {
	Code   DayCode
	Member BatchMember

	// Candidates is how many members the archive holds for this day.
	Candidates int
}

// GroupByDay groups members by day code, keeping archive order within
// each group. Groups are ordered by their MMDD code.
func (b *DocumentBatch) GroupByDay() []DayGroup {
	index := make(map[string]int)
	var groups []DayGroup

	for _, m := range b.Members {
		code, ok := ParseDayCode(m.Name)
		if !ok {
			continue
		}
		key := code.String()
		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Code: DayCode{Month: code.Month, Day: code.Day}})
		}
		groups[i].Members = append(groups[i].Members, m)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Code.String() < groups[j].Code.String()
	})
	return groups
}

// SampleFirstPerDay keeps the first member encountered for each day.
func (b *DocumentBatch) SampleFirstPerDay() []DaySample {
	groups := b.GroupByDay()
	samples := make([]DaySample, 0, len(groups))
	for _, g := range groups {
		samples = append(samples, DaySample{
			Code:       g.Code,
			Member:     g.Members[0],
			Candidates: len(g.Members),
		})
	}
	return samples
}

// Unmatched returns the names of members without a day code.
func (b *DocumentBatch) Unmatched() []string {
	var names []string
	for _, m := range b.Members {
		if _, ok := ParseDayCode(m.Name); !ok {
			names = append(names, m.Name)
		}
	}
	return names
}
