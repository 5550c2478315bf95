package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayCode(t *testing.T) {
	tests := []struct {
		name  string
		ok    bool
		code  string
		note  int
		month time.Month
	}{
		{"g1_w1_1027.docx", true, "1027", 0, time.October},
		{"Jane Doe/1028.docx", true, "1028", 0, time.October},
		{"Jane Doe/1031 1.docx", true, "1031", 1, time.October},
		{"Jane Doe/1031 2.DOCX", true, "1031", 2, time.October},
		{"folder/0102.docx", true, "0102", 0, time.January},
		{"g1_w1_1027.ext", true, "1027", 0, time.October},
		{"1029.PDF", true, "1029", 0, time.October},
		{"0229.docx", true, "0229", 0, time.February},
		{"0230.docx", false, "", 0, 0},
		{"0431.docx", false, "", 0, 0},
		{"1132.docx", false, "", 0, 0},
		{"1027.", false, "", 0, 0},
		{"1027", false, "", 0, 0},
		{"readme.docx", false, "", 0, 0},
		{"1399.docx", false, "", 0, 0},
		{"1200.docx", false, "", 0, 0},
		{"1027/", false, "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := ParseDayCode(tt.name)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.code, code.String())
			assert.Equal(t, tt.note, code.Note)
			assert.Equal(t, tt.month, code.Month)
		})
	}
}

func TestDayCode_Resolve(t *testing.T) {
	code, ok := ParseDayCode("1027.docx")
	require.True(t, ok)

	d, err := code.Resolve(date(2025, time.October, 15))
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.October, 27), d)
	assert.Equal(t, time.Monday, d.Weekday())
}

func TestDayCode_ResolveAcrossYearEnd(t *testing.T) {
	jan := DayCode{Month: time.January, Day: 2}
	dec := DayCode{Month: time.December, Day: 30}
	ref := date(2024, time.December, 31)

	d, err := jan.Resolve(ref)
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())

	d, err = dec.Resolve(date(2025, time.January, 2))
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
}

func TestDayCode_ResolveLeapDay(t *testing.T) {
	code := DayCode{Month: time.February, Day: 29}

	d, err := code.Resolve(date(2025, time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())

	_, err = code.Resolve(date(2026, time.June, 1))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
