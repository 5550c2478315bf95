package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
	"github.com/wWordDevw/terap-ia/internal/markers"
)

func checkedDay(t *testing.T, date time.Time, member, text string) domain.VerificationReport {
	t.Helper()
	code, ok := domain.ParseDayCode(member)
	require.True(t, ok, member)
	day := domain.VerificationReport{
		Day:        domain.NewWeekDay(date),
		Code:       code,
		Member:     member,
		Candidates: 1,
		Markers:    markers.New().Match(text),
	}
	day.Evaluate(false)
	return day
}

func sampleRun(t *testing.T) *domain.RunReport {
	t.Helper()
	monday := checkedDay(t, time.Date(2025, time.October, 27, 0, 0, 0, 0, time.UTC), "Ann/1027.docx",
		"☒ GOAL#1: improved mood\n☐ GOAL#2: better sleep\nGroup 1: Client Response(Goal#1/Obj1A): engaged well")
	monday.Candidates = 2
	tuesday := checkedDay(t, time.Date(2025, time.October, 28, 0, 0, 0, 0, time.UTC), "Ann/1028.docx",
		"☒ GOAL#1: wrong goal")
	broken := domain.VerificationReport{
		Day:        domain.NewWeekDay(time.Date(2025, time.October, 29, 0, 0, 0, 0, time.UTC)),
		Code:       domain.DayCode{Month: time.October, Day: 29},
		Member:     "Ann/1029.docx",
		Candidates: 1,
	}
	broken.MarkUnverifiable(errors.New("extract: corrupt document"))

	return &domain.RunReport{
		RunID:       "7b0c6d7e-1f7a-4c57-9f57-0a1f3e1b2c3d",
		GroupID:     "g1",
		WeekID:      "w1",
		Source:      "notes.zip",
		Strategy:    "structured",
		GeneratedAt: time.Date(2025, time.October, 31, 12, 0, 0, 0, time.UTC),
		Members:     4,
		Unmatched:   []string{"readme.txt"},
		Days:        []domain.VerificationReport{monday, tuesday, broken},
	}
}

func TestRenderText_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, sampleRun(t), TextOptions{}))
	out := buf.String()

	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "2025-10-27 Monday  [1027]")
	assert.Contains(t, out, "Ann/1027.docx (first of 2)")
	assert.Contains(t, out, "GOAL#1: CHECKED")
	assert.Contains(t, out, "GOAL#2: UNCHECKED")
	assert.Contains(t, out, "GOAL#3: NOT FOUND")
	assert.Contains(t, out, "Goal#1 aligned")
	assert.Contains(t, out, "Group 2: NOT FOUND")
	assert.Contains(t, out, "GOAL#1 checked but GOAL#2 expected")
	assert.Contains(t, out, "UNVERIFIABLE extract: corrupt document")
	assert.Contains(t, out, "(1 without a day code)")
	assert.Contains(t, out, "Overall      FAIL")
}

func TestRenderText_UnverifiableDaySkipsMarkers(t *testing.T) {
	run := sampleRun(t)
	run.Days = run.Days[2:]

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, run, TextOptions{}))

	assert.NotContains(t, buf.String(), "Goals")
	assert.NotContains(t, buf.String(), "Client responses")
}

func TestRenderText_AllPassed(t *testing.T) {
	run := sampleRun(t)
	run.Days = run.Days[:1]

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, run, TextOptions{}))

	assert.Contains(t, buf.String(), "Result       PASS")
	assert.Contains(t, buf.String(), "Overall      PASS")
}

func TestRenderText_Diagnostics(t *testing.T) {
	run := sampleRun(t)
	run.Days = []domain.VerificationReport{
		checkedDay(t, time.Date(2025, time.October, 27, 0, 0, 0, 0, time.UTC), "1027.docx",
			"see goal#3 later\nGroup 2 notes Client Response pending"),
	}

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, run, TextOptions{}))

	assert.Contains(t, buf.String(), "Diagnostics")
	assert.Contains(t, buf.String(), "no goal markers found")
}

func TestRenderText_Preview(t *testing.T) {
	run := sampleRun(t)
	run.Days[0].Preview = "☒ GOAL#1"

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, run, TextOptions{}))

	assert.Contains(t, buf.String(), `Preview      "☒ GOAL#1"`)
}

func TestRenderText_NilReport(t *testing.T) {
	err := RenderText(&bytes.Buffer{}, nil, TextOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderText_WriteError(t *testing.T) {
	err := RenderText(failingWriter{}, sampleRun(t), TextOptions{})
	assert.EqualError(t, err, "disk full")
}

func TestStyles(t *testing.T) {
	styled := NewStyles(nil)
	require.NotNil(t, styled.Theme())
	assert.True(t, styled.Styled())

	plain := PlainStyles()
	assert.False(t, plain.Styled())
	assert.Equal(t, "PASS", plain.render(plain.Success, "PASS"))
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, sampleRun(t)))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, Version, doc.Version)
	assert.True(t, strings.HasPrefix(doc.Digest, DigestPrefix))
	assert.Equal(t, "2025-10-31T12:00:00Z", doc.Report.GeneratedAt)
	require.Len(t, doc.Report.Days, 3)

	monday := doc.Report.Days[0]
	assert.Equal(t, "2025-10-27", monday.Date)
	assert.Equal(t, "Monday", monday.Weekday)
	assert.Equal(t, "1027", monday.Code)
	assert.Equal(t, "PASS", monday.Status)
	require.Len(t, monday.Goals, domain.GoalCount)
	assert.Equal(t, "CHECKED", monday.Goals[0].State)
	assert.Equal(t, "NOT_FOUND", monday.Goals[2].State)
	require.Len(t, monday.Labels, domain.GoalCount)
	assert.True(t, monday.Labels[0].Aligned)
	assert.Equal(t, 1, monday.Labels[0].ReferencedGoal)
	assert.False(t, monday.Labels[1].Found)

	broken := doc.Report.Days[2]
	assert.Equal(t, "UNVERIFIABLE", broken.Status)
	assert.Empty(t, broken.Goals)

	assert.Equal(t, Summary{Verified: 3, Passed: 1, Failed: 1, Unverifiable: 1}, doc.Report.Summary)
	assert.Contains(t, buf.String(), "☒", "glyphs are written unescaped")
}

func TestDigest_IgnoresKeyOrderAndWhitespace(t *testing.T) {
	a, err := Digest([]byte(`{"b":1,"a":[true,"x"]}`))
	require.NoError(t, err)
	b, err := Digest([]byte("{\n  \"a\": [true, \"x\"],\n  \"b\": 1\n}"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, len(DigestPrefix)+64)

	c, err := Digest([]byte(`{"b":2,"a":[true,"x"]}`))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestDigest_InvalidJSON(t *testing.T) {
	_, err := Digest([]byte(`{"a":`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidateJSON_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, sampleRun(t)))

	doc, err := ValidateJSON(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "g1", doc.Report.GroupID)
	assert.Len(t, doc.Report.Days, 3)
}

func TestValidateJSON_TamperedReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, sampleRun(t)))
	tampered := strings.Replace(buf.String(), `"status": "FAIL"`, `"status": "PASS"`, 1)
	require.NotEqual(t, buf.String(), tampered)

	_, err := ValidateJSON([]byte(tampered))
	assert.ErrorIs(t, err, ErrDigestMismatch)
}

func TestValidateJSON_SchemaViolation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not an object", `[]`},
		{"missing digest", `{"version":"noteverify.report/v1","report":{}}`},
		{"wrong version", `{"version":"v0","report":{},"digest":"sha256:00"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateJSON([]byte(tt.data))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSchema_IsCopy(t *testing.T) {
	s := Schema()
	require.NotEmpty(t, s)
	s[0] = 'x'
	assert.Equal(t, byte('{'), Schema()[0])
}
