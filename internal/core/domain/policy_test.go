package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpectedGoal_Rotation(t *testing.T) {
	tests := []struct {
		day  time.Weekday
		goal int
	}{
		{time.Monday, 1},
		{time.Tuesday, 2},
		{time.Wednesday, 3},
		{time.Thursday, 4},
		{time.Friday, 1},
	}

	for _, tt := range tests {
		t.Run(tt.day.String(), func(t *testing.T) {
			goal, ok := ExpectedGoal(tt.day)
			assert.True(t, ok)
			assert.Equal(t, tt.goal, goal)
		})
	}
}

func TestExpectedGoal_Weekend(t *testing.T) {
	for _, day := range []time.Weekday{time.Saturday, time.Sunday} {
		_, ok := ExpectedGoal(day)
		assert.False(t, ok, day.String())
	}
}

func TestExpectedGoal_Stable(t *testing.T) {
	for i := 0; i < 3; i++ {
		for _, d := range WeekDates(date(2025, time.October, 29)) {
			want, _ := ExpectedGoal(d.Weekday)
			got, ok := d.ExpectedGoal()
			assert.True(t, ok)
			assert.Equal(t, want, got)
		}
	}
}

func TestDefaultGoalPolicy_CoversBusinessDays(t *testing.T) {
	assert.Len(t, DefaultGoalPolicy, BusinessDays)
	for _, goal := range DefaultGoalPolicy {
		assert.GreaterOrEqual(t, goal, 1)
		assert.LessOrEqual(t, goal, GoalCount)
	}
}
