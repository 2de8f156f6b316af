package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyflow/studyplan-api/internal/models"
)

func mustDate(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := models.ParseDate(raw)
	require.NoError(t, err)
	return d
}

func TestOccursOnWeekdays(t *testing.T) {
	gym := models.RecurringTask{
		Title:      "Gym",
		Recurrence: models.RecurWeekdays,
		StartDate:  "2026-03-01",
	}

	monday := mustDate(t, "2026-03-02")
	saturday := mustDate(t, "2026-03-07")

	assert.True(t, OccursOn(gym, monday))
	assert.False(t, OccursOn(gym, saturday))
}

func TestOccursOnRecurrenceKinds(t *testing.T) {
	tests := []struct {
		name string
		task models.RecurringTask
		date string
		want bool
	}{
		{
			name: "once on its date",
			task: models.RecurringTask{Recurrence: models.RecurOnce, StartDate: "2026-03-02"},
			date: "2026-03-02",
			want: true,
		},
		{
			name: "once on another date",
			task: models.RecurringTask{Recurrence: models.RecurOnce, StartDate: "2026-03-02"},
			date: "2026-03-03",
			want: false,
		},
		{
			name: "daily before start",
			task: models.RecurringTask{Recurrence: models.RecurDaily, StartDate: "2026-03-10"},
			date: "2026-03-02",
			want: false,
		},
		{
			name: "daily after end",
			task: models.RecurringTask{Recurrence: models.RecurDaily, StartDate: "2026-03-01", EndDate: "2026-03-05"},
			date: "2026-03-06",
			want: false,
		},
		{
			name: "weekends on sunday",
			task: models.RecurringTask{Recurrence: models.RecurWeekends, StartDate: "2026-03-01"},
			date: "2026-03-08",
			want: true,
		},
		{
			name: "weekly matches start weekday",
			task: models.RecurringTask{Recurrence: models.RecurWeekly, StartDate: "2026-03-03"},
			date: "2026-03-10",
			want: true,
		},
		{
			name: "weekly off weekday",
			task: models.RecurringTask{Recurrence: models.RecurWeekly, StartDate: "2026-03-03"},
			date: "2026-03-11",
			want: false,
		},
		{
			name: "custom days",
			task: models.RecurringTask{
				Recurrence: models.RecurCustom,
				StartDate:  "2026-03-01",
				DaysOfWeek: models.WeekdaySet{time.Monday, time.Thursday},
			},
			date: "2026-03-05",
			want: true,
		},
		{
			name: "archived never occurs",
			task: models.RecurringTask{Recurrence: models.RecurDaily, StartDate: "2026-03-01", Archived: true},
			date: "2026-03-02",
			want: false,
		},
		{
			name: "completed once never occurs",
			task: models.RecurringTask{Recurrence: models.RecurOnce, StartDate: "2026-03-02", Completed: true},
			date: "2026-03-02",
			want: false,
		},
		{
			name: "completed daily still occurs",
			task: models.RecurringTask{Recurrence: models.RecurDaily, StartDate: "2026-03-01", Completed: true},
			date: "2026-03-02",
			want: true,
		},
		{
			name: "malformed start date is inert",
			task: models.RecurringTask{Recurrence: models.RecurDaily, StartDate: "soon"},
			date: "2026-03-02",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OccursOn(tt.task, mustDate(t, tt.date)))
		})
	}
}

func TestConstraintAppliesOn(t *testing.T) {
	monday := mustDate(t, "2026-03-02")
	saturday := mustDate(t, "2026-03-07")

	weekdayDinner := models.Constraint{Recurrence: models.RecurWeekdays}
	assert.True(t, ConstraintAppliesOn(weekdayDinner, monday))
	assert.False(t, ConstraintAppliesOn(weekdayDinner, saturday))

	oneOff := models.Constraint{Recurrence: models.RecurOnce, Date: "2026-03-02"}
	assert.True(t, ConstraintAppliesOn(oneOff, monday))
	assert.False(t, ConstraintAppliesOn(oneOff, saturday))

	blank := models.Constraint{}
	assert.True(t, ConstraintAppliesOn(blank, monday))
}
