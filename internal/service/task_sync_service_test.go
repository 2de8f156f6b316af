package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyflow/studyplan-api/internal/models"
)

func newSyncFixture(store *stubScheduleStore, tasks *stubTaskSource) *TaskSyncService {
	return NewTaskSyncService(
		store,
		store,
		tasks,
		&stubConstraints{},
		&stubPrefs{prefs: &models.StudyPreferences{DayStart: "08:00", DayEnd: "22:00"}},
		nil,
		SyncConfig{At: "00:05"},
		nil,
	)
}

func TestSyncStudentCreatesPlanAndPlacesTasks(t *testing.T) {
	store := newStubScheduleStore()
	tasks := &stubTaskSource{
		tasks: []models.RecurringTask{
			{
				ID:              "task-1",
				StudentID:       "student-1",
				Title:           "Gym",
				DurationMinutes: 60,
				PreferredTime:   models.TimeEvening,
				Recurrence:      models.RecurWeekdays,
				StartDate:       "2026-03-01",
				AutoSchedule:    true,
			},
		},
	}
	svc := newSyncFixture(store, tasks)

	require.NoError(t, svc.SyncStudent(context.Background(), "student-1", "2026-03-02"))

	sched, err := store.FindByStudentDate(context.Background(), "student-1", "2026-03-02")
	require.NoError(t, err)
	require.Len(t, sched.Items, 1)
	assert.Equal(t, "task-1", sched.Items[0].TaskID)
	assert.Equal(t, "2026-03-02", tasks.lastScheduled["task-1"])
}

func TestSyncStudentIsIdempotent(t *testing.T) {
	store := newStubScheduleStore()
	tasks := &stubTaskSource{
		tasks: []models.RecurringTask{
			{
				ID:              "task-1",
				StudentID:       "student-1",
				Title:           "Gym",
				DurationMinutes: 60,
				Recurrence:      models.RecurDaily,
				StartDate:       "2026-03-01",
				AutoSchedule:    true,
			},
		},
	}
	svc := newSyncFixture(store, tasks)

	require.NoError(t, svc.SyncStudent(context.Background(), "student-1", "2026-03-02"))
	require.NoError(t, svc.SyncStudent(context.Background(), "student-1", "2026-03-02"))

	sched, err := store.FindByStudentDate(context.Background(), "student-1", "2026-03-02")
	require.NoError(t, err)
	assert.Len(t, sched.Items, 1)
}

func TestSyncStudentSkipsWeekendTask(t *testing.T) {
	store := newStubScheduleStore()
	tasks := &stubTaskSource{
		tasks: []models.RecurringTask{
			{
				ID:              "task-1",
				StudentID:       "student-1",
				Title:           "Gym",
				DurationMinutes: 60,
				Recurrence:      models.RecurWeekdays,
				StartDate:       "2026-03-01",
				AutoSchedule:    true,
			},
		},
	}
	svc := newSyncFixture(store, tasks)

	// Saturday: the weekday task must not be placed, and no items appear.
	require.NoError(t, svc.SyncStudent(context.Background(), "student-1", "2026-03-07"))

	sched, err := store.FindByStudentDate(context.Background(), "student-1", "2026-03-07")
	require.NoError(t, err)
	assert.Empty(t, sched.Items)
}

func TestCronSpecFromClock(t *testing.T) {
	spec, err := cronSpec("00:05")
	require.NoError(t, err)
	assert.Equal(t, "5 0 * * *", spec)

	_, err = cronSpec("25:00")
	assert.Error(t, err)
}
