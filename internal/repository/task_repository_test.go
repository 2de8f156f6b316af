package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyflow/studyplan-api/internal/models"
)

func newTaskMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTaskRepositoryCreateAndList(t *testing.T) {
	db, mock, cleanup := newTaskMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectExec("INSERT INTO recurring_tasks").
		WillReturnResult(sqlmock.NewResult(1, 1))

	task := &models.RecurringTask{
		StudentID:       "student-1",
		Title:           "Gym",
		DurationMinutes: 60,
		PreferredTime:   models.TimeEvening,
		Recurrence:      models.RecurWeekdays,
		StartDate:       "2026-03-01",
		AutoSchedule:    true,
	}
	err := repo.Create(context.Background(), task)
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_id", "raw_input", "title", "description", "duration_minutes", "preferred_time", "exact_start_time", "recurrence", "days_of_week", "start_date", "end_date", "completed", "archived", "auto_schedule", "last_scheduled_date", "created_at", "updated_at"}).
		AddRow(task.ID, "student-1", "", "Gym", "", 60, "evening", "", "weekdays", `[]`, "2026-03-01", "", false, false, true, "", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+taskColumns+" FROM recurring_tasks WHERE student_id = $1 AND archived = FALSE ORDER BY created_at ASC")).
		WithArgs("student-1").
		WillReturnRows(rows)

	tasks, err := repo.ListActiveByStudent(context.Background(), "student-1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Gym", tasks[0].Title)
	assert.Equal(t, models.RecurWeekdays, tasks[0].Recurrence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryListAutoScheduleStudents(t *testing.T) {
	db, mock, cleanup := newTaskMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	rows := sqlmock.NewRows([]string{"student_id"}).AddRow("student-1").AddRow("student-2")
	mock.ExpectQuery("SELECT DISTINCT student_id FROM recurring_tasks").
		WillReturnRows(rows)

	ids, err := repo.ListAutoScheduleStudentIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"student-1", "student-2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryUpdateLastScheduled(t *testing.T) {
	db, mock, cleanup := newTaskMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectExec("UPDATE recurring_tasks SET last_scheduled_date").
		WithArgs("2026-03-02", sqlmock.AnyArg(), "task-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateLastScheduled(context.Background(), "task-1", "2026-03-02")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
