package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/studyflow/studyplan-api/internal/models"
)

const taskColumns = `id, student_id, raw_input, title, description, duration_minutes, preferred_time, exact_start_time, recurrence, days_of_week, start_date, end_date, completed, archived, auto_schedule, last_scheduled_date, created_at, updated_at`

// TaskRepository persists recurring tasks.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository constructs the repository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// FindByID loads a task by id.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*models.RecurringTask, error) {
	const query = `SELECT ` + taskColumns + ` FROM recurring_tasks WHERE id = $1`
	var task models.RecurringTask
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByStudent returns a student's tasks, newest first. Archived tasks are
// excluded unless requested.
func (r *TaskRepository) ListByStudent(ctx context.Context, studentID string, includeArchived bool) ([]models.RecurringTask, error) {
	query := `SELECT ` + taskColumns + ` FROM recurring_tasks WHERE student_id = $1`
	if !includeArchived {
		query += ` AND archived = FALSE`
	}
	query += ` ORDER BY created_at DESC`
	var tasks []models.RecurringTask
	if err := r.db.SelectContext(ctx, &tasks, query, studentID); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListActiveByStudent returns unarchived tasks, the scheduler's working set.
func (r *TaskRepository) ListActiveByStudent(ctx context.Context, studentID string) ([]models.RecurringTask, error) {
	const query = `SELECT ` + taskColumns + ` FROM recurring_tasks WHERE student_id = $1 AND archived = FALSE ORDER BY created_at ASC`
	var tasks []models.RecurringTask
	if err := r.db.SelectContext(ctx, &tasks, query, studentID); err != nil {
		return nil, fmt.Errorf("list active tasks: %w", err)
	}
	return tasks, nil
}

// ListAutoScheduleStudentIDs returns the distinct students who own at least
// one unarchived auto-schedule task. Used by the daily sync job.
func (r *TaskRepository) ListAutoScheduleStudentIDs(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT student_id FROM recurring_tasks WHERE archived = FALSE AND auto_schedule = TRUE`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("list auto-schedule students: %w", err)
	}
	return ids, nil
}

// Create stores a new task.
func (r *TaskRepository) Create(ctx context.Context, task *models.RecurringTask) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	const query = `INSERT INTO recurring_tasks (id, student_id, raw_input, title, description, duration_minutes, preferred_time, exact_start_time, recurrence, days_of_week, start_date, end_date, completed, archived, auto_schedule, last_scheduled_date, created_at, updated_at)
		VALUES (:id, :student_id, :raw_input, :title, :description, :duration_minutes, :preferred_time, :exact_start_time, :recurrence, :days_of_week, :start_date, :end_date, :completed, :archived, :auto_schedule, :last_scheduled_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// Update modifies a task's mutable fields. Recurrence fields are never
// updated; callers archive and recreate instead.
func (r *TaskRepository) Update(ctx context.Context, task *models.RecurringTask) error {
	task.UpdatedAt = time.Now().UTC()
	const query = `UPDATE recurring_tasks
		SET title = :title,
		    description = :description,
		    duration_minutes = :duration_minutes,
		    auto_schedule = :auto_schedule,
		    completed = :completed,
		    archived = :archived,
		    updated_at = :updated_at
		WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, task); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// UpdateLastScheduled records the most recent date a task was placed on a plan.
func (r *TaskRepository) UpdateLastScheduled(ctx context.Context, id, date string) error {
	const query = `UPDATE recurring_tasks SET last_scheduled_date = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, date, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update task last scheduled: %w", err)
	}
	return nil
}

// Delete removes a task permanently.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recurring_tasks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
