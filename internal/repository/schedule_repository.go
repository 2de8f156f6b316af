package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/studyflow/studyplan-api/internal/models"
)

const scheduleColumns = `id, student_id, date, generated_at, items, status, total_minutes, completed_minutes, ai_generated, edit_history, version, created_at, updated_at`

// ScheduleRepository persists daily study schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// FindByStudentDate loads the schedule for one student and calendar date.
// Returns sql.ErrNoRows when no plan exists for that day.
func (r *ScheduleRepository) FindByStudentDate(ctx context.Context, studentID, date string) (*models.Schedule, error) {
	const query = `SELECT ` + scheduleColumns + ` FROM study_schedules WHERE student_id = $1 AND date = $2`
	var sched models.Schedule
	if err := r.db.GetContext(ctx, &sched, query, studentID, date); err != nil {
		return nil, err
	}
	return &sched, nil
}

// ListByStudentRange returns schedules within an inclusive date range, oldest first.
func (r *ScheduleRepository) ListByStudentRange(ctx context.Context, studentID, from, to string) ([]models.Schedule, error) {
	const query = `SELECT ` + scheduleColumns + ` FROM study_schedules WHERE student_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC`
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, studentID, from, to); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// Create stores a new schedule. The (student_id, date) pair is unique; the
// caller maps constraint violations to a conflict error.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now
	if schedule.GeneratedAt.IsZero() {
		schedule.GeneratedAt = now
	}
	if schedule.Version == 0 {
		schedule.Version = 1
	}

	const query = `INSERT INTO study_schedules (id, student_id, date, generated_at, items, status, total_minutes, completed_minutes, ai_generated, edit_history, version, created_at, updated_at)
		VALUES (:id, :student_id, :date, :generated_at, :items, :status, :total_minutes, :completed_minutes, :ai_generated, :edit_history, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// Update replaces a schedule's mutable fields, guarded by its version.
// The version is bumped on success; ErrStaleVersion is returned when the
// stored row moved on since the caller loaded it.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	schedule.UpdatedAt = time.Now().UTC()
	const query = `UPDATE study_schedules
		SET items = :items,
		    status = :status,
		    total_minutes = :total_minutes,
		    completed_minutes = :completed_minutes,
		    ai_generated = :ai_generated,
		    edit_history = :edit_history,
		    version = version + 1,
		    updated_at = :updated_at
		WHERE id = :id AND version = :version`
	res, err := r.db.NamedExecContext(ctx, query, schedule)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update schedule rows: %w", err)
	}
	if affected == 0 {
		return ErrStaleVersion
	}
	schedule.Version++
	return nil
}

// Delete removes a schedule for one student and date. Reports whether a row
// was removed.
func (r *ScheduleRepository) Delete(ctx context.Context, studentID, date string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM study_schedules WHERE student_id = $1 AND date = $2`, studentID, date)
	if err != nil {
		return false, fmt.Errorf("delete schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete schedule rows: %w", err)
	}
	return affected > 0, nil
}
