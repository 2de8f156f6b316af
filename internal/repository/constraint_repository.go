package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/studyflow/studyplan-api/internal/models"
)

const constraintColumns = `id, student_id, title, start_time, end_time, recurrence, days_of_week, date, created_at, updated_at`

// ConstraintRepository persists blackout windows.
type ConstraintRepository struct {
	db *sqlx.DB
}

// NewConstraintRepository constructs the repository.
func NewConstraintRepository(db *sqlx.DB) *ConstraintRepository {
	return &ConstraintRepository{db: db}
}

// FindByID loads a constraint by id.
func (r *ConstraintRepository) FindByID(ctx context.Context, id string) (*models.Constraint, error) {
	const query = `SELECT ` + constraintColumns + ` FROM schedule_constraints WHERE id = $1`
	var c models.Constraint
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByStudent returns all blackout windows for a student ordered by start time.
func (r *ConstraintRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Constraint, error) {
	const query = `SELECT ` + constraintColumns + ` FROM schedule_constraints WHERE student_id = $1 ORDER BY start_time ASC`
	var constraints []models.Constraint
	if err := r.db.SelectContext(ctx, &constraints, query, studentID); err != nil {
		return nil, fmt.Errorf("list constraints: %w", err)
	}
	return constraints, nil
}

// Create stores a new blackout window.
func (r *ConstraintRepository) Create(ctx context.Context, c *models.Constraint) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	const query = `INSERT INTO schedule_constraints (id, student_id, title, start_time, end_time, recurrence, days_of_week, date, created_at, updated_at)
		VALUES (:id, :student_id, :title, :start_time, :end_time, :recurrence, :days_of_week, :date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("create constraint: %w", err)
	}
	return nil
}

// Delete removes a blackout window.
func (r *ConstraintRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_constraints WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete constraint: %w", err)
	}
	return nil
}
