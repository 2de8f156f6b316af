package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/studyflow/studyplan-api/internal/models"
)

// PreferenceRepository persists study preferences, one row per student.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository constructs the repository.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// GetByStudent returns stored preferences for a student.
func (r *PreferenceRepository) GetByStudent(ctx context.Context, studentID string) (*models.StudyPreferences, error) {
	const query = `SELECT student_id, session_minutes, break_minutes, long_break_minutes, long_break_every, day_start, day_end, focus_start, focus_end, avoid_start, avoid_end, created_at, updated_at FROM study_preferences WHERE student_id = $1`
	var prefs models.StudyPreferences
	if err := r.db.GetContext(ctx, &prefs, query, studentID); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// Upsert creates or replaces a student's preferences.
func (r *PreferenceRepository) Upsert(ctx context.Context, prefs *models.StudyPreferences) error {
	now := time.Now().UTC()
	if prefs.CreatedAt.IsZero() {
		prefs.CreatedAt = now
	}
	prefs.UpdatedAt = now

	const query = `INSERT INTO study_preferences (student_id, session_minutes, break_minutes, long_break_minutes, long_break_every, day_start, day_end, focus_start, focus_end, avoid_start, avoid_end, created_at, updated_at)
		VALUES (:student_id, :session_minutes, :break_minutes, :long_break_minutes, :long_break_every, :day_start, :day_end, :focus_start, :focus_end, :avoid_start, :avoid_end, :created_at, :updated_at)
		ON CONFLICT (student_id) DO UPDATE
		SET session_minutes = EXCLUDED.session_minutes,
		    break_minutes = EXCLUDED.break_minutes,
		    long_break_minutes = EXCLUDED.long_break_minutes,
		    long_break_every = EXCLUDED.long_break_every,
		    day_start = EXCLUDED.day_start,
		    day_end = EXCLUDED.day_end,
		    focus_start = EXCLUDED.focus_start,
		    focus_end = EXCLUDED.focus_end,
		    avoid_start = EXCLUDED.avoid_start,
		    avoid_end = EXCLUDED.avoid_end,
		    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, prefs); err != nil {
		return fmt.Errorf("upsert study preferences: %w", err)
	}
	return nil
}
