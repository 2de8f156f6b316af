package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/studyflow/studyplan-api/internal/models"
)

// CourseRepository reads course content owned by the content service. The
// scheduler never writes to these tables.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListPendingLessons returns uncompleted lessons across the student's
// enrollments, in course order, capped at limit.
func (r *CourseRepository) ListPendingLessons(ctx context.Context, studentID string, limit int) ([]models.PendingLesson, error) {
	const query = `SELECT c.id AS course_id, c.title AS course_title, l.id AS lesson_id, l.title AS lesson_title, l.estimated_minutes
		FROM lessons l
		JOIN courses c ON c.id = l.course_id
		JOIN enrollments e ON e.course_id = c.id AND e.student_id = $1
		LEFT JOIN lesson_progress p ON p.lesson_id = l.id AND p.student_id = $1
		WHERE p.completed_at IS NULL
		ORDER BY c.title ASC, l.position ASC
		LIMIT $2`
	var lessons []models.PendingLesson
	if err := r.db.SelectContext(ctx, &lessons, query, studentID, limit); err != nil {
		return nil, fmt.Errorf("list pending lessons: %w", err)
	}
	return lessons, nil
}

// ListPendingAssignments returns unsubmitted assignments across the student's
// enrollments ordered by due date, capped at limit.
func (r *CourseRepository) ListPendingAssignments(ctx context.Context, studentID string, limit int) ([]models.PendingAssignment, error) {
	const query = `SELECT c.id AS course_id, c.title AS course_title, a.id AS assignment_id, a.title, COALESCE(a.due_date::text, '') AS due_date
		FROM assignments a
		JOIN courses c ON c.id = a.course_id
		JOIN enrollments e ON e.course_id = c.id AND e.student_id = $1
		LEFT JOIN submissions s ON s.assignment_id = a.id AND s.student_id = $1
		WHERE s.id IS NULL
		ORDER BY a.due_date ASC NULLS LAST
		LIMIT $2`
	var assignments []models.PendingAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, studentID, limit); err != nil {
		return nil, fmt.Errorf("list pending assignments: %w", err)
	}
	return assignments, nil
}
