package models

import "time"

// Course is read-only content metadata; the engine never mutates courses.
type Course struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Subject   string    `db:"subject" json:"subject"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Lesson belongs to a course module.
type Lesson struct {
	ID               string    `db:"id" json:"id"`
	CourseID         string    `db:"course_id" json:"courseId"`
	ModuleID         string    `db:"module_id" json:"moduleId"`
	Title            string    `db:"title" json:"title"`
	Position         int       `db:"position" json:"position"`
	EstimatedMinutes int       `db:"estimated_minutes" json:"estimatedMinutes"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}

// Assignment belongs to a course.
type Assignment struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"courseId"`
	Title     string    `db:"title" json:"title"`
	DueDate   string    `db:"due_date" json:"dueDate,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// PendingLesson is a not-yet-completed lesson for an enrolled student,
// listed in course order.
type PendingLesson struct {
	CourseID         string `db:"course_id" json:"courseId"`
	CourseTitle      string `db:"course_title" json:"courseTitle"`
	LessonID         string `db:"lesson_id" json:"lessonId"`
	LessonTitle      string `db:"lesson_title" json:"lessonTitle"`
	EstimatedMinutes int    `db:"estimated_minutes" json:"estimatedMinutes"`
}

// PendingAssignment is a not-yet-submitted assignment for an enrolled student.
type PendingAssignment struct {
	CourseID     string `db:"course_id" json:"courseId"`
	CourseTitle  string `db:"course_title" json:"courseTitle"`
	AssignmentID string `db:"assignment_id" json:"assignmentId"`
	Title        string `db:"title" json:"title"`
	DueDate      string `db:"due_date" json:"dueDate,omitempty"`
}
