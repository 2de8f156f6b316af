package models

import "time"

// StudyPreferences holds the student's default pacing and day bounds. They
// supply the time bounds whenever no day-specific bound is given.
type StudyPreferences struct {
	StudentID        string    `db:"student_id" json:"studentId"`
	SessionMinutes   int       `db:"session_minutes" json:"sessionMinutes"`
	BreakMinutes     int       `db:"break_minutes" json:"breakMinutes"`
	LongBreakMinutes int       `db:"long_break_minutes" json:"longBreakMinutes"`
	LongBreakEvery   int       `db:"long_break_every" json:"longBreakEvery"`
	DayStart         string    `db:"day_start" json:"dayStart"`
	DayEnd           string    `db:"day_end" json:"dayEnd"`
	FocusStart       string    `db:"focus_start" json:"focusStart,omitempty"`
	FocusEnd         string    `db:"focus_end" json:"focusEnd,omitempty"`
	AvoidStart       string    `db:"avoid_start" json:"avoidStart,omitempty"`
	AvoidEnd         string    `db:"avoid_end" json:"avoidEnd,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}
