package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ItemType classifies a schedule item.
type ItemType string

const (
	ItemLesson     ItemType = "lesson"
	ItemBreak      ItemType = "break"
	ItemAssignment ItemType = "assignment"
	ItemReview     ItemType = "review"
	ItemEvent      ItemType = "event"
	ItemPersonal   ItemType = "personal"
)

// Priority ranks a schedule item.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ScheduleStatus tracks day-plan progress.
type ScheduleStatus string

const (
	ScheduleStatusPending    ScheduleStatus = "pending"
	ScheduleStatusInProgress ScheduleStatus = "in_progress"
	ScheduleStatusCompleted  ScheduleStatus = "completed"
)

// ScheduleItem is one timed unit of a day plan. Times are HH:MM wall-clock
// strings on the schedule's calendar day; start must precede end.
type ScheduleItem struct {
	ID           string   `json:"id"`
	StartTime    string   `json:"startTime"`
	EndTime      string   `json:"endTime"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Type         ItemType `json:"type"`
	CourseID     string   `json:"courseId,omitempty"`
	LessonID     string   `json:"lessonId,omitempty"`
	AssignmentID string   `json:"assignmentId,omitempty"`
	TaskID       string   `json:"taskId,omitempty"`
	Completed    bool     `json:"completed"`
	Priority     Priority `json:"priority"`
}

// Interval converts the item's clock strings into a minute interval.
func (i ScheduleItem) Interval() (Interval, error) {
	start, err := ParseClock(i.StartTime)
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseClock(i.EndTime)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: end}, nil
}

// DurationMinutes returns the item length, or 0 when the times are malformed.
func (i ScheduleItem) DurationMinutes() int {
	iv, err := i.Interval()
	if err != nil || iv.End <= iv.Start {
		return 0
	}
	return iv.Duration()
}

// ScheduleItemList stores the ordered day-plan items as a JSONB column.
type ScheduleItemList []ScheduleItem

// Value implements driver.Valuer.
func (l ScheduleItemList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *ScheduleItemList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported schedule item list source %T", src)
	}
}

// EditLogEntry records one mutation applied to a persisted schedule.
type EditLogEntry struct {
	At      time.Time `json:"at"`
	Command string    `json:"command"`
	Outcome string    `json:"outcome"`
}

// EditLog is the append-only history stored alongside the schedule.
type EditLog []EditLogEntry

// Value implements driver.Valuer.
func (l EditLog) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *EditLog) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported edit log source %T", src)
	}
}

// Schedule is the single day plan for a (student, date) pair. The item list
// is kept sorted by start time as a derived view; the version column guards
// read-modify-write cycles against concurrent writers.
type Schedule struct {
	ID               string           `db:"id" json:"id"`
	StudentID        string           `db:"student_id" json:"studentId"`
	Date             string           `db:"date" json:"date"`
	GeneratedAt      time.Time        `db:"generated_at" json:"generatedAt"`
	Items            ScheduleItemList `db:"items" json:"items"`
	Status           ScheduleStatus   `db:"status" json:"status"`
	TotalMinutes     int              `db:"total_minutes" json:"totalMinutes"`
	CompletedMinutes int              `db:"completed_minutes" json:"completedMinutes"`
	AIGenerated      bool             `db:"ai_generated" json:"aiGenerated"`
	EditHistory      EditLog          `db:"edit_history" json:"editHistory"`
	Version          int              `db:"version" json:"version"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updatedAt"`
}
