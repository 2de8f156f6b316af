package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Recurrence determines on which calendar dates a task is active.
type Recurrence string

const (
	RecurOnce     Recurrence = "once"
	RecurDaily    Recurrence = "daily"
	RecurWeekdays Recurrence = "weekdays"
	RecurWeekends Recurrence = "weekends"
	RecurWeekly   Recurrence = "weekly"
	RecurCustom   Recurrence = "custom"
)

// TimeOfDay buckets a preferred scheduling window.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeNight     TimeOfDay = "night"
	TimeAnytime   TimeOfDay = "anytime"
)

// WeekdaySet stores custom recurrence days (time.Weekday values) as JSONB.
type WeekdaySet []time.Weekday

// Value implements driver.Valuer.
func (s WeekdaySet) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *WeekdaySet) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported weekday set source %T", src)
	}
}

// Contains reports membership of a weekday in the set.
func (s WeekdaySet) Contains(day time.Weekday) bool {
	for _, d := range s {
		if d == day {
			return true
		}
	}
	return false
}

// RecurringTask is a student-declared recurring or one-off commitment.
// Recurrence fields are immutable after creation; tasks are archived and
// recreated instead of edited.
type RecurringTask struct {
	ID              string     `db:"id" json:"id"`
	StudentID       string     `db:"student_id" json:"studentId"`
	RawInput        string     `db:"raw_input" json:"rawInput,omitempty"`
	Title           string     `db:"title" json:"title"`
	Description     string     `db:"description" json:"description,omitempty"`
	DurationMinutes int        `db:"duration_minutes" json:"durationMinutes"`
	PreferredTime   TimeOfDay  `db:"preferred_time" json:"preferredTime"`
	ExactStartTime  string     `db:"exact_start_time" json:"exactStartTime,omitempty"`
	Recurrence      Recurrence `db:"recurrence" json:"recurrence"`
	DaysOfWeek      WeekdaySet `db:"days_of_week" json:"daysOfWeek,omitempty"`
	StartDate       string     `db:"start_date" json:"startDate"`
	EndDate         string     `db:"end_date" json:"endDate,omitempty"`
	Completed       bool       `db:"completed" json:"completed"`
	Archived        bool       `db:"archived" json:"archived"`
	AutoSchedule    bool       `db:"auto_schedule" json:"autoSchedule"`
	LastScheduled   string     `db:"last_scheduled_date" json:"lastScheduledDate,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}
