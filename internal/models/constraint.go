package models

import "time"

// Constraint is a blackout window during which nothing may be scheduled.
// It is a read-only input to the scheduler, owned by the student profile.
type Constraint struct {
	ID         string     `db:"id" json:"id"`
	StudentID  string     `db:"student_id" json:"studentId"`
	Title      string     `db:"title" json:"title"`
	StartTime  string     `db:"start_time" json:"startTime"`
	EndTime    string     `db:"end_time" json:"endTime"`
	Recurrence Recurrence `db:"recurrence" json:"recurrence"`
	DaysOfWeek WeekdaySet `db:"days_of_week" json:"daysOfWeek,omitempty"`
	Date       string     `db:"date" json:"date,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
}

// Window converts the blackout clock strings into a minute interval.
func (c Constraint) Window() (Interval, error) {
	start, err := ParseClock(c.StartTime)
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseClock(c.EndTime)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: end}, nil
}
