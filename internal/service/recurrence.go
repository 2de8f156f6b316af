package service

import (
	"time"

	"github.com/studyflow/studyplan-api/internal/models"
)

// OccursOn reports whether a task is active on the given calendar date.
// Archived tasks and completed one-off tasks never occur. Malformed task
// dates make the task inert rather than erroring out a whole generation.
func OccursOn(task models.RecurringTask, date time.Time) bool {
	if task.Archived {
		return false
	}
	if task.Completed && task.Recurrence == models.RecurOnce {
		return false
	}

	day := models.Midnight(date)

	start, err := models.ParseDate(task.StartDate)
	if err != nil {
		return false
	}
	if day.Before(start) {
		return false
	}
	if task.EndDate != "" {
		end, err := models.ParseDate(task.EndDate)
		if err != nil {
			return false
		}
		if day.After(end) {
			return false
		}
	}

	switch task.Recurrence {
	case models.RecurOnce:
		return day.Equal(start)
	case models.RecurDaily:
		return true
	case models.RecurWeekdays:
		wd := day.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case models.RecurWeekends:
		wd := day.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	case models.RecurWeekly:
		return day.Weekday() == start.Weekday()
	case models.RecurCustom:
		return task.DaysOfWeek.Contains(day.Weekday())
	default:
		return false
	}
}

// ConstraintAppliesOn reports whether a blackout window is in force on the
// given date. Windows reuse task recurrence semantics; a one-off window
// matches only its own date.
func ConstraintAppliesOn(c models.Constraint, date time.Time) bool {
	day := models.Midnight(date)

	switch c.Recurrence {
	case models.RecurOnce:
		d, err := models.ParseDate(c.Date)
		if err != nil {
			return false
		}
		return day.Equal(d)
	case models.RecurDaily, "":
		return true
	case models.RecurWeekdays:
		wd := day.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case models.RecurWeekends:
		wd := day.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	case models.RecurWeekly:
		d, err := models.ParseDate(c.Date)
		if err != nil {
			return false
		}
		return day.Weekday() == d.Weekday()
	case models.RecurCustom:
		return c.DaysOfWeek.Contains(day.Weekday())
	default:
		return false
	}
}
