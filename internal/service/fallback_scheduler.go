package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/studyflow/studyplan-api/internal/models"
)

// FallbackConfig bounds the deterministic day-plan builder.
type FallbackConfig struct {
	SlotStepMinutes   int
	MinItemMinutes    int
	MaxPendingLessons int
	// MaxPendingAssignments bounds the list handed to the model prompt; the
	// deterministic builder itself never places assignments.
	MaxPendingAssignments int
}

func (c FallbackConfig) withDefaults() FallbackConfig {
	if c.SlotStepMinutes <= 0 {
		c.SlotStepMinutes = 15
	}
	if c.MinItemMinutes <= 0 {
		c.MinItemMinutes = 15
	}
	if c.MaxPendingLessons <= 0 {
		c.MaxPendingLessons = 5
	}
	if c.MaxPendingAssignments <= 0 {
		c.MaxPendingAssignments = 5
	}
	return c
}

// FallbackInput is the full working set for one student and date.
type FallbackInput struct {
	Date        time.Time
	Prefs       models.StudyPreferences
	Tasks       []models.RecurringTask
	Constraints []models.Constraint
	Lessons     []models.PendingLesson
	Assignments []models.PendingAssignment
}

// FallbackScheduler builds a day plan without any model involvement. Given
// identical inputs it always produces the same sequence of items.
type FallbackScheduler struct {
	cfg    FallbackConfig
	finder SlotFinder
}

// NewFallbackScheduler constructs the deterministic builder.
func NewFallbackScheduler(cfg FallbackConfig) *FallbackScheduler {
	cfg = cfg.withDefaults()
	return &FallbackScheduler{cfg: cfg, finder: NewSlotFinder(cfg.SlotStepMinutes)}
}

func dayWindow(prefs models.StudyPreferences) models.Interval {
	start, err := models.ParseClock(prefs.DayStart)
	if err != nil {
		start = 8 * 60
	}
	end, err := models.ParseClock(prefs.DayEnd)
	if err != nil || end <= start {
		end = 22 * 60
	}
	return models.Interval{Start: start, End: end}
}

// Build assembles the plan: recurring commitments first, then pending
// lessons with break cadence. Pending work never displaces a commitment and
// nothing is placed inside a blackout window. Assignments are never placed
// here; only the model path may schedule assignment work.
func (s *FallbackScheduler) Build(input FallbackInput) []models.ScheduleItem {
	day := dayWindow(input.Prefs)
	busy := constraintIntervals(input.Constraints, input.Date)

	var items []models.ScheduleItem

	for _, task := range s.dueTasks(input.Tasks, input.Date) {
		duration := task.DurationMinutes
		if duration < s.cfg.MinItemMinutes {
			duration = s.cfg.MinItemMinutes
		}
		slot, ok := s.finder.FindSlot(busy, duration, task.PreferredTime, task.ExactStartTime, day)
		if !ok {
			// Commitments are always carried, even on a day with no free
			// window left. The anchor placement may then collide.
			slot = anchorSlot(task, duration, day)
		}
		items = append(items, models.ScheduleItem{
			ID:          uuid.NewString(),
			StartTime:   models.FormatClock(slot.Start),
			EndTime:     models.FormatClock(slot.End),
			Title:       task.Title,
			Description: task.Description,
			Type:        models.ItemPersonal,
			TaskID:      task.ID,
			Priority:    models.PriorityHigh,
		})
		busy = append(busy, slot)
	}

	session := input.Prefs.SessionMinutes
	if session <= 0 {
		session = 45
	}
	shortBreak := input.Prefs.BreakMinutes
	if shortBreak <= 0 {
		shortBreak = 10
	}
	longBreak := input.Prefs.LongBreakMinutes
	if longBreak <= 0 {
		longBreak = 30
	}
	longEvery := input.Prefs.LongBreakEvery
	if longEvery <= 0 {
		longEvery = 4
	}

	cursor := day.Start
	blocks := 0

	placeBlock := func(duration int) (models.Interval, bool) {
		window := models.Interval{Start: cursor, End: day.End}
		slot, ok := s.finder.scan(window, duration, busy)
		if !ok {
			return models.Interval{}, false
		}
		busy = append(busy, slot)
		cursor = slot.End
		return slot, true
	}

	placeBreak := func() {
		blocks++
		duration := shortBreak
		title := "Break"
		if blocks%longEvery == 0 {
			duration = longBreak
			title = "Long break"
		}
		slot := models.Interval{Start: cursor, End: cursor + duration}
		if slot.End > day.End || !isFree(slot, busy) {
			return
		}
		busy = append(busy, slot)
		cursor = slot.End
		items = append(items, models.ScheduleItem{
			ID:        uuid.NewString(),
			StartTime: models.FormatClock(slot.Start),
			EndTime:   models.FormatClock(slot.End),
			Title:     title,
			Type:      models.ItemBreak,
			Priority:  models.PriorityLow,
		})
	}

	lessons := input.Lessons
	if len(lessons) > s.cfg.MaxPendingLessons {
		lessons = lessons[:s.cfg.MaxPendingLessons]
	}
	for _, lesson := range lessons {
		duration := lesson.EstimatedMinutes
		if duration <= 0 || duration > session {
			duration = session
		}
		if duration < s.cfg.MinItemMinutes {
			duration = s.cfg.MinItemMinutes
		}
		slot, ok := placeBlock(duration)
		if !ok {
			break
		}
		items = append(items, models.ScheduleItem{
			ID:          uuid.NewString(),
			StartTime:   models.FormatClock(slot.Start),
			EndTime:     models.FormatClock(slot.End),
			Title:       lesson.LessonTitle,
			Description: fmt.Sprintf("Lesson from %s", lesson.CourseTitle),
			Type:        models.ItemLesson,
			CourseID:    lesson.CourseID,
			LessonID:    lesson.LessonID,
			Priority:    models.PriorityMedium,
		})
		placeBreak()
	}

	sortItems(items)
	return items
}

// anchorSlot is the forced placement for a commitment on an over-full day:
// its exact start when set, otherwise the canonical hour for its preferred
// window.
func anchorSlot(task models.RecurringTask, duration int, day models.Interval) models.Interval {
	anchor := task.ExactStartTime
	if anchor == "" {
		anchor = canonicalStart(task.PreferredTime)
	}
	start := day.Start
	if v, err := models.ParseClock(anchor); err == nil {
		start = v
	}
	return models.Interval{Start: start, End: start + duration}
}

// dueTasks returns the commitments active on the date, exact-start tasks
// first so flexible ones scan around them.
func (s *FallbackScheduler) dueTasks(tasks []models.RecurringTask, date time.Time) []models.RecurringTask {
	var due []models.RecurringTask
	for _, task := range tasks {
		if OccursOn(task, date) {
			due = append(due, task)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		if (due[i].ExactStartTime != "") != (due[j].ExactStartTime != "") {
			return due[i].ExactStartTime != ""
		}
		if due[i].ExactStartTime != due[j].ExactStartTime {
			return due[i].ExactStartTime < due[j].ExactStartTime
		}
		return due[i].CreatedAt.Before(due[j].CreatedAt)
	})
	return due
}
