package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studyflow/studyplan-api/internal/dto"
	"github.com/studyflow/studyplan-api/internal/genai"
	"github.com/studyflow/studyplan-api/internal/models"
	appErrors "github.com/studyflow/studyplan-api/pkg/errors"
)

type scheduleStore interface {
	FindByStudentDate(ctx context.Context, studentID, date string) (*models.Schedule, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	Update(ctx context.Context, schedule *models.Schedule) error
}

type taskReader interface {
	ListActiveByStudent(ctx context.Context, studentID string) ([]models.RecurringTask, error)
	UpdateLastScheduled(ctx context.Context, id, date string) error
}

type constraintReader interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Constraint, error)
}

type preferenceReader interface {
	GetByStudent(ctx context.Context, studentID string) (*models.StudyPreferences, error)
}

type courseReader interface {
	ListPendingLessons(ctx context.Context, studentID string, limit int) ([]models.PendingLesson, error)
	ListPendingAssignments(ctx context.Context, studentID string, limit int) ([]models.PendingAssignment, error)
}

type generationRecorder interface {
	RecordGeneration(mode string)
	RecordRepairs(count int)
}

// GeneratorConfig governs plan generation.
type GeneratorConfig struct {
	AIEnabled bool
	Fallback  FallbackConfig
}

// ScheduleGeneratorService builds and persists daily study plans. The model
// proposes a plan when available; its output is validated, filtered and
// repaired before anything is stored. A deterministic builder covers every
// failure mode.
type ScheduleGeneratorService struct {
	schedules   scheduleStore
	tasks       taskReader
	constraints constraintReader
	prefs       preferenceReader
	courses     courseReader
	generator   genai.Generator
	fallback    *FallbackScheduler
	finder      SlotFinder
	metrics     generationRecorder
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         GeneratorConfig
}

// NewScheduleGeneratorService wires generator dependencies.
func NewScheduleGeneratorService(
	schedules scheduleStore,
	tasks taskReader,
	constraints constraintReader,
	prefs preferenceReader,
	courses courseReader,
	generator genai.Generator,
	metrics generationRecorder,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg GeneratorConfig,
) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Fallback = cfg.Fallback.withDefaults()
	return &ScheduleGeneratorService{
		schedules:   schedules,
		tasks:       tasks,
		constraints: constraints,
		prefs:       prefs,
		courses:     courses,
		generator:   generator,
		fallback:    NewFallbackScheduler(cfg.Fallback),
		finder:      NewSlotFinder(cfg.Fallback.SlotStepMinutes),
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
	}
}

// Generate builds the plan for one student and date. An existing plan is
// returned as-is unless regeneration is requested, in which case its items
// are rebuilt in place and completion progress resets.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, studentID string, req dto.GenerateScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation request")
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}

	existing, err := s.schedules.FindByStudentDate(ctx, studentID, req.Date)
	switch {
	case err == nil:
		if !req.Regenerate {
			return existing, nil
		}
	case errors.Is(err, sql.ErrNoRows):
		existing = nil
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	input, err := s.loadInput(ctx, studentID, date)
	if err != nil {
		return nil, err
	}

	items, aiGenerated := s.buildItems(ctx, input, req.Goals)

	sched := existing
	if sched == nil {
		sched = &models.Schedule{
			StudentID: studentID,
			Date:      req.Date,
		}
	}
	sched.Items = items
	sched.Status = models.ScheduleStatusPending
	sched.TotalMinutes = totalMinutes(items)
	sched.CompletedMinutes = 0
	sched.AIGenerated = aiGenerated
	sched.GeneratedAt = time.Now().UTC()

	if existing == nil {
		if err := s.schedules.Create(ctx, sched); err != nil {
			if isUniqueViolation(err) {
				return nil, appErrors.Clone(appErrors.ErrConflict, "schedule already exists for date")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store schedule")
		}
	} else {
		if err := s.schedules.Update(ctx, sched); err != nil {
			return nil, mapScheduleWriteError(err)
		}
	}

	s.markTasksScheduled(ctx, items, req.Date)

	mode := "fallback"
	if aiGenerated {
		mode = "ai"
	}
	if s.metrics != nil {
		s.metrics.RecordGeneration(mode)
	}
	s.logger.Info("schedule generated",
		zap.String("student_id", studentID),
		zap.String("date", req.Date),
		zap.String("mode", mode),
		zap.Int("items", len(items)))

	return sched, nil
}

func (s *ScheduleGeneratorService) loadInput(ctx context.Context, studentID string, date time.Time) (FallbackInput, error) {
	input := FallbackInput{Date: date}

	prefs, err := s.prefs.GetByStudent(ctx, studentID)
	switch {
	case err == nil:
		input.Prefs = *prefs
	case errors.Is(err, sql.ErrNoRows):
		input.Prefs = models.StudyPreferences{StudentID: studentID}
	default:
		return input, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preferences")
	}

	if input.Tasks, err = s.tasks.ListActiveByStudent(ctx, studentID); err != nil {
		return input, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tasks")
	}
	if input.Constraints, err = s.constraints.ListByStudent(ctx, studentID); err != nil {
		return input, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraints")
	}
	if input.Lessons, err = s.courses.ListPendingLessons(ctx, studentID, s.cfg.Fallback.MaxPendingLessons); err != nil {
		return input, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pending lessons")
	}
	if input.Assignments, err = s.courses.ListPendingAssignments(ctx, studentID, s.cfg.Fallback.MaxPendingAssignments); err != nil {
		return input, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pending assignments")
	}
	return input, nil
}

// buildItems asks the model for a plan and falls back to the deterministic
// builder on any failure. The bool result reports whether the model's plan
// was used.
func (s *ScheduleGeneratorService) buildItems(ctx context.Context, input FallbackInput, goals []string) ([]models.ScheduleItem, bool) {
	if !s.cfg.AIEnabled || s.generator == nil {
		return s.fallback.Build(input), false
	}

	raw, err := s.generator.Complete(ctx, buildPrompt(input, goals))
	if err != nil {
		s.logger.Warn("model completion failed, using fallback", zap.Error(err))
		return s.fallback.Build(input), false
	}

	items, err := s.parsePlan(raw, input)
	if err != nil {
		s.logger.Warn("model plan rejected, using fallback", zap.Error(err))
		return s.fallback.Build(input), false
	}
	return items, true
}

type rawPlanItem struct {
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	CourseID     string `json:"courseId"`
	LessonID     string `json:"lessonId"`
	AssignmentID string `json:"assignmentId"`
	TaskID       string `json:"taskId"`
	Priority     string `json:"priority"`
}

// parsePlan turns untrusted model output into a validated item list. Items
// referencing lessons, assignments or tasks the student does not actually
// have are dropped, duplicate lesson references are collapsed, colliding
// items are re-slotted or dropped, and every commitment the model skipped
// is repaired back in.
func (s *ScheduleGeneratorService) parsePlan(raw string, input FallbackInput) ([]models.ScheduleItem, error) {
	payload := genai.ExtractJSONArray(genai.StripCodeFences(raw))
	if payload == "" {
		return nil, fmt.Errorf("no JSON array in model output")
	}

	var parsed []rawPlanItem
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("decode model plan: %w", err)
	}

	lessonIDs := make(map[string]bool, len(input.Lessons))
	for _, l := range input.Lessons {
		lessonIDs[l.LessonID] = true
	}
	assignmentIDs := make(map[string]bool, len(input.Assignments))
	for _, a := range input.Assignments {
		assignmentIDs[a.AssignmentID] = true
	}
	taskByID := make(map[string]models.RecurringTask, len(input.Tasks))
	for _, t := range input.Tasks {
		if OccursOn(t, input.Date) {
			taskByID[t.ID] = t
		}
	}

	seenLessons := make(map[string]bool)
	var items []models.ScheduleItem
	for _, p := range parsed {
		start, err := models.ParseClock(p.StartTime)
		if err != nil {
			continue
		}
		end, err := models.ParseClock(p.EndTime)
		if err != nil || end <= start {
			continue
		}
		if strings.TrimSpace(p.Title) == "" {
			continue
		}

		item := models.ScheduleItem{
			ID:          uuid.NewString(),
			StartTime:   models.FormatClock(start),
			EndTime:     models.FormatClock(end),
			Title:       strings.TrimSpace(p.Title),
			Description: strings.TrimSpace(p.Description),
			Type:        normalizeItemType(p.Type),
			Priority:    normalizePriority(p.Priority),
		}

		switch item.Type {
		case models.ItemLesson, models.ItemReview:
			// Lesson work must reference a real pending lesson. An item
			// without an id is as fabricated as one with an unknown id.
			if p.LessonID == "" || !lessonIDs[p.LessonID] || seenLessons[p.LessonID] {
				continue
			}
			seenLessons[p.LessonID] = true
			item.LessonID = p.LessonID
			item.CourseID = p.CourseID
		case models.ItemAssignment:
			if p.AssignmentID == "" || !assignmentIDs[p.AssignmentID] {
				continue
			}
			item.AssignmentID = p.AssignmentID
			item.CourseID = p.CourseID
		case models.ItemPersonal, models.ItemEvent:
			if p.TaskID != "" {
				if _, ok := taskByID[p.TaskID]; !ok {
					continue
				}
				item.TaskID = p.TaskID
			}
		}

		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("model plan contained no usable items")
	}

	day := dayWindow(input.Prefs)
	items = s.finder.resolveOverlaps(items, constraintIntervals(input.Constraints, input.Date), day)
	items = s.repairCommitments(items, taskByID, input)
	if len(items) == 0 {
		return nil, fmt.Errorf("model plan contained no usable items")
	}
	sortItems(items)
	return items, nil
}

// repairCommitments re-inserts any due commitment the model left out, at
// its exact time when set, otherwise at a canonical hour for its preferred
// window.
func (s *ScheduleGeneratorService) repairCommitments(items []models.ScheduleItem, due map[string]models.RecurringTask, input FallbackInput) []models.ScheduleItem {
	placed := make(map[string]bool)
	for _, item := range items {
		if item.TaskID != "" {
			placed[item.TaskID] = true
		}
	}

	day := dayWindow(input.Prefs)
	busy := append(busyIntervals(items), constraintIntervals(input.Constraints, input.Date)...)

	repaired := 0
	for id, task := range due {
		if placed[id] {
			continue
		}
		duration := task.DurationMinutes
		if duration < s.cfg.Fallback.MinItemMinutes {
			duration = s.cfg.Fallback.MinItemMinutes
		}
		anchor := task.ExactStartTime
		if anchor == "" {
			anchor = canonicalStart(task.PreferredTime)
		}
		slot, ok := s.finder.FindSlot(busy, duration, task.PreferredTime, anchor, day)
		if !ok {
			// No free window left; the commitment still lands on its
			// anchor, colliding if it must.
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
		repaired++
	}

	if repaired > 0 && s.metrics != nil {
		s.metrics.RecordRepairs(repaired)
	}
	return items
}

func canonicalStart(pref models.TimeOfDay) string {
	switch pref {
	case models.TimeMorning:
		return "08:00"
	case models.TimeAfternoon:
		return "14:00"
	case models.TimeEvening:
		return "18:00"
	case models.TimeNight:
		return "21:00"
	default:
		return "10:00"
	}
}

func normalizeItemType(raw string) models.ItemType {
	switch models.ItemType(strings.ToLower(strings.TrimSpace(raw))) {
	case models.ItemBreak:
		return models.ItemBreak
	case models.ItemAssignment:
		return models.ItemAssignment
	case models.ItemReview:
		return models.ItemReview
	case models.ItemEvent:
		return models.ItemEvent
	case models.ItemPersonal:
		return models.ItemPersonal
	default:
		return models.ItemLesson
	}
}

func normalizePriority(raw string) models.Priority {
	switch models.Priority(strings.ToLower(strings.TrimSpace(raw))) {
	case models.PriorityHigh:
		return models.PriorityHigh
	case models.PriorityLow:
		return models.PriorityLow
	default:
		return models.PriorityMedium
	}
}

func buildPrompt(input FallbackInput, goals []string) string {
	var b strings.Builder
	b.WriteString("You are a study planner. Build a realistic one-day study schedule.\n")
	fmt.Fprintf(&b, "Date: %s (%s)\n", models.FormatDate(input.Date), input.Date.Weekday())

	day := dayWindow(input.Prefs)
	fmt.Fprintf(&b, "Study day: %s to %s\n", models.FormatClock(day.Start), models.FormatClock(day.End))

	if len(goals) > 0 {
		b.WriteString("Student goals:\n")
		for _, g := range goals {
			fmt.Fprintf(&b, "- %s\n", g)
		}
	}

	if len(input.Lessons) > 0 {
		b.WriteString("Pending lessons (use these lessonId values only):\n")
		for _, l := range input.Lessons {
			fmt.Fprintf(&b, "- lessonId=%s courseId=%s %q (%s, ~%d min)\n", l.LessonID, l.CourseID, l.LessonTitle, l.CourseTitle, l.EstimatedMinutes)
		}
	}
	if len(input.Assignments) > 0 {
		b.WriteString("Pending assignments (use these assignmentId values only):\n")
		for _, a := range input.Assignments {
			fmt.Fprintf(&b, "- assignmentId=%s courseId=%s %q due %s\n", a.AssignmentID, a.CourseID, a.Title, a.DueDate)
		}
	}

	var commitments []models.RecurringTask
	for _, t := range input.Tasks {
		if OccursOn(t, input.Date) {
			commitments = append(commitments, t)
		}
	}
	if len(commitments) > 0 {
		b.WriteString("Fixed commitments that MUST appear (use these taskId values):\n")
		for _, t := range commitments {
			fmt.Fprintf(&b, "- taskId=%s %q %d min preferred=%s", t.ID, t.Title, t.DurationMinutes, t.PreferredTime)
			if t.ExactStartTime != "" {
				fmt.Fprintf(&b, " exactly at %s", t.ExactStartTime)
			}
			b.WriteString("\n")
		}
	}

	blocked := constraintIntervals(input.Constraints, input.Date)
	if len(blocked) > 0 {
		b.WriteString("Blocked windows (schedule nothing here):\n")
		for _, iv := range blocked {
			fmt.Fprintf(&b, "- %s to %s\n", models.FormatClock(iv.Start), models.FormatClock(iv.End))
		}
	}

	fmt.Fprintf(&b, "Insert a %d minute break between study sessions.\n", input.Prefs.BreakMinutes)
	b.WriteString(`Respond with ONLY a JSON array. Each element: {"startTime":"HH:MM","endTime":"HH:MM","title":"...","description":"...","type":"lesson|break|assignment|review|event|personal","courseId":"","lessonId":"","assignmentId":"","taskId":"","priority":"high|medium|low"}`)
	b.WriteString("\nDo not invent lesson, assignment or task ids.\n")
	return b.String()
}

func totalMinutes(items []models.ScheduleItem) int {
	total := 0
	for _, item := range items {
		if item.Type == models.ItemBreak {
			continue
		}
		total += item.DurationMinutes()
	}
	return total
}

func (s *ScheduleGeneratorService) markTasksScheduled(ctx context.Context, items []models.ScheduleItem, date string) {
	for _, item := range items {
		if item.TaskID == "" {
			continue
		}
		if err := s.tasks.UpdateLastScheduled(ctx, item.TaskID, date); err != nil {
			s.logger.Warn("mark task scheduled failed", zap.String("task_id", item.TaskID), zap.Error(err))
		}
	}
}
