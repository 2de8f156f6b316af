package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studyflow/studyplan-api/internal/dto"
	"github.com/studyflow/studyplan-api/internal/genai"
	"github.com/studyflow/studyplan-api/internal/models"
	appErrors "github.com/studyflow/studyplan-api/pkg/errors"
)

type taskStore interface {
	FindByID(ctx context.Context, id string) (*models.RecurringTask, error)
	ListByStudent(ctx context.Context, studentID string, includeArchived bool) ([]models.RecurringTask, error)
	Create(ctx context.Context, task *models.RecurringTask) error
	Update(ctx context.Context, task *models.RecurringTask) error
	Delete(ctx context.Context, id string) error
}

// TaskService manages recurring tasks. Free-text declarations are parsed
// into structured tasks by the model; structured input bypasses it.
type TaskService struct {
	tasks     taskStore
	generator genai.Generator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTaskService wires task dependencies.
func NewTaskService(tasks taskStore, generator genai.Generator, validate *validator.Validate, logger *zap.Logger) *TaskService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{tasks: tasks, generator: generator, validator: validate, logger: logger}
}

// Create stores a new task for the student.
func (s *TaskService) Create(ctx context.Context, studentID string, req dto.CreateTaskRequest) (*models.RecurringTask, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task payload")
	}

	task := &models.RecurringTask{
		StudentID:       studentID,
		RawInput:        strings.TrimSpace(req.RawInput),
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		DurationMinutes: req.DurationMinutes,
		PreferredTime:   req.PreferredTime,
		ExactStartTime:  req.ExactStartTime,
		Recurrence:      req.Recurrence,
		DaysOfWeek:      weekdaySetFromInts(req.DaysOfWeek),
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		AutoSchedule:    true,
	}
	if req.AutoSchedule != nil {
		task.AutoSchedule = *req.AutoSchedule
	}

	if task.Title == "" && task.RawInput != "" {
		if err := s.parseRawInput(ctx, task); err != nil {
			return nil, err
		}
	}

	applyTaskDefaults(task)

	if task.Title == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "task needs a title or parsable description")
	}
	if task.Recurrence == models.RecurCustom && len(task.DaysOfWeek) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "custom recurrence needs daysOfWeek")
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create task")
	}
	s.logger.Info("task created", zap.String("student_id", studentID), zap.String("task_id", task.ID))
	return task, nil
}

type rawTaskFields struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes"`
	PreferredTime   string `json:"preferredTime"`
	ExactStartTime  string `json:"exactStartTime"`
	Recurrence      string `json:"recurrence"`
	DaysOfWeek      []int  `json:"daysOfWeek"`
}

func (s *TaskService) parseRawInput(ctx context.Context, task *models.RecurringTask) error {
	if s.generator == nil {
		return appErrors.Clone(appErrors.ErrUnavailable, "free-text tasks require the model backend")
	}

	raw, err := s.generator.Complete(ctx, buildTaskPrompt(task.RawInput))
	if err != nil {
		s.logger.Warn("task parse completion failed", zap.Error(err))
		return appErrors.Clone(appErrors.ErrUnavailable, "could not parse the task right now")
	}

	payload := genai.ExtractJSONObject(genai.StripCodeFences(raw))
	if payload == "" {
		return appErrors.Clone(appErrors.ErrValidation, "the task description could not be understood")
	}
	var fields rawTaskFields
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "the task description could not be understood")
	}

	task.Title = strings.TrimSpace(fields.Title)
	task.Description = strings.TrimSpace(fields.Description)
	if fields.DurationMinutes > 0 {
		task.DurationMinutes = fields.DurationMinutes
	}
	task.PreferredTime = normalizeTimeOfDay(fields.PreferredTime)
	if _, err := models.ParseClock(fields.ExactStartTime); err == nil {
		task.ExactStartTime = fields.ExactStartTime
	}
	task.Recurrence = normalizeRecurrence(fields.Recurrence)
	task.DaysOfWeek = weekdaySetFromInts(fields.DaysOfWeek)
	return nil
}

func buildTaskPrompt(rawInput string) string {
	var b strings.Builder
	b.WriteString("Convert this student task description into structured JSON.\n")
	b.WriteString("Description: ")
	b.WriteString(rawInput)
	b.WriteString("\nRespond with ONLY a JSON object: ")
	b.WriteString(`{"title":"...","description":"...","durationMinutes":30,"preferredTime":"morning|afternoon|evening|night|anytime","exactStartTime":"HH:MM or empty","recurrence":"once|daily|weekdays|weekends|weekly|custom","daysOfWeek":[0-6 with 0=Sunday, only for custom]}`)
	b.WriteString("\n")
	return b.String()
}

func applyTaskDefaults(task *models.RecurringTask) {
	if task.DurationMinutes <= 0 {
		task.DurationMinutes = 30
	}
	if task.PreferredTime == "" {
		task.PreferredTime = models.TimeAnytime
	}
	if task.Recurrence == "" {
		task.Recurrence = models.RecurOnce
	}
	if task.StartDate == "" {
		task.StartDate = models.FormatDate(time.Now())
	}
}

func normalizeTimeOfDay(raw string) models.TimeOfDay {
	switch models.TimeOfDay(strings.ToLower(strings.TrimSpace(raw))) {
	case models.TimeMorning:
		return models.TimeMorning
	case models.TimeAfternoon:
		return models.TimeAfternoon
	case models.TimeEvening:
		return models.TimeEvening
	case models.TimeNight:
		return models.TimeNight
	default:
		return models.TimeAnytime
	}
}

func normalizeRecurrence(raw string) models.Recurrence {
	switch models.Recurrence(strings.ToLower(strings.TrimSpace(raw))) {
	case models.RecurDaily:
		return models.RecurDaily
	case models.RecurWeekdays:
		return models.RecurWeekdays
	case models.RecurWeekends:
		return models.RecurWeekends
	case models.RecurWeekly:
		return models.RecurWeekly
	case models.RecurCustom:
		return models.RecurCustom
	default:
		return models.RecurOnce
	}
}

func weekdaySetFromInts(days []int) models.WeekdaySet {
	if len(days) == 0 {
		return nil
	}
	set := make(models.WeekdaySet, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			continue
		}
		wd := time.Weekday(d)
		if !set.Contains(wd) {
			set = append(set, wd)
		}
	}
	return set
}

// List returns the student's tasks.
func (s *TaskService) List(ctx context.Context, studentID string, includeArchived bool) ([]models.RecurringTask, error) {
	tasks, err := s.tasks.ListByStudent(ctx, studentID, includeArchived)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tasks")
	}
	return tasks, nil
}

func (s *TaskService) ownedTask(ctx context.Context, studentID, taskID string) (*models.RecurringTask, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load task")
	}
	if task.StudentID != studentID {
		return nil, appErrors.ErrForbidden
	}
	return task, nil
}

// Update changes a task's mutable fields. Recurrence is fixed after
// creation; archive and recreate to change it.
func (s *TaskService) Update(ctx context.Context, studentID, taskID string, req dto.UpdateTaskRequest) (*models.RecurringTask, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task payload")
	}
	task, err := s.ownedTask(ctx, studentID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		task.Title = strings.TrimSpace(req.Title)
	}
	if req.Description != "" {
		task.Description = strings.TrimSpace(req.Description)
	}
	if req.DurationMinutes > 0 {
		task.DurationMinutes = req.DurationMinutes
	}
	if req.AutoSchedule != nil {
		task.AutoSchedule = *req.AutoSchedule
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update task")
	}
	return task, nil
}

// Complete marks a task done. One-off tasks stop occurring entirely.
func (s *TaskService) Complete(ctx context.Context, studentID, taskID string) (*models.RecurringTask, error) {
	task, err := s.ownedTask(ctx, studentID, taskID)
	if err != nil {
		return nil, err
	}
	task.Completed = true
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update task")
	}
	return task, nil
}

// Archive retires a task from scheduling without deleting its history.
func (s *TaskService) Archive(ctx context.Context, studentID, taskID string) (*models.RecurringTask, error) {
	task, err := s.ownedTask(ctx, studentID, taskID)
	if err != nil {
		return nil, err
	}
	task.Archived = true
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive task")
	}
	return task, nil
}

// Delete removes a task permanently.
func (s *TaskService) Delete(ctx context.Context, studentID, taskID string) error {
	if _, err := s.ownedTask(ctx, studentID, taskID); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete task")
	}
	return nil
}
