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

type editRecorder interface {
	RecordEdit(outcome string)
}

type scheduleCacheInvalidator interface {
	InvalidateSchedule(ctx context.Context, studentID, date string)
}

// EditorConfig governs the schedule editor.
type EditorConfig struct {
	SlotStepMinutes int
	MinItemMinutes  int
}

// ScheduleEditorService applies natural-language commands to a stored day
// plan. A failed or unintelligible command never mutates the plan; the
// attempt is still recorded in the edit history.
type ScheduleEditorService struct {
	schedules scheduleStore
	prefs     preferenceReader
	generator genai.Generator
	metrics   editRecorder
	cache     scheduleCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
	finder    SlotFinder
	cfg       EditorConfig
}

// NewScheduleEditorService wires editor dependencies.
func NewScheduleEditorService(
	schedules scheduleStore,
	prefs preferenceReader,
	generator genai.Generator,
	metrics editRecorder,
	cache scheduleCacheInvalidator,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg EditorConfig,
) *ScheduleEditorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlotStepMinutes <= 0 {
		cfg.SlotStepMinutes = 15
	}
	if cfg.MinItemMinutes <= 0 {
		cfg.MinItemMinutes = 15
	}
	return &ScheduleEditorService{
		schedules: schedules,
		prefs:     prefs,
		generator: generator,
		metrics:   metrics,
		cache:     cache,
		validator: validate,
		logger:    logger,
		finder:    NewSlotFinder(cfg.SlotStepMinutes),
		cfg:       cfg,
	}
}

// Edit rewrites the plan according to the command. The model receives the
// current items and returns a revised full list; the revision is clamped to
// the study day and made overlap-free before being stored under the
// schedule's version guard.
func (s *ScheduleEditorService) Edit(ctx context.Context, studentID, date string, req dto.EditScheduleRequest) (*models.Schedule, bool, string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid edit request")
	}

	sched, err := s.schedules.FindByStudentDate(ctx, studentID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, "", appErrors.Clone(appErrors.ErrNotFound, "no schedule for date")
		}
		return nil, false, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	if req.Version != 0 && req.Version != sched.Version {
		return nil, false, "", appErrors.Clone(appErrors.ErrStaleWrite, "schedule was modified since it was loaded")
	}

	if s.generator == nil {
		return nil, false, "", appErrors.Clone(appErrors.ErrUnavailable, "schedule editing requires the model backend")
	}

	day := s.dayWindowFor(ctx, studentID)

	revised, reason := s.reviseItems(ctx, sched, req.Command, day)
	applied := reason == ""

	outcome := "applied"
	if !applied {
		outcome = "rejected: " + reason
	}
	sched.EditHistory = append(sched.EditHistory, models.EditLogEntry{
		At:      time.Now().UTC(),
		Command: req.Command,
		Outcome: outcome,
	})

	if applied {
		sched.Items = revised
		recomputeProgress(sched)
	}

	if err := s.schedules.Update(ctx, sched); err != nil {
		return nil, false, "", mapScheduleWriteError(err)
	}
	if s.cache != nil {
		s.cache.InvalidateSchedule(ctx, studentID, date)
	}
	if s.metrics != nil {
		if applied {
			s.metrics.RecordEdit("applied")
		} else {
			s.metrics.RecordEdit("rejected")
		}
	}

	s.logger.Info("schedule edit",
		zap.String("student_id", studentID),
		zap.String("date", date),
		zap.Bool("applied", applied))

	message := ""
	if !applied {
		message = "The command could not be applied: " + reason
	}
	return sched, applied, message, nil
}

func (s *ScheduleEditorService) dayWindowFor(ctx context.Context, studentID string) models.Interval {
	prefs, err := s.prefs.GetByStudent(ctx, studentID)
	if err != nil {
		return dayWindow(models.StudyPreferences{})
	}
	return dayWindow(*prefs)
}

// reviseItems runs the command through the model. A non-empty reason means
// the revision was rejected and the plan must stay untouched.
func (s *ScheduleEditorService) reviseItems(ctx context.Context, sched *models.Schedule, command string, day models.Interval) ([]models.ScheduleItem, string) {
	raw, err := s.generator.Complete(ctx, buildEditPrompt(sched, command, day))
	if err != nil {
		s.logger.Warn("edit completion failed", zap.Error(err))
		return nil, "the model backend did not respond"
	}

	payload := genai.ExtractJSONArray(genai.StripCodeFences(raw))
	if payload == "" {
		return nil, "the response contained no schedule"
	}

	var parsed []rawPlanItem
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, "the response could not be parsed"
	}

	var revised []models.ScheduleItem
	for _, p := range parsed {
		if strings.TrimSpace(p.Title) == "" {
			continue
		}
		item := models.ScheduleItem{
			ID:          uuid.NewString(),
			StartTime:   p.StartTime,
			EndTime:     p.EndTime,
			Title:       strings.TrimSpace(p.Title),
			Description: strings.TrimSpace(p.Description),
			Type:        normalizeItemType(p.Type),
			Priority:    normalizePriority(p.Priority),
		}
		item.CourseID = p.CourseID
		item.LessonID = p.LessonID
		item.AssignmentID = p.AssignmentID
		item.TaskID = p.TaskID
		revised = append(revised, item)
	}

	revised = carryCompletion(revised, sched.Items)
	revised = ClampItems(revised, day.Start, day.End, s.cfg.MinItemMinutes)
	revised = s.finder.resolveOverlaps(revised, nil, day)
	if len(revised) == 0 {
		return nil, "the revised schedule was empty"
	}
	sortItems(revised)
	return revised, ""
}

// carryCompletion preserves identity and completion state for revised items
// that still refer to the same underlying work.
func carryCompletion(revised, previous []models.ScheduleItem) []models.ScheduleItem {
	for i, item := range revised {
		for _, prev := range previous {
			if sameWork(item, prev) {
				revised[i].ID = prev.ID
				revised[i].Completed = prev.Completed
				break
			}
		}
	}
	return revised
}

func sameWork(a, b models.ScheduleItem) bool {
	if a.LessonID != "" && a.LessonID == b.LessonID {
		return true
	}
	if a.AssignmentID != "" && a.AssignmentID == b.AssignmentID {
		return true
	}
	if a.TaskID != "" && a.TaskID == b.TaskID {
		return true
	}
	return a.Type == b.Type && strings.EqualFold(a.Title, b.Title)
}

// ClampItems forces every item inside [lower, upper) minutes from midnight.
// Items starting at or past the upper bound are dropped; an interval that
// collapses under clamping is given the minimum length instead.
func ClampItems(items []models.ScheduleItem, lower, upper, minMinutes int) []models.ScheduleItem {
	if minMinutes <= 0 {
		minMinutes = 15
	}
	out := make([]models.ScheduleItem, 0, len(items))
	for _, item := range items {
		iv, err := item.Interval()
		if err != nil {
			continue
		}
		if iv.Start < lower {
			iv.Start = lower
		}
		if iv.Start >= upper {
			continue
		}
		if iv.End > upper {
			iv.End = upper
		}
		if iv.End <= iv.Start {
			iv.End = iv.Start + minMinutes
			if iv.End > upper {
				continue
			}
		}
		item.StartTime = models.FormatClock(iv.Start)
		item.EndTime = models.FormatClock(iv.End)
		out = append(out, item)
	}
	return out
}

// recomputeProgress refreshes derived totals and the day status from the
// item list.
func recomputeProgress(sched *models.Schedule) {
	total := 0
	completed := 0
	for _, item := range sched.Items {
		if item.Type == models.ItemBreak {
			continue
		}
		d := item.DurationMinutes()
		total += d
		if item.Completed {
			completed += d
		}
	}
	sched.TotalMinutes = total
	sched.CompletedMinutes = completed
	switch {
	case total > 0 && completed >= total:
		sched.Status = models.ScheduleStatusCompleted
	case completed > 0:
		sched.Status = models.ScheduleStatusInProgress
	default:
		sched.Status = models.ScheduleStatusPending
	}
}

func buildEditPrompt(sched *models.Schedule, command string, day models.Interval) string {
	var b strings.Builder
	b.WriteString("You are editing a student's one-day study schedule.\n")
	fmt.Fprintf(&b, "Date: %s. Study day: %s to %s.\n", sched.Date, models.FormatClock(day.Start), models.FormatClock(day.End))
	b.WriteString("Current schedule:\n")
	current, _ := json.Marshal(sched.Items)
	b.Write(current)
	b.WriteString("\nInstruction: ")
	b.WriteString(command)
	b.WriteString("\nApply ONLY this instruction and respond with the complete revised schedule as a JSON array in the same item format. Keep every courseId, lessonId, assignmentId and taskId exactly as they are. Do not add new work that was not asked for.\n")
	return b.String()
}
