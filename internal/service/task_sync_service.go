package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/studyflow/studyplan-api/internal/models"
	"github.com/studyflow/studyplan-api/pkg/jobs"
)

type syncTaskSource interface {
	ListActiveByStudent(ctx context.Context, studentID string) ([]models.RecurringTask, error)
	ListAutoScheduleStudentIDs(ctx context.Context) ([]string, error)
	UpdateLastScheduled(ctx context.Context, id, date string) error
}

// SyncConfig governs the daily task sync job.
type SyncConfig struct {
	At        string
	Workers   int
	QueueSize int
	Fallback  FallbackConfig
}

// TaskSyncService pushes each student's due auto-schedule commitments onto
// that day's plan. A cron tick fans one job per student out to a worker
// queue; the per-student pass is idempotent, so overlapping runs are safe.
type TaskSyncService struct {
	schedules   scheduleAccessor
	creator     scheduleStore
	tasks       syncTaskSource
	constraints constraintReader
	prefs       preferenceReader
	cache       scheduleCacheInvalidator
	finder      SlotFinder
	cfg         SyncConfig
	logger      *zap.Logger

	cron  *cron.Cron
	queue *jobs.Queue
}

// NewTaskSyncService wires the sync job.
func NewTaskSyncService(
	schedules scheduleAccessor,
	creator scheduleStore,
	tasks syncTaskSource,
	constraints constraintReader,
	prefs preferenceReader,
	cache scheduleCacheInvalidator,
	cfg SyncConfig,
	logger *zap.Logger,
) *TaskSyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Fallback = cfg.Fallback.withDefaults()
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	s := &TaskSyncService{
		schedules:   schedules,
		creator:     creator,
		tasks:       tasks,
		constraints: constraints,
		prefs:       prefs,
		cache:       cache,
		finder:      NewSlotFinder(cfg.Fallback.SlotStepMinutes),
		cfg:         cfg,
		logger:      logger,
	}
	s.queue = jobs.NewQueue("task-sync", s.handleJob, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.QueueSize,
		Logger:     logger,
	})
	return s
}

// Start schedules the daily tick and launches the workers.
func (s *TaskSyncService) Start(ctx context.Context) error {
	s.queue.Start(ctx)

	spec, err := cronSpec(s.cfg.At)
	if err != nil {
		return err
	}
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule task sync: %w", err)
	}
	s.cron.Start()
	s.logger.Info("task sync scheduled", zap.String("at", s.cfg.At))
	return nil
}

// Stop halts the cron schedule and drains the workers.
func (s *TaskSyncService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	s.queue.Stop()
}

// cronSpec converts an HH:MM wall-clock time into a daily cron expression.
func cronSpec(at string) (string, error) {
	minutes, err := models.ParseClock(at)
	if err != nil {
		return "", fmt.Errorf("invalid sync time: %w", err)
	}
	return fmt.Sprintf("%d %d * * *", minutes%60, minutes/60), nil
}

// RunOnce fans out one sync job per auto-schedule student for today.
func (s *TaskSyncService) RunOnce(ctx context.Context) {
	ids, err := s.tasks.ListAutoScheduleStudentIDs(ctx)
	if err != nil {
		s.logger.Error("task sync fan-out failed", zap.Error(err))
		return
	}
	date := models.FormatDate(time.Now())
	for _, id := range ids {
		job := jobs.Job{
			ID:      uuid.NewString(),
			Type:    "sync-student",
			Payload: syncPayload{StudentID: id, Date: date},
		}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("task sync enqueue failed", zap.String("student_id", id), zap.Error(err))
		}
	}
	s.logger.Info("task sync tick", zap.String("date", date), zap.Int("students", len(ids)))
}

type syncPayload struct {
	StudentID string
	Date      string
}

func (s *TaskSyncService) handleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(syncPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}
	return s.SyncStudent(ctx, payload.StudentID, payload.Date)
}

// SyncStudent places the student's due commitments on the date's plan,
// creating an empty plan first when none exists. Commitments already on the
// plan are left alone.
func (s *TaskSyncService) SyncStudent(ctx context.Context, studentID, date string) error {
	day, err := models.ParseDate(date)
	if err != nil {
		return err
	}

	sched, err := s.schedules.FindByStudentDate(ctx, studentID, date)
	if errors.Is(err, sql.ErrNoRows) {
		sched = &models.Schedule{
			StudentID: studentID,
			Date:      date,
			Status:    models.ScheduleStatusPending,
		}
		if err := s.creator.Create(ctx, sched); err != nil {
			return fmt.Errorf("create plan for sync: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("load plan for sync: %w", err)
	}

	tasks, err := s.tasks.ListActiveByStudent(ctx, studentID)
	if err != nil {
		return fmt.Errorf("load tasks for sync: %w", err)
	}
	constraints, err := s.constraints.ListByStudent(ctx, studentID)
	if err != nil {
		return fmt.Errorf("load constraints for sync: %w", err)
	}

	prefs := models.StudyPreferences{}
	if p, err := s.prefs.GetByStudent(ctx, studentID); err == nil {
		prefs = *p
	}
	window := dayWindow(prefs)

	placed := make(map[string]bool)
	for _, item := range sched.Items {
		if item.TaskID != "" {
			placed[item.TaskID] = true
		}
	}
	busy := append(busyIntervals(sched.Items), constraintIntervals(constraints, day)...)

	added := 0
	for _, task := range tasks {
		if !task.AutoSchedule || placed[task.ID] || !OccursOn(task, day) {
			continue
		}
		duration := task.DurationMinutes
		if duration < s.cfg.Fallback.MinItemMinutes {
			duration = s.cfg.Fallback.MinItemMinutes
		}
		slot, ok := s.finder.FindSlot(busy, duration, task.PreferredTime, task.ExactStartTime, window)
		if !ok {
			// The plan is full; the commitment still goes in at its anchor.
			s.logger.Warn("no free window for task, placing at anchor",
				zap.String("student_id", studentID),
				zap.String("task_id", task.ID),
				zap.String("date", date))
			slot = anchorSlot(task, duration, window)
		}
		sched.Items = append(sched.Items, models.ScheduleItem{
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
		added++

		if err := s.tasks.UpdateLastScheduled(ctx, task.ID, date); err != nil {
			s.logger.Warn("mark task scheduled failed", zap.String("task_id", task.ID), zap.Error(err))
		}
	}

	if added == 0 {
		return nil
	}

	sortItems(sched.Items)
	recomputeProgress(sched)
	if err := s.schedules.Update(ctx, sched); err != nil {
		return fmt.Errorf("store synced plan: %w", err)
	}
	if s.cache != nil {
		s.cache.InvalidateSchedule(ctx, studentID, date)
	}
	s.logger.Info("task sync applied",
		zap.String("student_id", studentID),
		zap.String("date", date),
		zap.Int("added", added))
	return nil
}
