package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/studyflow/studyplan-api/internal/dto"
	"github.com/studyflow/studyplan-api/internal/models"
	appErrors "github.com/studyflow/studyplan-api/pkg/errors"
)

type scheduleAccessor interface {
	FindByStudentDate(ctx context.Context, studentID, date string) (*models.Schedule, error)
	ListByStudentRange(ctx context.Context, studentID, from, to string) ([]models.Schedule, error)
	Update(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, studentID, date string) (bool, error)
}

type planCache interface {
	GetSchedule(ctx context.Context, studentID, date string) (*models.Schedule, error)
	PutSchedule(ctx context.Context, sched *models.Schedule)
	InvalidateSchedule(ctx context.Context, studentID, date string)
}

// ScheduleService reads and mutates stored day plans.
type ScheduleService struct {
	schedules scheduleAccessor
	cache     planCache
	logger    *zap.Logger
}

// NewScheduleService wires schedule read/update dependencies.
func NewScheduleService(schedules scheduleAccessor, cache planCache, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{schedules: schedules, cache: cache, logger: logger}
}

// Get returns the plan for one date, preferring the cache.
func (s *ScheduleService) Get(ctx context.Context, studentID, date string) (*models.Schedule, error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}

	if s.cache != nil {
		if cached, err := s.cache.GetSchedule(ctx, studentID, date); err == nil {
			return cached, nil
		}
	}

	sched, err := s.schedules.FindByStudentDate(ctx, studentID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no schedule for date")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	if s.cache != nil {
		s.cache.PutSchedule(ctx, sched)
	}
	return sched, nil
}

// List returns recent plans. The range defaults to the last seven days.
func (s *ScheduleService) List(ctx context.Context, studentID string, query dto.ScheduleQuery) ([]models.Schedule, error) {
	to := query.To
	if to == "" {
		to = models.FormatDate(time.Now())
	}
	from := query.From
	if from == "" {
		toDate, err := models.ParseDate(to)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date range")
		}
		from = models.FormatDate(toDate.AddDate(0, 0, -7))
	}

	schedules, err := s.schedules.ListByStudentRange(ctx, studentID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return schedules, nil
}

// SetItemCompletion marks one item done or not done. A nil completed toggles
// the current state. Totals and day status are recomputed from the items.
func (s *ScheduleService) SetItemCompletion(ctx context.Context, studentID, date, itemID string, completed *bool) (*models.Schedule, error) {
	sched, err := s.schedules.FindByStudentDate(ctx, studentID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no schedule for date")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	found := false
	for i := range sched.Items {
		if sched.Items[i].ID != itemID {
			continue
		}
		if completed != nil {
			sched.Items[i].Completed = *completed
		} else {
			sched.Items[i].Completed = !sched.Items[i].Completed
		}
		found = true
		break
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule item not found")
	}

	recomputeProgress(sched)

	if err := s.schedules.Update(ctx, sched); err != nil {
		return nil, mapScheduleWriteError(err)
	}
	if s.cache != nil {
		s.cache.InvalidateSchedule(ctx, studentID, date)
	}
	return sched, nil
}

// Delete removes the plan for one date.
func (s *ScheduleService) Delete(ctx context.Context, studentID, date string) error {
	removed, err := s.schedules.Delete(ctx, studentID, date)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "no schedule for date")
	}
	if s.cache != nil {
		s.cache.InvalidateSchedule(ctx, studentID, date)
	}
	s.logger.Info("schedule deleted", zap.String("student_id", studentID), zap.String("date", date))
	return nil
}
