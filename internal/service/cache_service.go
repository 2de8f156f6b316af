package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/studyflow/studyplan-api/internal/models"
	appErrors "github.com/studyflow/studyplan-api/pkg/errors"
)

type cacheBackend interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService caches rendered day plans in Redis. Failures degrade to the
// database; they are logged, never surfaced.
type CacheService struct {
	backend cacheBackend
	ttl     time.Duration
	enabled bool
	logger  *zap.Logger
}

// NewCacheService constructs the cache layer.
func NewCacheService(backend cacheBackend, ttl time.Duration, enabled bool, logger *zap.Logger) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CacheService{backend: backend, ttl: ttl, enabled: enabled && backend != nil, logger: logger}
}

func scheduleKey(studentID, date string) string {
	return fmt.Sprintf("schedule:%s:%s", studentID, date)
}

// GetSchedule returns the cached plan, or ErrCacheMiss.
func (s *CacheService) GetSchedule(ctx context.Context, studentID, date string) (*models.Schedule, error) {
	if !s.enabled {
		return nil, appErrors.ErrCacheMiss
	}
	var sched models.Schedule
	if err := s.backend.Get(ctx, scheduleKey(studentID, date), &sched); err != nil {
		return nil, err
	}
	return &sched, nil
}

// PutSchedule stores the plan under its (student, date) key.
func (s *CacheService) PutSchedule(ctx context.Context, sched *models.Schedule) {
	if !s.enabled || sched == nil {
		return
	}
	if err := s.backend.Set(ctx, scheduleKey(sched.StudentID, sched.Date), sched, s.ttl); err != nil {
		s.logger.Warn("schedule cache write failed", zap.Error(err))
	}
}

// InvalidateSchedule drops the cached plan for one student and date.
func (s *CacheService) InvalidateSchedule(ctx context.Context, studentID, date string) {
	if !s.enabled {
		return
	}
	if err := s.backend.DeleteByPattern(ctx, scheduleKey(studentID, date)); err != nil {
		s.logger.Warn("schedule cache invalidation failed", zap.Error(err))
	}
}

// InvalidateStudent drops every cached plan for a student.
func (s *CacheService) InvalidateStudent(ctx context.Context, studentID string) {
	if !s.enabled {
		return
	}
	if err := s.backend.DeleteByPattern(ctx, scheduleKey(studentID, "*")); err != nil {
		s.logger.Warn("student cache invalidation failed", zap.Error(err))
	}
}
