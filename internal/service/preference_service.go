package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studyflow/studyplan-api/internal/dto"
	"github.com/studyflow/studyplan-api/internal/models"
	appErrors "github.com/studyflow/studyplan-api/pkg/errors"
)

type preferenceStore interface {
	GetByStudent(ctx context.Context, studentID string) (*models.StudyPreferences, error)
	Upsert(ctx context.Context, prefs *models.StudyPreferences) error
}

// PreferenceDefaults are the server-side pacing values used when a student
// has never saved preferences.
type PreferenceDefaults struct {
	SessionMinutes   int
	BreakMinutes     int
	LongBreakMinutes int
	LongBreakEvery   int
	DayStart         string
	DayEnd           string
}

// PreferenceService manages per-student pacing defaults.
type PreferenceService struct {
	prefs     preferenceStore
	cache     scheduleCacheInvalidator
	defaults  PreferenceDefaults
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPreferenceService wires preference dependencies.
func NewPreferenceService(prefs preferenceStore, cache scheduleCacheInvalidator, defaults PreferenceDefaults, validate *validator.Validate, logger *zap.Logger) *PreferenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceService{prefs: prefs, cache: cache, defaults: defaults, validator: validate, logger: logger}
}

func (s *PreferenceService) defaultPrefs(studentID string) models.StudyPreferences {
	return models.StudyPreferences{
		StudentID:        studentID,
		SessionMinutes:   s.defaults.SessionMinutes,
		BreakMinutes:     s.defaults.BreakMinutes,
		LongBreakMinutes: s.defaults.LongBreakMinutes,
		LongBreakEvery:   s.defaults.LongBreakEvery,
		DayStart:         s.defaults.DayStart,
		DayEnd:           s.defaults.DayEnd,
	}
}

// Get returns stored preferences, falling back to server defaults.
func (s *PreferenceService) Get(ctx context.Context, studentID string) (*models.StudyPreferences, error) {
	prefs, err := s.prefs.GetByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			defaults := s.defaultPrefs(studentID)
			return &defaults, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preferences")
	}
	return prefs, nil
}

// Update replaces the student's preferences. Day bounds must describe a
// non-empty window.
func (s *PreferenceService) Update(ctx context.Context, studentID string, req dto.UpdatePreferencesRequest) (*models.StudyPreferences, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preferences payload")
	}

	prefs := s.defaultPrefs(studentID)
	if req.SessionMinutes > 0 {
		prefs.SessionMinutes = req.SessionMinutes
	}
	if req.BreakMinutes > 0 {
		prefs.BreakMinutes = req.BreakMinutes
	}
	if req.LongBreakMinutes > 0 {
		prefs.LongBreakMinutes = req.LongBreakMinutes
	}
	if req.LongBreakEvery > 0 {
		prefs.LongBreakEvery = req.LongBreakEvery
	}
	if req.DayStart != "" {
		prefs.DayStart = req.DayStart
	}
	if req.DayEnd != "" {
		prefs.DayEnd = req.DayEnd
	}
	prefs.FocusStart = req.FocusStart
	prefs.FocusEnd = req.FocusEnd
	prefs.AvoidStart = req.AvoidStart
	prefs.AvoidEnd = req.AvoidEnd

	start, err := models.ParseClock(prefs.DayStart)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid dayStart")
	}
	end, err := models.ParseClock(prefs.DayEnd)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid dayEnd")
	}
	if end <= start {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dayEnd must come after dayStart")
	}

	if err := s.prefs.Upsert(ctx, &prefs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save preferences")
	}
	if s.cache != nil {
		s.cache.InvalidateSchedule(ctx, studentID, "*")
	}
	s.logger.Info("preferences updated", zap.String("student_id", studentID))
	return &prefs, nil
}
