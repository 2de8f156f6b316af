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

type constraintStore interface {
	FindByID(ctx context.Context, id string) (*models.Constraint, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Constraint, error)
	Create(ctx context.Context, c *models.Constraint) error
	Delete(ctx context.Context, id string) error
}

// ConstraintService manages blackout windows.
type ConstraintService struct {
	constraints constraintStore
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewConstraintService wires constraint dependencies.
func NewConstraintService(constraints constraintStore, validate *validator.Validate, logger *zap.Logger) *ConstraintService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConstraintService{constraints: constraints, validator: validate, logger: logger}
}

// List returns the student's blackout windows.
func (s *ConstraintService) List(ctx context.Context, studentID string) ([]models.Constraint, error) {
	constraints, err := s.constraints.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list constraints")
	}
	return constraints, nil
}

// Create stores a blackout window after checking its clock values.
func (s *ConstraintService) Create(ctx context.Context, studentID string, req dto.CreateConstraintRequest) (*models.Constraint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid constraint payload")
	}

	start, err := models.ParseClock(req.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid startTime")
	}
	end, err := models.ParseClock(req.EndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid endTime")
	}
	if end <= start {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endTime must come after startTime")
	}

	recurrence := req.Recurrence
	if recurrence == "" {
		recurrence = models.RecurDaily
	}
	if recurrence == models.RecurOnce && req.Date == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "one-off constraints need a date")
	}
	if recurrence == models.RecurCustom && len(req.DaysOfWeek) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "custom recurrence needs daysOfWeek")
	}

	c := &models.Constraint{
		StudentID:  studentID,
		Title:      req.Title,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Recurrence: recurrence,
		DaysOfWeek: weekdaySetFromInts(req.DaysOfWeek),
		Date:       req.Date,
	}
	if err := s.constraints.Create(ctx, c); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create constraint")
	}
	s.logger.Info("constraint created", zap.String("student_id", studentID), zap.String("constraint_id", c.ID))
	return c, nil
}

// Delete removes a blackout window after an ownership check.
func (s *ConstraintService) Delete(ctx context.Context, studentID, constraintID string) error {
	c, err := s.constraints.FindByID(ctx, constraintID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "constraint not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraint")
	}
	if c.StudentID != studentID {
		return appErrors.ErrForbidden
	}
	if err := s.constraints.Delete(ctx, constraintID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete constraint")
	}
	return nil
}
