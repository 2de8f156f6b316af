package dto

import "github.com/studyflow/studyplan-api/internal/models"

// CreateConstraintRequest declares a blackout window.
type CreateConstraintRequest struct {
	Title      string            `json:"title" validate:"required,max=120"`
	StartTime  string            `json:"startTime" validate:"required,datetime=15:04"`
	EndTime    string            `json:"endTime" validate:"required,datetime=15:04"`
	Recurrence models.Recurrence `json:"recurrence" validate:"omitempty,oneof=once daily weekdays weekends weekly custom"`
	DaysOfWeek []int             `json:"daysOfWeek" validate:"omitempty,dive,min=0,max=6"`
	Date       string            `json:"date" validate:"omitempty,datetime=2006-01-02"`
}
