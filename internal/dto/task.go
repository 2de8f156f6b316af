package dto

import "github.com/studyflow/studyplan-api/internal/models"

// CreateTaskRequest declares a recurring or one-off personal commitment.
// Either RawInput (free text, parsed by the model) or the structured fields
// must be supplied.
type CreateTaskRequest struct {
	RawInput        string            `json:"rawInput" validate:"omitempty,max=500"`
	Title           string            `json:"title" validate:"required_without=RawInput,omitempty,max=120"`
	Description     string            `json:"description" validate:"omitempty,max=500"`
	DurationMinutes int               `json:"durationMinutes" validate:"omitempty,min=5,max=720"`
	PreferredTime   models.TimeOfDay  `json:"preferredTime" validate:"omitempty,oneof=morning afternoon evening night anytime"`
	ExactStartTime  string            `json:"exactStartTime" validate:"omitempty,datetime=15:04"`
	Recurrence      models.Recurrence `json:"recurrence" validate:"omitempty,oneof=once daily weekdays weekends weekly custom"`
	DaysOfWeek      []int             `json:"daysOfWeek" validate:"omitempty,dive,min=0,max=6"`
	StartDate       string            `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate         string            `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	AutoSchedule    *bool             `json:"autoSchedule"`
}

// UpdateTaskRequest changes the mutable, non-recurrence fields of a task.
type UpdateTaskRequest struct {
	Title           string `json:"title" validate:"omitempty,max=120"`
	Description     string `json:"description" validate:"omitempty,max=500"`
	DurationMinutes int    `json:"durationMinutes" validate:"omitempty,min=5,max=720"`
	AutoSchedule    *bool  `json:"autoSchedule"`
}

// TaskQuery filters task listings.
type TaskQuery struct {
	IncludeArchived bool `form:"includeArchived"`
}
