package dto

import "github.com/studyflow/studyplan-api/internal/models"

// GenerateScheduleRequest asks for a day plan to be built for the student.
type GenerateScheduleRequest struct {
	Date       string   `json:"date" validate:"required,datetime=2006-01-02"`
	Goals      []string `json:"goals" validate:"omitempty,dive,max=200"`
	Regenerate bool     `json:"regenerate"`
}

// EditScheduleRequest carries a natural-language edit command for a day plan.
type EditScheduleRequest struct {
	Command string `json:"command" validate:"required,min=3,max=500"`
	Version int    `json:"version" validate:"omitempty,min=1"`
}

// CompleteItemRequest toggles or sets an item's completion state.
type CompleteItemRequest struct {
	Completed *bool `json:"completed"`
}

// ScheduleResponse is the wire form of a stored day plan.
type ScheduleResponse struct {
	ID               string                `json:"id"`
	Date             string                `json:"date"`
	Items            []models.ScheduleItem `json:"items"`
	Status           models.ScheduleStatus `json:"status"`
	TotalMinutes     int                   `json:"totalMinutes"`
	CompletedMinutes int                   `json:"completedMinutes"`
	AIGenerated      bool                  `json:"aiGenerated"`
	Version          int                   `json:"version"`
	GeneratedAt      string                `json:"generatedAt"`
}

// EditScheduleResponse reports the edit outcome alongside the updated plan.
type EditScheduleResponse struct {
	Applied  bool             `json:"applied"`
	Message  string           `json:"message,omitempty"`
	Schedule ScheduleResponse `json:"schedule"`
}

// ScheduleQuery filters history listings.
type ScheduleQuery struct {
	From string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" validate:"omitempty,datetime=2006-01-02"`
}

// FromModel converts a stored schedule into its wire form.
func FromModel(s *models.Schedule) ScheduleResponse {
	items := s.Items
	if items == nil {
		items = models.ScheduleItemList{}
	}
	return ScheduleResponse{
		ID:               s.ID,
		Date:             s.Date,
		Items:            items,
		Status:           s.Status,
		TotalMinutes:     s.TotalMinutes,
		CompletedMinutes: s.CompletedMinutes,
		AIGenerated:      s.AIGenerated,
		Version:          s.Version,
		GeneratedAt:      s.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
