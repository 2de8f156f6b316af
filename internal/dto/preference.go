package dto

// UpdatePreferencesRequest replaces the student's pacing and day-bound defaults.
// Zero-valued pacing fields fall back to server defaults.
type UpdatePreferencesRequest struct {
	SessionMinutes   int    `json:"sessionMinutes" validate:"omitempty,min=15,max=240"`
	BreakMinutes     int    `json:"breakMinutes" validate:"omitempty,min=5,max=60"`
	LongBreakMinutes int    `json:"longBreakMinutes" validate:"omitempty,min=10,max=120"`
	LongBreakEvery   int    `json:"longBreakEvery" validate:"omitempty,min=1,max=12"`
	DayStart         string `json:"dayStart" validate:"omitempty,datetime=15:04"`
	DayEnd           string `json:"dayEnd" validate:"omitempty,datetime=15:04"`
	FocusStart       string `json:"focusStart" validate:"omitempty,datetime=15:04"`
	FocusEnd         string `json:"focusEnd" validate:"omitempty,datetime=15:04"`
	AvoidStart       string `json:"avoidStart" validate:"omitempty,datetime=15:04"`
	AvoidEnd         string `json:"avoidEnd" validate:"omitempty,datetime=15:04"`
}
