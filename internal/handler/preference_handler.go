package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyflow/studyplan-api/internal/dto"
	"github.com/studyflow/studyplan-api/internal/models"
	appErrors "github.com/studyflow/studyplan-api/pkg/errors"
	"github.com/studyflow/studyplan-api/pkg/response"
)

type preferenceManager interface {
	Get(ctx context.Context, studentID string) (*models.StudyPreferences, error)
	Update(ctx context.Context, studentID string, req dto.UpdatePreferencesRequest) (*models.StudyPreferences, error)
}

// PreferenceHandler exposes study-preference endpoints.
type PreferenceHandler struct {
	prefs preferenceManager
}

// NewPreferenceHandler constructs the handler.
func NewPreferenceHandler(prefs preferenceManager) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs}
}

// Get godoc
// @Summary Get study preferences
// @Tags Preferences
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /preferences [get]
func (h *PreferenceHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	prefs, err := h.prefs.Get(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prefs)
}

// Update godoc
// @Summary Replace study preferences
// @Tags Preferences
// @Accept json
// @Produce json
// @Param payload body dto.UpdatePreferencesRequest true "Preferences payload"
// @Success 200 {object} response.Envelope
// @Router /preferences [put]
func (h *PreferenceHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preferences payload"))
		return
	}
	prefs, err := h.prefs.Update(c.Request.Context(), claims.StudentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prefs)
}
