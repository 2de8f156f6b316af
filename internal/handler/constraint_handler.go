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

type constraintManager interface {
	List(ctx context.Context, studentID string) ([]models.Constraint, error)
	Create(ctx context.Context, studentID string, req dto.CreateConstraintRequest) (*models.Constraint, error)
	Delete(ctx context.Context, studentID, constraintID string) error
}

// ConstraintHandler exposes blackout-window endpoints.
type ConstraintHandler struct {
	constraints constraintManager
}

// NewConstraintHandler constructs the handler.
func NewConstraintHandler(constraints constraintManager) *ConstraintHandler {
	return &ConstraintHandler{constraints: constraints}
}

// List godoc
// @Summary List blackout windows
// @Tags Constraints
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /constraints [get]
func (h *ConstraintHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	constraints, err := h.constraints.List(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, constraints)
}

// Create godoc
// @Summary Declare a blackout window
// @Tags Constraints
// @Accept json
// @Produce json
// @Param payload body dto.CreateConstraintRequest true "Constraint payload"
// @Success 201 {object} response.Envelope
// @Router /constraints [post]
func (h *ConstraintHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateConstraintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid constraint payload"))
		return
	}
	constraint, err := h.constraints.Create(c.Request.Context(), claims.StudentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, constraint)
}

// Delete godoc
// @Summary Remove a blackout window
// @Tags Constraints
// @Param id path string true "Constraint id"
// @Success 204
// @Router /constraints/{id} [delete]
func (h *ConstraintHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.constraints.Delete(c.Request.Context(), claims.StudentID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
