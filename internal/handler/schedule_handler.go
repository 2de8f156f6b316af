package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyflow/studyplan-api/internal/dto"
	"github.com/studyflow/studyplan-api/internal/models"
	appErrors "github.com/studyflow/studyplan-api/pkg/errors"
	"github.com/studyflow/studyplan-api/pkg/export"
	"github.com/studyflow/studyplan-api/pkg/response"
)

type planGenerator interface {
	Generate(ctx context.Context, studentID string, req dto.GenerateScheduleRequest) (*models.Schedule, error)
}

type planEditor interface {
	Edit(ctx context.Context, studentID, date string, req dto.EditScheduleRequest) (*models.Schedule, bool, string, error)
}

type planReader interface {
	Get(ctx context.Context, studentID, date string) (*models.Schedule, error)
	List(ctx context.Context, studentID string, query dto.ScheduleQuery) ([]models.Schedule, error)
	SetItemCompletion(ctx context.Context, studentID, date, itemID string, completed *bool) (*models.Schedule, error)
	Delete(ctx context.Context, studentID, date string) error
}

// ScheduleHandler exposes day-plan endpoints.
type ScheduleHandler struct {
	generator planGenerator
	editor    planEditor
	plans     planReader
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(generator planGenerator, editor planEditor, plans planReader) *ScheduleHandler {
	return &ScheduleHandler{generator: generator, editor: editor, plans: plans}
}

// Generate godoc
// @Summary Generate the day plan for a date
// @Description Builds the student's plan from pending course work, commitments and preferences. Pass regenerate to rebuild an existing plan.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generation payload"
// @Success 201 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	sched, err := h.generator.Generate(c.Request.Context(), claims.StudentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromModel(sched))
}

// List godoc
// @Summary List recent day plans
// @Tags Schedules
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var query dto.ScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	schedules, err := h.plans.List(c.Request.Context(), claims.StudentID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]dto.ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		out = append(out, dto.FromModel(&schedules[i]))
	}
	response.JSON(c, http.StatusOK, out)
}

// Get godoc
// @Summary Get the day plan for a date
// @Tags Schedules
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /schedules/{date} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	sched, err := h.plans.Get(c.Request.Context(), claims.StudentID, c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.FromModel(sched))
}

// Edit godoc
// @Summary Edit the day plan with a natural-language command
// @Description Applies one instruction to the stored plan. A command that cannot be applied leaves the plan untouched and reports why.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param payload body dto.EditScheduleRequest true "Edit command"
// @Success 200 {object} response.Envelope
// @Router /schedules/{date}/edit [post]
func (h *ScheduleHandler) Edit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.EditScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid edit payload"))
		return
	}
	sched, applied, message, err := h.editor.Edit(c.Request.Context(), claims.StudentID, c.Param("date"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.EditScheduleResponse{
		Applied:  applied,
		Message:  message,
		Schedule: dto.FromModel(sched),
	})
}

// CompleteItem godoc
// @Summary Mark a plan item done or not done
// @Description Toggles the item when no body is sent; otherwise sets the given state.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param itemId path string true "Item id"
// @Param payload body dto.CompleteItemRequest false "Completion state"
// @Success 200 {object} response.Envelope
// @Router /schedules/{date}/items/{itemId}/complete [patch]
func (h *ScheduleHandler) CompleteItem(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CompleteItemRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid completion payload"))
			return
		}
	}
	sched, err := h.plans.SetItemCompletion(c.Request.Context(), claims.StudentID, c.Param("date"), c.Param("itemId"), req.Completed)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.FromModel(sched))
}

// Delete godoc
// @Summary Delete the day plan for a date
// @Tags Schedules
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 204
// @Router /schedules/{date} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.plans.Delete(c.Request.Context(), claims.StudentID, c.Param("date")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export the day plan as CSV or PDF
// @Tags Schedules
// @Produce octet-stream
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /schedules/{date}/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	date := c.Param("date")
	sched, err := h.plans.Get(c.Request.Context(), claims.StudentID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	table := planTable(sched)
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		payload, err := export.RenderCSV(table)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=schedule-%s.csv", date))
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, err := export.RenderPDF(table)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=schedule-%s.pdf", date))
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

func planTable(sched *models.Schedule) export.Table {
	table := export.Table{
		Title:   "Study plan " + sched.Date,
		Headers: []string{"Start", "End", "Title", "Type", "Priority", "Done"},
	}
	for _, item := range sched.Items {
		done := "no"
		if item.Completed {
			done = "yes"
		}
		table.Rows = append(table.Rows, []string{
			item.StartTime, item.EndTime, item.Title, string(item.Type), string(item.Priority), done,
		})
	}
	return table
}
