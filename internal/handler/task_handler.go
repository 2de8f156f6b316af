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

type taskManager interface {
	Create(ctx context.Context, studentID string, req dto.CreateTaskRequest) (*models.RecurringTask, error)
	List(ctx context.Context, studentID string, includeArchived bool) ([]models.RecurringTask, error)
	Update(ctx context.Context, studentID, taskID string, req dto.UpdateTaskRequest) (*models.RecurringTask, error)
	Complete(ctx context.Context, studentID, taskID string) (*models.RecurringTask, error)
	Archive(ctx context.Context, studentID, taskID string) (*models.RecurringTask, error)
	Delete(ctx context.Context, studentID, taskID string) error
}

// TaskHandler exposes recurring-task endpoints.
type TaskHandler struct {
	tasks taskManager
}

// NewTaskHandler constructs the handler.
func NewTaskHandler(tasks taskManager) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// Create godoc
// @Summary Declare a recurring or one-off task
// @Description Accepts either structured fields or a free-text rawInput that is parsed into a task.
// @Tags Tasks
// @Accept json
// @Produce json
// @Param payload body dto.CreateTaskRequest true "Task payload"
// @Success 201 {object} response.Envelope
// @Router /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid task payload"))
		return
	}
	task, err := h.tasks.Create(c.Request.Context(), claims.StudentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, task)
}

// List godoc
// @Summary List the student's tasks
// @Tags Tasks
// @Produce json
// @Param includeArchived query bool false "Include archived tasks"
// @Success 200 {object} response.Envelope
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var query dto.TaskQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	tasks, err := h.tasks.List(c.Request.Context(), claims.StudentID, query.IncludeArchived)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tasks)
}

// Update godoc
// @Summary Update a task's mutable fields
// @Description Recurrence is immutable; archive the task and declare a new one to change it.
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task id"
// @Param payload body dto.UpdateTaskRequest true "Task payload"
// @Success 200 {object} response.Envelope
// @Router /tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid task payload"))
		return
	}
	task, err := h.tasks.Update(c.Request.Context(), claims.StudentID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task)
}

// Complete godoc
// @Summary Mark a task completed
// @Tags Tasks
// @Produce json
// @Param id path string true "Task id"
// @Success 200 {object} response.Envelope
// @Router /tasks/{id}/complete [patch]
func (h *TaskHandler) Complete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	task, err := h.tasks.Complete(c.Request.Context(), claims.StudentID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task)
}

// Archive godoc
// @Summary Archive a task
// @Tags Tasks
// @Produce json
// @Param id path string true "Task id"
// @Success 200 {object} response.Envelope
// @Router /tasks/{id}/archive [patch]
func (h *TaskHandler) Archive(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	task, err := h.tasks.Archive(c.Request.Context(), claims.StudentID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task)
}

// Delete godoc
// @Summary Delete a task permanently
// @Tags Tasks
// @Param id path string true "Task id"
// @Success 204
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), claims.StudentID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
