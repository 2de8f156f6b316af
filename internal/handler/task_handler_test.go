package handler

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/studyflow/studyplan-api/internal/dto"
	"github.com/studyflow/studyplan-api/internal/models"
	appErrors "github.com/studyflow/studyplan-api/pkg/errors"
)

type taskManagerMock struct {
	task            *models.RecurringTask
	err             error
	includeArchived bool
	deleted         string
}

func (m *taskManagerMock) Create(ctx context.Context, studentID string, req dto.CreateTaskRequest) (*models.RecurringTask, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.task, nil
}

func (m *taskManagerMock) List(ctx context.Context, studentID string, includeArchived bool) ([]models.RecurringTask, error) {
	m.includeArchived = includeArchived
	if m.err != nil {
		return nil, m.err
	}
	return []models.RecurringTask{*m.task}, nil
}

func (m *taskManagerMock) Update(ctx context.Context, studentID, taskID string, req dto.UpdateTaskRequest) (*models.RecurringTask, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.task, nil
}

func (m *taskManagerMock) Complete(ctx context.Context, studentID, taskID string) (*models.RecurringTask, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.task, nil
}

func (m *taskManagerMock) Archive(ctx context.Context, studentID, taskID string) (*models.RecurringTask, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.task, nil
}

func (m *taskManagerMock) Delete(ctx context.Context, studentID, taskID string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = taskID
	return nil
}

func sampleTask() *models.RecurringTask {
	return &models.RecurringTask{
		ID:              "task-1",
		StudentID:       "student-1",
		Title:           "Gym",
		DurationMinutes: 60,
		PreferredTime:   models.TimeEvening,
		Recurrence:      models.RecurWeekdays,
		StartDate:       "2026-03-02",
		AutoSchedule:    true,
	}
}

func buildTaskRouter(m *taskManagerMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(testAuth())

	h := NewTaskHandler(m)
	router.POST("/tasks", h.Create)
	router.GET("/tasks", h.List)
	router.PATCH("/tasks/:id", h.Update)
	router.PATCH("/tasks/:id/complete", h.Complete)
	router.PATCH("/tasks/:id/archive", h.Archive)
	router.DELETE("/tasks/:id", h.Delete)
	return router
}

func TestTaskHandlerCreate(t *testing.T) {
	t.Run("structured payload", func(t *testing.T) {
		router := buildTaskRouter(&taskManagerMock{task: sampleTask()})
		req, _ := http.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString(`{"title":"Gym","durationMinutes":60,"recurrence":"weekdays","preferredTime":"evening"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusCreated, resp.Code)
		require.Contains(t, resp.Body.String(), `"title":"Gym"`)
	})

	t.Run("raw input payload", func(t *testing.T) {
		router := buildTaskRouter(&taskManagerMock{task: sampleTask()})
		req, _ := http.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString(`{"rawInput":"gym every weekday evening for an hour"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusCreated, resp.Code)
	})

	t.Run("unauthorized", func(t *testing.T) {
		router := buildTaskRouter(&taskManagerMock{task: sampleTask()})
		req, _ := http.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString(`{"title":"Gym"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("validation error mapped", func(t *testing.T) {
		router := buildTaskRouter(&taskManagerMock{err: appErrors.Clone(appErrors.ErrValidation, "either rawInput or title is required")})
		req, _ := http.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestTaskHandlerList(t *testing.T) {
	m := &taskManagerMock{task: sampleTask()}
	router := buildTaskRouter(m)

	req, _ := http.NewRequest(http.MethodGet, "/tasks?includeArchived=true", nil)
	req.Header.Set("X-Test-Student", "student-1")
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.True(t, m.includeArchived)
	require.Contains(t, resp.Body.String(), `"id":"task-1"`)
}

func TestTaskHandlerLifecycle(t *testing.T) {
	t.Run("update", func(t *testing.T) {
		router := buildTaskRouter(&taskManagerMock{task: sampleTask()})
		req, _ := http.NewRequest(http.MethodPatch, "/tasks/task-1", bytes.NewBufferString(`{"durationMinutes":45}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("complete", func(t *testing.T) {
		router := buildTaskRouter(&taskManagerMock{task: sampleTask()})
		req, _ := http.NewRequest(http.MethodPatch, "/tasks/task-1/complete", nil)
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("archive", func(t *testing.T) {
		router := buildTaskRouter(&taskManagerMock{task: sampleTask()})
		req, _ := http.NewRequest(http.MethodPatch, "/tasks/task-1/archive", nil)
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("delete", func(t *testing.T) {
		m := &taskManagerMock{task: sampleTask()}
		router := buildTaskRouter(m)
		req, _ := http.NewRequest(http.MethodDelete, "/tasks/task-1", nil)
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusNoContent, resp.Code)
		require.Equal(t, "task-1", m.deleted)
	})

	t.Run("foreign task forbidden", func(t *testing.T) {
		router := buildTaskRouter(&taskManagerMock{err: appErrors.ErrForbidden})
		req, _ := http.NewRequest(http.MethodPatch, "/tasks/task-9/complete", nil)
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusForbidden, resp.Code)
	})
}
