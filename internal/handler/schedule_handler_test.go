package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/studyflow/studyplan-api/internal/dto"
	"github.com/studyflow/studyplan-api/internal/middleware"
	"github.com/studyflow/studyplan-api/internal/models"
	appErrors "github.com/studyflow/studyplan-api/pkg/errors"
)

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func testAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-Test-Student") != "" {
			c.Set(middleware.ContextUserKey, &models.JWTClaims{
				StudentID: c.GetHeader("X-Test-Student"),
			})
		}
		c.Next()
	}
}

func samplePlan() *models.Schedule {
	return &models.Schedule{
		ID:        "sched-1",
		StudentID: "student-1",
		Date:      "2026-03-02",
		Items: models.ScheduleItemList{
			{ID: "item-1", StartTime: "09:00", EndTime: "09:45", Title: "Algebra II", Type: models.ItemLesson, Priority: models.PriorityMedium},
		},
		Status:       models.ScheduleStatusPending,
		TotalMinutes: 45,
		AIGenerated:  true,
		Version:      1,
		GeneratedAt:  time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC),
	}
}

type generatorMock struct {
	req  dto.GenerateScheduleRequest
	err  error
	plan *models.Schedule
}

func (m *generatorMock) Generate(ctx context.Context, studentID string, req dto.GenerateScheduleRequest) (*models.Schedule, error) {
	m.req = req
	if m.err != nil {
		return nil, m.err
	}
	return m.plan, nil
}

type editorMock struct {
	applied bool
	message string
	err     error
	plan    *models.Schedule
}

func (m *editorMock) Edit(ctx context.Context, studentID, date string, req dto.EditScheduleRequest) (*models.Schedule, bool, string, error) {
	if m.err != nil {
		return nil, false, "", m.err
	}
	return m.plan, m.applied, m.message, nil
}

type planReaderMock struct {
	plan    *models.Schedule
	err     error
	deleted string
}

func (m *planReaderMock) Get(ctx context.Context, studentID, date string) (*models.Schedule, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.plan, nil
}

func (m *planReaderMock) List(ctx context.Context, studentID string, query dto.ScheduleQuery) ([]models.Schedule, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []models.Schedule{*m.plan}, nil
}

func (m *planReaderMock) SetItemCompletion(ctx context.Context, studentID, date, itemID string, completed *bool) (*models.Schedule, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.plan, nil
}

func (m *planReaderMock) Delete(ctx context.Context, studentID, date string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = date
	return nil
}

func buildScheduleRouter(gen *generatorMock, ed *editorMock, reader *planReaderMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(testAuth())

	h := NewScheduleHandler(gen, ed, reader)
	router.POST("/schedules/generate", h.Generate)
	router.GET("/schedules", h.List)
	router.GET("/schedules/:date", h.Get)
	router.DELETE("/schedules/:date", h.Delete)
	router.POST("/schedules/:date/edit", h.Edit)
	router.PATCH("/schedules/:date/items/:itemId/complete", h.CompleteItem)
	router.GET("/schedules/:date/export", h.Export)
	return router
}

func TestScheduleHandlerGenerate(t *testing.T) {
	gen := &generatorMock{plan: samplePlan()}
	router := buildScheduleRouter(gen, &editorMock{}, &planReaderMock{plan: samplePlan()})

	t.Run("success", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/schedules/generate", bytes.NewBufferString(`{"date":"2026-03-02","goals":["finish algebra"]}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusCreated, resp.Code)
		require.Contains(t, resp.Body.String(), `"date":"2026-03-02"`)
		require.Equal(t, []string{"finish algebra"}, gen.req.Goals)
	})

	t.Run("unauthorized", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/schedules/generate", bytes.NewBufferString(`{"date":"2026-03-02"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/schedules/generate", bytes.NewBufferString(`{`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("service error mapped", func(t *testing.T) {
		failing := &generatorMock{err: appErrors.Clone(appErrors.ErrConflict, "plan already exists")}
		router := buildScheduleRouter(failing, &editorMock{}, &planReaderMock{plan: samplePlan()})
		req, _ := http.NewRequest(http.MethodPost, "/schedules/generate", bytes.NewBufferString(`{"date":"2026-03-02"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusConflict, resp.Code)
	})
}

func TestScheduleHandlerGet(t *testing.T) {
	router := buildScheduleRouter(&generatorMock{}, &editorMock{}, &planReaderMock{plan: samplePlan()})

	t.Run("success", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/schedules/2026-03-02", nil)
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"id":"sched-1"`)
	})

	t.Run("not found", func(t *testing.T) {
		router := buildScheduleRouter(&generatorMock{}, &editorMock{}, &planReaderMock{err: appErrors.ErrNotFound})
		req, _ := http.NewRequest(http.MethodGet, "/schedules/2026-03-02", nil)
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestScheduleHandlerEdit(t *testing.T) {
	t.Run("applied", func(t *testing.T) {
		router := buildScheduleRouter(&generatorMock{}, &editorMock{applied: true, plan: samplePlan()}, &planReaderMock{plan: samplePlan()})
		req, _ := http.NewRequest(http.MethodPost, "/schedules/2026-03-02/edit", bytes.NewBufferString(`{"command":"move algebra to the evening"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"applied":true`)
	})

	t.Run("rejected command still returns the plan", func(t *testing.T) {
		router := buildScheduleRouter(&generatorMock{}, &editorMock{applied: false, message: "could not understand the command", plan: samplePlan()}, &planReaderMock{plan: samplePlan()})
		req, _ := http.NewRequest(http.MethodPost, "/schedules/2026-03-02/edit", bytes.NewBufferString(`{"command":"gibberish here"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"applied":false`)
		require.Contains(t, resp.Body.String(), "could not understand")
	})

	t.Run("stale version", func(t *testing.T) {
		router := buildScheduleRouter(&generatorMock{}, &editorMock{err: appErrors.ErrStaleWrite}, &planReaderMock{plan: samplePlan()})
		req, _ := http.NewRequest(http.MethodPost, "/schedules/2026-03-02/edit", bytes.NewBufferString(`{"command":"move algebra","version":3}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusConflict, resp.Code)
	})
}

func TestScheduleHandlerCompleteItem(t *testing.T) {
	router := buildScheduleRouter(&generatorMock{}, &editorMock{}, &planReaderMock{plan: samplePlan()})

	t.Run("toggle without body", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPatch, "/schedules/2026-03-02/items/item-1/complete", nil)
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("explicit state", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPatch, "/schedules/2026-03-02/items/item-1/complete", bytes.NewBufferString(`{"completed":true}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
	})
}

func TestScheduleHandlerDelete(t *testing.T) {
	reader := &planReaderMock{plan: samplePlan()}
	router := buildScheduleRouter(&generatorMock{}, &editorMock{}, reader)

	req, _ := http.NewRequest(http.MethodDelete, "/schedules/2026-03-02", nil)
	req.Header.Set("X-Test-Student", "student-1")
	resp := performRequest(router, req)
	require.Equal(t, http.StatusNoContent, resp.Code)
	require.Equal(t, "2026-03-02", reader.deleted)
}

func TestScheduleHandlerExport(t *testing.T) {
	router := buildScheduleRouter(&generatorMock{}, &editorMock{}, &planReaderMock{plan: samplePlan()})

	t.Run("csv default", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/schedules/2026-03-02/export", nil)
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Header().Get("Content-Type"), "text/csv")
		require.Contains(t, resp.Body.String(), "Algebra II")
	})

	t.Run("pdf", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/schedules/2026-03-02/export?format=pdf", nil)
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Header().Get("Content-Type"), "application/pdf")
	})

	t.Run("unknown format", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/schedules/2026-03-02/export?format=xml", nil)
		req.Header.Set("X-Test-Student", "student-1")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
	})
}
