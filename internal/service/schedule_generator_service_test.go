package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyflow/studyplan-api/internal/dto"
	"github.com/studyflow/studyplan-api/internal/models"
)

type generatorFixture struct {
	store   *stubScheduleStore
	tasks   *stubTaskSource
	courses *stubCourses
	ai      *stubGenerator
	service *ScheduleGeneratorService
}

func newGeneratorFixture(t *testing.T, ai *stubGenerator) *generatorFixture {
	t.Helper()
	store := newStubScheduleStore()
	tasks := &stubTaskSource{
		tasks: []models.RecurringTask{
			{
				ID:              "task-1",
				StudentID:       "student-1",
				Title:           "Gym",
				DurationMinutes: 60,
				PreferredTime:   models.TimeEvening,
				Recurrence:      models.RecurWeekdays,
				StartDate:       "2026-03-01",
				AutoSchedule:    true,
			},
		},
	}
	courses := &stubCourses{
		lessons: []models.PendingLesson{
			{CourseID: "c1", LessonID: "l1", CourseTitle: "Algebra", LessonTitle: "Linear equations", EstimatedMinutes: 45},
		},
		assignments: []models.PendingAssignment{
			{CourseID: "c1", AssignmentID: "a1", CourseTitle: "Algebra", Title: "Problem set 3"},
		},
	}

	svc := NewScheduleGeneratorService(
		store,
		tasks,
		&stubConstraints{},
		&stubPrefs{prefs: &models.StudyPreferences{
			SessionMinutes: 45, BreakMinutes: 10,
			LongBreakMinutes: 30, LongBreakEvery: 4,
			DayStart: "08:00", DayEnd: "22:00",
		}},
		courses,
		ai,
		nil,
		nil,
		nil,
		GeneratorConfig{AIEnabled: ai != nil},
	)
	return &generatorFixture{store: store, tasks: tasks, courses: courses, ai: ai, service: svc}
}

func TestGenerateUsesModelPlan(t *testing.T) {
	ai := &stubGenerator{response: "```json\n" + `[
		{"startTime":"09:00","endTime":"09:45","title":"Linear equations","type":"lesson","courseId":"c1","lessonId":"l1"},
		{"startTime":"09:45","endTime":"09:55","title":"Break","type":"break"},
		{"startTime":"10:00","endTime":"10:45","title":"Problem set 3","type":"assignment","courseId":"c1","assignmentId":"a1"},
		{"startTime":"18:00","endTime":"19:00","title":"Gym","type":"personal","taskId":"task-1"}
	]` + "\n```"}
	fx := newGeneratorFixture(t, ai)

	sched, err := fx.service.Generate(context.Background(), "student-1", dto.GenerateScheduleRequest{Date: "2026-03-02"})
	require.NoError(t, err)
	assert.True(t, sched.AIGenerated)
	assert.Len(t, sched.Items, 4)
	assert.Equal(t, models.ScheduleStatusPending, sched.Status)
	assert.Equal(t, 45+45+60, sched.TotalMinutes)
	assert.Equal(t, "2026-03-02", fx.tasks.lastScheduled["task-1"])
}

func TestGenerateDropsFabricatedReferences(t *testing.T) {
	ai := &stubGenerator{response: `[
		{"startTime":"09:00","endTime":"09:45","title":"Linear equations","type":"lesson","lessonId":"l1"},
		{"startTime":"10:00","endTime":"10:45","title":"Made-up lesson","type":"lesson","lessonId":"ghost"},
		{"startTime":"11:00","endTime":"11:45","title":"Linear equations again","type":"lesson","lessonId":"l1"},
		{"startTime":"12:00","endTime":"12:30","title":"Fake chore","type":"personal","taskId":"ghost-task"},
		{"startTime":"13:00","endTime":"13:45","title":"Mystery lesson","type":"lesson"},
		{"startTime":"14:00","endTime":"14:30","title":"Mystery homework","type":"assignment"},
		{"startTime":"18:00","endTime":"19:00","title":"Gym","type":"personal","taskId":"task-1"}
	]`}
	fx := newGeneratorFixture(t, ai)

	sched, err := fx.service.Generate(context.Background(), "student-1", dto.GenerateScheduleRequest{Date: "2026-03-02"})
	require.NoError(t, err)
	require.True(t, sched.AIGenerated)

	var lessonRefs, taskRefs int
	for _, item := range sched.Items {
		switch item.Type {
		case models.ItemLesson, models.ItemReview:
			assert.NotEmpty(t, item.LessonID, "lesson item %q without a reference", item.Title)
		case models.ItemAssignment:
			assert.NotEmpty(t, item.AssignmentID, "assignment item %q without a reference", item.Title)
		}
		if item.LessonID != "" {
			assert.Equal(t, "l1", item.LessonID)
			lessonRefs++
		}
		if item.TaskID != "" {
			assert.Equal(t, "task-1", item.TaskID)
			taskRefs++
		}
	}
	assert.Equal(t, 1, lessonRefs, "duplicate and fabricated lesson refs must be dropped")
	assert.Equal(t, 1, taskRefs)
}

func TestGenerateDropsUnreferencedWorkWhenNothingPending(t *testing.T) {
	ai := &stubGenerator{response: `[
		{"startTime":"09:00","endTime":"09:45","title":"General study","type":"lesson"},
		{"startTime":"10:00","endTime":"10:45","title":"Homework","type":"assignment"},
		{"startTime":"18:00","endTime":"19:00","title":"Gym","type":"personal","taskId":"task-1"}
	]`}
	fx := newGeneratorFixture(t, ai)
	fx.courses.lessons = nil
	fx.courses.assignments = nil

	sched, err := fx.service.Generate(context.Background(), "student-1", dto.GenerateScheduleRequest{Date: "2026-03-02"})
	require.NoError(t, err)
	require.True(t, sched.AIGenerated)

	for _, item := range sched.Items {
		assert.NotEqual(t, models.ItemLesson, item.Type, "item %q", item.Title)
		assert.NotEqual(t, models.ItemReview, item.Type, "item %q", item.Title)
		assert.NotEqual(t, models.ItemAssignment, item.Type, "item %q", item.Title)
	}
}

func TestGenerateResolvesOverlappingModelItems(t *testing.T) {
	ai := &stubGenerator{response: `[
		{"startTime":"09:00","endTime":"10:00","title":"Morning walk","type":"personal"},
		{"startTime":"09:30","endTime":"10:30","title":"Call with mentor","type":"event"},
		{"startTime":"18:00","endTime":"19:00","title":"Gym","type":"personal","taskId":"task-1"}
	]`}
	fx := newGeneratorFixture(t, ai)

	sched, err := fx.service.Generate(context.Background(), "student-1", dto.GenerateScheduleRequest{Date: "2026-03-02"})
	require.NoError(t, err)
	require.True(t, sched.AIGenerated)
	assertNoOverlaps(t, sched.Items)

	byTitle := map[string]models.ScheduleItem{}
	for _, item := range sched.Items {
		byTitle[item.Title] = item
	}
	require.Contains(t, byTitle, "Morning walk")
	require.Contains(t, byTitle, "Call with mentor")
	// The colliding call is re-slotted to the first free window.
	assert.Equal(t, "08:00", byTitle["Call with mentor"].StartTime)
	assert.Equal(t, "09:00", byTitle["Call with mentor"].EndTime)
}

func TestGenerateRepairsCommitmentOnFullDay(t *testing.T) {
	ai := &stubGenerator{response: `[
		{"startTime":"08:00","endTime":"22:00","title":"Exam marathon","type":"event"}
	]`}
	fx := newGeneratorFixture(t, ai)

	sched, err := fx.service.Generate(context.Background(), "student-1", dto.GenerateScheduleRequest{Date: "2026-03-02"})
	require.NoError(t, err)
	require.True(t, sched.AIGenerated)

	var gyms []models.ScheduleItem
	for _, item := range sched.Items {
		if item.TaskID == "task-1" {
			gyms = append(gyms, item)
		}
	}
	require.Len(t, gyms, 1, "a full day must still carry the commitment")
	assert.Equal(t, "18:00", gyms[0].StartTime)
	assert.Equal(t, "19:00", gyms[0].EndTime)
}

func TestGenerateRepairsSkippedCommitment(t *testing.T) {
	ai := &stubGenerator{response: `[
		{"startTime":"09:00","endTime":"09:45","title":"Linear equations","type":"lesson","lessonId":"l1"}
	]`}
	fx := newGeneratorFixture(t, ai)

	sched, err := fx.service.Generate(context.Background(), "student-1", dto.GenerateScheduleRequest{Date: "2026-03-02"})
	require.NoError(t, err)
	require.True(t, sched.AIGenerated)

	var gym *models.ScheduleItem
	for i := range sched.Items {
		if sched.Items[i].TaskID == "task-1" {
			gym = &sched.Items[i]
		}
	}
	require.NotNil(t, gym, "skipped commitment must be repaired back in")
	iv, err := gym.Interval()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, iv.Start, clock(t, "17:00"))
	assert.Equal(t, 60, iv.Duration())
}

func TestGenerateFallsBackOnModelFailure(t *testing.T) {
	ai := &stubGenerator{err: fmt.Errorf("connection refused")}
	fx := newGeneratorFixture(t, ai)

	sched, err := fx.service.Generate(context.Background(), "student-1", dto.GenerateScheduleRequest{Date: "2026-03-02"})
	require.NoError(t, err)
	assert.False(t, sched.AIGenerated)
	assert.NotEmpty(t, sched.Items)
}

func TestGenerateFallsBackOnGarbageOutput(t *testing.T) {
	ai := &stubGenerator{response: "I cannot plan today, sorry."}
	fx := newGeneratorFixture(t, ai)

	sched, err := fx.service.Generate(context.Background(), "student-1", dto.GenerateScheduleRequest{Date: "2026-03-02"})
	require.NoError(t, err)
	assert.False(t, sched.AIGenerated)
	assert.NotEmpty(t, sched.Items)
}

func TestGenerateIsIdempotentWithoutRegenerate(t *testing.T) {
	fx := newGeneratorFixture(t, nil)

	first, err := fx.service.Generate(context.Background(), "student-1", dto.GenerateScheduleRequest{Date: "2026-03-02"})
	require.NoError(t, err)

	second, err := fx.service.Generate(context.Background(), "student-1", dto.GenerateScheduleRequest{Date: "2026-03-02"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	require.Equal(t, len(first.Items), len(second.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].ID, second.Items[i].ID)
	}
}

func TestGenerateRegenerateRebuildsInPlace(t *testing.T) {
	fx := newGeneratorFixture(t, nil)

	first, err := fx.service.Generate(context.Background(), "student-1", dto.GenerateScheduleRequest{Date: "2026-03-02"})
	require.NoError(t, err)

	second, err := fx.service.Generate(context.Background(), "student-1", dto.GenerateScheduleRequest{Date: "2026-03-02", Regenerate: true})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Greater(t, second.Version, first.Version)
	assert.Equal(t, 0, second.CompletedMinutes)
}

func TestGenerateRejectsBadDate(t *testing.T) {
	fx := newGeneratorFixture(t, nil)

	_, err := fx.service.Generate(context.Background(), "student-1", dto.GenerateScheduleRequest{Date: "03/02/2026"})
	assert.Error(t, err)
}
