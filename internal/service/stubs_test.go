package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/studyflow/studyplan-api/internal/models"
	"github.com/studyflow/studyplan-api/internal/repository"
)

type stubScheduleStore struct {
	mu        sync.Mutex
	schedules map[string]*models.Schedule
	failStale bool
}

func newStubScheduleStore() *stubScheduleStore {
	return &stubScheduleStore{schedules: map[string]*models.Schedule{}}
}

func scheduleStoreKey(studentID, date string) string {
	return studentID + "|" + date
}

func (s *stubScheduleStore) FindByStudentDate(_ context.Context, studentID, date string) (*models.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sched, ok := s.schedules[scheduleStoreKey(studentID, date)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *sched
	return &clone, nil
}

func (s *stubScheduleStore) ListByStudentRange(_ context.Context, studentID, from, to string) ([]models.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Schedule
	for _, sched := range s.schedules {
		if sched.StudentID == studentID && sched.Date >= from && sched.Date <= to {
			out = append(out, *sched)
		}
	}
	return out, nil
}

func (s *stubScheduleStore) Create(_ context.Context, sched *models.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := scheduleStoreKey(sched.StudentID, sched.Date)
	if _, exists := s.schedules[key]; exists {
		return fmt.Errorf("duplicate schedule")
	}
	if sched.ID == "" {
		sched.ID = "sched-" + sched.Date
	}
	if sched.Version == 0 {
		sched.Version = 1
	}
	clone := *sched
	s.schedules[key] = &clone
	return nil
}

func (s *stubScheduleStore) Update(_ context.Context, sched *models.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failStale {
		return repository.ErrStaleVersion
	}
	key := scheduleStoreKey(sched.StudentID, sched.Date)
	sched.Version++
	clone := *sched
	s.schedules[key] = &clone
	return nil
}

func (s *stubScheduleStore) Delete(_ context.Context, studentID, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := scheduleStoreKey(studentID, date)
	if _, ok := s.schedules[key]; !ok {
		return false, nil
	}
	delete(s.schedules, key)
	return true, nil
}

type stubTaskSource struct {
	tasks         []models.RecurringTask
	lastScheduled map[string]string
}

func (s *stubTaskSource) ListActiveByStudent(_ context.Context, studentID string) ([]models.RecurringTask, error) {
	var out []models.RecurringTask
	for _, t := range s.tasks {
		if t.StudentID == studentID && !t.Archived {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubTaskSource) ListAutoScheduleStudentIDs(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var ids []string
	for _, t := range s.tasks {
		if t.AutoSchedule && !t.Archived && !seen[t.StudentID] {
			seen[t.StudentID] = true
			ids = append(ids, t.StudentID)
		}
	}
	return ids, nil
}

func (s *stubTaskSource) UpdateLastScheduled(_ context.Context, id, date string) error {
	if s.lastScheduled == nil {
		s.lastScheduled = map[string]string{}
	}
	s.lastScheduled[id] = date
	return nil
}

type stubConstraints struct {
	constraints []models.Constraint
}

func (s *stubConstraints) ListByStudent(_ context.Context, studentID string) ([]models.Constraint, error) {
	var out []models.Constraint
	for _, c := range s.constraints {
		if c.StudentID == studentID {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubPrefs struct {
	prefs *models.StudyPreferences
}

func (s *stubPrefs) GetByStudent(_ context.Context, studentID string) (*models.StudyPreferences, error) {
	if s.prefs == nil {
		return nil, sql.ErrNoRows
	}
	clone := *s.prefs
	clone.StudentID = studentID
	return &clone, nil
}

type stubCourses struct {
	lessons     []models.PendingLesson
	assignments []models.PendingAssignment
}

func (s *stubCourses) ListPendingLessons(_ context.Context, _ string, limit int) ([]models.PendingLesson, error) {
	if len(s.lessons) > limit {
		return s.lessons[:limit], nil
	}
	return s.lessons, nil
}

func (s *stubCourses) ListPendingAssignments(_ context.Context, _ string, limit int) ([]models.PendingAssignment, error) {
	if len(s.assignments) > limit {
		return s.assignments[:limit], nil
	}
	return s.assignments, nil
}

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (s *stubGenerator) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}
