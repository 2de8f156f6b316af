package service

import (
	"errors"

	"github.com/lib/pq"

	"github.com/studyflow/studyplan-api/internal/repository"
	appErrors "github.com/studyflow/studyplan-api/pkg/errors"
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation, which the schedule key (student_id, date) can trip under
// concurrent generation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// mapScheduleWriteError translates storage failures on guarded updates into
// the API error taxonomy.
func mapScheduleWriteError(err error) error {
	if errors.Is(err, repository.ErrStaleVersion) {
		return appErrors.Wrap(err, appErrors.ErrStaleWrite.Code, appErrors.ErrStaleWrite.Status, "schedule was modified concurrently")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store schedule")
}
