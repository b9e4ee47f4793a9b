package service

import (
	"errors"

	"github.com/toucann/taskengine/internal/validation"
)

var (
	ErrObjectiveNotFound = errors.New("objective not found")
	ErrGoalNotFound      = errors.New("goal not found")
	ErrGoalInactive      = errors.New("goal is not active")
	ErrInvalidSnoozeDays = validation.ErrSnoozeDaysOutOfRange
)

// IsNotFound reports errors that mean the requested objective or goal is not available to the user.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrObjectiveNotFound) ||
		errors.Is(err, ErrGoalNotFound) ||
		errors.Is(err, ErrGoalInactive)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidSnoozeDays)
}
