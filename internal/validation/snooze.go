package validation

import (
	"errors"
	"fmt"
)

const (
	MinSnoozeDays = 1
	MaxSnoozeDays = 30
)

var ErrSnoozeDaysOutOfRange = fmt.Errorf("days must be between %d and %d", MinSnoozeDays, MaxSnoozeDays)

// ValidateSnoozeDays validates the snooze length in whole days
func ValidateSnoozeDays(days int) error {
	if days < MinSnoozeDays || days > MaxSnoozeDays {
		return ErrSnoozeDaysOutOfRange
	}

	return nil
}

// ValidateObjectiveID validates an objective id taken from a path or body
func ValidateObjectiveID(id int64) error {
	if id <= 0 {
		return errors.New("objective id must be a positive integer")
	}

	return nil
}
