package validation

import (
	"errors"
	"strings"
)

// ValidateTitle validates a goal or objective title
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return errors.New("title is required")
	}

	if len(trimmed) > 200 {
		return errors.New("title is too long (max 200 characters)")
	}

	return nil
}
