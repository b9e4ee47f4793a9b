package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSnoozeDays(t *testing.T) {
	tests := []struct {
		days  int
		valid bool
	}{
		{-1, false},
		{0, false},
		{1, true},
		{7, true},
		{30, true},
		{31, false},
	}

	for _, tt := range tests {
		err := ValidateSnoozeDays(tt.days)
		if tt.valid {
			assert.NoError(t, err, "days=%d", tt.days)
		} else {
			assert.ErrorIs(t, err, ErrSnoozeDaysOutOfRange, "days=%d", tt.days)
		}
	}
}

func TestValidateObjectiveID(t *testing.T) {
	assert.NoError(t, ValidateObjectiveID(1))
	assert.Error(t, ValidateObjectiveID(0))
	assert.Error(t, ValidateObjectiveID(-4))
}

func TestValidateTitle(t *testing.T) {
	assert.NoError(t, ValidateTitle("Read chapter one"))
	assert.Error(t, ValidateTitle("   "))
	assert.Error(t, ValidateTitle(strings.Repeat("x", 201)))
}
