package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMissingFieldsError_Message(t *testing.T) {
	tests := []struct {
		fields []string
		want   string
	}{
		{[]string{"email"}, "email is required"},
		{[]string{"email", "password"}, "email and password are required"},
		{[]string{"name", "email", "password"}, "name, email and password are required"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			err := NewMissingFieldsError(tt.fields...)
			assert.Equal(t, tt.want, err.Error())
			assert.Equal(t, tt.fields, err.Fields)
		})
	}
}

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("signup: %w", NewMissingFieldsError("name"))

	assert.True(t, errors.Is(err, ErrorValidation))
	assert.False(t, errors.Is(err, ErrorConflict))

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"name"}, ve.Fields)
}
