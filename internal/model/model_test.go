package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{29999, "299.99"},
		{1, "0.01"},
		{100, "1.00"},
		{0, "0.00"},
		{-1000, "-10.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.cents))
	}
}

func TestUserSession_RegisteredEvents(t *testing.T) {
	s := &UserSession{UserID: "u1"}

	require.True(t, s.AddRegisteredEvent(1))
	require.False(t, s.AddRegisteredEvent(1))
	require.True(t, s.AddRegisteredEvent(2))
	require.Equal(t, []int{1, 2}, s.RegisteredEventIDs)
	require.True(t, s.IsRegisteredFor(2))

	s.RemoveRegisteredEvent(1)
	require.Equal(t, []int{2}, s.RegisteredEventIDs)
	require.False(t, s.IsRegisteredFor(1))
}

func TestEventNotFoundError(t *testing.T) {
	var err error = &EventNotFoundError{ID: 99}

	require.True(t, errors.Is(err, ErrEventNotFound))
	var nf *EventNotFoundError
	require.True(t, errors.As(err, &nf))
	require.Equal(t, 99, nf.ID)
	require.Contains(t, err.Error(), "99")
}

func TestAttendanceStatus_Valid(t *testing.T) {
	assert.True(t, StatusRegistered.Valid())
	assert.True(t, StatusCheckedIn.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, AttendanceStatus("pending").Valid())
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Problems: []string{"name is required", "category is required"}}
	require.Equal(t, "name is required; category is required", err.Error())
}
