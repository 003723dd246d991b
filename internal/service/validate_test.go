package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/eventease/internal/model"
)

func validEventRequest() model.EventRequest {
	return model.EventRequest{
		Name:           "Go Meetup",
		Date:           time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Location:       "Library",
		Description:    "Monthly meetup",
		PriceCents:     1500,
		AvailableSpots: 40,
		Category:       "Tech",
	}
}

func TestValidateEvent(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *model.EventRequest)
		wantMsg string
	}{
		{"valid", func(*model.EventRequest) {}, ""},
		{"blank name", func(r *model.EventRequest) { r.Name = "   " }, "name is required"},
		{"long name", func(r *model.EventRequest) { r.Name = strings.Repeat("a", 101) }, "name is too long"},
		{"missing date", func(r *model.EventRequest) { r.Date = time.Time{} }, "date is required"},
		{"long location", func(r *model.EventRequest) { r.Location = strings.Repeat("a", 201) }, "location is too long"},
		{"missing description", func(r *model.EventRequest) { r.Description = "" }, "description is required"},
		{"free", func(r *model.EventRequest) { r.PriceCents = 0 }, "price must be between"},
		{"too expensive", func(r *model.EventRequest) { r.PriceCents = 1_000_001 }, "price must be between"},
		{"no spots", func(r *model.EventRequest) { r.AvailableSpots = 0 }, "available spots must be between"},
		{"too many spots", func(r *model.EventRequest) { r.AvailableSpots = 1001 }, "available spots must be between"},
		{"missing category", func(r *model.EventRequest) { r.Category = "" }, "category is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validEventRequest()
			tt.mutate(&req)
			err := ValidateEvent(&req)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			var verr *model.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateEvent_CollectsEveryProblem(t *testing.T) {
	err := ValidateEvent(&model.EventRequest{})
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Problems, 7)
}

func TestValidateEvent_TrimsFields(t *testing.T) {
	req := validEventRequest()
	req.Name = "  Go Meetup  "
	require.NoError(t, ValidateEvent(&req))
	require.Equal(t, "Go Meetup", req.Name)
}

func validLogin() model.LoginRequest {
	return model.LoginRequest{
		FullName:        "Ada Lovelace",
		Email:           "Ada@Example.com",
		PhoneNumber:     "+447700900123",
		Password:        "Secr3t!pass",
		ConfirmPassword: "Secr3t!pass",
		TermsAccepted:   true,
	}
}

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *model.LoginRequest)
		wantMsg string
	}{
		{"valid", func(*model.LoginRequest) {}, ""},
		{"missing name", func(r *model.LoginRequest) { r.FullName = "" }, "full name is required"},
		{"digits in name", func(r *model.LoginRequest) { r.FullName = "Ada 2" }, "letters and spaces"},
		{"bad email", func(r *model.LoginRequest) { r.Email = "ada@" }, "invalid email address"},
		{"email without dot", func(r *model.LoginRequest) { r.Email = "ada@localhost" }, "invalid email address"},
		{"display name email", func(r *model.LoginRequest) { r.Email = "Ada <ada@example.com>" }, "invalid email address"},
		{"bad phone", func(r *model.LoginRequest) { r.PhoneNumber = "0123" }, "invalid phone number"},
		{"short password", func(r *model.LoginRequest) { r.Password, r.ConfirmPassword = "Ab1!", "Ab1!" }, "between 8 and 100"},
		{"no special", func(r *model.LoginRequest) { r.Password, r.ConfirmPassword = "Secr3tpass", "Secr3tpass" }, "at least one uppercase"},
		{"unsupported char", func(r *model.LoginRequest) { r.Password, r.ConfirmPassword = "Secr3t!pass#", "Secr3t!pass#" }, "unsupported character"},
		{"mismatch", func(r *model.LoginRequest) { r.ConfirmPassword = "other" }, "passwords do not match"},
		{"terms", func(r *model.LoginRequest) { r.TermsAccepted = false }, "terms must be accepted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validLogin()
			tt.mutate(&req)
			err := ValidateLogin(&req)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				require.Equal(t, "ada@example.com", req.Email)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
