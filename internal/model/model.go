// Package model defines the core domain types for the event attendance system.
package model

import (
	"fmt"
	"slices"
	"time"
)

// Event represents a schedulable item with finite capacity.
//
// PriceCents holds the price as an exact decimal in hundredths of the
// currency unit; 29999 means 299.99.
type Event struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Date           time.Time `json:"date"`
	Location       string    `json:"location"`
	Description    string    `json:"description"`
	PriceCents     int64     `json:"price_cents"`
	AvailableSpots int       `json:"available_spots"`
	Category       string    `json:"category"`
}

// IsFull returns true when no spots remain.
func (e *Event) IsFull() bool {
	return e.AvailableSpots <= 0
}

// FormatPrice renders PriceCents as a decimal string, e.g. "299.99".
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// AttendanceStatus is the state of a single attendance record.
type AttendanceStatus string

const (
	StatusRegistered AttendanceStatus = "registered"
	// StatusCheckedIn is reserved; no operation produces it yet.
	StatusCheckedIn AttendanceStatus = "checked_in"
	StatusCancelled AttendanceStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusRegistered, StatusCheckedIn, StatusCancelled:
		return true
	}
	return false
}

// AttendanceRecord is one entry in the per-event attendance history.
type AttendanceRecord struct {
	EventID          int              `json:"event_id"`
	UserID           string           `json:"user_id"`
	RegistrationDate time.Time        `json:"registration_date"`
	Status           AttendanceStatus `json:"status"`
}

// AttendanceMap is the persisted attendance layout: event id to records in
// chronological order.
type AttendanceMap map[int][]AttendanceRecord

// UserSession is the single active user identity held client-side.
//
// PasswordHash holds a bcrypt hash; the plaintext is never stored.
type UserSession struct {
	UserID             string    `json:"user_id"`
	Email              string    `json:"email"`
	FullName           string    `json:"full_name"`
	PasswordHash       string    `json:"password_hash"`
	LastActivity       time.Time `json:"last_activity"`
	RegisteredEventIDs []int     `json:"registered_event_ids"`
}

// IsRegisteredFor reports whether eventID appears in the session's list.
func (s *UserSession) IsRegisteredFor(eventID int) bool {
	return slices.Contains(s.RegisteredEventIDs, eventID)
}

// AddRegisteredEvent appends eventID unless already listed. It returns true
// when the list changed.
func (s *UserSession) AddRegisteredEvent(eventID int) bool {
	if s.IsRegisteredFor(eventID) {
		return false
	}
	s.RegisteredEventIDs = append(s.RegisteredEventIDs, eventID)
	return true
}

// RemoveRegisteredEvent drops every occurrence of eventID.
func (s *UserSession) RemoveRegisteredEvent(eventID int) {
	s.RegisteredEventIDs = slices.DeleteFunc(s.RegisteredEventIDs, func(id int) bool {
		return id == eventID
	})
}

// EventRequest is the payload for creating or updating an event.
type EventRequest struct {
	Name           string    `json:"name"`
	Date           time.Time `json:"date"`
	Location       string    `json:"location"`
	Description    string    `json:"description"`
	PriceCents     int64     `json:"price_cents"`
	AvailableSpots int       `json:"available_spots"`
	Category       string    `json:"category"`
}

// ToEvent converts the request into an Event without an id.
func (r EventRequest) ToEvent() Event {
	return Event{
		Name:           r.Name,
		Date:           r.Date,
		Location:       r.Location,
		Description:    r.Description,
		PriceCents:     r.PriceCents,
		AvailableSpots: r.AvailableSpots,
		Category:       r.Category,
	}
}

// LoginRequest is the registration form submitted to start a session.
type LoginRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	TermsAccepted   bool   `json:"terms_accepted"`
}

// AttendanceRequest is the optional payload for attendance changes.
// An empty UserID means the current session user.
type AttendanceRequest struct {
	UserID string `json:"user_id"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
