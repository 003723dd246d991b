package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotLoggedIn is returned when an operation needs an active session.
	ErrNotLoggedIn = errors.New("user must be logged in")
	// ErrEventNotFound is returned when an event id is absent from the catalog.
	ErrEventNotFound = errors.New("event not found")
	// ErrEventFull is returned when an event has no available spots.
	ErrEventFull = errors.New("event is full")
	// ErrAlreadyRegistered is returned for a duplicate active registration.
	ErrAlreadyRegistered = errors.New("already registered for this event")
	// ErrNoActiveRegistration is returned when there is nothing to cancel.
	ErrNoActiveRegistration = errors.New("no active registration found for this event")
)

// EventNotFoundError carries the id of the missing event.
type EventNotFoundError struct {
	ID int
}

func (e *EventNotFoundError) Error() string {
	return fmt.Sprintf("event with id %d was not found", e.ID)
}

func (e *EventNotFoundError) Unwrap() error {
	return ErrEventNotFound
}

// ValidationError lists every problem found in a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// ErrInvalidCredentials is returned when a login does not match the stored session.
var ErrInvalidCredentials = errors.New("invalid email or password")
