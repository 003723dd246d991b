// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the catalog, ledger and account services.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/eventease/internal/model"
	"github.com/Shivanand-hulikatti/eventease/internal/service"
)

// Catalog is the event CRUD surface.
type Catalog interface {
	List(ctx context.Context) ([]model.Event, error)
	GetByID(ctx context.Context, id int) (*model.Event, error)
	Create(ctx context.Context, event model.Event) (*model.Event, error)
	Update(ctx context.Context, id int, event model.Event) (*model.Event, error)
	Delete(ctx context.Context, id int) error
}

// Ledger is the attendance surface.
type Ledger interface {
	Register(ctx context.Context, eventID int, userID string) (*model.AttendanceRecord, error)
	Unregister(ctx context.Context, eventID int, userID string) (*model.AttendanceRecord, error)
	UserAttendance(ctx context.Context, userID string) ([]model.AttendanceRecord, error)
	EventAttendance(ctx context.Context, eventID int) ([]model.AttendanceRecord, error)
	RepairSession(ctx context.Context) (*model.UserSession, error)
}

// Accounts is the session lifecycle surface.
type Accounts interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.UserSession, error)
	Current(ctx context.Context) (*model.UserSession, error)
	Logout(ctx context.Context) error
}

// EventHandler holds all HTTP handlers for the attendance API.
type EventHandler struct {
	catalog  Catalog
	ledger   Ledger
	accounts Accounts
	logger   *slog.Logger
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(catalog Catalog, ledger Ledger, accounts Accounts, logger *slog.Logger) *EventHandler {
	return &EventHandler{catalog: catalog, ledger: ledger, accounts: accounts, logger: logger}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

// decodeJSON decodes the body into dst. An empty body leaves dst untouched
// when allowEmpty is set.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if allowEmpty && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func eventIDParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// writeServiceError maps domain errors to HTTP statuses. Anything unknown is
// logged and reported as 500.
func (h *EventHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *model.ValidationError
	var nf *model.EventNotFoundError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, model.ErrNotLoggedIn):
		writeError(w, http.StatusUnauthorized, "you must be logged in")
	case errors.Is(err, model.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, nf.Error())
	case errors.Is(err, model.ErrEventNotFound):
		writeError(w, http.StatusNotFound, "event not found")
	case errors.Is(err, model.ErrEventFull):
		writeError(w, http.StatusConflict, "event is full")
	case errors.Is(err, model.ErrAlreadyRegistered):
		writeError(w, http.StatusConflict, "you are already registered for this event")
	case errors.Is(err, model.ErrNoActiveRegistration):
		writeError(w, http.StatusConflict, "no active registration found for this event")
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// ─── Events ───────────────────────────────────────────────────────────────────

// ListEvents handles GET /events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.catalog.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	event, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.EventRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := service.ValidateEvent(&req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	event, err := h.catalog.Create(r.Context(), req.ToEvent())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// UpdateEvent handles PUT /events/{id}
// Every field is overwritten; the id is immutable.
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	var req model.EventRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := service.ValidateEvent(&req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	event, err := h.catalog.Update(r.Context(), id, req.ToEvent())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /events/{id}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	if err := h.catalog.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Attendance ───────────────────────────────────────────────────────────────

// attendanceTarget resolves the event id and the user the change applies to.
// Without an explicit user_id the current session user is used.
func (h *EventHandler) attendanceTarget(w http.ResponseWriter, r *http.Request) (int, string, bool) {
	id, ok := eventIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return 0, "", false
	}
	var req model.AttendanceRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return 0, "", false
	}
	if req.UserID != "" {
		return id, req.UserID, true
	}
	session, err := h.accounts.Current(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return 0, "", false
	}
	return id, session.UserID, true
}

// Register handles POST /events/{id}/attendance
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	id, userID, ok := h.attendanceTarget(w, r)
	if !ok {
		return
	}
	record, err := h.ledger.Register(r.Context(), id, userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// Unregister handles DELETE /events/{id}/attendance
func (h *EventHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	id, userID, ok := h.attendanceTarget(w, r)
	if !ok {
		return
	}
	record, err := h.ledger.Unregister(r.Context(), id, userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// EventAttendance handles GET /events/{id}/attendance
func (h *EventHandler) EventAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	records, err := h.ledger.EventAttendance(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// UserAttendance handles GET /users/{userID}/attendance
func (h *EventHandler) UserAttendance(w http.ResponseWriter, r *http.Request) {
	records, err := h.ledger.UserAttendance(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// ─── Session ──────────────────────────────────────────────────────────────────

// sessionView is the session as returned to clients; the password hash stays
// server side.
type sessionView struct {
	UserID             string `json:"user_id"`
	Email              string `json:"email"`
	FullName           string `json:"full_name"`
	LastActivity       string `json:"last_activity"`
	RegisteredEventIDs []int  `json:"registered_event_ids"`
}

func newSessionView(s *model.UserSession) sessionView {
	ids := s.RegisteredEventIDs
	if ids == nil {
		ids = []int{}
	}
	return sessionView{
		UserID:             s.UserID,
		Email:              s.Email,
		FullName:           s.FullName,
		LastActivity:       s.LastActivity.UTC().Format(time.RFC3339),
		RegisteredEventIDs: ids,
	}
}

// Login handles POST /session
func (h *EventHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	session, err := h.accounts.Login(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(session))
}

// CurrentSession handles GET /session
func (h *EventHandler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.accounts.Current(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(session))
}

// Logout handles DELETE /session
func (h *EventHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Logout(r.Context()); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RepairSession handles POST /session/repair
func (h *EventHandler) RepairSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.ledger.RepairSession(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(session))
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
