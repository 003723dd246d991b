// Package service implements the business operations of the system: the
// attendance ledger that keeps capacity, attendance history and the session
// consistent, plus account and validation rules used by the HTTP layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/Shivanand-hulikatti/eventease/internal/kv"
	"github.com/Shivanand-hulikatti/eventease/internal/model"
)

// EventLookup is the part of the catalog the ledger depends on.
type EventLookup interface {
	GetByID(ctx context.Context, id int) (*model.Event, error)
	Update(ctx context.Context, id int, event model.Event) (*model.Event, error)
}

// SessionAccessor is the part of the session store the ledger depends on.
type SessionAccessor interface {
	Current(ctx context.Context) (*model.UserSession, error)
	SetCurrent(ctx context.Context, session *model.UserSession) error
}

type ledgerState int

const (
	ledgerUninitialized ledgerState = iota
	ledgerLoaded
)

// AttendanceLedger owns the attendance history and reconciles event capacity
// and session membership with it. It assumes a single caller at a time.
type AttendanceLedger struct {
	store    kv.Store
	events   EventLookup
	sessions SessionAccessor
	logger   *slog.Logger
	now      func() time.Time

	state   ledgerState
	records model.AttendanceMap
}

// NewAttendanceLedger constructs a ledger. Call Reconcile once at startup.
func NewAttendanceLedger(store kv.Store, events EventLookup, sessions SessionAccessor, logger *slog.Logger) *AttendanceLedger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceLedger{
		store:    store,
		events:   events,
		sessions: sessions,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		records:  model.AttendanceMap{},
	}
}

// Loaded reports whether Reconcile has run.
func (l *AttendanceLedger) Loaded() bool {
	return l.state == ledgerLoaded
}

// Reconcile loads the persisted records once. When storage holds none, the
// current session's registered events are backfilled as Registered records.
// Any failure while loading leaves the ledger empty; callers cannot tell a
// fresh install from unreadable storage. Later calls are no-ops.
func (l *AttendanceLedger) Reconcile(ctx context.Context) error {
	if l.state == ledgerLoaded {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	records, err := l.load(ctx)
	if err != nil {
		l.logger.WarnContext(ctx, "attendance storage unreadable, starting empty",
			slog.String("error", err.Error()))
		records = model.AttendanceMap{}
	}
	l.records = records
	l.state = ledgerLoaded
	return nil
}

func (l *AttendanceLedger) load(ctx context.Context) (model.AttendanceMap, error) {
	stored, ok, err := kv.Get[model.AttendanceMap](ctx, l.store, kv.KeyAttendance)
	if err != nil {
		return nil, err
	}
	if ok && stored != nil {
		return stored, nil
	}

	records := model.AttendanceMap{}
	session, err := l.sessions.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("backfill: %w", err)
	}
	if session == nil || len(session.RegisteredEventIDs) == 0 {
		return records, nil
	}
	for _, eventID := range session.RegisteredEventIDs {
		if registeredIndex(records[eventID], session.UserID) >= 0 {
			continue
		}
		records[eventID] = append(records[eventID], l.newRecord(eventID, session.UserID))
	}
	if err := kv.Set(ctx, l.store, kv.KeyAttendance, records); err != nil {
		return nil, fmt.Errorf("backfill: %w", err)
	}
	l.logger.InfoContext(ctx, "attendance backfilled from session",
		slog.String("user_id", session.UserID),
		slog.Int("events", len(records)))
	return records, nil
}

func (l *AttendanceLedger) newRecord(eventID int, userID string) model.AttendanceRecord {
	return model.AttendanceRecord{
		EventID:          eventID,
		UserID:           userID,
		RegistrationDate: l.now(),
		Status:           model.StatusRegistered,
	}
}

func (l *AttendanceLedger) save(ctx context.Context) error {
	if err := kv.Set(ctx, l.store, kv.KeyAttendance, l.records); err != nil {
		return fmt.Errorf("save attendance: %w", err)
	}
	return nil
}

// registeredIndex returns the index of the Registered record for userID, or -1.
func registeredIndex(records []model.AttendanceRecord, userID string) int {
	return slices.IndexFunc(records, func(r model.AttendanceRecord) bool {
		return r.UserID == userID && r.Status == model.StatusRegistered
	})
}

// requireSession returns the active session or model.ErrNotLoggedIn.
func (l *AttendanceLedger) requireSession(ctx context.Context) (*model.UserSession, error) {
	session, err := l.sessions.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, model.ErrNotLoggedIn
	}
	return session, nil
}

func (l *AttendanceLedger) lookupEvent(ctx context.Context, eventID int) (*model.Event, error) {
	event, err := l.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, model.ErrEventNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// Register records a new Registered entry for (eventID, userID), takes one
// spot from the event and adds the event to the session when userID is the
// session user. Capacity is persisted before the record map, and the record
// map before the session; a failure aborts the remaining steps without
// undoing earlier ones.
func (l *AttendanceLedger) Register(ctx context.Context, eventID int, userID string) (*model.AttendanceRecord, error) {
	if err := l.Reconcile(ctx); err != nil {
		return nil, err
	}
	session, err := l.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	event, err := l.lookupEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsFull() {
		return nil, model.ErrEventFull
	}
	if registeredIndex(l.records[eventID], userID) >= 0 {
		return nil, model.ErrAlreadyRegistered
	}

	record := l.newRecord(eventID, userID)
	l.records[eventID] = append(l.records[eventID], record)

	event.AvailableSpots--
	if _, err := l.events.Update(ctx, event.ID, *event); err != nil {
		return nil, fmt.Errorf("update event capacity: %w", err)
	}
	if err := l.save(ctx); err != nil {
		return nil, err
	}
	if session.UserID == userID && session.AddRegisteredEvent(eventID) {
		if err := l.sessions.SetCurrent(ctx, session); err != nil {
			return nil, fmt.Errorf("update session: %w", err)
		}
	}

	l.logger.DebugContext(ctx, "attendance registered",
		slog.Int("event_id", eventID),
		slog.String("user_id", userID),
		slog.Int("available_spots", event.AvailableSpots))
	return &record, nil
}

// Unregister cancels the Registered entry for (eventID, userID), gives the
// spot back and drops the event from the session.
//
// When the session lists eventID but the ledger has no Registered entry for
// the session user, a Registered entry is appended first so the
// cancellation can proceed. Earlier entries are left untouched.
func (l *AttendanceLedger) Unregister(ctx context.Context, eventID int, userID string) (*model.AttendanceRecord, error) {
	if err := l.Reconcile(ctx); err != nil {
		return nil, err
	}
	session, err := l.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	event, err := l.lookupEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	sessionUser := session.UserID == userID
	if sessionUser && session.IsRegisteredFor(eventID) && registeredIndex(l.records[eventID], userID) < 0 {
		l.records[eventID] = append(l.records[eventID], l.newRecord(eventID, userID))
		l.logger.InfoContext(ctx, "attendance self-repaired from session",
			slog.Int("event_id", eventID),
			slog.String("user_id", userID))
	}

	i := registeredIndex(l.records[eventID], userID)
	if i < 0 {
		return nil, model.ErrNoActiveRegistration
	}
	l.records[eventID][i].Status = model.StatusCancelled
	record := l.records[eventID][i]

	event.AvailableSpots++
	if _, err := l.events.Update(ctx, event.ID, *event); err != nil {
		return nil, fmt.Errorf("update event capacity: %w", err)
	}
	if err := l.save(ctx); err != nil {
		return nil, err
	}
	if sessionUser {
		session.RemoveRegisteredEvent(eventID)
		if err := l.sessions.SetCurrent(ctx, session); err != nil {
			return nil, fmt.Errorf("update session: %w", err)
		}
	}

	l.logger.DebugContext(ctx, "attendance cancelled",
		slog.Int("event_id", eventID),
		slog.String("user_id", userID),
		slog.Int("available_spots", event.AvailableSpots))
	return &record, nil
}

// UserAttendance returns every record of userID, any status, ordered by
// event id and then chronologically.
func (l *AttendanceLedger) UserAttendance(ctx context.Context, userID string) ([]model.AttendanceRecord, error) {
	if err := l.Reconcile(ctx); err != nil {
		return nil, err
	}
	result := []model.AttendanceRecord{}
	for _, eventID := range slices.Sorted(maps.Keys(l.records)) {
		for _, r := range l.records[eventID] {
			if r.UserID == userID {
				result = append(result, r)
			}
		}
	}
	return result, nil
}

// EventAttendance returns the chronological records of eventID. The result
// is empty, not nil, when the event has none.
func (l *AttendanceLedger) EventAttendance(ctx context.Context, eventID int) ([]model.AttendanceRecord, error) {
	if err := l.Reconcile(ctx); err != nil {
		return nil, err
	}
	records := slices.Clone(l.records[eventID])
	if records == nil {
		records = []model.AttendanceRecord{}
	}
	return records, nil
}

// RepairSession rewrites the session's registered event ids to exactly the
// events holding a Registered record for the session user. Ids already
// listed keep their position; missing ones are appended in ascending order.
// The session is only written when it changes.
func (l *AttendanceLedger) RepairSession(ctx context.Context) (*model.UserSession, error) {
	if err := l.Reconcile(ctx); err != nil {
		return nil, err
	}
	session, err := l.requireSession(ctx)
	if err != nil {
		return nil, err
	}

	active := map[int]bool{}
	for eventID, records := range l.records {
		if registeredIndex(records, session.UserID) >= 0 {
			active[eventID] = true
		}
	}

	repaired := make([]int, 0, len(active))
	seen := map[int]bool{}
	for _, id := range session.RegisteredEventIDs {
		if active[id] && !seen[id] {
			repaired = append(repaired, id)
			seen[id] = true
		}
	}
	var missing []int
	for id := range active {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	slices.Sort(missing)
	repaired = append(repaired, missing...)

	if slices.Equal(repaired, session.RegisteredEventIDs) {
		return session, nil
	}
	l.logger.InfoContext(ctx, "session registrations repaired",
		slog.String("user_id", session.UserID),
		slog.Any("before", session.RegisteredEventIDs),
		slog.Any("after", repaired))
	session.RegisteredEventIDs = repaired
	if err := l.sessions.SetCurrent(ctx, session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	return session, nil
}
