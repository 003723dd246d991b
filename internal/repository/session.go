package repository

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Shivanand-hulikatti/eventease/internal/kv"
	"github.com/Shivanand-hulikatti/eventease/internal/model"
)

// SessionStore owns the single active user session.
// It is not safe for concurrent use.
type SessionStore struct {
	store  kv.Store
	logger *slog.Logger

	state   loadState
	current *model.UserSession
}

// NewSessionStore constructs a SessionStore backed by store.
func NewSessionStore(store kv.Store, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{store: store, logger: logger}
}

// Current returns a copy of the active session, or nil when nobody is
// logged in. The stored value is read once and cached.
func (s *SessionStore) Current(ctx context.Context) (*model.UserSession, error) {
	if s.state == stateUninitialized {
		session, ok, err := kv.Get[*model.UserSession](ctx, s.store, kv.KeySession)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			s.logger.WarnContext(ctx, "stored session unreadable, treating as logged out",
				slog.String("error", err.Error()))
		}
		if ok {
			s.current = session
		}
		s.state = stateLoaded
	}
	return cloneSession(s.current), nil
}

// SetCurrent persists session and replaces the cached copy.
func (s *SessionStore) SetCurrent(ctx context.Context, session *model.UserSession) error {
	if session == nil {
		return s.Clear(ctx)
	}
	if err := kv.Set(ctx, s.store, kv.KeySession, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.current = cloneSession(session)
	s.state = stateLoaded
	return nil
}

// Clear removes the session from storage and cache.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.store.Remove(ctx, kv.KeySession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.current = nil
	s.state = stateLoaded
	return nil
}

// IsAuthenticated reports whether a session is cached. It does not read
// storage, so it is false until Current or SetCurrent has run.
func (s *SessionStore) IsAuthenticated() bool {
	return s.current != nil
}

func cloneSession(s *model.UserSession) *model.UserSession {
	if s == nil {
		return nil
	}
	c := *s
	c.RegisteredEventIDs = slices.Clone(s.RegisteredEventIDs)
	return &c
}
