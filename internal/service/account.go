package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Shivanand-hulikatti/eventease/internal/model"
)

// SessionManager is the session store surface the account service uses.
type SessionManager interface {
	SessionAccessor
	Clear(ctx context.Context) error
}

// AccountService starts and ends the client's single session.
type AccountService struct {
	sessions   SessionManager
	bcryptCost int
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// NewAccountService constructs an AccountService. cost is the bcrypt cost.
func NewAccountService(sessions SessionManager, cost int, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		sessions:   sessions,
		bcryptCost: cost,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      func() string { return uuid.New().String() },
	}
}

// Login validates the form and makes it the current session. Logging in
// again with the email of the current session keeps its user id and
// registrations, provided the password matches.
func (s *AccountService) Login(ctx context.Context, req model.LoginRequest) (*model.UserSession, error) {
	if err := ValidateLogin(&req); err != nil {
		return nil, err
	}

	current, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if current != nil && strings.EqualFold(current.Email, req.Email) {
		err := bcrypt.CompareHashAndPassword([]byte(current.PasswordHash), []byte(req.Password))
		if err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return nil, model.ErrInvalidCredentials
			}
			return nil, fmt.Errorf("compare password: %w", err)
		}
		current.FullName = req.FullName
		current.LastActivity = s.now()
		if err := s.sessions.SetCurrent(ctx, current); err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "session resumed", slog.String("user_id", current.UserID))
		return current, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	session := &model.UserSession{
		UserID:             s.newID(),
		Email:              req.Email,
		FullName:           req.FullName,
		PasswordHash:       string(hash),
		LastActivity:       s.now(),
		RegisteredEventIDs: []int{},
	}
	if err := s.sessions.SetCurrent(ctx, session); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "session started", slog.String("user_id", session.UserID))
	return session, nil
}

// Current returns the active session, or model.ErrNotLoggedIn.
func (s *AccountService) Current(ctx context.Context) (*model.UserSession, error) {
	session, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, model.ErrNotLoggedIn
	}
	return session, nil
}

// Logout clears the current session. It is not an error to log out twice.
func (s *AccountService) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}
