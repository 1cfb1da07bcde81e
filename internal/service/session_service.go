package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"financas-api/internal/domain"
	"financas-api/internal/repository"
)

// SessionService binds opaque tokens to user identities with a rolling
// expiry window.
type SessionService interface {
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	Logout(ctx context.Context, token string) error
	Identity(ctx context.Context, token string) (*domain.Session, error)
}

type sessionService struct {
	sessions repository.SessionRepository
	users    UserService
	ttl      time.Duration
}

func NewSessionService(sessions repository.SessionRepository, users UserService, ttl time.Duration) SessionService {
	return &sessionService{
		sessions: sessions,
		users:    users,
		ttl:      ttl,
	}
}

func (s *sessionService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if username == "" {
		return nil, invalidInput("campo obrigatório: username")
	}
	if password == "" {
		return nil, invalidInput("campo obrigatório: password")
	}

	user, err := s.users.Verify(ctx, username, password)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Logout is idempotent: revoking an unknown or already-revoked token is not
// an error.
func (s *sessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Identity resolves the token to its session. A session past the halfway
// point of its lifetime is renewed for a full window, so active users stay
// logged in while abandoned sessions expire.
func (s *sessionService) Identity(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	now := time.Now().UTC()
	if !session.ExpiresAt.After(now) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrUnauthenticated
	}

	if session.ExpiresAt.Sub(now) < s.ttl/2 {
		renewed := now.Add(s.ttl)
		if err := s.sessions.Renew(ctx, token, renewed); err == nil {
			session.ExpiresAt = renewed
		}
	}

	return session, nil
}
