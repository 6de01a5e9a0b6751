package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/splitledger/internal/apperrors"
	"github.com/SscSPs/splitledger/internal/core/domain"
	portsrepo "github.com/SscSPs/splitledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
)

// sessionService stamps sessions with their expiry and hands them to the store.
type sessionService struct {
	BaseService
	store portsrepo.SessionStore
	ttl   time.Duration
}

// NewSessionService creates a session service whose sessions live for ttl.
func NewSessionService(store portsrepo.SessionStore, ttl time.Duration) portssvc.SessionSvc {
	return &sessionService{store: store, ttl: ttl}
}

var _ portssvc.SessionSvc = (*sessionService)(nil)

func (s *sessionService) Begin(ctx context.Context, session domain.InteractionSession) (*domain.InteractionSession, error) {
	session.Handle = domain.NormalizeHandle(session.Handle)
	if session.Handle == "" || session.ChannelID == "" {
		return nil, fmt.Errorf("%w: session needs a channel and a handle", apperrors.ErrValidation)
	}
	session.ExpiresAt = time.Now().Add(s.ttl)
	if err := s.store.Put(ctx, session, s.ttl); err != nil {
		s.LogError(ctx, err, "Failed to store session",
			slog.String("handle", session.Handle),
			slog.String("step", string(session.Step)))
		return nil, err
	}
	s.LogDebug(ctx, "Session started",
		slog.String("handle", session.Handle),
		slog.String("step", string(session.Step)))
	return &session, nil
}

func (s *sessionService) Current(ctx context.Context, channelID string, handle string) (*domain.InteractionSession, error) {
	session, err := s.store.Get(ctx, channelID, domain.NormalizeHandle(handle))
	if err != nil {
		s.LogError(ctx, err, "Failed to read session", slog.String("handle", handle))
		return nil, err
	}
	if session != nil && session.Expired(time.Now()) {
		return nil, nil
	}
	return session, nil
}

func (s *sessionService) End(ctx context.Context, channelID string, handle string) error {
	if err := s.store.Delete(ctx, channelID, domain.NormalizeHandle(handle)); err != nil {
		s.LogError(ctx, err, "Failed to end session", slog.String("handle", handle))
		return err
	}
	return nil
}

// healthService pings every backing store.
type healthService struct {
	checks map[string]portsrepo.HealthChecker
}

// NewHealthService creates a health service over the named checkers. Nil checkers are skipped.
func NewHealthService(checks map[string]portsrepo.HealthChecker) portssvc.HealthSvc {
	live := make(map[string]portsrepo.HealthChecker, len(checks))
	for name, c := range checks {
		if c != nil {
			live[name] = c
		}
	}
	return &healthService{checks: live}
}

func (s *healthService) Check(ctx context.Context) map[string]error {
	failures := map[string]error{}
	for name, c := range s.checks {
		if err := c.Ping(ctx); err != nil {
			failures[name] = err
		}
	}
	return failures
}
