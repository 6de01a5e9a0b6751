package services

import (
	"context"

	"github.com/SscSPs/splitledger/internal/core/domain"
)

// SessionSvc manages short-lived chat interaction state.
type SessionSvc interface {
	// Begin stores a session with the configured TTL, replacing any previous one
	// of the same handle in the same channel.
	Begin(ctx context.Context, session domain.InteractionSession) (*domain.InteractionSession, error)

	// Current returns the live session of handle in channelID, or nil.
	Current(ctx context.Context, channelID string, handle string) (*domain.InteractionSession, error)

	// End discards the session of handle in channelID.
	End(ctx context.Context, channelID string, handle string) error
}

// HealthSvc reports whether the backing stores are reachable.
type HealthSvc interface {
	// Check returns the failure of each unhealthy component keyed by name.
	Check(ctx context.Context) map[string]error
}
