package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/splitledger/internal/core/domain"
)

// SessionStore keeps short-lived chat interaction state keyed by chat channel and participant handle.
// It is independent of ledger state; entries disappear on their own after ttl.
type SessionStore interface {
	// Put stores the session under (session.ChannelID, session.Handle), replacing any previous one.
	Put(ctx context.Context, session domain.InteractionSession, ttl time.Duration) error

	// Get returns the live session for handle in channelID, or nil when there is none.
	Get(ctx context.Context, channelID string, handle string) (*domain.InteractionSession, error)

	// Delete removes the session for handle in channelID. Deleting a missing session is not an error.
	Delete(ctx context.Context, channelID string, handle string) error

	HealthChecker
}
