package cache

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/splitledger/internal/core/domain"
	portsrepo "github.com/SscSPs/splitledger/internal/core/ports/repositories"
)

type memoryEntry struct {
	session   domain.InteractionSession
	expiresAt time.Time
}

// MemorySessionStore is a process-local session store used when no redis URL is configured.
// Expired entries are invisible to Get and are reclaimed by Sweep.
type MemorySessionStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemorySessionStore creates an empty in-memory store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

var _ portsrepo.SessionStore = (*MemorySessionStore)(nil)

func (s *MemorySessionStore) Put(_ context.Context, session domain.InteractionSession, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionKey(session.ChannelID, session.Handle)] = memoryEntry{
		session:   session,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, channelID string, handle string) (*domain.InteractionSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sessionKey(channelID, handle)]
	if !ok || !s.now().Before(entry.expiresAt) {
		return nil, nil
	}
	out := entry.session
	return &out, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, channelID string, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionKey(channelID, handle))
	return nil
}

func (s *MemorySessionStore) Ping(context.Context) error {
	return nil
}

// Sweep drops every entry expired at now and returns how many were removed.
func (s *MemorySessionStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
