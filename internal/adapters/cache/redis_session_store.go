package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/SscSPs/splitledger/internal/core/domain"
	portsrepo "github.com/SscSPs/splitledger/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "splitledger:session:"

// RedisSessionStore keeps interaction sessions in redis. Expiry is delegated to key TTLs.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates the redis session store adapter.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

var _ portsrepo.SessionStore = (*RedisSessionStore)(nil)

func sessionKey(channelID, handle string) string {
	return sessionKeyPrefix + channelID + ":" + handle
}

func (s *RedisSessionStore) Put(ctx context.Context, session domain.InteractionSession, ttl time.Duration) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.ChannelID, session.Handle), raw, ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, channelID string, handle string) (*domain.InteractionSession, error) {
	raw, err := s.client.Get(ctx, sessionKey(channelID, handle)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var out domain.InteractionSession
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, channelID string, handle string) error {
	return s.client.Del(ctx, sessionKey(channelID, handle)).Err()
}

func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
