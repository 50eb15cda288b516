package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KnownEntityStore backs KnownEntityDetector across messages in a
// conversation/session: entities confirmed in one message (e.g. a name
// introduced earlier) stay known for the rest of the session without
// the caller re-supplying them on every call. Optional — pipelines that
// don't span multiple requests never construct one.
type KnownEntityStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewKnownEntityStore connects to Redis the same way the teacher's
// Queue does (same Config shape, same ping-on-connect check).
func NewKnownEntityStore(cfg Config, ttl time.Duration) (*KnownEntityStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &KnownEntityStore{client: client, ttl: ttl}, nil
}

func (s *KnownEntityStore) Close() error { return s.client.Close() }

func sessionKey(sessionID string) string {
	return "dspm:known_entities:" + sessionID
}

// Remember adds value (keyed by entityType) to sessionID's known set,
// refreshing the TTL so an active session's entities don't expire
// mid-conversation.
func (s *KnownEntityStore) Remember(ctx context.Context, sessionID, value, entityType string) error {
	key := sessionKey(sessionID)
	if err := s.client.HSet(ctx, key, value, entityType).Err(); err != nil {
		return fmt.Errorf("storing known entity: %w", err)
	}
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return fmt.Errorf("refreshing known entity ttl: %w", err)
	}
	return nil
}

// Known returns every value->entityType pair remembered for sessionID.
func (s *KnownEntityStore) Known(ctx context.Context, sessionID string) (map[string]string, error) {
	result, err := s.client.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("loading known entities: %w", err)
	}
	return result, nil
}

// Forget clears sessionID's known-entity set, e.g. on session end.
func (s *KnownEntityStore) Forget(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clearing known entities: %w", err)
	}
	return nil
}

// QueueDepthGauge reports the current length of a Redis-backed sorted-set
// queue, for backpressure reporting alongside the in-process
// PriorityQueue's own Len()/Dropped() counters.
func QueueDepthGauge(ctx context.Context, client *redis.Client, queueKey string) (int64, error) {
	n, err := client.ZCard(ctx, queueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("reading queue depth: %w", err)
	}
	return n, nil
}
