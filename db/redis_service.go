package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	sessionsKey   = "dashboard:sessions"  // Set: Stores all live session IDs
	sessionPrefix = "dashboard:session:"  // Hash prefix: dashboard:session:{id} -> state snapshot
	stateField    = "state"               // Hash field holding the JSON snapshot
	updatedField  = "updatedAt"           // Hash field holding the last save time (RFC3339)
	defaultTTL    = 24 * time.Hour        // Session lifetime when none is configured
	pingTimeout   = 5 * time.Second       // Startup connectivity check
)

// SessionStore persists dashboard state snapshots keyed by session ID.
// A missing session loads as (nil, nil).
type SessionStore interface {
	LoadSession(ctx context.Context, id string) ([]byte, error)
	SaveSession(ctx context.Context, id string, snapshot []byte) error
	DeleteSession(ctx context.Context, id string) error
	CountSessions(ctx context.Context) (int64, error)
}

// RedisService stores dashboard sessions in Redis
type RedisService struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisService creates a new RedisService instance
func NewRedisService(client *redis.Client, ttl time.Duration) *RedisService {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisService{
		Client: client,
		TTL:    ttl,
	}
}

// Helper to generate session key
func getSessionKey(id string) string {
	return sessionPrefix + id
}

// SaveSession writes the snapshot and refreshes the session's TTL
func (s *RedisService) SaveSession(ctx context.Context, id string, snapshot []byte) error {
	if id == "" {
		return errors.New("session ID cannot be empty")
	}
	key := getSessionKey(id)
	pipe := s.Client.TxPipeline()

	// Track the session in the global set
	pipe.SAdd(ctx, sessionsKey, id)
	pipe.HSet(ctx, key, map[string]interface{}{
		stateField:   snapshot,
		updatedField: time.Now().UTC().Format(time.RFC3339),
	})
	pipe.Expire(ctx, key, s.TTL)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Error saving session %s: %v", id, err)
		return fmt.Errorf("failed to save session to Redis: %w", err)
	}
	return nil
}

// LoadSession returns the stored snapshot, or nil when the session is unknown or expired
func (s *RedisService) LoadSession(ctx context.Context, id string) ([]byte, error) {
	data, err := s.Client.HGet(ctx, getSessionKey(id), stateField).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Expired sessions linger in the set until here
			s.Client.SRem(ctx, sessionsKey, id)
			return nil, nil
		}
		log.Printf("Error loading session %s: %v", id, err)
		return nil, fmt.Errorf("failed to load session from Redis: %w", err)
	}
	return data, nil
}

// DeleteSession removes the snapshot and its set membership
func (s *RedisService) DeleteSession(ctx context.Context, id string) error {
	pipe := s.Client.TxPipeline()
	pipe.Del(ctx, getSessionKey(id))
	pipe.SRem(ctx, sessionsKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Error deleting session %s: %v", id, err)
		return fmt.Errorf("failed to delete session from Redis: %w", err)
	}
	return nil
}

// CountSessions returns the number of live sessions. Ids whose hash has
// expired are pruned from the set first.
func (s *RedisService) CountSessions(ctx context.Context) (int64, error) {
	ids, err := s.Client.SMembers(ctx, sessionsKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	pipe := s.Client.Pipeline()
	checks := make([]*redis.IntCmd, len(ids))
	for i, id := range ids {
		checks[i] = pipe.Exists(ctx, getSessionKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to check sessions: %w", err)
	}

	var stale []interface{}
	for i, cmd := range checks {
		if cmd.Val() == 0 {
			stale = append(stale, ids[i])
		}
	}
	if len(stale) > 0 {
		if err := s.Client.SRem(ctx, sessionsKey, stale...).Err(); err != nil {
			return 0, fmt.Errorf("failed to prune expired sessions: %w", err)
		}
	}
	return int64(len(ids) - len(stale)), nil
}

// --- Utility ---

// InitializeRedisClient creates and tests a Redis client connection
func InitializeRedisClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", addr, err)
	}

	log.Printf("Successfully connected to Redis %s DB %d", addr, db)
	return rdb, nil
}
