package session

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"strconv"       // Key formatting
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// RedisTokenStore keeps magic links and active sessions in Redis, letting the
// TTLs expire them without any sweeper.
type RedisTokenStore struct {
	rdb *redis.Client
}

func NewRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb}
}

func linkKey(id string) string      { return "magiclink:" + id }
func sessionKey(userID uint) string { return "session:user:" + strconv.Itoa(int(userID)) }

// SaveLink stores the hashed link record under its public id with a TTL
func (s *RedisTokenStore) SaveLink(ctx context.Context, id string, rec LinkRecord, ttl time.Duration) error {
	b, err := json.Marshal(rec) // Marshal record to JSON
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, linkKey(id), b, ttl).Err()
}

// TakeLink atomically fetches and deletes the record so a link verifies once
func (s *RedisTokenStore) TakeLink(ctx context.Context, id string) (*LinkRecord, error) {
	val, err := s.rdb.GetDel(ctx, linkKey(id)).Result()
	if err == redis.Nil {
		return nil, nil // Link unknown or already expired
	} else if err != nil {
		return nil, err
	}
	var rec LinkRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// SaveSession records the user's active session, replacing any previous one
func (s *RedisTokenStore) SaveSession(ctx context.Context, userID uint, rec SessionRecord, ttl time.Duration) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(userID), b, ttl).Err()
}

// GetSession returns the user's active session record, or nil when signed out
func (s *RedisTokenStore) GetSession(ctx context.Context, userID uint) (*SessionRecord, error) {
	val, err := s.rdb.Get(ctx, sessionKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil // No active session
	} else if err != nil {
		return nil, err
	}
	var rec SessionRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteSession signs the user out server-side
func (s *RedisTokenStore) DeleteSession(ctx context.Context, userID uint) error {
	return s.rdb.Del(ctx, sessionKey(userID)).Err()
}
