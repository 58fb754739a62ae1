package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRetention is how long an entry is kept after its last use.
const DefaultRetention = 24 * time.Hour

var (
	// ErrNotFound indicates no entry is stored for the key
	ErrNotFound = errors.New("cache entry not found")

	// ErrInvalidEntry indicates the stored entry could not be decoded
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store keeps page responses in Redis.
type Store struct {
	redis     *redis.Client
	retention time.Duration
}

// NewStore creates a store. A non-positive retention falls back to DefaultRetention.
func NewStore(redisClient *redis.Client, retention time.Duration) *Store {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Store{
		redis:     redisClient,
		retention: retention,
	}
}

// Lookup returns the stored entry for key, or ErrNotFound.
func (s *Store) Lookup(ctx context.Context, key Key) (*Entry, error) {
	data, err := s.redis.Get(ctx, key.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			CacheMisses.Inc()
			return nil, ErrNotFound
		}
		CacheErrors.WithLabelValues("lookup").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("lookup").Inc()
		_ = s.Forget(ctx, key)
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	return &entry, nil
}

// Save stores entry under key for the store's retention period.
// Entries without validators are not stored since they can never be revalidated.
func (s *Store) Save(ctx context.Context, key Key, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}
	if !entry.CanRevalidate() {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := s.redis.Set(ctx, key.String(), data, s.retention).Err(); err != nil {
		CacheErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	StoredBytes.Set(float64(len(data)))
	return nil
}

// Touch extends the retention of an entry after a successful revalidation.
func (s *Store) Touch(ctx context.Context, key Key) error {
	if err := s.redis.Expire(ctx, key.String(), s.retention).Err(); err != nil {
		CacheErrors.WithLabelValues("touch").Inc()
		return fmt.Errorf("redis expire: %w", err)
	}
	return nil
}

// Forget removes an entry.
func (s *Store) Forget(ctx context.Context, key Key) error {
	if err := s.redis.Del(ctx, key.String()).Err(); err != nil {
		CacheErrors.WithLabelValues("forget").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
