package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"severkey-server/config"
)

const snapshotKeyPrefix = "severkey:collection:"

// snapshotEntry is one record in a persisted collection dump, carrying the
// insertion sequence so cursors survive a restart.
type snapshotEntry struct {
	Seq  uint64          `json:"seq"`
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// KV is the slice of Redis the snapshotter needs. *redis.Client satisfies
// it through redisKV; tests substitute an in-memory fake.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
}

type redisKV struct {
	client *redis.Client
}

func (r redisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}

func (r redisKV) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r redisKV) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Snapshotter persists collection dumps to Redis so the store survives a
// process restart. It degrades gracefully: when Redis is unreachable the
// snapshotter marks itself unhealthy, drops saves on the floor, and probes
// again after a backoff. The in-memory store remains authoritative and no
// API call ever fails because Redis is down.
type Snapshotter struct {
	kv     KV
	logger zerolog.Logger

	mu           sync.Mutex
	healthy      bool
	failureCount int
	lastFailure  time.Time

	maxFailures   int
	retryInterval time.Duration
}

// NewSnapshotter connects to Redis using the provided configuration and
// verifies connectivity.
func NewSnapshotter(cfg config.RedisConfig, logger zerolog.Logger) (*Snapshotter, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("redis is not enabled in configuration")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	s := newSnapshotter(redisKV{client: client}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.kv.Ping(ctx); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	s.healthy = true

	logger.Info().Str("addr", cfg.Address).Msg("snapshot persistence enabled")
	return s, nil
}

// NewSnapshotterWithKV builds a snapshotter over an arbitrary KV. Used by
// tests.
func NewSnapshotterWithKV(kv KV, logger zerolog.Logger) *Snapshotter {
	s := newSnapshotter(kv, logger)
	s.healthy = true
	return s
}

func newSnapshotter(kv KV, logger zerolog.Logger) *Snapshotter {
	return &Snapshotter{
		kv:            kv,
		logger:        logger.With().Str("component", "snapshotter").Logger(),
		maxFailures:   3,
		retryInterval: 30 * time.Second,
	}
}

// Save persists a collection dump. Failures are logged, counted against the
// health state, and otherwise swallowed; saving is best-effort by contract.
func (s *Snapshotter) Save(ctx context.Context, collection string, dump []byte) {
	if !s.usable() {
		return
	}

	if err := s.kv.Set(ctx, snapshotKeyPrefix+collection, dump); err != nil {
		s.recordFailure()
		s.logger.Warn().Err(err).Str("collection", collection).Msg("snapshot save failed")
		return
	}
	s.recordSuccess()
}

// Load fetches a collection dump. A missing snapshot returns (nil, nil).
func (s *Snapshotter) Load(ctx context.Context, collection string) ([]byte, error) {
	data, err := s.kv.Get(ctx, snapshotKeyPrefix+collection)
	if err != nil {
		s.recordFailure()
		return nil, fmt.Errorf("snapshot load for %s: %w", collection, err)
	}
	s.recordSuccess()
	return data, nil
}

// Healthy reports whether the last Redis interaction succeeded.
func (s *Snapshotter) Healthy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.healthy
}

// usable reports whether a save should be attempted: healthy, or unhealthy
// but past the retry backoff.
func (s *Snapshotter) usable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.healthy {
		return true
	}
	return time.Since(s.lastFailure) >= s.retryInterval
}

func (s *Snapshotter) recordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failureCount++
	s.lastFailure = time.Now()
	if s.failureCount >= s.maxFailures && s.healthy {
		s.healthy = false
		s.logger.Warn().Int("failures", s.failureCount).Msg("snapshot persistence marked unhealthy")
	}
}

func (s *Snapshotter) recordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.healthy {
		s.logger.Info().Msg("snapshot persistence recovered")
	}
	s.healthy = true
	s.failureCount = 0
}

// dumpLocked serializes the collection for persistence. Caller must hold at
// least the read lock. Returns nil when no snapshotter is attached so the
// mutation path skips the marshal entirely.
func (c *Collection[R]) dumpLocked() []byte {
	if c.snap == nil {
		return nil
	}

	entries := make([]snapshotEntry, 0, len(c.order))
	for _, e := range c.order {
		entries = append(entries, snapshotEntry{Seq: e.seq, ID: e.id, Data: json.RawMessage(c.items[e.id])})
	}

	dump, err := json.Marshal(entries)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to serialize collection snapshot")
		return nil
	}
	return dump
}

func parseSnapshot(data []byte) ([]snapshotEntry, error) {
	var entries []snapshotEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return entries, nil
}
