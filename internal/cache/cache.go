package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache fronts Redis with a process-local fallback store. When Redis is
// unreachable the fallback takes over transparently, so cache failures
// never surface to callers: a failed read is a miss, a failed write is
// dropped.
type Cache struct {
	client   *redis.Client
	fallback *memoryStore
	logger   *zap.Logger
}

// New creates a cache facade. client may be nil, in which case only the
// in-memory fallback is used.
func New(client *redis.Client, logger *zap.Logger) *Cache {
	return &Cache{
		client:   client,
		fallback: newMemoryStore(),
		logger:   logger,
	}
}

// Get reads the value at key into dest. ok is false on a miss, an expired
// entry, an undecodable payload, or a backend failure.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c.client != nil {
		payload, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			if jsonErr := json.Unmarshal(payload, dest); jsonErr == nil {
				return true
			}
			c.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
			return false
		}
		if err != redis.Nil {
			c.logger.Warn("redis get failed, using fallback", zap.String("key", key), zap.Error(err))
			return c.fallback.get(key, dest)
		}
		return false
	}
	return c.fallback.get(key, dest)
}

// Set stores value at key with the given TTL. Failures are logged and
// swallowed.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache value not serializable", zap.String("key", key), zap.Error(err))
		return
	}
	if c.client != nil {
		if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
			c.logger.Warn("redis set failed, using fallback", zap.String("key", key), zap.Error(err))
			c.fallback.set(key, payload, ttl)
		}
		return
	}
	c.fallback.set(key, payload, ttl)
}

// Delete removes keys from both stores.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if c.client != nil {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			c.logger.Warn("redis delete failed", zap.Strings("keys", keys), zap.Error(err))
		}
	}
	for _, key := range keys {
		c.fallback.delete(key)
	}
}

// Key builders. Every cached entity has exactly one key shape so
// invalidation stays mechanical.

// CustomerKey is the cache key for a customer history snapshot.
func CustomerKey(customerID string) string {
	return fmt.Sprintf("customer:%s", customerID)
}

// IssueAnalysisKey is the cache key for a completed issue analysis.
func IssueAnalysisKey(issueID string) string {
	return fmt.Sprintf("issue_analysis:%s", issueID)
}

// SimilarIssuesKey is the cache key for a similar-issue ranking.
func SimilarIssuesKey(issueID string) string {
	return fmt.Sprintf("similar_issues:%s", issueID)
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// memoryStore is the TTL-aware fallback used when Redis is down. Expired
// entries are pruned lazily on read and on write.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]memoryEntry)}
}

func (m *memoryStore) get(key string, dest any) bool {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	if time.Now().After(entry.expiresAt) {
		m.delete(key)
		return false
	}
	return json.Unmarshal(entry.payload, dest) == nil
}

func (m *memoryStore) set(key string, payload []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	m.entries[key] = memoryEntry{payload: payload, expiresAt: now.Add(ttl)}
}

func (m *memoryStore) delete(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}
