package smartcare

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL = 10 * time.Minute
	maxCacheEntries = 100
)

// Cache stores successful lookup responses keyed by (msisdn, window).
type Cache interface {
	Get(ctx context.Context, key string) (*HistoryResponse, bool)
	Set(ctx context.Context, key string, resp *HistoryResponse)
}

// cacheKey derives a short stable key from the query parameters.
func cacheKey(msisdn, startTime, endTime string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%s_%s", msisdn, startTime, endTime)))
	return hex.EncodeToString(sum[:])[:16]
}

type memoryEntry struct {
	resp     *HistoryResponse
	storedAt time.Time
}

// MemoryCache is the default single-process cache: TTL eviction on read
// and write, oldest-first eviction past the entry cap.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates a memory cache. ttl <= 0 uses the default.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*HistoryResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.resp, true
}

func (c *MemoryCache) Set(_ context.Context, key string, resp *HistoryResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, entry := range c.entries {
		if now.Sub(entry.storedAt) > c.ttl {
			delete(c.entries, k)
		}
	}

	c.entries[key] = memoryEntry{resp: resp, storedAt: now}
	c.evictOldest()
}

// evictOldest trims the cache back under the entry cap, dropping the
// stalest entries first. Caller holds the lock.
func (c *MemoryCache) evictOldest() {
	if len(c.entries) <= maxCacheEntries {
		return
	}

	type aged struct {
		key      string
		storedAt time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for k, entry := range c.entries {
		all = append(all, aged{key: k, storedAt: entry.storedAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].storedAt.Before(all[j].storedAt) })

	for _, entry := range all[:len(c.entries)-maxCacheEntries] {
		delete(c.entries, entry.key)
	}
}

// RedisCache shares lookup responses across instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache. ttl <= 0 uses the default.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*HistoryResponse, bool) {
	raw, err := c.client.Get(ctx, "smartcare:"+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.WarnContext(ctx, "smartcare cache read failed", "error", err)
		}
		return nil, false
	}

	var resp HistoryResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		slog.WarnContext(ctx, "smartcare cache entry corrupt, dropping", "error", err)
		c.client.Del(ctx, "smartcare:"+key)
		return nil, false
	}
	return &resp, true
}

func (c *RedisCache) Set(ctx context.Context, key string, resp *HistoryResponse) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, "smartcare:"+key, raw, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "smartcare cache write failed", "error", err)
	}
}
