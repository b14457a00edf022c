package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"masark-engine/internal/domain"
)

// CareerCacheKey identifies one cached ranking. Mode and language are part
// of the key because both shape the served payload; results computed for
// one deployment are never served to another.
type CareerCacheKey struct {
	TypeCode string
	Mode     domain.DeploymentMode
	Language string
	Limit    int
}

func (k CareerCacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s:%d", strings.ToUpper(k.TypeCode), k.Mode, k.Language, k.Limit)
}

// CareerMatchCache stores ranked career lists per personality type and
// supports invalidation when the weight table changes.
type CareerMatchCache interface {
	Get(ctx context.Context, key CareerCacheKey) ([]domain.RankedCareer, bool)
	Set(ctx context.Context, key CareerCacheKey, matches []domain.RankedCareer)
	InvalidateType(ctx context.Context, typeCode string)
}

type memoryCareerMatchCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[CareerCacheKey]memoryCacheEntry
}

type memoryCacheEntry struct {
	matches   []domain.RankedCareer
	expiresAt time.Time
}

// NewMemoryCareerMatchCache is the fallback used when Redis is not
// configured.
func NewMemoryCareerMatchCache(ttl time.Duration) CareerMatchCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &memoryCareerMatchCache{
		ttl:     ttl,
		entries: make(map[CareerCacheKey]memoryCacheEntry),
	}
}

func (c *memoryCareerMatchCache) Get(_ context.Context, key CareerCacheKey) ([]domain.RankedCareer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.matches, true
}

func (c *memoryCareerMatchCache) Set(_ context.Context, key CareerCacheKey, matches []domain.RankedCareer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryCacheEntry{
		matches:   matches,
		expiresAt: time.Now().UTC().Add(c.ttl),
	}
}

func (c *memoryCareerMatchCache) InvalidateType(_ context.Context, typeCode string) {
	typeCode = strings.ToUpper(strings.TrimSpace(typeCode))
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.ToUpper(key.TypeCode) == typeCode {
			delete(c.entries, key)
		}
	}
}

type redisCareerMatchCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCareerMatchCache caches rankings in Redis. A per-type index set
// tracks live keys so InvalidateType can drop them in one pass.
func NewRedisCareerMatchCache(client *redis.Client, ttl time.Duration) CareerMatchCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &redisCareerMatchCache{
		client: client,
		ttl:    ttl,
		prefix: "career:match:",
	}
}

func (c *redisCareerMatchCache) entryKey(key CareerCacheKey) string {
	return c.prefix + key.String()
}

func (c *redisCareerMatchCache) indexKey(typeCode string) string {
	return c.prefix + "index:" + strings.ToUpper(strings.TrimSpace(typeCode))
}

func (c *redisCareerMatchCache) Get(ctx context.Context, key CareerCacheKey) ([]domain.RankedCareer, bool) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	raw, err := c.client.Get(ctx, c.entryKey(key)).Bytes()
	if err != nil {
		return nil, false
	}
	var matches []domain.RankedCareer
	if err := json.Unmarshal(raw, &matches); err != nil {
		return nil, false
	}
	return matches, true
}

func (c *redisCareerMatchCache) Set(ctx context.Context, key CareerCacheKey, matches []domain.RankedCareer) {
	raw, err := json.Marshal(matches)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	entryKey := c.entryKey(key)
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, entryKey, raw, c.ttl)
	pipe.SAdd(ctx, c.indexKey(key.TypeCode), entryKey)
	pipe.Expire(ctx, c.indexKey(key.TypeCode), c.ttl)
	_, _ = pipe.Exec(ctx)
}

func (c *redisCareerMatchCache) InvalidateType(ctx context.Context, typeCode string) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	index := c.indexKey(typeCode)
	keys, err := c.client.SMembers(ctx, index).Result()
	if err != nil {
		return
	}
	keys = append(keys, index)
	_ = c.client.Del(ctx, keys...).Err()
}
