package vat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/erp/checkout-fields/internal/domain/checkout"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "vat:check:"

// CachedValidator wraps a VATValidator with a Redis result cache and an
// in-process fallback. Indeterminate results are never cached: a transient
// outage must not pin "could not be validated" for the TTL.
type CachedValidator struct {
	inner  checkout.VATValidator
	client *redis.Client // nil means memory-only
	ttl    time.Duration
	logger *zap.Logger

	mu  sync.RWMutex
	mem map[string]memEntry
}

type memEntry struct {
	valid     bool
	expiresAt time.Time
}

// NewCachedValidator wraps inner with a result cache. client may be nil for
// a memory-only cache (single-instance deployments and tests).
func NewCachedValidator(inner checkout.VATValidator, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedValidator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedValidator{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
		mem:    make(map[string]memEntry),
	}
}

// Validate returns a cached result when present, otherwise consults the
// wrapped validator and caches a definite answer.
func (c *CachedValidator) Validate(ctx context.Context, vat string) (*bool, error) {
	key := cacheKeyPrefix + normalize(vat)

	if cached, ok := c.lookup(ctx, key); ok {
		return &cached, nil
	}

	valid, err := c.inner.Validate(ctx, vat)
	if valid == nil {
		return nil, err
	}

	c.store(ctx, key, *valid)
	return valid, err
}

func (c *CachedValidator) lookup(ctx context.Context, key string) (bool, bool) {
	if c.client != nil {
		val, err := c.client.Get(ctx, key).Result()
		if err == nil {
			return val == "1", true
		}
		if err != redis.Nil {
			c.logger.Debug("VAT cache read failed, falling back to memory", zap.Error(err))
		}
	}

	c.mu.RLock()
	entry, ok := c.mem[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return false, false
	}
	return entry.valid, true
}

func (c *CachedValidator) store(ctx context.Context, key string, valid bool) {
	if c.client != nil {
		val := "0"
		if valid {
			val = "1"
		}
		if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
			c.logger.Debug("VAT cache write failed", zap.Error(err))
		}
	}

	c.mu.Lock()
	c.mem[key] = memEntry{valid: valid, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func normalize(vat string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(vat), " ", ""))
}

// NewRedisClient connects to Redis and verifies the connection. Callers may
// pass the returned client to NewCachedValidator, or nil when Redis is not
// available.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
