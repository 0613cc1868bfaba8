// Package redis wraps go-redis for the generation result cache.
package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/ChemDraw-AI/internal/config"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
)

var (
	ErrClientClosed     = errors.New(errors.ErrCodeCacheError, "redis client is closed")
	ErrConnectionFailed = errors.New(errors.ErrCodeServiceUnavailable, "redis connection failed")
)

// pingTimeout bounds the connectivity check performed by NewClient.
const pingTimeout = 5 * time.Second

// Client is a closable handle around a go-redis UniversalClient.
type Client struct {
	rdb    redis.UniversalClient
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

// NewClient dials Redis according to cfg and pings it once.
func NewClient(cfg config.CacheConfig, log logging.Logger) (*Client, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	c := NewClientFromUniversal(rdb, log)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, ErrConnectionFailed.WithCause(err).WithDetail(cfg.Addr)
	}

	log.Info("redis client connected", logging.String("addr", cfg.Addr), logging.Int("db", cfg.DB))
	return c, nil
}

// NewClientFromUniversal wraps an existing client.  Tests pass a miniredis or
// redismock backed client here.
func NewClientFromUniversal(rdb redis.UniversalClient, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{rdb: rdb, logger: log}
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	return c.rdb.Ping(ctx).Err()
}

// Get returns the raw value stored at key.  A missing key yields redis.Nil.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c.isClosed() {
		return nil, ErrClientClosed
	}
	return c.rdb.Get(ctx, key).Bytes()
}

// Set stores value at key with ttl (0 means no expiry).
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// Del removes keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close releases the connection pool.  Calling Close twice is a no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.rdb.Close()
}

// Name implements the health checker contract.
func (c *Client) Name() string { return "redis" }

// Check implements the health checker contract.
func (c *Client) Check(ctx context.Context) error { return c.Ping(ctx) }

//Personal.AI order the ending
