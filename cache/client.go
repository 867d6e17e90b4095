package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	keystone_errors "github.com/dev-mohitbeniwal/keystone/errors"
	logger "github.com/dev-mohitbeniwal/keystone/logging"
)

const (
	DefaultTTL     = 10 * time.Minute
	DefaultTimeout = 2 * time.Second
)

// Observer is notified once per cache operation; result is one of
// hit, miss, ok or error.
type Observer interface {
	ObserveCacheOperation(op, result string)
}

type Option func(*Client)

func WithKeyCodec(keys KeyCodec) Option {
	return func(c *Client) { c.keys = keys }
}

// WithDefaultTTL sets the expiry used when Set is called with a zero TTL.
// Zero means entries written that way never expire.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl >= 0 {
			c.defaultTTL = ttl
		}
	}
}

// WithTimeout bounds every store round trip.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// Client is a typed key/value cache on top of Redis. It is safe for
// concurrent use.
type Client struct {
	rdb        redis.Cmdable
	keys       KeyCodec
	values     ValueCodec
	defaultTTL time.Duration
	timeout    time.Duration
	observer   Observer
}

func New(rdb redis.Cmdable, values ValueCodec, opts ...Option) *Client {
	c := &Client{
		rdb:        rdb,
		keys:       StringKeyCodec{},
		values:     values,
		defaultTTL: DefaultTTL,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) observe(op, result string) {
	if c.observer != nil {
		c.observer.ObserveCacheOperation(op, result)
	}
}

func storeError(msg, key string, err error) error {
	return fmt.Errorf("%s %q: %w: %w", msg, key, keystone_errors.ErrCacheStore, err)
}

// Set stores value under key. A zero ttl uses the client default.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	_, err := c.set(ctx, "set", key, value, ttl, false)
	return err
}

// SetIfAbsent stores value only when key holds nothing, reporting whether it
// was written. Read-through fills use it so they never replace a newer value.
func (c *Client) SetIfAbsent(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	return c.set(ctx, "setnx", key, value, ttl, true)
}

func (c *Client) set(ctx context.Context, op, key string, value any, ttl time.Duration, onlyIfAbsent bool) (bool, error) {
	if ttl < 0 {
		c.observe(op, "error")
		return false, storeError("failed to cache", key, errors.New("negative ttl"))
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	data, err := c.values.Marshal(value)
	if err != nil {
		c.observe(op, "error")
		return false, storeError("failed to encode", key, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stored := true
	if onlyIfAbsent {
		stored, err = c.rdb.SetNX(ctx, c.keys.EncodeKey(key), data, ttl).Result()
	} else {
		err = c.rdb.Set(ctx, c.keys.EncodeKey(key), data, ttl).Err()
	}
	if err != nil {
		c.observe(op, "error")
		return false, storeError("failed to cache", key, err)
	}

	if !stored {
		c.observe(op, "skipped")
		logger.Debug("Value already cached", zap.String("key", key))
		return false, nil
	}
	c.observe(op, "ok")
	logger.Debug("Value cached", zap.String("key", key), zap.Duration("ttl", ttl))
	return true, nil
}

// Get returns the value stored under key. A missing key is reported as
// found == false with a nil error.
func (c *Client) Get(ctx context.Context, key string) (any, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.rdb.Get(ctx, c.keys.EncodeKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.observe("get", "miss")
		logger.Debug("Value not found in cache", zap.String("key", key))
		return nil, false, nil
	} else if err != nil {
		c.observe("get", "error")
		return nil, false, storeError("failed to get", key, err)
	}

	value, err := c.values.Unmarshal(data)
	if err != nil {
		c.observe("get", "error")
		return nil, false, storeError("failed to decode", key, err)
	}

	c.observe("get", "hit")
	return value, true, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.rdb.Del(ctx, c.keys.EncodeKey(key)).Err(); err != nil {
		c.observe("delete", "error")
		return storeError("failed to delete", key, err)
	}

	c.observe("delete", "ok")
	logger.Debug("Value deleted from cache", zap.String("key", key))
	return nil
}

// Ping checks that the store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", keystone_errors.ErrCacheStore, err)
	}
	return nil
}

// GetAs is Get with a static result type. A stored value of another type is
// reported as ErrCacheTypeMismatch.
func GetAs[T any](ctx context.Context, c *Client, key string) (T, bool, error) {
	var zero T
	value, found, err := c.Get(ctx, key)
	if err != nil || !found {
		return zero, found, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, false, fmt.Errorf("%w: key %q holds %T, want %T", keystone_errors.ErrCacheTypeMismatch, key, value, zero)
	}
	return typed, true, nil
}
