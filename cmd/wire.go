package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/keystone/cache"
	"github.com/dev-mohitbeniwal/keystone/config"
	"github.com/dev-mohitbeniwal/keystone/db"
	logger "github.com/dev-mohitbeniwal/keystone/logging"
	"github.com/dev-mohitbeniwal/keystone/util"
)

// newCacheClient builds the single cache client of the process. The type
// registry is frozen before the client is returned.
func newCacheClient(cfg config.CacheConfiguration, rdb redis.Cmdable, observer cache.Observer) (*cache.Client, error) {
	types := cache.NewTypeRegistry()
	if err := util.RegisterCacheTypes(types); err != nil {
		return nil, err
	}
	types.Freeze()

	var values cache.ValueCodec
	switch cfg.Codec {
	case "msgpack":
		values = cache.NewMsgpackCodec(types)
	case "json":
		values = cache.NewJSONCodec(types)
	default:
		return nil, fmt.Errorf("unknown cache codec %q", cfg.Codec)
	}
	if cfg.EncryptionKey != "" {
		encrypted, err := cache.NewEncryptedCodec(values, []byte(cfg.EncryptionKey))
		if err != nil {
			return nil, err
		}
		values = encrypted
	}

	opts := []cache.Option{
		cache.WithKeyCodec(cache.StringKeyCodec{Prefix: cfg.KeyPrefix}),
		cache.WithDefaultTTL(cfg.DefaultTTL),
		cache.WithTimeout(cfg.Timeout),
	}
	if observer != nil {
		opts = append(opts, cache.WithObserver(observer))
	}
	return cache.New(rdb, values, opts...), nil
}

const schemaLock = "schema:user"

type schemaOwner interface {
	EnsureUniqueConstraint(ctx context.Context) error
}

// ensureSchema creates the user constraints unless another instance holds
// the schema lock, in which case that instance is doing it.
func ensureSchema(ctx context.Context, rdb redis.Cmdable, owner schemaOwner) error {
	locked, err := db.LockResource(ctx, rdb, schemaLock, 30*time.Second)
	if err != nil {
		return err
	}
	if !locked {
		logger.Info("Schema lock held elsewhere, skipping constraint setup")
		return nil
	}
	defer func() {
		if err := db.UnlockResource(ctx, rdb, schemaLock); err != nil {
			logger.Warn("Failed to release schema lock", zap.Error(err))
		}
	}()
	return owner.EnsureUniqueConstraint(ctx)
}
