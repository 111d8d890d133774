package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/tendril/internal/config"
	"github.com/aretw0/tendril/pkg/adapters/file"
	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/adapters/redis"
	"github.com/aretw0/tendril/pkg/persistence/middleware"
	"github.com/aretw0/tendril/pkg/ports"
)

// Stores is the persistence stack selected by the store section.
type Stores struct {
	Store  ports.StateStore
	Locker ports.DistributedLocker
	Closer io.Closer
}

// NewStore builds the configured driver and wraps it with redaction and
// encryption when configured. Redaction runs first so masked values never
// reach the cipher.
func NewStore(cfg config.StoreConfig) (Stores, error) {
	var out Stores
	switch cfg.Driver {
	case config.DriverMemory:
		out.Store = memory.NewStore()
	case config.DriverFile:
		out.Store = file.New(cfg.Path)
	case config.DriverRedis:
		var opts []redis.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		out.Store = rs
		out.Locker = redis.NewLocker(rs.Client(), rs.Prefix())
		out.Closer = rs
	default:
		return Stores{}, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		mw, err := middleware.NewRedactionMiddleware(cfg.Redact)
		if err != nil {
			return Stores{}, err
		}
		mws = append(mws, mw)
	}
	if cfg.EncryptionKey != "" {
		enc, err := encryptionConfig(cfg)
		if err != nil {
			return Stores{}, err
		}
		mw, err := middleware.NewEncryptionMiddleware(enc)
		if err != nil {
			return Stores{}, err
		}
		mws = append(mws, mw)
	}
	out.Store = middleware.Chain(out.Store, mws...)
	return out, nil
}

func encryptionConfig(cfg config.StoreConfig) (middleware.EncryptionConfig, error) {
	active, err := middleware.DecodeKey(cfg.EncryptionKey)
	if err != nil {
		return middleware.EncryptionConfig{}, fmt.Errorf("store.encryption_key: %w", err)
	}
	enc := middleware.EncryptionConfig{ActiveKey: active}
	for i, k := range cfg.FallbackKeys {
		key, err := middleware.DecodeKey(k)
		if err != nil {
			return middleware.EncryptionConfig{}, fmt.Errorf("store.fallback_keys[%d]: %w", i, err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	return enc, nil
}
