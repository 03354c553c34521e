package snapshot

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

// DefaultRedisInstance is used when the config names no instance.
const DefaultRedisInstance = "default"

// Open validates cfg and opens the backend it names. The redis backend is
// pinged before it is returned.
func Open(ctx context.Context, cfg types.Config) (types.SnapshotStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case types.BackendJSONL:
		return NewJSONLStore(cfg.DataDir), nil
	case types.BackendSQLite:
		return OpenSQLite(ctx, cfg.DataDir)
	case types.BackendRedis:
		instance := cfg.RedisInstance
		if instance == "" {
			instance = DefaultRedisInstance
		}
		r, err := NewRedisStore(&redis.Options{Addr: cfg.RedisAddr}, instance)
		if err != nil {
			return nil, err
		}
		if err := r.Ping(ctx); err != nil {
			r.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
		}
		return r, nil
	}
	return nil, fmt.Errorf("%w: %s", types.ErrBackendUnknown, cfg.Backend)
}
