package storage

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/medicare-pro/admin-console/internal/config"
)

// Open builds the KV selected by configuration. The Redis client is only
// required for the redis driver.
func Open(cfg config.StorageConfig, client redis.UniversalClient) (KV, error) {
	switch cfg.Driver {
	case config.StorageDriverFile:
		return NewFile(cfg.FilePath), nil
	case config.StorageDriverRedis:
		if client == nil {
			return nil, fmt.Errorf("storage: redis driver selected without a client")
		}
		return NewRedis(client, cfg.KeyPrefix), nil
	case config.StorageDriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}
