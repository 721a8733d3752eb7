package database

import (
	"fmt"

	"tradelink/config"
	"tradelink/database/kv"
	"tradelink/utils"

	"go.uber.org/zap"
)

// OpenStorage returns the durable key-value backend selected by STORAGE_BACKEND.
func OpenStorage(logger *zap.Logger) (kv.Store, error) {
	switch config.AppConfig.StorageBackend {
	case "", "memory":
		logger.Warn("Using in-memory storage; directory changes will not survive a restart")
		return kv.NewMemory(), nil
	case "redis":
		return kv.NewRedis(utils.GetCacheClient()), nil
	case "mongo":
		if MongoClient == nil {
			if err := InitDB(logger); err != nil {
				return nil, err
			}
		}
		return kv.NewMongo(MongoClient, config.AppConfig.DatabaseName), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.AppConfig.StorageBackend)
	}
}
