// File: utils/cache.go
package utils

import (
	"context"
	"time"

	"tradelink/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheClient is the Redis client backing the directory and identity keys.
var CacheClient *redis.Client

// InitCache initializes the Redis client (using the cache DB from AppConfig).
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		GetLogger().Fatal("Failed to connect to Redis (Cache)", zap.Error(err))
	}
}

// GetCacheClient returns the Redis client, connecting on first use.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}
