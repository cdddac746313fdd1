package utils

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hexpertify/moodlift/config"
)

var (
	redisClient *redis.Client
	redisMu     sync.RWMutex
	redisOnce   sync.Once
)

// GetRedis returns a singleton Redis client based on loaded config.
// It returns nil when RedisHost is empty, so callers fall back to in-memory or no-op paths.
func GetRedis() *redis.Client {
	redisOnce.Do(func() {
		cfg := config.Get()
		if cfg.RedisHost == "" {
			return
		}
		rc := redis.NewClient(&redis.Options{
			Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  3 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
		// Ping to validate; keep the client so later calls can recover once Redis comes up
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Ping(ctx).Err(); err != nil {
			Logger.Warn("redis ping failed", zap.String("addr", rc.Options().Addr), zap.Error(err))
		}
		redisMu.Lock()
		if redisClient == nil {
			redisClient = rc
		}
		redisMu.Unlock()
	})
	redisMu.RLock()
	defer redisMu.RUnlock()
	return redisClient
}

// SetRedis installs a client explicitly, or disables Redis when rc is nil.
func SetRedis(rc *redis.Client) {
	redisOnce.Do(func() {})
	redisMu.Lock()
	redisClient = rc
	redisMu.Unlock()
}

// CloseRedis closes the shared client if one was opened.
func CloseRedis() error {
	redisMu.Lock()
	defer redisMu.Unlock()
	if redisClient == nil {
		return nil
	}
	err := redisClient.Close()
	redisClient = nil
	return err
}
