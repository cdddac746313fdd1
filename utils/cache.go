package utils

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

const (
	defaultCacheTTL = time.Hour
	cacheOpTimeout  = 2 * time.Second
)

// Cache keys shared by services and controllers.
const (
	cacheKeyPrefix      = "cache:"
	CacheKeySitemapXML  = "cache:sitemap:xml"
	CacheKeyConsultants = "cache:consultants:carousel"
)

// CacheGetBytes returns cached bytes for a key from Redis.
func CacheGetBytes(ctx context.Context, key string) ([]byte, bool) {
	rc := GetRedis()
	if rc == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()
	b, err := rc.Get(ctx, key).Bytes()
	if err != nil {
		Logger.Debug("cache get miss", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return b, true
}

// CacheSetBytes stores bytes; a non-positive ttl means one hour.
func CacheSetBytes(ctx context.Context, key string, b []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	rc := GetRedis()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()
	if err := rc.Set(ctx, key, b, ttl).Err(); err != nil {
		Logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// CacheSetJSON marshals v and stores JSON bytes.
func CacheSetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	CacheSetBytes(ctx, key, b, ttl)
}

// CacheGetJSON decodes a cached JSON value into out. A decode failure counts as a miss.
func CacheGetJSON(ctx context.Context, key string, out interface{}) bool {
	b, ok := CacheGetBytes(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		Logger.Warn("cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// InvalidateByPrefix deletes keys that match the given prefix using SCAN.
func InvalidateByPrefix(ctx context.Context, prefix string) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var cursor uint64
	for i := 0; i < 10; i++ { // limit rounds to avoid long loops
		keys, cur, err := rc.Scan(ctx, cursor, prefix+"*", 1000).Result()
		if err != nil {
			break
		}
		cursor = cur
		if len(keys) > 0 {
			pipe := rc.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			_, _ = pipe.Exec(ctx)
		}
		if cursor == 0 {
			break
		}
	}
}

// FlushCaches drops every cached read model. Run at boot so rows edited while the
// service was down are not served stale.
func FlushCaches(ctx context.Context) {
	InvalidateByPrefix(ctx, cacheKeyPrefix)
}
