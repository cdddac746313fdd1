package utils

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// blacklistEntry keeps expiration metadata for a JWT token.
type blacklistEntry struct {
	expiresAt time.Time
}

const blacklistKeyPrefix = "jwt:blacklist:"

var (
	blacklist   = map[string]blacklistEntry{}
	blacklistMu sync.RWMutex
)

// BlacklistToken revokes a token until its natural expiration to support logout.
func BlacklistToken(ctx context.Context, token string, expiresAt time.Time) {
	// Prefer Redis: key with TTL until token expiration
	if rc := GetRedis(); rc != nil {
		ttl := time.Until(expiresAt)
		if ttl <= 0 {
			return
		}
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := rc.Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err()
		if err == nil {
			return
		}
		Logger.Warn("redis blacklist write failed, using memory", zap.Error(err))
	}
	blacklistMu.Lock()
	blacklist[token] = blacklistEntry{expiresAt: expiresAt}
	blacklistMu.Unlock()
}

// IsTokenBlacklisted checks if a token was revoked before natural expiration.
func IsTokenBlacklisted(ctx context.Context, token string) bool {
	// Prefer Redis
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		n, err := rc.Exists(ctx, blacklistKeyPrefix+token).Result()
		if err == nil && n > 0 {
			return true
		}
		// Fail open on Redis errors; still consult tokens revoked while Redis was down
	}
	blacklistMu.RLock()
	entry, ok := blacklist[token]
	blacklistMu.RUnlock()
	if !ok {
		return false
	}

	if time.Now().After(entry.expiresAt) {
		blacklistMu.Lock()
		delete(blacklist, token)
		blacklistMu.Unlock()
		return false
	}

	return true
}
