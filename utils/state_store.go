package utils

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultStateTTL = 10 * time.Minute
	stateKeyPrefix  = "oauth:state:"
)

type stateEntry struct {
	provider  string
	expiresAt time.Time
}

var (
	stateStore   = map[string]stateEntry{}
	stateStoreMu sync.Mutex
)

// SaveState stores an OAuth state token bound to the provider that issued it.
func SaveState(ctx context.Context, state, provider string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	// Prefer Redis for distributed consistency
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := rc.Set(ctx, stateKeyPrefix+state, provider, ttl).Err()
		if err == nil {
			return
		}
		Logger.Warn("redis state save failed, using memory", zap.Error(err))
	}
	// Fallback to in-memory (single-instance only)
	stateStoreMu.Lock()
	purgeExpiredStatesLocked(time.Now())
	stateStore[state] = stateEntry{provider: provider, expiresAt: time.Now().Add(ttl)}
	stateStoreMu.Unlock()
}

// ConsumeState validates and removes a state token, returning the provider it was issued for.
func ConsumeState(ctx context.Context, state string) (string, bool) {
	if state == "" {
		return "", false
	}
	// Prefer Redis: GETDEL to ensure single-use
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		key := stateKeyPrefix + state
		if v, err := rc.GetDel(ctx, key).Result(); err == nil {
			return v, v != ""
		}
		// Fallback to Lua to attempt atomic get+del when GETDEL not available
		script := `local v=redis.call('GET', KEYS[1]); if v then redis.call('DEL', KEYS[1]); end; return v`
		if res, err := rc.Eval(ctx, script, []string{key}).Result(); err == nil {
			if v, ok := res.(string); ok && v != "" {
				return v, true
			}
		}
		// The state may have been saved in memory while Redis was unavailable
	}
	stateStoreMu.Lock()
	entry, ok := stateStore[state]
	if ok {
		delete(stateStore, state)
	}
	stateStoreMu.Unlock()
	if !ok || !time.Now().Before(entry.expiresAt) {
		return "", false
	}
	return entry.provider, true
}

func purgeExpiredStatesLocked(now time.Time) {
	for k, e := range stateStore {
		if !now.Before(e.expiresAt) {
			delete(stateStore, k)
		}
	}
}
