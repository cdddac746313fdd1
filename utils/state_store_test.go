package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexpertify/moodlift/testutil"
)

func TestStateStore_Redis(t *testing.T) {
	rc, mr := testutil.NewRedis(t)
	SetRedis(rc)
	t.Cleanup(func() { SetRedis(nil) })
	ctx := context.Background()

	SaveState(ctx, "s1", "github", time.Minute)
	require.True(t, mr.Exists("oauth:state:s1"))

	provider, ok := ConsumeState(ctx, "s1")
	assert.True(t, ok)
	assert.Equal(t, "github", provider)

	// single use
	_, ok = ConsumeState(ctx, "s1")
	assert.False(t, ok)

	SaveState(ctx, "s2", "google", time.Minute)
	mr.FastForward(2 * time.Minute)
	_, ok = ConsumeState(ctx, "s2")
	assert.False(t, ok)
}

func TestStateStore_Memory(t *testing.T) {
	SetRedis(nil)
	ctx := context.Background()

	SaveState(ctx, "m1", "google", time.Minute)
	provider, ok := ConsumeState(ctx, "m1")
	assert.True(t, ok)
	assert.Equal(t, "google", provider)

	_, ok = ConsumeState(ctx, "m1")
	assert.False(t, ok)

	_, ok = ConsumeState(ctx, "")
	assert.False(t, ok)

	SaveState(ctx, "m2", "github", time.Nanosecond)
	time.Sleep(time.Millisecond)
	_, ok = ConsumeState(ctx, "m2")
	assert.False(t, ok)
}

func TestTokenBlacklist(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		SetRedis(nil)
		BlacklistToken(ctx, "tok-a", time.Now().Add(time.Hour))
		assert.True(t, IsTokenBlacklisted(ctx, "tok-a"))
		assert.False(t, IsTokenBlacklisted(ctx, "tok-b"))
	})

	t.Run("redis", func(t *testing.T) {
		rc, mr := testutil.NewRedis(t)
		SetRedis(rc)
		t.Cleanup(func() { SetRedis(nil) })

		BlacklistToken(ctx, "tok-c", time.Now().Add(time.Hour))
		assert.True(t, mr.Exists("jwt:blacklist:tok-c"))
		assert.True(t, IsTokenBlacklisted(ctx, "tok-c"))
		assert.False(t, IsTokenBlacklisted(ctx, "tok-d"))
	})
}

func TestCacheJSON(t *testing.T) {
	ctx := context.Background()

	SetRedis(nil)
	CacheSetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute)
	var out map[string]int
	assert.False(t, CacheGetJSON(ctx, "k", &out), "cache is a no-op without redis")

	rc, mr := testutil.NewRedis(t)
	SetRedis(rc)
	t.Cleanup(func() { SetRedis(nil) })

	CacheSetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute)
	require.True(t, CacheGetJSON(ctx, "k", &out))
	assert.Equal(t, 1, out["a"])

	CacheSetBytes(ctx, "prefix:1", []byte("x"), 0)
	CacheSetBytes(ctx, "prefix:2", []byte("y"), 0)
	InvalidateByPrefix(ctx, "prefix:")
	assert.False(t, mr.Exists("prefix:1"))
	assert.False(t, mr.Exists("prefix:2"))
	assert.True(t, mr.Exists("k"))

	CacheSetBytes(ctx, CacheKeySitemapXML, []byte("<urlset/>"), time.Hour)
	CacheSetBytes(ctx, CacheKeyConsultants, []byte("{}"), time.Hour)
	require.NoError(t, mr.Set("oauth:state:abc", "github"))
	FlushCaches(ctx)
	assert.False(t, mr.Exists(CacheKeySitemapXML))
	assert.False(t, mr.Exists(CacheKeyConsultants))
	assert.True(t, mr.Exists("oauth:state:abc"), "only cache: keys are flushed")
}
