package services

import (
	"testing"
	"time"

	"github.com/hexpertify/moodlift/config"
	"github.com/hexpertify/moodlift/utils"
)

// fixedNow is Wednesday 14 October 2026, 15:04 UTC.
var fixedNow = time.Date(2026, 10, 14, 15, 4, 0, 0, time.UTC)

func testConfig(t *testing.T) config.AppConfig {
	t.Helper()
	config.Set(config.AppConfig{
		JWTSecret: "test-secret",
		SiteURL:   "https://example.com/",
	})
	utils.SetRedis(nil)
	return config.Get()
}

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func intPtr(v int) *int { return &v }
