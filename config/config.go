package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // Timezone must resolve in minimal containers
)

// AppConfig holds environment driven configuration values.
// Secrets never have defaults inside code and must come from config/config.json or the environment.
type AppConfig struct {
	AppPort            string
	JWTSecret          string
	SessionTTLHours    int
	RateLimitPerMinute int
	AllowedOrigins     []string
	Timezone           string
	// Database
	DBDriver    string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Redis for caching and OAuth state; disabled when RedisHost is empty
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// OAuth providers
	GitHubClientID     string
	GitHubClientSecret string
	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectBase  string
	// Public site
	SiteURL string
	// Rewards
	DailyLoginPoints   int
	GameActivityPoints int
	// Gin framework configuration
	GinMode string
	GinPath string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

const defaultSiteURL = "https://moodlift.hexpertify.com"

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	// Precedence: config/config.json -> defaults -> environment variable overrides
	if err := loadJSONConfig(filepath.Join("config", "config.json"), &cfg); err != nil {
		log.Printf("ignoring invalid config/config.json: %v", err)
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// Set replaces the cached configuration. Used by tests and tools that build config in code.
func Set(c AppConfig) {
	applyDefaults(&c)
	cfg = c
	loaded = true
}

// Location resolves the configured timezone used for calendar-day arithmetic.
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "UTC") {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("unknown timezone %q, falling back to UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

// SiteOrigin is the public site URL without a trailing slash.
func (c AppConfig) SiteOrigin() string {
	site := c.SiteURL
	if site == "" {
		site = defaultSiteURL
	}
	return strings.TrimRight(site, "/")
}

// SessionTTL is the lifetime of issued session tokens.
func (c AppConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads the grouped JSON file into out if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	if app, ok := raw["app"]; ok {
		out.AppPort = getString(app, "AppPort")
		out.JWTSecret = getString(app, "JWTSecret")
		out.SessionTTLHours = getInt(app, "SessionTTLHours")
		out.RateLimitPerMinute = getInt(app, "RateLimitPerMinute")
		out.AllowedOrigins = getStringSlice(app, "AllowedOrigins")
		out.Timezone = getString(app, "Timezone")
		out.OAuthRedirectBase = getString(app, "OAuthRedirectBase")
	}

	if g, ok := raw["gin"]; ok {
		out.GinMode = getString(g, "Mode")
		out.GinPath = getString(g, "LogPath")
	}

	if dbs, ok := raw["database"]; ok {
		out.DBDriver = getString(dbs, "Driver")
		out.DatabaseURI = getString(dbs, "DatabaseURI")
		out.DBHost = getString(dbs, "DBHost")
		out.DBPort = getString(dbs, "DBPort")
		out.DBUser = getString(dbs, "DBUser")
		out.DBPassword = getString(dbs, "DBPassword")
		out.DBName = getString(dbs, "DBName")
	}

	if rds, ok := raw["redis"]; ok {
		out.RedisHost = getString(rds, "RedisHost")
		out.RedisPort = getInt(rds, "RedisPort")
		out.RedisDB = getInt(rds, "RedisDB")
		out.RedisPassword = getString(rds, "RedisPassword")
	}

	if oa, ok := raw["oauth"]; ok {
		out.GitHubClientID = getString(oa, "GitHubClientID")
		out.GitHubClientSecret = getString(oa, "GitHubClientSecret")
		out.GoogleClientID = getString(oa, "GoogleClientID")
		out.GoogleClientSecret = getString(oa, "GoogleClientSecret")
	}

	if site, ok := raw["site"]; ok {
		out.SiteURL = getString(site, "SiteURL")
	}

	if rw, ok := raw["rewards"]; ok {
		out.DailyLoginPoints = getInt(rw, "DailyLoginPoints")
		out.GameActivityPoints = getInt(rw, "GameActivityPoints")
	}

	if lg, ok := raw["log"]; ok {
		out.LogLevel = getString(lg, "Level")
		out.LogPath = getString(lg, "Path")
		out.LogMaxSizeMB = getInt(lg, "MaxSizeMB")
		out.LogMaxBackups = getInt(lg, "MaxBackups")
		out.LogMaxAgeDays = getInt(lg, "MaxAgeDays")
		out.LogCompress = getBool(lg, "Compress")
	}

	return nil
}

func getString(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func getInt(m map[string]any, key string) int {
	switch t := m[key].(type) {
	case float64:
		return int(t)
	case int:
		return t
	}
	return 0
}

func getBool(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func getStringSlice(m map[string]any, key string) []string {
	arr, ok := m[key].([]any)
	if !ok {
		return nil
	}
	res := make([]string, 0, len(arr))
	for _, it := range arr {
		if s, ok := it.(string); ok {
			res = append(res, s)
		}
	}
	return res
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.SessionTTLHours == 0 {
		c.SessionTTLHours = 72
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.OAuthRedirectBase == "" {
		c.OAuthRedirectBase = "http://localhost:8080"
	}
	if c.SiteURL == "" {
		c.SiteURL = defaultSiteURL
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "moodlift"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.DailyLoginPoints == 0 {
		c.DailyLoginPoints = 10
	}
	if c.GameActivityPoints == 0 {
		c.GameActivityPoints = 5
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	// Ordered so that later keys win when both are set (SITE_URL over NEXT_PUBLIC_SITE_URL).
	strs := []struct {
		key string
		dst *string
	}{
		{"APP_PORT", &c.AppPort},
		{"JWT_SECRET", &c.JWTSecret},
		{"TIMEZONE", &c.Timezone},
		{"GIN_MODE", &c.GinMode},
		{"GIN_PATH", &c.GinPath},
		{"DB_DRIVER", &c.DBDriver},
		{"DATABASE_URI", &c.DatabaseURI},
		{"DB_HOST", &c.DBHost},
		{"DB_PORT", &c.DBPort},
		{"DB_USER", &c.DBUser},
		{"DB_PASSWORD", &c.DBPassword},
		{"DB_NAME", &c.DBName},
		{"REDIS_HOST", &c.RedisHost},
		{"REDIS_PASSWORD", &c.RedisPassword},
		{"GITHUB_CLIENT_ID", &c.GitHubClientID},
		{"GITHUB_CLIENT_SECRET", &c.GitHubClientSecret},
		{"GOOGLE_CLIENT_ID", &c.GoogleClientID},
		{"GOOGLE_CLIENT_SECRET", &c.GoogleClientSecret},
		{"OAUTH_REDIRECT_BASE_URL", &c.OAuthRedirectBase},
		{"NEXT_PUBLIC_SITE_URL", &c.SiteURL},
		{"SITE_URL", &c.SiteURL},
		{"LOG_LEVEL", &c.LogLevel},
		{"LOG_PATH", &c.LogPath},
	}
	for _, o := range strs {
		if v := getEnv(o.key, ""); v != "" {
			*o.dst = v
		}
	}

	ints := map[string]*int{
		"SESSION_TTL_HOURS":     &c.SessionTTLHours,
		"RATE_LIMIT_PER_MINUTE": &c.RateLimitPerMinute,
		"REDIS_PORT":            &c.RedisPort,
		"REDIS_DB":              &c.RedisDB,
		"DAILY_LOGIN_POINTS":    &c.DailyLoginPoints,
		"GAME_ACTIVITY_POINTS":  &c.GameActivityPoints,
		"LOG_MAX_SIZE_MB":       &c.LogMaxSizeMB,
		"LOG_MAX_BACKUPS":       &c.LogMaxBackups,
		"LOG_MAX_AGE_DAYS":      &c.LogMaxAgeDays,
	}
	for key, dst := range ints {
		if v := getEnv(key, ""); v != "" {
			*dst = mustParseInt(v)
		}
	}

	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = v == "true"
	}
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer value %s: %v", val, err)
	}
	return i
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
