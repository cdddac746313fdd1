package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hexpertify/moodlift/config"
	"github.com/hexpertify/moodlift/testutil"
	"github.com/hexpertify/moodlift/utils"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.Set(config.AppConfig{JWTSecret: "router-secret", SiteURL: "https://example.com"})
	utils.SetRedis(nil)
	cfg := config.Get()
	return NewRouter(cfg, NewServices(testutil.OpenTestDB(t), cfg), zap.NewNop())
}

func get(r http.Handler, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicRoutes(t *testing.T) {
	r := testRouter(t)

	tests := []struct {
		target string
		status int
	}{
		{"/health", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/sitemap.xml", http.StatusOK},
		{"/api/v1/sitemap", http.StatusOK},
		{"/api/v1/consultants", http.StatusOK},
		{"/api/v1/games", http.StatusOK},
		{"/api/v1/streak", http.StatusOK},
		{"/api/v1/seo", http.StatusBadRequest},
		{"/api/v1/unknown", http.StatusNotFound},
		{"/elsewhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.status, get(r, tt.target, "").Code)
		})
	}
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	r := testRouter(t)
	token, err := utils.GenerateToken(5, "tester", time.Hour)
	require.NoError(t, err)

	for _, target := range []string{"/api/v1/auth/me", "/api/v1/progress", "/api/v1/progress/heatmap", "/api/v1/rewards/activities"} {
		assert.Equal(t, http.StatusUnauthorized, get(r, target, "").Code, target)
	}

	assert.Equal(t, http.StatusOK, get(r, "/api/v1/progress", token).Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/progress/heatmap", token).Code)
	// Token is valid but the user row does not exist
	assert.Equal(t, http.StatusNotFound, get(r, "/api/v1/auth/me", token).Code)
}

func TestRouter_UnknownProvider(t *testing.T) {
	r := testRouter(t)
	w := get(r, "/auth/login/myspace", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
