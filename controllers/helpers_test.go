package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hexpertify/moodlift/config"
	"github.com/hexpertify/moodlift/middleware"
	"github.com/hexpertify/moodlift/testutil"
	"github.com/hexpertify/moodlift/utils"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setup(t *testing.T) (*gorm.DB, config.AppConfig) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.Set(config.AppConfig{
		JWTSecret: "controller-secret",
		SiteURL:   "https://example.com",
	})
	utils.SetRedis(nil)
	return testutil.OpenTestDB(t), config.Get()
}

// asUser stands in for the auth middleware.
func asUser(id uint) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(middleware.ContextUserIDKey, id)
		ctx.Next()
	}
}

func do(t *testing.T, r http.Handler, method, target string, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}
