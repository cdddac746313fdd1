package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hexpertify/moodlift/middleware"
	"github.com/hexpertify/moodlift/services"
	"github.com/hexpertify/moodlift/utils"
)

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

// requireUserID writes a 401 and reports false when the request carries no user.
func requireUserID(ctx *gin.Context) (uint, bool) {
	userID, ok := getUserID(ctx)
	if !ok || userID == 0 {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return 0, false
	}
	return userID, true
}

// writeServiceError maps service sentinel errors onto the response envelope.
func writeServiceError(ctx *gin.Context, err error, code int, message string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		utils.Error(ctx, http.StatusBadRequest, 40001, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40400, err.Error())
	default:
		utils.Error(ctx, http.StatusInternalServerError, code, message)
	}
}

func queryInt(ctx *gin.Context, key string, def int) int {
	if v := strings.TrimSpace(ctx.Query(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func queryBool(ctx *gin.Context, key string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(ctx.Query(key)))
	return b
}
