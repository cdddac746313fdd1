package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hexpertify/moodlift/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// ContextClaimsKey stores the parsed JWT claims.
	ContextClaimsKey = "claims"
	// ContextTokenKey stores the raw session token so logout can revoke it.
	ContextTokenKey = "token"

	// SessionCookieName carries the session token set by the OAuth callback.
	SessionCookieName = "moodlift_session"
)

type authFailure struct {
	code    int
	message string
}

// AuthRequired ensures the request is authenticated via a bearer token or the session cookie.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if fail := authenticate(ctx); fail != nil {
			utils.AbortWithError(ctx, http.StatusUnauthorized, fail.code, fail.message)
			return
		}
		ctx.Next()
	}
}

// OptionalAuth attaches the user when valid credentials are present and lets guests through otherwise.
func OptionalAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		_ = authenticate(ctx)
		ctx.Next()
	}
}

func authenticate(ctx *gin.Context) *authFailure {
	tokenString, fail := extractToken(ctx)
	if fail != nil {
		return fail
	}

	if utils.IsTokenBlacklisted(ctx.Request.Context(), tokenString) {
		return &authFailure{40104, "token revoked"}
	}

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		return &authFailure{40105, "invalid token"}
	}

	ctx.Set(ContextUserIDKey, claims.UserID)
	ctx.Set(ContextUsernameKey, claims.Username)
	ctx.Set(ContextClaimsKey, claims)
	ctx.Set(ContextTokenKey, tokenString)
	return nil
}

func extractToken(ctx *gin.Context) (string, *authFailure) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		if cookie, err := ctx.Cookie(SessionCookieName); err == nil && cookie != "" {
			return cookie, nil
		}
		return "", &authFailure{40101, "authorization header missing"}
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", &authFailure{40102, "invalid authorization header format"}
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return "", &authFailure{40103, "empty bearer token"}
	}
	return tokenString, nil
}
