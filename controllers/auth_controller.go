package controllers

import (
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hexpertify/moodlift/middleware"
	"github.com/hexpertify/moodlift/services"
	"github.com/hexpertify/moodlift/utils"
)

// AuthController serves the OAuth login redirect, the callback page and session endpoints.
type AuthController struct {
	auth         *services.AuthService
	secureCookie bool
}

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Signing you in</title></head>
<body>
<main>
<h1>Signing you in</h1>
<p role="status">{{.Message}}</p>
<p><a href="/">Back to home</a></p>
</main>
</body>
</html>
`))

// NewAuthController creates an AuthController.
func NewAuthController(auth *services.AuthService, siteOrigin string) *AuthController {
	return &AuthController{auth: auth, secureCookie: strings.HasPrefix(siteOrigin, "https://")}
}

// Login redirects the browser to the provider's consent screen.
func (a *AuthController) Login(ctx *gin.Context) {
	target, err := a.auth.BeginLogin(ctx.Request.Context(), ctx.Param("provider"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnsupportedProvider):
			utils.Error(ctx, http.StatusBadRequest, 40004, "unsupported provider")
		case errors.Is(err, services.ErrProviderNotConfigured):
			utils.Error(ctx, http.StatusServiceUnavailable, 50301, "provider not configured")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to start sign-in")
		}
		return
	}
	ctx.Redirect(http.StatusFound, target)
}

// Callback resolves the provider redirect. On success it sets the session cookie and sends the user home.
func (a *AuthController) Callback(ctx *gin.Context) {
	params := services.CallbackParams{
		Code:             ctx.Query("code"),
		State:            ctx.Query("state"),
		Error:            ctx.Query("error"),
		ErrorDescription: ctx.Query("error_description"),
	}

	res, err := a.auth.ResolveCallback(ctx.Request.Context(), params)
	if err != nil {
		// Client went away; nothing is written.
		utils.Logger.Debug("oauth callback abandoned", zap.Error(err))
		ctx.Abort()
		return
	}

	if res.State == services.CallbackSuccess {
		a.setSessionCookie(ctx, res.Token, res.ExpiresAt)
		if wantsJSON(ctx) {
			utils.Success(ctx, res)
			return
		}
		ctx.Redirect(http.StatusFound, res.RedirectTo)
		return
	}

	if wantsJSON(ctx) {
		utils.Respond(ctx, http.StatusBadRequest, 40006, res.Message, res)
		return
	}
	ctx.Status(http.StatusBadRequest)
	ctx.Header("Content-Type", "text/html; charset=utf-8")
	if err := callbackPage.Execute(ctx.Writer, res); err != nil {
		utils.Logger.Error("render callback page", zap.Error(err))
	}
}

// Me returns the authenticated user.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	user, err := a.auth.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to get user")
		return
	}
	utils.Success(ctx, user)
}

// Logout revokes the current token and clears the session cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	if token == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "missing session token")
		return
	}

	expiresAt := time.Now().Add(a.auth.SessionTTL())
	if claims, err := utils.ParseToken(token); err == nil {
		expiresAt = utils.TokenExpiry(claims, a.auth.SessionTTL())
	}
	utils.BlacklistToken(ctx.Request.Context(), token, expiresAt)

	a.setSessionCookie(ctx, "", time.Time{})
	utils.Success(ctx, gin.H{"message": "logged out"})
}

func (a *AuthController) setSessionCookie(ctx *gin.Context, token string, expiresAt time.Time) {
	maxAge := -1
	if token != "" {
		maxAge = max(int(time.Until(expiresAt).Seconds()), 1)
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", a.secureCookie, true)
}

func wantsJSON(ctx *gin.Context) bool {
	return strings.Contains(ctx.GetHeader("Accept"), "application/json")
}
