package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/hexpertify/moodlift/config"
	"github.com/hexpertify/moodlift/models"
	"github.com/hexpertify/moodlift/utils"
)

// Messages shown on the sign-in callback page.
const (
	MsgCompletingSignIn = "Completing sign-in…"
	MsgMissingCode      = "Missing OAuth code. Please try again."
	MsgInvalidState     = "Invalid or expired sign-in state. Please try again."
	MsgSignInFailed     = "Failed to complete sign-in."
)

const oauthStateTTL = 10 * time.Minute

// CallbackState is the state of one sign-in callback.
type CallbackState string

const (
	CallbackPending CallbackState = "pending"
	CallbackSuccess CallbackState = "success"
	CallbackError   CallbackState = "error"
)

// CallbackParams are the query parameters the provider redirects back with.
type CallbackParams struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// CallbackResult is the terminal outcome of a callback.
type CallbackResult struct {
	State      CallbackState `json:"state"`
	Message    string        `json:"message"`
	RedirectTo string        `json:"redirect_to,omitempty"`
	Token      string        `json:"token,omitempty"`
	ExpiresAt  time.Time     `json:"expires_at,omitempty"`
	User       *models.User  `json:"user,omitempty"`
}

// AuthService runs the OAuth sign-in flow and issues session tokens.
type AuthService struct {
	db         *gorm.DB
	providers  map[string]OAuthProvider
	sessionTTL time.Duration
}

// NewAuthService creates an AuthService with every provider that has credentials configured.
func NewAuthService(db *gorm.DB, cfg config.AppConfig) *AuthService {
	return &AuthService{
		db:         db,
		providers:  providersFromConfig(cfg),
		sessionTTL: cfg.SessionTTL(),
	}
}

// RegisterProvider installs or replaces a provider under name.
func (s *AuthService) RegisterProvider(name string, p OAuthProvider) {
	s.providers[strings.ToLower(name)] = p
}

// SessionTTL is the lifetime of issued tokens.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *AuthService) provider(name string) (OAuthProvider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if p, ok := s.providers[name]; ok {
		return p, nil
	}
	if knownProviders[name] {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, name)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, name)
}

// BeginLogin stores a single-use state bound to the provider and returns the authorization URL.
func (s *AuthService) BeginLogin(ctx context.Context, providerName string) (string, error) {
	p, err := s.provider(providerName)
	if err != nil {
		return "", err
	}
	state := uuid.NewString()
	utils.SaveState(ctx, state, strings.ToLower(strings.TrimSpace(providerName)), oauthStateTTL)
	return p.AuthCodeURL(state), nil
}

// ResolveCallback moves a callback from pending to success or error.
// It returns an error only when ctx ends before completion, in which case the result must be discarded.
func (s *AuthService) ResolveCallback(ctx context.Context, params CallbackParams) (*CallbackResult, error) {
	res := s.resolve(ctx, params)
	if err := ctx.Err(); err != nil {
		utils.AuthCallbacksTotal.WithLabelValues("abandoned").Inc()
		return nil, err
	}
	utils.AuthCallbacksTotal.WithLabelValues(string(res.State)).Inc()
	return res, nil
}

func (s *AuthService) resolve(ctx context.Context, params CallbackParams) *CallbackResult {
	if params.Error != "" {
		msg := params.Error
		if params.ErrorDescription != "" {
			decoded, err := url.PathUnescape(params.ErrorDescription)
			if err != nil {
				return failed(MsgSignInFailed)
			}
			msg = decoded
		}
		return failed(msg)
	}
	if params.Code == "" {
		return failed(MsgMissingCode)
	}

	providerName, ok := utils.ConsumeState(ctx, params.State)
	if !ok {
		return failed(MsgInvalidState)
	}
	p, err := s.provider(providerName)
	if err != nil {
		utils.Logger.Warn("callback for unavailable provider", zap.String("provider", providerName), zap.Error(err))
		return failed(MsgSignInFailed)
	}

	identity, err := p.Identify(ctx, params.Code)
	if err != nil {
		utils.Logger.Warn("oauth exchange failed", zap.String("provider", providerName), zap.Error(err))
		return failed(exchangeMessage(err))
	}

	user, err := s.findOrCreateUser(ctx, providerName, identity)
	if err != nil {
		utils.Logger.Error("failed to persist oauth user", zap.String("provider", providerName), zap.Error(err))
		return failed(MsgSignInFailed)
	}

	expiresAt := time.Now().Add(s.sessionTTL)
	token, err := utils.GenerateToken(user.ID, user.Username, s.sessionTTL)
	if err != nil {
		utils.Logger.Error("failed to generate token", zap.Uint("user_id", user.ID), zap.Error(err))
		return failed(MsgSignInFailed)
	}

	return &CallbackResult{
		State:      CallbackSuccess,
		Message:    MsgCompletingSignIn,
		RedirectTo: "/",
		Token:      token,
		ExpiresAt:  expiresAt,
		User:       user,
	}
}

func failed(msg string) *CallbackResult {
	return &CallbackResult{State: CallbackError, Message: msg}
}

// exchangeMessage picks the provider's own description when it sent one.
func exchangeMessage(err error) string {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.ErrorDescription != "" {
			return re.ErrorDescription
		}
	}
	return MsgSignInFailed
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

func (s *AuthService) findOrCreateUser(ctx context.Context, provider string, data *OAuthIdentity) (*models.User, error) {
	if data == nil || strings.TrimSpace(data.ID) == "" {
		return nil, errors.New("provider returned no account id")
	}
	db := s.db.WithContext(ctx)

	var user models.User
	err := db.Where("provider = ? AND provider_id = ?", provider, data.ID).First(&user).Error
	if err == nil {
		updates := map[string]interface{}{
			"email":      strings.TrimSpace(data.Email),
			"avatar_url": data.AvatarURL,
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			utils.Logger.Warn("failed to refresh oauth profile", zap.Uint("user_id", user.ID), zap.Error(err))
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		Username:   s.ensureUniqueUsername(ctx, data.Username, provider, data.ID),
		Email:      strings.TrimSpace(data.Email),
		Provider:   provider,
		ProviderID: data.ID,
		AvatarURL:  data.AvatarURL,
	}
	if err := db.Create(&user).Error; err != nil {
		// Two first sign-ins for the same identity can race on the unique index
		var existing models.User
		if e := db.Where("provider = ? AND provider_id = ?", provider, data.ID).First(&existing).Error; e == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &user, nil
}

func sanitizeUsername(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}
	var builder strings.Builder
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
		case r == '_' || r == '-' || r == '.' || r == ' ':
			builder.WriteRune('_')
		}
	}
	result := strings.Trim(builder.String(), "_")
	if len(result) > 48 {
		result = result[:48]
	}
	return result
}

func (s *AuthService) ensureUniqueUsername(ctx context.Context, base, provider, id string) string {
	base = sanitizeUsername(base)
	if base == "" {
		base = sanitizeUsername(fmt.Sprintf("%s_%s", provider, id))
		if base == "" {
			base = fmt.Sprintf("user_%s", id)
		}
	}

	candidate := base
	for suffix := 1; suffix < 1000; suffix++ {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			return candidate
		}
		if count == 0 {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", base, suffix)
	}
	return fmt.Sprintf("%s_%s", base, uuid.NewString()[:8])
}
