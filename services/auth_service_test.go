package services

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/hexpertify/moodlift/models"
	"github.com/hexpertify/moodlift/testutil"
	"github.com/hexpertify/moodlift/utils"
)

type fakeProvider struct {
	identity *OAuthIdentity
	err      error
	codes    []string
}

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.example/authorize?state=" + url.QueryEscape(state)
}

func (f *fakeProvider) Identify(_ context.Context, code string) (*OAuthIdentity, error) {
	f.codes = append(f.codes, code)
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

func newAuthService(t *testing.T) (*AuthService, *fakeProvider) {
	t.Helper()
	cfg := testConfig(t)
	svc := NewAuthService(testutil.OpenTestDB(t), cfg)
	fp := &fakeProvider{identity: &OAuthIdentity{ID: "1001", Username: "Calm.Otter", Email: "otter@example.com"}}
	svc.RegisterProvider("github", fp)
	return svc, fp
}

func beginState(t *testing.T, svc *AuthService, provider string) string {
	t.Helper()
	authURL, err := svc.BeginLogin(context.Background(), provider)
	require.NoError(t, err)
	u, err := url.Parse(authURL)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestResolveCallback_ParameterErrors(t *testing.T) {
	svc, fp := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		params CallbackParams
		want   string
	}{
		{"provider error with description", CallbackParams{Error: "access_denied", ErrorDescription: "User%20denied%20access", Code: "c"}, "User denied access"},
		{"provider error only", CallbackParams{Error: "access_denied"}, "access_denied"},
		{"undecodable description", CallbackParams{Error: "x", ErrorDescription: "100%"}, MsgSignInFailed},
		{"missing code", CallbackParams{State: "s"}, MsgMissingCode},
		{"unknown state", CallbackParams{Code: "c", State: "never-issued"}, MsgInvalidState},
		{"missing state", CallbackParams{Code: "c"}, MsgInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.ResolveCallback(ctx, tt.params)
			require.NoError(t, err)
			assert.Equal(t, CallbackError, res.State)
			assert.Equal(t, tt.want, res.Message)
			assert.Empty(t, res.Token)
		})
	}
	assert.Empty(t, fp.codes, "no exchange happens on parameter errors")
}

func TestResolveCallback_Success(t *testing.T) {
	svc, fp := newAuthService(t)
	ctx := context.Background()

	state := beginState(t, svc, "GitHub")
	res, err := svc.ResolveCallback(ctx, CallbackParams{Code: "abc", State: state})
	require.NoError(t, err)
	assert.Equal(t, CallbackSuccess, res.State)
	assert.Equal(t, "/", res.RedirectTo)
	assert.Equal(t, []string{"abc"}, fp.codes)
	require.NotNil(t, res.User)
	assert.Equal(t, "calm_otter", res.User.Username)

	claims, err := utils.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	// state is single use
	again, err := svc.ResolveCallback(ctx, CallbackParams{Code: "abc", State: state})
	require.NoError(t, err)
	assert.Equal(t, MsgInvalidState, again.Message)

	// a second sign-in finds the same account
	second, err := svc.ResolveCallback(ctx, CallbackParams{Code: "def", State: beginState(t, svc, "github")})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, second.User.ID)

	var count int64
	require.NoError(t, svc.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResolveCallback_UniqueUsernames(t *testing.T) {
	svc, fp := newAuthService(t)
	ctx := context.Background()

	first, err := svc.ResolveCallback(ctx, CallbackParams{Code: "a", State: beginState(t, svc, "github")})
	require.NoError(t, err)

	fp.identity = &OAuthIdentity{ID: "2002", Username: "calm-otter"}
	second, err := svc.ResolveCallback(ctx, CallbackParams{Code: "b", State: beginState(t, svc, "github")})
	require.NoError(t, err)

	assert.Equal(t, "calm_otter", first.User.Username)
	assert.Equal(t, "calm_otter_1", second.User.Username)
}

func TestResolveCallback_ExchangeFailure(t *testing.T) {
	svc, fp := newAuthService(t)
	ctx := context.Background()

	fp.err = &oauth2.RetrieveError{ErrorCode: "bad_verification_code", ErrorDescription: "The code passed is incorrect or expired."}
	res, err := svc.ResolveCallback(ctx, CallbackParams{Code: "x", State: beginState(t, svc, "github")})
	require.NoError(t, err)
	assert.Equal(t, CallbackError, res.State)
	assert.Equal(t, "The code passed is incorrect or expired.", res.Message)

	fp.err = errors.New("dial tcp: timeout")
	res, err = svc.ResolveCallback(ctx, CallbackParams{Code: "x", State: beginState(t, svc, "github")})
	require.NoError(t, err)
	assert.Equal(t, MsgSignInFailed, res.Message)
}

func TestResolveCallback_Cancelled(t *testing.T) {
	svc, _ := newAuthService(t)
	state := beginState(t, svc, "github")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := svc.ResolveCallback(ctx, CallbackParams{Code: "x", State: state})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestBeginLogin_Providers(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.BeginLogin(ctx, "google")
	assert.ErrorIs(t, err, ErrProviderNotConfigured)

	_, err = svc.BeginLogin(ctx, "myspace")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestSanitizeUsername(t *testing.T) {
	assert.Equal(t, "calm_otter", sanitizeUsername(" Calm.Otter "))
	assert.Equal(t, "amara_lee", sanitizeUsername("Amara Lee"))
	assert.Equal(t, "", sanitizeUsername("李"))
}
