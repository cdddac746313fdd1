package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/hexpertify/moodlift/config"
)

// OAuthIdentity is the provider-side account returned after a code exchange.
type OAuthIdentity struct {
	ID        string
	Username  string
	Email     string
	AvatarURL string
}

// OAuthProvider turns authorization codes into provider identities.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Identify(ctx context.Context, code string) (*OAuthIdentity, error)
}

type identityFetcher func(ctx context.Context, client *http.Client) (*OAuthIdentity, error)

type oauth2Provider struct {
	cfg   *oauth2.Config
	fetch identityFetcher
}

func (p *oauth2Provider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

func (p *oauth2Provider) Identify(ctx context.Context, code string) (*OAuthIdentity, error) {
	token, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	return p.fetch(ctx, p.cfg.Client(ctx, token))
}

var knownProviders = map[string]bool{"github": true, "google": true}

// providersFromConfig builds every provider that has client credentials.
func providersFromConfig(cfg config.AppConfig) map[string]OAuthProvider {
	redirect := strings.TrimRight(cfg.OAuthRedirectBase, "/") + "/auth/callback"
	out := map[string]OAuthProvider{}
	if cfg.GitHubClientID != "" && cfg.GitHubClientSecret != "" {
		out["github"] = &oauth2Provider{
			cfg: &oauth2.Config{
				ClientID:     cfg.GitHubClientID,
				ClientSecret: cfg.GitHubClientSecret,
				RedirectURL:  redirect,
				Scopes:       []string{"read:user", "user:email"},
				Endpoint:     github.Endpoint,
			},
			fetch: fetchGitHubUser,
		}
	}
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		out["google"] = &oauth2Provider{
			cfg: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  redirect,
				Scopes:       []string{"openid", "profile", "email"},
				Endpoint:     google.Endpoint,
			},
			fetch: fetchGoogleUser,
		}
	}
	return out
}

func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s failed: %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func fetchGitHubUser(ctx context.Context, client *http.Client) (*OAuthIdentity, error) {
	var payload struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
		Email     string `json:"email"`
	}
	if err := getJSON(ctx, client, "https://api.github.com/user", &payload); err != nil {
		return nil, fmt.Errorf("github user info: %w", err)
	}

	email := payload.Email
	if email == "" {
		// Private emails only show up on the emails endpoint
		email, _ = fetchGitHubEmail(ctx, client)
	}

	return &OAuthIdentity{
		ID:        fmt.Sprintf("%d", payload.ID),
		Username:  payload.Login,
		Email:     email,
		AvatarURL: payload.AvatarURL,
	}, nil
}

func fetchGitHubEmail(ctx context.Context, client *http.Client) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(ctx, client, "https://api.github.com/user/emails", &emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", nil
}

func fetchGoogleUser(ctx context.Context, client *http.Client) (*OAuthIdentity, error) {
	var payload struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := getJSON(ctx, client, "https://www.googleapis.com/oauth2/v2/userinfo", &payload); err != nil {
		return nil, fmt.Errorf("google user info: %w", err)
	}
	username := payload.Name
	if at := strings.Index(payload.Email, "@"); username == "" && at > 0 {
		username = payload.Email[:at]
	}
	return &OAuthIdentity{
		ID:        payload.ID,
		Username:  username,
		Email:     payload.Email,
		AvatarURL: payload.Picture,
	}, nil
}
