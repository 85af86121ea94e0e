package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"HostelAPI/internal/env"

	json "github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// Provider APIs queried after the code exchange
var (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	githubUserURL     = "https://api.github.com/user"
	githubEmailsURL   = "https://api.github.com/user/emails"
)

var errNoVerifiedEmail = errors.New("no verified email found")

// OAuthConfig holds the oauth2 client configuration of each enabled provider.
// The zero value has every provider disabled.
type OAuthConfig struct {
	providers map[Provider]*oauth2.Config
}

// OAuthUserInfo is the identity a provider vouches for
type OAuthUserInfo struct {
	ProviderID string
	Email      string
	Name       string
}

// NewOAuthConfig enables every provider that has both a client id and a secret.
// Callbacks land on /api/auth/callback/:provider under callbackBaseURL.
func NewOAuthConfig(googleCfg, githubCfg env.ProviderConfig, callbackBaseURL string) *OAuthConfig {
	c := &OAuthConfig{providers: map[Provider]*oauth2.Config{}}
	c.enable(ProviderGoogle, googleCfg, callbackBaseURL, google.Endpoint,
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
	)
	c.enable(ProviderGitHub, githubCfg, callbackBaseURL, github.Endpoint, "user:email", "read:user")
	return c
}

func (c *OAuthConfig) enable(p Provider, creds env.ProviderConfig, callbackBaseURL string, endpoint oauth2.Endpoint, scopes ...string) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return
	}
	c.providers[p] = &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  strings.TrimRight(callbackBaseURL, "/") + "/api/auth/callback/" + string(p),
		Scopes:       scopes,
		Endpoint:     endpoint,
	}
}

// IsProviderConfigured reports whether p can be used to sign in
func (c *OAuthConfig) IsProviderConfigured(p Provider) bool {
	_, ok := c.providers[p]
	return ok
}

func (c *OAuthConfig) config(p Provider) (*oauth2.Config, error) {
	cfg, ok := c.providers[p]
	if !ok {
		return nil, fmt.Errorf("%s OAuth not configured", p)
	}
	return cfg, nil
}

// GetAuthURL returns the consent page URL carrying state
func (c *OAuthConfig) GetAuthURL(p Provider, state string) (string, error) {
	cfg, err := c.config(p)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// ExchangeCode trades an authorization code for a provider token
func (c *OAuthConfig) ExchangeCode(ctx context.Context, p Provider, code string) (*oauth2.Token, error) {
	cfg, err := c.config(p)
	if err != nil {
		return nil, err
	}
	return cfg.Exchange(ctx, code)
}

// GetUserInfo asks the provider who owns token
func (c *OAuthConfig) GetUserInfo(ctx context.Context, p Provider, token *oauth2.Token) (*OAuthUserInfo, error) {
	cfg, err := c.config(p)
	if err != nil {
		return nil, err
	}
	return fetchUserInfo(ctx, p, cfg.Client(ctx, token))
}

func fetchUserInfo(ctx context.Context, p Provider, client *http.Client) (*OAuthUserInfo, error) {
	switch p {
	case ProviderGoogle:
		return googleUserInfo(ctx, client)
	case ProviderGitHub:
		return githubUserInfo(ctx, client)
	}
	return nil, fmt.Errorf("unsupported provider: %s", p)
}

// getJSON decodes a 200 response from url into dst
func getJSON(ctx context.Context, client *http.Client, url string, dst interface{}) error {
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
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("GET %s: %s: %s", url, resp.Status, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func googleUserInfo(ctx context.Context, client *http.Client) (*OAuthUserInfo, error) {
	var info struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
	}
	if err := getJSON(ctx, client, googleUserInfoURL, &info); err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	if info.Email == "" || !info.VerifiedEmail {
		return nil, fmt.Errorf("google: %w", errNoVerifiedEmail)
	}

	return &OAuthUserInfo{
		ProviderID: info.ID,
		Email:      info.Email,
		Name:       displayName(info.Name, info.Email),
	}, nil
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func githubUserInfo(ctx context.Context, client *http.Client) (*OAuthUserInfo, error) {
	var user struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
	}
	if err := getJSON(ctx, client, githubUserURL, &user); err != nil {
		return nil, fmt.Errorf("github user: %w", err)
	}

	// The public profile email is not guaranteed to be verified
	var emails []githubEmail
	if err := getJSON(ctx, client, githubEmailsURL, &emails); err != nil {
		return nil, fmt.Errorf("github emails: %w", err)
	}
	email, ok := pickGitHubEmail(emails)
	if !ok {
		return nil, fmt.Errorf("github: %w", errNoVerifiedEmail)
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}
	return &OAuthUserInfo{
		ProviderID: strconv.FormatInt(user.ID, 10),
		Email:      email,
		Name:       displayName(name, email),
	}, nil
}

// pickGitHubEmail prefers the primary verified address, then any verified one
func pickGitHubEmail(emails []githubEmail) (string, bool) {
	fallback := ""
	for _, e := range emails {
		if !e.Verified {
			continue
		}
		if e.Primary {
			return e.Email, true
		}
		if fallback == "" {
			fallback = e.Email
		}
	}
	return fallback, fallback != ""
}

// displayName falls back to the local part of the email
func displayName(name, email string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return strings.SplitN(email, "@", 2)[0]
}

// ParseProvider validates a provider path segment
func ParseProvider(s string) (Provider, bool) {
	p := Provider(strings.ToLower(s))
	return p, p == ProviderGoogle || p == ProviderGitHub
}
