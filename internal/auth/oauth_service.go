// File: internal/auth/oauth_service.go
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"credential_service_backend/internal/config"
	"credential_service_backend/internal/shared"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

var (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	githubAPIBaseURL  = "https://api.github.com"
)

// providerTimeout bounds each provider HTTP call.
const providerTimeout = 15 * time.Second

// maxProviderBody caps how much of a provider response is read.
const maxProviderBody = 1 << 20

// ProfileProvider turns an OAuth authorization code into a federated profile.
type ProfileProvider interface {
	Name() string
	AuthCodeURL(state string) string
	FetchProfile(ctx context.Context, code string) (*shared.FederatedProfile, error)
}

// FetchError reports a failed call to an identity provider. Op names the step that failed.
type FetchError struct {
	Provider string
	Op       string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s oauth %s: %v", e.Provider, e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewProviders builds a provider for every OAuth client configured in cfg.
func NewProviders(cfg *config.Config, logger *zap.Logger) []ProfileProvider {
	var providers []ProfileProvider
	if cfg.HasGoogle() {
		providers = append(providers, NewGoogleProvider(cfg, logger))
	}
	if cfg.HasGitHub() {
		providers = append(providers, NewGitHubProvider(cfg, logger))
	}
	return providers
}

// oauthClient holds what every provider needs to exchange a code and call its API.
type oauthClient struct {
	name   string
	oauth  *oauth2.Config
	client *http.Client
	logger *zap.Logger
}

func (o *oauthClient) Name() string {
	return o.name
}

func (o *oauthClient) AuthCodeURL(state string) string {
	return o.oauth.AuthCodeURL(state)
}

// exchange trades code for an access token and returns a client that sends it.
func (o *oauthClient) exchange(ctx context.Context, code string) (*http.Client, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, o.client)
	token, err := o.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, &FetchError{Provider: o.name, Op: "exchange", Err: err}
	}
	if !token.Valid() {
		return nil, &FetchError{Provider: o.name, Op: "exchange", Err: errors.New("provider returned an invalid token")}
	}
	return o.oauth.Client(ctx, token), nil
}

func (o *oauthClient) getJSON(ctx context.Context, client *http.Client, url, accept string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Provider: o.name, Op: "request", Err: err}
	}
	req.Header.Set("Accept", accept)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Provider: o.name, Op: "fetch", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderBody))
	if err != nil {
		return nil, &FetchError{Provider: o.name, Op: "fetch", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		o.logger.Warn("Provider API request failed",
			zap.String("url", url), zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return nil, &FetchError{Provider: o.name, Op: "fetch", Err: fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)}
	}
	if !json.Valid(body) {
		return nil, &FetchError{Provider: o.name, Op: "decode", Err: fmt.Errorf("invalid JSON from %s", url)}
	}
	return body, nil
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: providerTimeout}
}

// GoogleProvider reads the profile from Google's userinfo endpoint.
type GoogleProvider struct {
	oauthClient
	userInfoURL string
}

// NewGoogleProvider creates the Google provider from the configured client credentials.
func NewGoogleProvider(cfg *config.Config, logger *zap.Logger) *GoogleProvider {
	return &GoogleProvider{
		oauthClient: oauthClient{
			name: ProviderGoogle,
			oauth: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  cfg.GoogleRedirectURI,
				Scopes:       []string{"openid", "profile", "email"},
				Endpoint:     google.Endpoint,
			},
			client: newHTTPClient(),
			logger: logger.Named("GoogleProvider"),
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (p *GoogleProvider) FetchProfile(ctx context.Context, code string) (*shared.FederatedProfile, error) {
	client, err := p.exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	raw, err := p.getJSON(ctx, client, p.userInfoURL, "application/json")
	if err != nil {
		return nil, err
	}

	var profile shared.FederatedProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, &FetchError{Provider: p.name, Op: "decode", Err: err}
	}
	return &profile, nil
}

// GitHubProvider reads the profile and email list from the GitHub REST API.
type GitHubProvider struct {
	oauthClient
	apiBaseURL string
}

// NewGitHubProvider creates the GitHub provider from the configured client credentials.
func NewGitHubProvider(cfg *config.Config, logger *zap.Logger) *GitHubProvider {
	return &GitHubProvider{
		oauthClient: oauthClient{
			name: ProviderGitHub,
			oauth: &oauth2.Config{
				ClientID:     cfg.GitHubClientID,
				ClientSecret: cfg.GitHubClientSecret,
				RedirectURL:  cfg.GitHubRedirectURI,
				Scopes:       []string{"read:user", "user:email"},
				Endpoint:     github.Endpoint,
			},
			client: newHTTPClient(),
			logger: logger.Named("GitHubProvider"),
		},
		apiBaseURL: githubAPIBaseURL,
	}
}

const githubAccept = "application/vnd.github.v3+json"

// FetchRaw exchanges code and returns the /user and /user/emails documents unmodified.
func (p *GitHubProvider) FetchRaw(ctx context.Context, code string) (profile, emails json.RawMessage, err error) {
	client, err := p.exchange(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if emails, err = p.getJSON(ctx, client, p.apiBaseURL+"/user/emails", githubAccept); err != nil {
		return nil, nil, err
	}
	if profile, err = p.getJSON(ctx, client, p.apiBaseURL+"/user", githubAccept); err != nil {
		return nil, nil, err
	}
	return profile, emails, nil
}

type githubUser struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (p *GitHubProvider) FetchProfile(ctx context.Context, code string) (*shared.FederatedProfile, error) {
	rawProfile, rawEmails, err := p.FetchRaw(ctx, code)
	if err != nil {
		return nil, err
	}

	var user githubUser
	if err := json.Unmarshal(rawProfile, &user); err != nil {
		return nil, &FetchError{Provider: p.name, Op: "decode", Err: err}
	}
	var emails []githubEmail
	if err := json.Unmarshal(rawEmails, &emails); err != nil {
		return nil, &FetchError{Provider: p.name, Op: "decode", Err: err}
	}

	given, family := splitGitHubName(user)
	return &shared.FederatedProfile{
		Email:      githubPrimaryEmail(user, emails),
		FamilyName: family,
		GivenName:  given,
	}, nil
}

func githubPrimaryEmail(user githubUser, emails []githubEmail) string {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	return user.Email
}

// splitGitHubName splits the display name on its first space. A missing part
// falls back to the login so both names are always set.
func splitGitHubName(user githubUser) (given, family string) {
	given, family, _ = strings.Cut(strings.TrimSpace(user.Name), " ")
	family = strings.TrimSpace(family)
	if given == "" {
		given = user.Login
	}
	if family == "" {
		family = user.Login
	}
	return given, family
}
