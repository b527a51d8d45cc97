package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

const defaultLoginScopes = "openid email profile"

// KeycloakConfig configures the bridge to a Keycloak realm. ServerURL is the
// address this process reaches the provider on (often an internal hostname);
// PublicURL is what browsers are redirected to. They are frequently the same
// outside of container setups.
type KeycloakConfig struct {
	ServerURL    string
	PublicURL    string
	Realm        string
	ClientID     string
	ClientSecret string

	HTTPClient *http.Client
}

// Keycloak performs the server side of the authorization-code flow: the code
// exchange and the userinfo lookup. Both are single-shot calls with a
// bounded timeout and are never retried; authorization codes are single-use
// so a retry would fail anyway.
type Keycloak struct {
	config     KeycloakConfig
	httpClient *http.Client
	logger     Logger
}

var _ IdentityProvider = (*Keycloak)(nil)

// NewKeycloak creates a Keycloak bridge.
func NewKeycloak(cfg KeycloakConfig) *Keycloak {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Keycloak{
		config:     cfg,
		httpClient: client,
		logger:     defLogger{},
	}
}

func (k *Keycloak) WithLogger(logger Logger) *Keycloak {
	if logger != nil {
		k.logger = logger
	}
	return k
}

func openidEndpoint(base, realm, path string) string {
	return strings.TrimRight(base, "/") + "/realms/" + realm + "/protocol/openid-connect/" + path
}

func (k *Keycloak) tokenURL() string {
	return openidEndpoint(k.config.ServerURL, k.config.Realm, "token")
}

func (k *Keycloak) userInfoURL() string {
	return openidEndpoint(k.config.ServerURL, k.config.Realm, "userinfo")
}

// AuthCodeURL returns the browser-facing authorization URL for the realm.
func (k *Keycloak) AuthCodeURL(redirectURI string) string {
	params := url.Values{
		"client_id":     {k.config.ClientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
		"scope":         {defaultLoginScopes},
	}
	return openidEndpoint(k.config.PublicURL, k.config.Realm, "auth") + "?" + params.Encode()
}

// LogoutURL returns the browser-facing end-session URL, sending the user
// back to postLogoutRedirect afterwards.
func (k *Keycloak) LogoutURL(postLogoutRedirect string) string {
	params := url.Values{
		"client_id":                {k.config.ClientID},
		"post_logout_redirect_uri": {postLogoutRedirect},
	}
	return openidEndpoint(k.config.PublicURL, k.config.Realm, "logout") + "?" + params.Encode()
}

type keycloakTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
	ErrorDesc   string `json:"error_description"`
}

// Exchange trades an authorization code for a provider access token.
func (k *Keycloak) Exchange(ctx context.Context, code, redirectURI string) (string, error) {
	data := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"client_id":     {k.config.ClientID},
		"client_secret": {k.config.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.tokenURL(), strings.NewReader(data.Encode()))
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to create token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		k.logger.Error("keycloak token exchange request failed: %v", err)
		return "", ErrTokenExchangeFailed
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		k.logger.Error("keycloak token exchange read failed: %v", err)
		return "", ErrTokenExchangeFailed
	}

	if resp.StatusCode != http.StatusOK {
		k.logger.Error("keycloak token exchange rejected: status=%d body=%s", resp.StatusCode, string(body))
		return "", ErrTokenExchangeFailed
	}

	var tokenResp keycloakTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		k.logger.Error("keycloak token exchange returned invalid JSON: %v", err)
		return "", ErrTokenExchangeFailed
	}

	if tokenResp.AccessToken == "" {
		k.logger.Error("keycloak token exchange response missing access_token: error=%q description=%q", tokenResp.Error, tokenResp.ErrorDesc)
		return "", ErrTokenExchangeFailed
	}

	return tokenResp.AccessToken, nil
}

// UserInfo fetches the provider's profile for an access token.
func (k *Keycloak) UserInfo(ctx context.Context, accessToken string) (*UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.userInfoURL(), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create userinfo request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		k.logger.Error("keycloak userinfo request failed: %v", err)
		return nil, ErrUserInfoFailed
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		k.logger.Error("keycloak userinfo read failed: %v", err)
		return nil, ErrUserInfoFailed
	}

	if resp.StatusCode != http.StatusOK {
		k.logger.Error("keycloak userinfo rejected: status=%d body=%s", resp.StatusCode, string(body))
		return nil, ErrUserInfoFailed
	}

	profile := &UserProfile{}
	if err := json.Unmarshal(body, profile); err != nil {
		k.logger.Error("keycloak userinfo returned invalid JSON: %v", err)
		return nil, ErrUserInfoFailed
	}

	if profile.Sub == "" {
		k.logger.Error("keycloak userinfo response missing sub: body=%s", string(body))
		return nil, ErrUserInfoFailed
	}

	return profile, nil
}
