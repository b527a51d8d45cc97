package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// IdentityProvider is the external authorization server we delegate logins to.
// Exchange trades a single-use authorization code for a provider access token,
// UserInfo resolves that token into the provider's view of the principal.
type IdentityProvider interface {
	Exchange(ctx context.Context, code, redirectURI string) (string, error)
	UserInfo(ctx context.Context, accessToken string) (*UserProfile, error)
}

// UserProfile is the subset of the provider's userinfo response we consume.
type UserProfile struct {
	Sub               string `json:"sub"`
	Email             string `json:"email"`
	Username          string `json:"username"`
	PreferredUsername string `json:"preferred_username"`
	Name              string `json:"name"`
}

// DisplayName picks the best available name, falling back to the email.
func (p *UserProfile) DisplayName() string {
	for _, candidate := range []string{p.Username, p.PreferredUsername, p.Name} {
		if candidate != "" {
			return candidate
		}
	}
	return p.Email
}

// RequestResolver turns an inbound bearer token into a locally known user.
// The concrete implementation is chosen once at startup: Auther for real
// deployments, TestUserResolver when authentication is disabled for tests.
type RequestResolver interface {
	ResolveRequest(ctx context.Context, token string) (*User, error)
	ResolveRequestOptional(ctx context.Context, token string) (*User, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
