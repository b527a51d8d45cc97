package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Auther resolves logins and inbound bearer tokens against the local user
// store. It is the only component allowed to write users, and it only does
// so on the login path.
type Auther struct {
	provider IdentityProvider
	users    Users
	tokens   *TokenService
	logger   Logger
}

var _ RequestResolver = (*Auther)(nil)

// NewAuthenticator returns a new Auther.
func NewAuthenticator(provider IdentityProvider, users Users, tokens *TokenService) *Auther {
	return &Auther{
		provider: provider,
		users:    users,
		tokens:   tokens,
		logger:   defLogger{},
	}
}

func (a *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// ResolveLogin completes the authorization-code flow: code exchange,
// userinfo lookup, local user sync, session token issuance. The token's
// subject is the local user id, not the provider's.
func (a *Auther) ResolveLogin(ctx context.Context, code, redirectURI string) (*LoginResult, error) {
	accessToken, err := a.provider.Exchange(ctx, code, redirectURI)
	if err != nil {
		a.logger.Error("login code exchange failed: %v", err)
		return nil, err
	}

	profile, err := a.provider.UserInfo(ctx, accessToken)
	if err != nil {
		a.logger.Error("login userinfo lookup failed: %v", err)
		return nil, err
	}

	if profile.Email == "" {
		a.logger.Error("login aborted, provider sent no email: sub=%q", profile.Sub)
		return nil, ErrMissingEmail
	}

	user, err := a.users.SyncFromProvider(ctx, profile)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to sync user from provider")
	}

	token, err := a.tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, err
	}

	a.logger.Info("session token issued: user=%s email=%s", user.ID, user.Email)

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   a.tokens.ExpiresIn(),
	}, nil
}

// ResolveRequest verifies a bearer token and loads the user it references.
// A cryptographically valid token whose subject no longer exists yields the
// same generic failure as a forged one; this path never creates users.
func (a *Auther) ResolveRequest(ctx context.Context, token string) (*User, error) {
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := a.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			a.logger.Warn("valid token references missing user: sub=%q", claims.Subject)
			return nil, ErrInvalidToken
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load user for token subject")
	}

	return user, nil
}

// ResolveRequestOptional treats a missing or invalid credential as "no
// user". Only authentication failures are swallowed; store errors still
// propagate so they are not masked as anonymous requests.
func (a *Auther) ResolveRequestOptional(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, nil
	}

	user, err := a.ResolveRequest(ctx, token)
	if err != nil {
		if IsAuthError(err) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}
