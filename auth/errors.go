package auth

import (
	stderrors "errors"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidToken      = "auth_invalid_token"
	TextCodeTokenExchangeFail = "auth_token_exchange_failed"
	TextCodeUserInfoFail      = "auth_user_info_failed"
	TextCodeMissingEmail      = "auth_missing_email"
)

// GenericAuthMessage is the only wording authentication failures expose to
// clients. Sub-causes (bad signature, wrong issuer, expired, unknown user)
// are logged server-side only.
const GenericAuthMessage = "Invalid authentication credentials"

// ErrInvalidToken covers every token verification failure: signature, issuer,
// expiry, not-before, missing or malformed claims, garbage input, and also a
// verified token whose subject no longer maps to a stored user.
var ErrInvalidToken = errors.New(GenericAuthMessage, errors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExchangeFailed is returned when the provider rejects the
// authorization code. Codes are single-use, so the exchange is never retried.
var ErrTokenExchangeFailed = errors.New("failed to exchange authorization code", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExchangeFail).
	WithCode(errors.CodeBadRequest)

// ErrUserInfoFailed is returned when the provider userinfo call fails.
var ErrUserInfoFailed = errors.New("failed to fetch user info", errors.CategoryAuth).
	WithTextCode(TextCodeUserInfoFail).
	WithCode(errors.CodeBadRequest)

// ErrMissingEmail is returned when the provider userinfo response carries no
// email. Login aborts before any user record is touched.
var ErrMissingEmail = errors.New("email not provided by identity provider", errors.CategoryValidation).
	WithTextCode(TextCodeMissingEmail).
	WithCode(errors.CodeBadRequest)

// IsAuthError reports whether err is one of the authentication failures that
// optional-auth paths are allowed to swallow. Store or transport errors do
// not qualify and must propagate.
func IsAuthError(err error) bool {
	return stderrors.Is(err, ErrInvalidToken)
}
