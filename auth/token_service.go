package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenService issues and verifies session tokens. It is stateless apart
// from reading the clock and, on issuance, generating a token id, so a
// single instance is safe for concurrent use.
type TokenService struct {
	signingKey     []byte
	method         jwt.SigningMethod
	algorithm      string
	expirationDays int
	issuer         string
	logger         Logger
}

// NewTokenService creates a TokenService. The algorithm must name a known
// HMAC signing method (HS256, HS384, HS512); anything else is a
// configuration error and the process should not start.
func NewTokenService(signingKey []byte, expirationDays int, issuer, algorithm string, logger Logger) (*TokenService, error) {
	if logger == nil {
		logger = defLogger{}
	}

	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, errors.New(fmt.Sprintf("unknown signing algorithm %q", algorithm), errors.CategoryBadInput)
	}

	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New(fmt.Sprintf("signing algorithm %q is not an HMAC method", algorithm), errors.CategoryBadInput)
	}

	if len(signingKey) == 0 {
		return nil, errors.New("signing key must not be empty", errors.CategoryBadInput)
	}

	if expirationDays <= 0 {
		return nil, errors.New("token expiration must be a positive number of days", errors.CategoryBadInput)
	}

	return &TokenService{
		signingKey:     signingKey,
		method:         method,
		algorithm:      algorithm,
		expirationDays: expirationDays,
		issuer:         issuer,
		logger:         logger,
	}, nil
}

// ExpiresIn returns the configured validity window in seconds, as reported
// to clients next to a freshly issued token.
func (ts *TokenService) ExpiresIn() int {
	return ts.expirationDays * 24 * 60 * 60
}

// Issue creates a signed session token for the given local user identity.
// iat and nbf are stamped with the current time, exp with now plus the
// configured validity window, and every token gets a fresh random id.
func (ts *TokenService) Issue(userID uuid.UUID, email, username string) (string, error) {
	now := time.Now()

	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.AddDate(0, 0, ts.expirationDays)),
		},
		Email:    email,
		Username: username,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary session claims using the configured key.
func (ts *TokenService) SignClaims(claims *SessionClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(ts.method, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign session token")
	}

	return signedString, nil
}

// Verify parses and validates a token string. The signature, the signing
// method, the issuer, and the [nbf, exp] window (zero leeway, exp required)
// are all checked, and the subject and email claims must be present with the
// subject parsing as a user id. Every failure collapses into ErrInvalidToken so
// callers cannot probe which check rejected the token; the sub-cause only
// goes to the logger.
func (ts *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	},
		jwt.WithValidMethods([]string{ts.algorithm}),
		jwt.WithIssuer(ts.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		ts.logger.Debug("token verification failed: %v", err)
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		ts.logger.Error("token verification could not decode claims")
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || claims.Email == "" {
		ts.logger.Debug("token missing subject or email claim: sub=%q email=%q", claims.Subject, claims.Email)
		return nil, ErrInvalidToken
	}

	if _, err := claims.UserID(); err != nil {
		ts.logger.Debug("token subject is not a valid user id: sub=%q err=%v", claims.Subject, err)
		return nil, ErrInvalidToken
	}

	return claims, nil
}
