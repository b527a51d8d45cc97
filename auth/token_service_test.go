package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naturkart/naturkart/auth"
)

func TestNewTokenService(t *testing.T) {
	signingKey := []byte("test-signing-key-0123456789")

	t.Run("creates service for HMAC algorithms", func(t *testing.T) {
		for _, alg := range []string{"HS256", "HS384", "HS512"} {
			service, err := auth.NewTokenService(signingKey, 7, "test-issuer", alg, testLogger{})
			assert.NoError(t, err)
			assert.NotNil(t, service)
		}
	})

	t.Run("creates service with nil logger", func(t *testing.T) {
		service, err := auth.NewTokenService(signingKey, 7, "test-issuer", "HS256", nil)
		assert.NoError(t, err)
		assert.NotNil(t, service)
	})

	t.Run("rejects unknown algorithm", func(t *testing.T) {
		_, err := auth.NewTokenService(signingKey, 7, "test-issuer", "HS999", testLogger{})
		assert.Error(t, err)
	})

	t.Run("rejects non-HMAC algorithm", func(t *testing.T) {
		_, err := auth.NewTokenService(signingKey, 7, "test-issuer", "RS256", testLogger{})
		assert.Error(t, err)
	})

	t.Run("rejects empty signing key", func(t *testing.T) {
		_, err := auth.NewTokenService(nil, 7, "test-issuer", "HS256", testLogger{})
		assert.Error(t, err)
	})

	t.Run("rejects non-positive expiration", func(t *testing.T) {
		_, err := auth.NewTokenService(signingKey, 0, "test-issuer", "HS256", testLogger{})
		assert.Error(t, err)
	})
}

func TestTokenService_Issue(t *testing.T) {
	service := newTestTokenService(t)
	userID := uuid.New()

	t.Run("round trips through Verify", func(t *testing.T) {
		tokenString, err := service.Issue(userID, "ada@example.com", "ada")
		require.NoError(t, err)
		require.NotEmpty(t, tokenString)

		claims, err := service.Verify(tokenString)
		require.NoError(t, err)

		assert.Equal(t, userID.String(), claims.Subject)
		assert.Equal(t, "ada@example.com", claims.Email)
		assert.Equal(t, "ada", claims.Username)
		assert.Equal(t, "test-issuer", claims.Issuer)
		assert.NotEmpty(t, claims.ID)

		parsed, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)

		assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), claims.Expires(), time.Minute)
	})

	t.Run("every token gets a fresh id", func(t *testing.T) {
		first, err := service.Issue(userID, "ada@example.com", "ada")
		require.NoError(t, err)
		second, err := service.Issue(userID, "ada@example.com", "ada")
		require.NoError(t, err)

		firstClaims, err := service.Verify(first)
		require.NoError(t, err)
		secondClaims, err := service.Verify(second)
		require.NoError(t, err)

		assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
	})

	t.Run("reports expiration window in seconds", func(t *testing.T) {
		assert.Equal(t, 7*24*60*60, service.ExpiresIn())
	})
}

func TestTokenService_Verify(t *testing.T) {
	service := newTestTokenService(t)
	userID := uuid.New()

	signedWith := func(t *testing.T, claims *auth.SessionClaims) string {
		t.Helper()
		tokenString, err := service.SignClaims(claims)
		require.NoError(t, err)
		return tokenString
	}

	baseClaims := func(mutate func(*auth.SessionClaims)) *auth.SessionClaims {
		now := time.Now()
		claims := &auth.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "test-issuer",
				Subject:   userID.String(),
				IssuedAt:  jwt.NewNumericDate(now),
				NotBefore: jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				ID:        uuid.New().String(),
			},
			Email:    "ada@example.com",
			Username: "ada",
		}
		if mutate != nil {
			mutate(claims)
		}
		return claims
	}

	t.Run("rejects empty token", func(t *testing.T) {
		_, err := service.Verify("")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects malformed token", func(t *testing.T) {
		_, err := service.Verify("not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects tampered signature", func(t *testing.T) {
		tokenString, err := service.Issue(userID, "ada@example.com", "ada")
		require.NoError(t, err)

		tampered := tokenString[:len(tokenString)-2] + "xx"
		_, err = service.Verify(tampered)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects token signed with another key", func(t *testing.T) {
		other, err := auth.NewTokenService([]byte("another-signing-key-9876543210"), 7, "test-issuer", "HS256", testLogger{})
		require.NoError(t, err)

		tokenString, err := other.Issue(userID, "ada@example.com", "ada")
		require.NoError(t, err)

		_, err = service.Verify(tokenString)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects wrong issuer", func(t *testing.T) {
		tokenString := signedWith(t, baseClaims(func(c *auth.SessionClaims) {
			c.Issuer = "someone-else"
		}))

		_, err := service.Verify(tokenString)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		tokenString := signedWith(t, baseClaims(func(c *auth.SessionClaims) {
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		}))

		_, err := service.Verify(tokenString)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects token without expiry", func(t *testing.T) {
		tokenString := signedWith(t, baseClaims(func(c *auth.SessionClaims) {
			c.ExpiresAt = nil
		}))

		_, err := service.Verify(tokenString)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects not yet valid token", func(t *testing.T) {
		tokenString := signedWith(t, baseClaims(func(c *auth.SessionClaims) {
			c.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))
		}))

		_, err := service.Verify(tokenString)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects missing subject", func(t *testing.T) {
		tokenString := signedWith(t, baseClaims(func(c *auth.SessionClaims) {
			c.Subject = ""
		}))

		_, err := service.Verify(tokenString)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects missing email", func(t *testing.T) {
		tokenString := signedWith(t, baseClaims(func(c *auth.SessionClaims) {
			c.Email = ""
		}))

		_, err := service.Verify(tokenString)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects non-uuid subject", func(t *testing.T) {
		tokenString := signedWith(t, baseClaims(func(c *auth.SessionClaims) {
			c.Subject = "keycloak|12345"
		}))

		_, err := service.Verify(tokenString)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects algorithm not configured for the service", func(t *testing.T) {
		hs512, err := auth.NewTokenService([]byte("test-signing-key-0123456789"), 7, "test-issuer", "HS512", testLogger{})
		require.NoError(t, err)

		tokenString, err := hs512.Issue(userID, "ada@example.com", "ada")
		require.NoError(t, err)

		_, err = service.Verify(tokenString)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestTokenService_SignClaims(t *testing.T) {
	service := newTestTokenService(t)

	t.Run("rejects nil claims", func(t *testing.T) {
		_, err := service.SignClaims(nil)
		assert.Error(t, err)
	})
}
