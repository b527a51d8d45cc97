package auth_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/naturkart/naturkart/auth"
)

const sqliteCreateUsers = `CREATE TABLE users (
	id TEXT NOT NULL PRIMARY KEY,
	keycloak_id TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// testLogger satisfies auth.Logger and keeps test output quiet.
type testLogger struct{}

func (testLogger) Debug(format string, args ...any) {}
func (testLogger) Info(format string, args ...any)  {}
func (testLogger) Warn(format string, args ...any)  {}
func (testLogger) Error(format string, args ...any) {}

// MockProvider implements auth.IdentityProvider for testing.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Exchange(ctx context.Context, code, redirectURI string) (string, error) {
	args := m.Called(ctx, code, redirectURI)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) UserInfo(ctx context.Context, accessToken string) (*auth.UserProfile, error) {
	args := m.Called(ctx, accessToken)
	if profile, ok := args.Get(0).(*auth.UserProfile); ok {
		return profile, args.Error(1)
	}
	return nil, args.Error(1)
}

func setupUsersRepo(t *testing.T) (auth.Users, *bun.DB) {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec(sqliteCreateUsers)
	require.NoError(t, err)

	t.Cleanup(func() { bunDB.Close() })

	return auth.NewUsersRepository(bunDB), bunDB
}

func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()

	tokens, err := auth.NewTokenService([]byte("test-signing-key-0123456789"), 7, "test-issuer", "HS256", testLogger{})
	require.NoError(t, err)

	return tokens
}
