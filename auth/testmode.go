package auth

import "context"

// Fixed identity used when authentication is disabled for test
// environments.
const (
	TestUserKeycloakID = "test-user-id"
	TestUserEmail      = "test@example.com"
	TestUserName       = "Test User"
)

// TestUserResolver short-circuits request resolution to a single
// auto-provisioned test user. It is selected once at startup from
// configuration; nothing in the request can switch a deployment onto this
// path.
type TestUserResolver struct {
	users  Users
	logger Logger
}

var _ RequestResolver = (*TestUserResolver)(nil)

func NewTestUserResolver(users Users) *TestUserResolver {
	return &TestUserResolver{
		users:  users,
		logger: defLogger{},
	}
}

func (r *TestUserResolver) WithLogger(logger Logger) *TestUserResolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

func (r *TestUserResolver) ResolveRequest(ctx context.Context, _ string) (*User, error) {
	r.logger.Debug("auth disabled, resolving fixed test user")

	return r.users.GetOrCreate(ctx, &User{
		KeycloakID: TestUserKeycloakID,
		Email:      TestUserEmail,
		Name:       TestUserName,
	})
}

func (r *TestUserResolver) ResolveRequestOptional(ctx context.Context, token string) (*User, error) {
	return r.ResolveRequest(ctx, token)
}
