package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Users interface {
	repository.Repository[*User]

	GetByKeycloakID(ctx context.Context, keycloakID string) (*User, error)
	GetByKeycloakIDTx(ctx context.Context, tx bun.IDB, keycloakID string) (*User, error)

	// SyncFromProvider creates a user for a previously unseen Keycloak
	// subject, or refreshes email and name for a known one. This is the only
	// write path the auth core performs.
	SyncFromProvider(ctx context.Context, profile *UserProfile) (*User, error)
	SyncFromProviderTx(ctx context.Context, tx bun.IDB, profile *UserProfile) (*User, error)

	Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error)
	GetOrCreate(ctx context.Context, record *User) (*User, error)
	GetOrCreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByKeycloakID(ctx context.Context, keycloakID string) (*User, error) {
	return a.GetByKeycloakIDTx(ctx, a.db, keycloakID)
}

func (a *users) GetByKeycloakIDTx(ctx context.Context, tx bun.IDB, keycloakID string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.keycloak_id = ?", keycloakID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) || err == sql.ErrNoRows {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"keycloak_id": keycloakID,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) SyncFromProvider(ctx context.Context, profile *UserProfile) (*User, error) {
	return a.SyncFromProviderTx(ctx, a.db, profile)
}

func (a *users) SyncFromProviderTx(ctx context.Context, tx bun.IDB, profile *UserProfile) (*User, error) {
	existing, err := a.GetByKeycloakIDTx(ctx, tx, profile.Sub)
	if err == nil {
		record := &User{}
		record.ID = existing.ID
		record.KeycloakID = existing.KeycloakID
		record.Email = profile.Email
		record.Name = profile.DisplayName()
		now := time.Now()
		record.UpdatedAt = &now

		return a.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(existing.ID.String()))
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	record := &User{
		KeycloakID: profile.Sub,
		Email:      profile.Email,
		Name:       profile.DisplayName(),
	}

	return a.CreateTx(ctx, tx, record)
}

func (a *users) Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	prepareUserDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *users) GetOrCreate(ctx context.Context, record *User) (*User, error) {
	return a.GetOrCreateTx(ctx, a.db, record)
}

func (a *users) GetOrCreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	existing, err := a.GetByKeycloakIDTx(ctx, tx, record.KeycloakID)
	if err == nil {
		return existing, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	return a.CreateTx(ctx, tx, record)
}
