package account

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"credential_service_backend/internal/config"
	"credential_service_backend/internal/platform/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory sqlite database with a single pooled
// connection, so a connection that is never returned blocks the next request.
func newTestDB(t *testing.T) (*gorm.DB, *sql.DB) {
	t.Helper()
	cfg := &config.Config{
		DBDriver:       "sqlite",
		DBSource:       "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		DBMaxOpenConns: 1,
		DBMaxIdleConns: 1,
		LogLevel:       "silent",
	}
	db, cleanup, err := database.NewGORM(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	require.NoError(t, AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	return db, sqlDB
}

func TestGORMStore_InsertAndFind(t *testing.T) {
	db, sqlDB := newTestDB(t)
	store := NewGORMStore(db)
	ctx := context.Background()
	hash := "$2a$10$abcdefghijklmnopqrstuv"
	company := "Acme"

	var id uint64
	err := store.WithConnection(ctx, func(repo Repository) error {
		var err error
		id, err = repo.Insert(ctx, &Account{
			FirstName:   "Jo",
			LastName:    "Do",
			CompanyName: &company,
			Email:       "jo@acme.com",
			Password:    &hash,
		})
		return err
	})
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Zero(t, sqlDB.Stats().InUse)

	var found *Account
	err = store.WithConnection(ctx, func(repo Repository) error {
		var err error
		found, err = repo.FindByEmail(ctx, "jo@acme.com")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)
	assert.Equal(t, "Jo", found.FirstName)
	assert.Equal(t, hash, found.PasswordHash())
	assert.True(t, found.IsLocal())
	assert.Zero(t, sqlDB.Stats().InUse)
}

func TestGORMStore_FindIsCaseSensitive(t *testing.T) {
	db, _ := newTestDB(t)
	store := NewGORMStore(db)
	ctx := context.Background()

	err := store.WithConnection(ctx, func(repo Repository) error {
		_, err := repo.Insert(ctx, &Account{FirstName: "A", LastName: "B", Email: "Jo@Acme.com"})
		return err
	})
	require.NoError(t, err)

	err = store.WithConnection(ctx, func(repo Repository) error {
		_, err := repo.FindByEmail(ctx, "jo@acme.com")
		return err
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGORMStore_DuplicateEmail(t *testing.T) {
	db, sqlDB := newTestDB(t)
	store := NewGORMStore(db)
	ctx := context.Background()

	insert := func() error {
		return store.WithConnection(ctx, func(repo Repository) error {
			_, err := repo.Insert(ctx, &Account{FirstName: "A", LastName: "B", Email: "dup@acme.com"})
			return err
		})
	}
	require.NoError(t, insert())
	assert.ErrorIs(t, insert(), ErrDuplicateEmail)
	assert.Zero(t, sqlDB.Stats().InUse)
}

func TestGORMStore_ReleasesConnectionOnEveryPath(t *testing.T) {
	db, sqlDB := newTestDB(t)
	store := NewGORMStore(db)
	ctx := context.Background()

	err := store.WithConnection(ctx, func(repo Repository) error {
		return errors.New("callback failed")
	})
	assert.EqualError(t, err, "callback failed")
	assert.Zero(t, sqlDB.Stats().InUse)

	assert.Panics(t, func() {
		_ = store.WithConnection(ctx, func(repo Repository) error {
			panic("callback panicked")
		})
	})
	assert.Zero(t, sqlDB.Stats().InUse)

	// the single pooled connection is still usable
	err = store.WithConnection(ctx, func(repo Repository) error {
		_, err := repo.FindByEmail(ctx, "nobody@acme.com")
		return err
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
