// File: internal/account/repository.go
package account

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no account has the requested email.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicateEmail is returned when an insert loses the race for an email.
	ErrDuplicateEmail = errors.New("account email already exists")
)

// Repository defines the account data operations available on one connection.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	Insert(ctx context.Context, account *Account) (uint64, error)
}

// Store hands out repositories bound to a single pooled connection.
type Store interface {
	// WithConnection checks out one connection, runs fn on it and returns the
	// connection to the pool on every exit path, panics included.
	WithConnection(ctx context.Context, fn func(repo Repository) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewGORMStore creates a Store over the gorm connection pool.
func NewGORMStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) WithConnection(ctx context.Context, fn func(repo Repository) error) error {
	return s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		return fn(&gormRepository{db: conn})
	})
}

type gormRepository struct {
	db *gorm.DB
}

// FindByEmail matches the email exactly as stored.
func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	var account Account
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by email: %w", err)
	}
	return &account, nil
}

// Insert creates the account row and returns its generated id.
func (r *gormRepository) Insert(ctx context.Context, account *Account) (uint64, error) {
	err := r.db.WithContext(ctx).Create(account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrDuplicateEmail
		}
		return 0, fmt.Errorf("failed to insert account: %w", err)
	}
	return account.ID, nil
}

// AutoMigrate creates or updates the registrations table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Account{})
}
