// File: internal/account/service.go
package account

import (
	"context"
	"errors"
	"fmt"

	"credential_service_backend/internal/platform/crypto"
	"credential_service_backend/internal/shared"
	"credential_service_backend/internal/validation"

	"go.uber.org/zap"
)

// Response messages. Clients match on these strings, so they must not change.
const (
	MsgInvalidEmail       = "Invalid email format"
	MsgPasswordTooShort   = "Password must be at least 6 characters long"
	MsgFieldRequired      = "Please fill this field"
	MsgAlreadyRegistered  = "Account already registered"
	MsgRegistered         = "Registration successfull"
	MsgInternalError      = "Internal Server Error"
	MsgInvalidCredentials = "Invalid Email or Password"
	MsgUserNotFound       = "User not found"
	MsgIncorrectPassword  = "Incorrect password"
	MsgLoggedIn           = "Logged in successfully"
	MsgFederatedExisting  = "Already Registered"
	MsgFederatedInternal  = "Internal server error"
)

// Service is the auth orchestrator behind the register, login and federated login endpoints.
type Service interface {
	Register(ctx context.Context, sub Registration) shared.Result
	Login(ctx context.Context, email, password string) shared.Result
	FederatedLogin(ctx context.Context, profile shared.FederatedProfile) shared.Result
}

// ServiceImplementation implements Service on top of a Store.
type ServiceImplementation struct {
	store  Store
	hasher crypto.PasswordHasher
	tokens shared.TokenIssuer
	logger *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new account service.
func NewService(store Store, hasher crypto.PasswordHasher, tokens shared.TokenIssuer, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		logger: logger.Named("AccountService"),
	}
}

func validateRegistration(sub Registration) (string, bool) {
	switch {
	case !validation.Email(sub.Email):
		return MsgInvalidEmail, false
	case !validation.Password(sub.Password):
		return MsgPasswordTooShort, false
	case !validation.NonEmpty(sub.FirstName),
		!validation.NonEmpty(sub.LastName),
		!validation.NonEmpty(sub.CompanyName):
		return MsgFieldRequired, false
	}
	return "", true
}

// Register creates a local account. An email that is already taken still answers
// success, with a message telling the caller the account exists.
func (s *ServiceImplementation) Register(ctx context.Context, sub Registration) shared.Result {
	if msg, ok := validateRegistration(sub); !ok {
		return shared.Failed(shared.FailureInput, msg)
	}

	hashed, err := s.hasher.Hash(sub.Password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.Error(err), zap.String("email", sub.Email))
		return shared.Failed(shared.FailureInternal, MsgInternalError)
	}

	var result shared.Result
	err = s.store.WithConnection(ctx, func(repo Repository) error {
		_, err := repo.FindByEmail(ctx, sub.Email)
		if err == nil {
			result = shared.Succeeded(MsgAlreadyRegistered, "")
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("failed to check existing account: %w", err)
		}

		companyName := sub.CompanyName
		id, err := repo.Insert(ctx, &Account{
			FirstName:   sub.FirstName,
			LastName:    sub.LastName,
			CompanyName: &companyName,
			Email:       sub.Email,
			Password:    &hashed,
		})
		if err != nil {
			return err
		}
		s.logger.Info("Account registered", zap.Uint64("accountID", id))
		result = shared.Succeeded(MsgRegistered, "")
		return nil
	})
	if err != nil {
		s.logRepositoryError("Registration failed", sub.Email, err)
		return shared.Failed(shared.FailureInternal, MsgInternalError)
	}
	return result
}

// Login checks a password against the stored hash and issues a token on a match.
func (s *ServiceImplementation) Login(ctx context.Context, email, password string) shared.Result {
	if !validation.Email(email) || !validation.Password(password) {
		return shared.Failed(shared.FailureInput, MsgInvalidCredentials)
	}

	var found *Account
	err := s.store.WithConnection(ctx, func(repo Repository) error {
		account, err := repo.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		found = account
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return shared.Failed(shared.FailureDomain, MsgUserNotFound)
	}
	if err != nil {
		s.logRepositoryError("Login lookup failed", email, err)
		return shared.Failed(shared.FailureInternal, MsgInternalError)
	}

	// federated-only accounts have no hash, which never verifies
	if !s.hasher.Verify(password, found.PasswordHash()) {
		s.logger.Debug("Password mismatch", zap.Uint64("accountID", found.ID), zap.Bool("local", found.IsLocal()))
		return shared.Failed(shared.FailureDomain, MsgIncorrectPassword)
	}

	token, err := s.tokens.Issue(found.ID, found.Email)
	if err != nil {
		s.logger.Error("Failed to issue token on login", zap.Error(err), zap.Uint64("accountID", found.ID))
		return shared.Failed(shared.FailureInternal, MsgInternalError)
	}
	return shared.Succeeded(MsgLoggedIn, token)
}

// FederatedLogin signs in a user vouched for by an OAuth provider, creating a
// password-less account on first sight. The stored firstname is the family name
// and the stored lastname is the given name; existing rows depend on that order.
func (s *ServiceImplementation) FederatedLogin(ctx context.Context, profile shared.FederatedProfile) shared.Result {
	switch {
	case !validation.Email(profile.Email):
		return shared.Failed(shared.FailureInput, MsgInvalidEmail)
	case !validation.NonEmpty(profile.FamilyName), !validation.NonEmpty(profile.GivenName):
		return shared.Failed(shared.FailureInput, MsgFieldRequired)
	}

	var (
		accountID  uint64
		tokenEmail string
		created    bool
	)
	err := s.store.WithConnection(ctx, func(repo Repository) error {
		existing, err := repo.FindByEmail(ctx, profile.Email)
		if err == nil {
			// the lookup may match case-insensitively; the token carries the stored email
			accountID, tokenEmail = existing.ID, existing.Email
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("failed to check existing account: %w", err)
		}

		tokenEmail = profile.Email
		accountID, err = repo.Insert(ctx, &Account{
			FirstName: profile.FamilyName,
			LastName:  profile.GivenName,
			Email:     profile.Email,
		})
		if err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		s.logRepositoryError("Federated login failed", profile.Email, err)
		return shared.Failed(shared.FailureInternal, MsgFederatedInternal)
	}

	token, err := s.tokens.Issue(accountID, tokenEmail)
	if err != nil {
		s.logger.Error("Failed to issue token on federated login", zap.Error(err), zap.Uint64("accountID", accountID))
		return shared.Failed(shared.FailureInternal, MsgFederatedInternal)
	}
	if created {
		s.logger.Info("Federated account registered", zap.Uint64("accountID", accountID))
		return shared.Succeeded(MsgRegistered, token)
	}
	return shared.Succeeded(MsgFederatedExisting, token)
}

func (s *ServiceImplementation) logRepositoryError(msg, email string, err error) {
	if errors.Is(err, ErrDuplicateEmail) {
		// two requests for the same new email raced past the lookup
		s.logger.Warn(msg+": concurrent registration for the same email", zap.Error(err), zap.String("email", email))
		return
	}
	s.logger.Error(msg, zap.Error(err), zap.String("email", email))
}
