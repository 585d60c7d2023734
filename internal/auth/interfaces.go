// File: internal/auth/interfaces.go
package auth

import (
	"context"

	"credential_service_backend/internal/shared"
)

// FederatedAccountProvider signs in or registers the owner of a federated profile.
// It is implemented by account.ServiceImplementation.
type FederatedAccountProvider interface {
	FederatedLogin(ctx context.Context, profile shared.FederatedProfile) shared.Result
}
