// File: internal/shared/core.go
package shared

// FailureKind classifies why an auth flow did not succeed.
type FailureKind int

const (
	// FailureNone marks a successful outcome.
	FailureNone FailureKind = iota
	// FailureInput is a validation rejection; storage was not touched.
	FailureInput
	// FailureDomain is a credential mismatch or unknown account.
	FailureDomain
	// FailureInternal is a storage, hashing or signing failure.
	FailureInternal
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureInput:
		return "input"
	case FailureDomain:
		return "domain"
	case FailureInternal:
		return "internal"
	}
	return "unknown"
}

// Result is the response body of the register, login and federated login flows.
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token,omitempty"`
	Kind    FailureKind `json:"-"`
}

// Succeeded builds a successful Result.
func Succeeded(message, token string) Result {
	return Result{Success: true, Message: message, Token: token, Kind: FailureNone}
}

// Failed builds an unsuccessful Result of the given kind.
func Failed(kind FailureKind, message string) Result {
	return Result{Success: false, Message: message, Kind: kind}
}

// FederatedProfile is the identity data an OAuth provider returns for a user.
type FederatedProfile struct {
	Email      string `json:"email"`
	FamilyName string `json:"family_name"`
	GivenName  string `json:"given_name"`
}

// TokenIssuer signs access tokens asserting an account's identity.
type TokenIssuer interface {
	Issue(accountID uint64, email string) (string, error)
}
