// File: internal/auth/service.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"credential_service_backend/internal/config"
	"credential_service_backend/internal/shared"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// DefaultTokenTTL is the access token lifetime when none is configured.
const DefaultTokenTTL = time.Hour

// Claims is the signed token payload: the account id and email plus iat/exp.
type Claims struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService issues HS256 access tokens with a process-wide secret.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

var _ shared.TokenIssuer = (*JWTService)(nil)

// NewJWTService creates a token issuer from cfg. The secret is copied once and never rotated.
func NewJWTService(cfg *config.Config, logger *zap.Logger) (*JWTService, error) {
	if cfg.JWTSecretKey == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	ttl := cfg.JWTExpiry
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTService{
		secret: []byte(cfg.JWTSecretKey),
		ttl:    ttl,
		now:    time.Now,
		logger: logger.Named("JWTService"),
	}, nil
}

// Issue signs a token for the account that expires ttl after issuance.
func (s *JWTService) Issue(accountID uint64, email string) (string, error) {
	issuedAt := s.now()
	claims := &Claims{
		ID:    accountID,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err), zap.Uint64("accountID", accountID))
		return "", fmt.Errorf("could not sign access token: %w", err)
	}
	return signed, nil
}
