package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"credential_service_backend/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key"

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(&config.Config{JWTSecretKey: testSecret, JWTExpiry: time.Hour}, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func parseTestToken(t *testing.T, token string) *Claims {
	t.Helper()
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	return claims
}

func TestJWTService_Issue(t *testing.T) {
	svc := newTestJWTService(t)
	issuedAt := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	// a token signed in 2030 is not yet expired for any test run before 2030
	token, err := svc.Issue(42, "jo@acme.com")
	require.NoError(t, err)

	claims := parseTestToken(t, token)
	assert.Equal(t, uint64(42), claims.ID)
	assert.Equal(t, "jo@acme.com", claims.Email)
	assert.Equal(t, issuedAt, claims.IssuedAt.Time.UTC())
	assert.Equal(t, issuedAt.Add(time.Hour), claims.ExpiresAt.Time.UTC())
}

func TestJWTService_PayloadHasOnlyIdentityClaims(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.Issue(7, "a@b.c")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"id", "email", "iat", "exp"}, keys)
}

func TestJWTService_TimeBasedClaims(t *testing.T) {
	svc := newTestJWTService(t)
	now := time.Now()
	svc.now = func() time.Time { return now }
	first, err := svc.Issue(1, "a@b.c")
	require.NoError(t, err)

	svc.now = func() time.Time { return now.Add(2 * time.Second) }
	second, err := svc.Issue(1, "a@b.c")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestJWTService_ExpiredTokenRejected(t *testing.T) {
	svc := newTestJWTService(t)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.Issue(1, "a@b.c")
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(&config.Config{}, zap.NewNop())
	assert.Error(t, err)

	svc, err := NewJWTService(&config.Config{JWTSecretKey: "x"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, svc.ttl)
}
