package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir()) // no .env file
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3002", cfg.ServerPort)
	assert.Equal(t, 30*time.Second, cfg.ServerTimeout)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "test-secret", cfg.JWTSecretKey)
	assert.False(t, cfg.HasGoogle())
	assert.False(t, cfg.HasGitHub())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("SERVER_TIMEOUT_SECONDS", "5")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_CONN_MAX_LIFETIME_MINUTES", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("GITHUB_CLIENT_ID", "gh-id")
	t.Setenv("GITHUB_CLIENT_SECRET", "gh-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.ServerPort)
	assert.Equal(t, 5*time.Second, cfg.ServerTimeout)
	assert.Equal(t, 2*time.Minute, cfg.DBConnMaxLifetime)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.HasGitHub())
}

func TestLoad_MissingSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET failed on 'required'")
}

func TestValidate_ReportsEveryKey(t *testing.T) {
	cfg := &Config{
		GinMode:                  "debug",
		ServerPort:               "not-a-port",
		JWTSecretKey:             "x",
		JWTExpiry:                time.Hour,
		BcryptCost:               10,
		DBDriver:                 "oracle",
		DBMaxOpenConns:           1,
		LogFormat:                "console",
		OAuthStateCookieName:     "oauth_state",
		OAuthCookieMaxAgeMinutes: 10,
	}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER failed on 'oneof'")
	assert.Contains(t, err.Error(), "SERVER_PORT failed on 'numeric'")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
