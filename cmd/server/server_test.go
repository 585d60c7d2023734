package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"credential_service_backend/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		GinMode:                  "test",
		ServerHost:               "127.0.0.1",
		ServerPort:               "0",
		ServerTimeout:            5 * time.Second,
		CORSAllowedOrigins:       []string{"http://localhost:3000"},
		JWTSecretKey:             "integration-secret",
		JWTExpiry:                time.Hour,
		BcryptCost:               4,
		DBDriver:                 "sqlite",
		DBSource:                 "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		DBMaxIdleConns:           1,
		DBMaxOpenConns:           1,
		DBAutoMigrate:            true,
		LogLevel:                 "error",
		LogFormat:                "json",
		OAuthStateCookieName:     "oauth_state",
		OAuthCookieMaxAgeMinutes: 10,
	}
}

func postJSON(t *testing.T, h http.Handler, path, body string) map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestInitializeServer_RegisterAndLogin(t *testing.T) {
	server, cleanup, err := initializeServer(testConfig())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	h := server.Handler()

	body := postJSON(t, h, "/register",
		`{"firstname":"Jo","lastname":"Do","companyname":"Acme","email":"jo@acme.com","password":"secret1"}`)
	assert.Equal(t, "Registration successfull", body["message"])

	body = postJSON(t, h, "/login", `{"email":"jo@acme.com","password":"secret1"}`)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())
}

func TestInitializeServer_RequiresSecret(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecretKey = ""

	_, _, err := initializeServer(cfg)
	assert.Error(t, err)
}
