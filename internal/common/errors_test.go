package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"credential_service_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_WithDetailsDoesNotMutateSentinel(t *testing.T) {
	detailed := ErrBadRequest.WithDetails("code is required")

	assert.Nil(t, ErrBadRequest.Details)
	assert.Equal(t, "code is required", detailed.Details)
	assert.ErrorIs(t, detailed, ErrBadRequest)
	assert.NotErrorIs(t, detailed, ErrNotFound)
}

func TestIsAPIError(t *testing.T) {
	wrapped := fmt.Errorf("callback: %w", ErrUnauthorized)
	apiErr, ok := IsAPIError(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	_, ok = IsAPIError(errors.New("plain"))
	assert.False(t, ok)
}

func performRender(t *testing.T, render func(c *gin.Context)) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	render(c)
	return w
}

func TestRespondWithError_HidesPlainErrors(t *testing.T) {
	w := performRender(t, func(c *gin.Context) { RespondWithError(c, errors.New("dsn=secret")) })

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestRespondResult_AlwaysOK(t *testing.T) {
	w := performRender(t, func(c *gin.Context) {
		RespondResult(c, shared.Failed(shared.FailureInternal, "Internal Server Error"))
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal Server Error"}`, w.Body.String())
}

func TestRespondFederatedResult(t *testing.T) {
	w := performRender(t, func(c *gin.Context) {
		RespondFederatedResult(c, shared.Failed(shared.FailureInternal, "Internal server error"))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, w.Body.String())

	w = performRender(t, func(c *gin.Context) {
		RespondFederatedResult(c, shared.Succeeded("Already Registered", "tok"))
	})
	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "tok", body["token"])

	w = performRender(t, func(c *gin.Context) {
		RespondFederatedResult(c, shared.Failed(shared.FailureInput, "Invalid email format"))
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid email format"}`, w.Body.String())
}
