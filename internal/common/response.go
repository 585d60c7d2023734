// File: internal/common/response.go
package common

import (
	"net/http"

	"credential_service_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondWithError sends a JSON error response and aborts the chain.
// Errors that are not APIErrors are logged and hidden behind ErrInternalServer.
func RespondWithError(c *gin.Context, err error) {
	apiErr, ok := IsAPIError(err)
	if !ok {
		if l, exists := c.Get("logger"); exists {
			if logger, ok := l.(*zap.Logger); ok {
				logger.Error("Unhandled internal error being wrapped", zap.Error(err))
			}
		}
		apiErr = ErrInternalServer
	}

	c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
}

// RespondResult renders a register or login outcome. Every outcome, internal
// failures included, is a 200 with the success flag in the body.
func RespondResult(c *gin.Context, res shared.Result) {
	c.JSON(http.StatusOK, res)
}

// RespondFederatedResult renders a federated login outcome. Unlike RespondResult,
// an internal failure is reported as a 500 carrying only the message.
func RespondFederatedResult(c *gin.Context, res shared.Result) {
	if res.Kind == shared.FailureInternal {
		c.JSON(http.StatusInternalServerError, gin.H{"message": res.Message})
		return
	}
	c.JSON(http.StatusOK, res)
}

// RespondOK sends a 200 OK response with data as the body.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
