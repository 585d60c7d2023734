// File: internal/account/handler.go
package account

import (
	"net/http"

	"credential_service_backend/internal/common"
	"credential_service_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxRequestBody caps the bytes read from a credential request body.
const maxRequestBody = 1 << 20

// Handler struct holds dependencies for the credential endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new account handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("AccountHandler"),
	}
}

// RegisterRoutes sets up the credential routes at the root of router.
func (h *Handler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.POST("/google/login", h.googleLogin)
}

// readBody decodes the JSON payload into req. A body that cannot be decoded is
// treated as an empty payload so validation produces the response, as is one
// larger than maxRequestBody.
func (h *Handler) readBody(c *gin.Context, req interface{ reset() }) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody)
	body, err := c.GetRawData()
	if err != nil {
		h.logger.Warn("Failed to read request body", zap.Error(err), zap.String("path", c.FullPath()))
		body = nil
	}
	if !decodeBody(body, req) && len(body) > 0 {
		h.logger.Debug("Request body is not a JSON object", zap.String("path", c.FullPath()))
	}
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	h.readBody(c, &req)
	common.RespondResult(c, h.service.Register(c.Request.Context(), req.ToRegistration()))
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	h.readBody(c, &req)
	common.RespondResult(c, h.service.Login(c.Request.Context(), string(req.Email), string(req.Password)))
}

func (h *Handler) googleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	h.readBody(c, &req)
	profile := shared.FederatedProfile{
		Email:      string(req.Email),
		FamilyName: string(req.FamilyName),
		GivenName:  string(req.GivenName),
	}
	common.RespondFederatedResult(c, h.service.FederatedLogin(c.Request.Context(), profile))
}
