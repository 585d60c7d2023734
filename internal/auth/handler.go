// File: internal/auth/handler.go
package auth

import (
	"errors"
	"net/http"

	"credential_service_backend/internal/common"
	"credential_service_backend/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for the OAuth endpoints.
type Handler struct {
	cfg       *config.Config
	accounts  FederatedAccountProvider
	providers map[string]ProfileProvider
	github    *GitHubProvider
	logger    *zap.Logger
}

// NewHandler creates a new OAuth handler for the given providers.
func NewHandler(cfg *config.Config, accounts FederatedAccountProvider, providers []ProfileProvider, logger *zap.Logger) *Handler {
	h := &Handler{
		cfg:       cfg,
		accounts:  accounts,
		providers: make(map[string]ProfileProvider, len(providers)),
		logger:    logger.Named("OAuthHandler"),
	}
	for _, p := range providers {
		h.providers[p.Name()] = p
		if gh, ok := p.(*GitHubProvider); ok {
			h.github = gh
		}
	}
	return h
}

// RegisterRoutes sets up the OAuth routes at the root of router.
func (h *Handler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/getAccessToken", h.getAccessToken)
	router.GET("/oauth/:provider/login", h.providerLogin)
	router.GET("/oauth/:provider/callback", h.providerCallback)
}

// getAccessToken exchanges a GitHub code and relays the raw profile and email documents.
func (h *Handler) getAccessToken(c *gin.Context) {
	if h.github == nil {
		common.RespondWithError(c, common.ErrNotFound.WithDetails("GitHub OAuth is not configured."))
		return
	}
	code := c.Query("code")
	if code == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Query parameter 'code' is required."))
		return
	}

	profile, emails, err := h.github.FetchRaw(c.Request.Context(), code)
	if err != nil {
		h.respondFetchError(c, err)
		return
	}
	common.RespondOK(c, gin.H{"profileData": profile, "emailData": emails})
}

func (h *Handler) provider(c *gin.Context) (ProfileProvider, bool) {
	p, ok := h.providers[c.Param("provider")]
	if !ok {
		common.RespondWithError(c, common.ErrNotFound.WithDetails("Unknown or unconfigured OAuth provider."))
	}
	return p, ok
}

func (h *Handler) providerLogin(c *gin.Context) {
	p, ok := h.provider(c)
	if !ok {
		return
	}
	state, err := generateAndSetOAuthState(c, h.cfg)
	if err != nil {
		h.logger.Error("Failed to generate OAuth state", zap.Error(err), zap.String("provider", p.Name()))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not initiate login."))
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, p.AuthCodeURL(state))
}

func (h *Handler) providerCallback(c *gin.Context) {
	p, ok := h.provider(c)
	if !ok {
		return
	}

	storedState, err := getOAuthCookie(c, h.cfg, h.cfg.OAuthStateCookieName)
	if err != nil {
		h.logger.Warn("OAuth callback without state cookie", zap.Error(err), zap.String("provider", p.Name()))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid session or state mismatch."))
		return
	}
	if state := c.Query("state"); state == "" || state != storedState {
		h.logger.Warn("OAuth state mismatch", zap.String("provider", p.Name()))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("OAuth state mismatch."))
		return
	}
	code := c.Query("code")
	if code == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Query parameter 'code' is required."))
		return
	}

	profile, err := p.FetchProfile(c.Request.Context(), code)
	if err != nil {
		h.respondFetchError(c, err)
		return
	}
	common.RespondFederatedResult(c, h.accounts.FederatedLogin(c.Request.Context(), *profile))
}

func (h *Handler) respondFetchError(c *gin.Context, err error) {
	var fe *FetchError
	if errors.As(err, &fe) {
		h.logger.Error("OAuth provider call failed", zap.Error(err), zap.String("provider", fe.Provider), zap.String("op", fe.Op))
		common.RespondWithError(c, common.ErrBadGateway.WithDetails(fe.Provider+" "+fe.Op+" failed"))
		return
	}
	h.logger.Error("OAuth flow failed", zap.Error(err))
	common.RespondWithError(c, common.ErrInternalServer)
}
