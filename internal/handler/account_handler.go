package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"supportpilot/internal/mailer"
	"supportpilot/internal/repository"
)

type AccountHandler struct {
	repo     *repository.AccountRepository
	registry *mailer.Registry
	oauthCfg *oauth2.Config
	logger   *zap.Logger
}

func NewAccountHandler(
	repo *repository.AccountRepository,
	registry *mailer.Registry,
	oauthCfg *oauth2.Config,
	logger *zap.Logger,
) *AccountHandler {
	return &AccountHandler{repo: repo, registry: registry, oauthCfg: oauthCfg, logger: logger}
}

// List reports every stored account plus whether it is currently
// connected to its provider.
func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("List: failed to fetch accounts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch accounts"})
		return
	}

	connected := make(map[string]bool)
	for _, email := range h.registry.Accounts() {
		connected[email] = true
	}

	type accountStatus struct {
		Email     string `json:"email"`
		Connected bool   `json:"connected"`
	}
	out := make([]accountStatus, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountStatus{Email: a.Email, Connected: connected[a.Email]})
	}

	c.JSON(http.StatusOK, gin.H{"accounts": out})
}

type connectAccountRequest struct {
	Email        string `json:"email" binding:"required,email"`
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token"`
}

// Connect stores an account's tokens and brings its provider online so
// the next poll cycle includes it.
func (h *AccountHandler) Connect(c *gin.Context) {
	var req connectAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and access_token required"})
		return
	}

	ctx := c.Request.Context()
	if err := h.repo.Upsert(ctx, req.Email, req.AccessToken, req.RefreshToken); err != nil {
		h.logger.Error("Connect: failed to store account",
			zap.String("account", req.Email),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store account"})
		return
	}

	token := &oauth2.Token{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
	}
	client, err := mailer.NewGmailClient(ctx, h.oauthCfg, token, req.Email)
	if err != nil {
		h.logger.Error("Connect: failed to build mail client",
			zap.String("account", req.Email),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to connect account"})
		return
	}
	h.registry.Connect(req.Email, client)

	c.JSON(http.StatusCreated, gin.H{"email": req.Email, "connected": true})
}

// Disconnect removes an account's stored tokens and takes its provider
// out of the poll rotation.
func (h *AccountHandler) Disconnect(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email required"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), email); err != nil {
		h.logger.Error("Disconnect: failed to delete account",
			zap.String("account", email),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete account"})
		return
	}
	h.registry.Disconnect(email)

	c.JSON(http.StatusOK, gin.H{"email": email, "connected": false})
}
