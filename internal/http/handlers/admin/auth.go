package admin

import (
	"errors"
	"strings"

	"github.com/indicamais/internal/http/handlers/shared"
	"github.com/indicamais/internal/http/response"
	"github.com/indicamais/internal/service"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin authenticates a dashboard admin and returns a bearer token.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "payload inválido")
		return
	}

	result, err := h.AuthService.Login(strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, service.ErrInvalidCredentials.Error())
			return
		}
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}

	shared.RequestLog(c).Infow("admin_login", "admin_id", result.Admin.ID, "username", result.Admin.Username)
	response.Success(c, gin.H{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"admin": gin.H{
			"id":          result.Admin.ID,
			"username":    result.Admin.Username,
			"name":        result.Admin.Name,
			"is_super":    result.Admin.IsSuper,
			"campaign_id": result.Admin.CampaignID,
		},
	})
}
