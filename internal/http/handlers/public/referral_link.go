package public

import (
	"strings"

	"github.com/indicamais/internal/http/handlers/shared"
	"github.com/indicamais/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetReferralLink resolves a share token to its owning member so the form
// can prefill the referrer. Links of deleted members answer 404 even though
// the row may still exist.
func (h *Handler) GetReferralLink(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.BadRequest(c, "token inválido")
		return
	}

	link, err := h.ReferralLinkRepo.GetByToken(token)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	if link == nil {
		response.NotFound(c, "link não encontrado")
		return
	}

	member, err := h.MemberRepo.GetByID(link.MemberID)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	if member == nil || member.IsDeleted() {
		response.NotFound(c, "link não encontrado")
		return
	}

	response.Success(c, gin.H{
		"token":       link.Token,
		"campaign_id": link.CampaignID,
		"member_id":   member.ID,
		"referrer":    member.Name,
	})
}
