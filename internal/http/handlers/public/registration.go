package public

import (
	"strings"

	"github.com/indicamais/internal/http/handlers/shared"
	"github.com/indicamais/internal/http/response"
	"github.com/indicamais/internal/service"

	"github.com/gin-gonic/gin"
)

type registerMemberRequest struct {
	CampaignSlug string `json:"campaign_slug"`
	service.RegisterMemberInput
}

type registerFriendRequest struct {
	CampaignSlug string `json:"campaign_slug"`
	service.RegisterFriendInput
}

// resolveCampaignID fills the campaign id from the slug when the form only
// knows the public slug.
func (h *Handler) resolveCampaignID(c *gin.Context, campaignID uint, slug string) (uint, bool) {
	if campaignID != 0 {
		return campaignID, true
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		response.BadRequest(c, service.ErrCampaignRequired.Error())
		return 0, false
	}
	campaign, err := h.CampaignRepo.GetBySlug(slug)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return 0, false
	}
	if campaign == nil {
		response.NotFound(c, service.ErrNotFound.Error())
		return 0, false
	}
	return campaign.ID, true
}

// RegisterMember handles the public member registration form.
func (h *Handler) RegisterMember(c *gin.Context) {
	var req registerMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "payload inválido")
		return
	}
	campaignID, ok := h.resolveCampaignID(c, req.CampaignID, req.CampaignSlug)
	if !ok {
		return
	}
	req.CampaignID = campaignID

	result, err := h.RegistrationService.RegisterMember(c.Request.Context(), req.RegisterMemberInput)
	if err != nil {
		respondRegistrationError(c, err)
		return
	}
	shared.RequestLog(c).Infow("member_registered",
		"campaign_id", campaignID,
		"member_id", result.Member.ID,
		"role", result.Member.Role,
	)
	response.Success(c, result)
}

// RegisterFriend handles the public friend registration form.
func (h *Handler) RegisterFriend(c *gin.Context) {
	var req registerFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "payload inválido")
		return
	}
	campaignID, ok := h.resolveCampaignID(c, req.CampaignID, req.CampaignSlug)
	if !ok {
		return
	}
	req.CampaignID = campaignID

	result, err := h.RegistrationService.RegisterFriend(c.Request.Context(), req.RegisterFriendInput)
	if err != nil {
		respondRegistrationError(c, err)
		return
	}
	shared.RequestLog(c).Infow("friend_registered",
		"campaign_id", campaignID,
		"friend_id", result.Friend.ID,
		"member_id", result.Friend.MemberID,
	)
	response.Success(c, result)
}
