package admin

import (
	"strings"

	"github.com/indicamais/internal/constants"
	"github.com/indicamais/internal/http/handlers/shared"
	"github.com/indicamais/internal/http/response"
	"github.com/indicamais/internal/models"
	"github.com/indicamais/internal/repository"
	"github.com/indicamais/internal/service"

	"github.com/gin-gonic/gin"
)

// ListCampaigns lists campaigns with their plans.
func (h *Handler) ListCampaigns(c *gin.Context) {
	page, pageSize := shared.NormalizePagination(queryInt(c, "page"), queryInt(c, "page_size"))
	filter := repository.CampaignListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Status:   strings.TrimSpace(c.Query("status")),
	}

	campaigns, total, err := h.CampaignRepo.List(filter)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	response.SuccessWithPage(c, campaigns, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: shared.TotalPages(total, pageSize),
	})
}

type campaignRequest struct {
	Name               string `json:"name" binding:"required"`
	Slug               string `json:"slug" binding:"required"`
	PlanID             uint   `json:"plan_id"`
	Status             string `json:"status"`
	PaidContractsPhase bool   `json:"paid_contracts_phase"`
	RankingCutoff      int    `json:"ranking_cutoff"`
}

// CreateCampaign creates a campaign.
func (h *Handler) CreateCampaign(c *gin.Context) {
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "payload inválido")
		return
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = constants.CampaignStatusActive
	}
	campaign := &models.Campaign{
		Name:               strings.TrimSpace(req.Name),
		Slug:               strings.TrimSpace(req.Slug),
		PlanID:             req.PlanID,
		Status:             status,
		PaidContractsPhase: req.PaidContractsPhase,
		RankingCutoff:      req.RankingCutoff,
	}
	if err := h.CampaignRepo.Create(campaign); err != nil {
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	response.Success(c, campaign)
}

// UpdateCampaign updates a campaign.
func (h *Handler) UpdateCampaign(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		response.BadRequest(c, "id inválido")
		return
	}
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "payload inválido")
		return
	}
	campaign, err := h.CampaignRepo.GetByID(id)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	if campaign == nil {
		response.NotFound(c, service.ErrNotFound.Error())
		return
	}

	campaign.Name = strings.TrimSpace(req.Name)
	campaign.Slug = strings.TrimSpace(req.Slug)
	campaign.PlanID = req.PlanID
	if status := strings.TrimSpace(req.Status); status != "" {
		campaign.Status = status
	}
	campaign.PaidContractsPhase = req.PaidContractsPhase
	campaign.RankingCutoff = req.RankingCutoff
	campaign.Plan = nil

	if err := h.CampaignRepo.Update(campaign); err != nil {
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	response.Success(c, campaign)
}

// GetCapacity returns the plan capacity snapshot for one registration kind.
func (h *Handler) GetCapacity(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		response.BadRequest(c, "id inválido")
		return
	}
	kind := strings.TrimSpace(c.DefaultQuery("kind", service.CapacityKindMember))
	report, err := h.CapacityService.CheckCapacity(id, kind)
	if err != nil {
		if err == service.ErrNotFound {
			response.NotFound(c, service.ErrNotFound.Error())
			return
		}
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	response.Success(c, report)
}
