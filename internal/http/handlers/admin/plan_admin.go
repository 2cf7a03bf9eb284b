package admin

import (
	"strings"

	"github.com/indicamais/internal/http/handlers/shared"
	"github.com/indicamais/internal/http/response"
	"github.com/indicamais/internal/models"
	"github.com/indicamais/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ListPlans lists every plan.
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.PlanRepo.ListAll()
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	response.Success(c, plans)
}

type planRequest struct {
	Name       string          `json:"name" binding:"required"`
	Price      decimal.Decimal `json:"price"`
	MaxMembers int             `json:"max_members"`
	MaxFriends int             `json:"max_friends"`
}

// CreatePlan creates a plan. Zero ceilings defer to the name-derived table.
func (h *Handler) CreatePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "payload inválido")
		return
	}
	plan := &models.Plan{
		Name:       strings.TrimSpace(req.Name),
		Price:      req.Price,
		MaxMembers: req.MaxMembers,
		MaxFriends: req.MaxFriends,
	}
	if err := h.PlanRepo.Create(plan); err != nil {
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	response.Success(c, plan)
}

// UpdatePlan updates a plan.
func (h *Handler) UpdatePlan(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		response.BadRequest(c, "id inválido")
		return
	}
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "payload inválido")
		return
	}
	plan, err := h.PlanRepo.GetByID(id)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	if plan == nil {
		response.NotFound(c, service.ErrNotFound.Error())
		return
	}

	plan.Name = strings.TrimSpace(req.Name)
	plan.Price = req.Price
	plan.MaxMembers = req.MaxMembers
	plan.MaxFriends = req.MaxFriends

	if err := h.PlanRepo.Update(plan); err != nil {
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	response.Success(c, plan)
}
