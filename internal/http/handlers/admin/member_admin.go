package admin

import (
	"errors"
	"strings"

	"github.com/indicamais/internal/http/handlers/shared"
	"github.com/indicamais/internal/http/response"
	"github.com/indicamais/internal/repository"
	"github.com/indicamais/internal/service"

	"github.com/gin-gonic/gin"
)

// ListMembers lists members for the dashboard. Soft-deleted rows are
// included when include_deleted is set.
func (h *Handler) ListMembers(c *gin.Context) {
	page, pageSize := shared.NormalizePagination(queryInt(c, "page"), queryInt(c, "page_size"))
	filter := repository.MemberListFilter{
		Page:           page,
		PageSize:       pageSize,
		CampaignID:     queryUint(c, "campaign_id"),
		Keyword:        strings.TrimSpace(c.Query("keyword")),
		Status:         strings.TrimSpace(c.Query("status")),
		RankingStatus:  strings.TrimSpace(c.Query("ranking_status")),
		Referrer:       strings.TrimSpace(c.Query("referrer")),
		OnlyTop:        queryBool(c, "only_top"),
		IncludeDeleted: queryBool(c, "include_deleted"),
		CreatedFrom:    queryTime(c, "created_from"),
		CreatedTo:      queryTime(c, "created_to"),
	}

	members, total, err := h.MemberRepo.List(filter)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	response.SuccessWithPage(c, members, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: shared.TotalPages(total, pageSize),
	})
}

// GetMember fetches one member, deleted or not.
func (h *Handler) GetMember(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		response.BadRequest(c, "id inválido")
		return
	}
	member, err := h.MemberRepo.GetByID(id)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	if member == nil {
		response.NotFound(c, service.ErrNotFound.Error())
		return
	}
	response.Success(c, member)
}

// DeleteMember soft-deletes a member and removes its login account and
// referral links.
func (h *Handler) DeleteMember(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		response.BadRequest(c, "id inválido")
		return
	}
	if err := h.DeletionService.SoftDeleteMember(id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(c, service.ErrNotFound.Error())
		case errors.Is(err, service.ErrAlreadyDeleted):
			response.Error(c, response.CodeConflict, service.ErrAlreadyDeleted.Error())
		default:
			shared.RespondError(c, response.CodeInternal, "erro interno", err)
		}
		return
	}
	shared.RequestLog(c).Infow("member_soft_deleted", "member_id", id)
	response.SuccessWithMsg(c, "membro removido", nil)
}

// RecomputeMember recounts one member's contracts on demand.
func (h *Handler) RecomputeMember(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		response.BadRequest(c, "id inválido")
		return
	}
	if err := h.RankingService.RecomputeMemberCounters(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, service.ErrNotFound.Error())
			return
		}
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	member, err := h.MemberRepo.GetByID(id)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	response.Success(c, member)
}
