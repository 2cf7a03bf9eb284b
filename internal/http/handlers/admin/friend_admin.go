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

// ListFriends lists friends for the dashboard.
func (h *Handler) ListFriends(c *gin.Context) {
	page, pageSize := shared.NormalizePagination(queryInt(c, "page"), queryInt(c, "page_size"))
	filter := repository.FriendListFilter{
		Page:           page,
		PageSize:       pageSize,
		CampaignID:     queryUint(c, "campaign_id"),
		MemberID:       queryUint(c, "member_id"),
		Keyword:        strings.TrimSpace(c.Query("keyword")),
		Status:         strings.TrimSpace(c.Query("status")),
		IncludeDeleted: queryBool(c, "include_deleted"),
		OnlyUnverified: queryBool(c, "only_unverified"),
		CreatedFrom:    queryTime(c, "created_from"),
		CreatedTo:      queryTime(c, "created_to"),
	}

	friends, total, err := h.FriendRepo.List(filter)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	response.SuccessWithPage(c, friends, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: shared.TotalPages(total, pageSize),
	})
}

// DeleteFriend soft-deletes a friend and recounts the owning member.
func (h *Handler) DeleteFriend(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		response.BadRequest(c, "id inválido")
		return
	}
	if err := h.DeletionService.SoftDeleteFriend(id); err != nil {
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
	shared.RequestLog(c).Infow("friend_soft_deleted", "friend_id", id)
	response.SuccessWithMsg(c, "amigo removido", nil)
}

type friendVerificationRequest struct {
	PrintVerified *bool `json:"print_verified"`
	PostVerified  *bool `json:"post_verified"`
}

// UpdateFriendVerification marks the friend's proof screenshots as checked.
func (h *Handler) UpdateFriendVerification(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		response.BadRequest(c, "id inválido")
		return
	}
	var req friendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "payload inválido")
		return
	}

	friend, err := h.FriendRepo.GetByID(id)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	if friend == nil || friend.IsDeleted() {
		response.NotFound(c, service.ErrNotFound.Error())
		return
	}

	if req.PrintVerified != nil {
		friend.PrintVerified = *req.PrintVerified
	}
	if req.PostVerified != nil {
		friend.PostVerified = *req.PostVerified
	}
	if err := h.FriendRepo.Update(friend); err != nil {
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	response.Success(c, friend)
}
