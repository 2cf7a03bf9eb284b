package admin

import (
	"errors"

	"github.com/indicamais/internal/cache"
	"github.com/indicamais/internal/http/handlers/shared"
	"github.com/indicamais/internal/http/response"
	"github.com/indicamais/internal/service"

	"github.com/gin-gonic/gin"
)

// RecomputeRanking triggers a full recompute for one campaign. Enqueued when
// the queue is up, run inline otherwise; either way the result converges.
func (h *Handler) RecomputeRanking(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		response.BadRequest(c, "id inválido")
		return
	}

	if h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueueCampaignRankingRecompute(id); err == nil {
			response.SuccessWithMsg(c, "recalculo agendado", gin.H{"queued": true})
			return
		} else {
			shared.RequestLog(c).Warnw("ranking_enqueue_failed", "campaign_id", id, "error", err)
		}
	}

	if err := h.RankingService.RecomputeCampaignRanking(id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(c, service.ErrNotFound.Error())
		case errors.Is(err, service.ErrCampaignRequired):
			response.BadRequest(c, service.ErrCampaignRequired.Error())
		default:
			shared.RespondError(c, response.CodeInternal, "erro interno", err)
		}
		return
	}
	if err := cache.DelRankingSnapshot(c.Request.Context(), id); err != nil {
		shared.RequestLog(c).Debugw("ranking_snapshot_invalidate_failed", "campaign_id", id, "error", err)
	}
	response.SuccessWithMsg(c, "recalculo concluído", gin.H{"queued": false})
}
