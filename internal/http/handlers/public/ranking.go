package public

import (
	"strconv"
	"strings"

	"github.com/indicamais/internal/cache"
	"github.com/indicamais/internal/http/handlers/shared"
	"github.com/indicamais/internal/http/response"
	"github.com/indicamais/internal/service"

	"github.com/gin-gonic/gin"
)

// GetRanking serves the public ranking page for one campaign, cached briefly
// in Redis since reads dwarf writes.
func (h *Handler) GetRanking(c *gin.Context) {
	campaignID := uint(0)
	if raw := strings.TrimSpace(c.Query("campaign_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.BadRequest(c, "campaign_id inválido")
			return
		}
		campaignID = uint(parsed)
	}
	if campaignID == 0 {
		slug := strings.TrimSpace(c.Query("campaign"))
		if slug == "" {
			response.BadRequest(c, service.ErrCampaignRequired.Error())
			return
		}
		campaign, err := h.CampaignRepo.GetBySlug(slug)
		if err != nil {
			shared.RespondError(c, response.CodeInternal, "erro interno", err)
			return
		}
		if campaign == nil {
			response.NotFound(c, service.ErrNotFound.Error())
			return
		}
		campaignID = campaign.ID
	}

	if snapshot, hit, err := cache.GetRankingSnapshot(c.Request.Context(), campaignID); err == nil && hit {
		response.Success(c, snapshot)
		return
	}

	members, err := h.MemberRepo.ListActiveForRanking(campaignID)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}

	snapshot := &cache.RankingSnapshot{
		CampaignID: campaignID,
		Rows:       make([]cache.RankingRow, 0, len(members)),
	}
	for i := range members {
		position := i + 1
		if members[i].RankingPosition != nil && *members[i].RankingPosition > 0 {
			position = *members[i].RankingPosition
		}
		snapshot.Rows = append(snapshot.Rows, cache.RankingRow{
			Position:           position,
			Name:               members[i].Name,
			Instagram:          members[i].Instagram,
			ContractsCompleted: members[i].ContractsCompleted,
			RankingStatus:      members[i].RankingStatus,
		})
	}
	if err := cache.SetRankingSnapshot(c.Request.Context(), snapshot); err != nil {
		shared.RequestLog(c).Debugw("ranking_snapshot_store_failed", "campaign_id", campaignID, "error", err)
	}
	response.Success(c, snapshot)
}
