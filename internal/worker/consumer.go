package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/indicamais/internal/cache"
	"github.com/indicamais/internal/logger"
	"github.com/indicamais/internal/provider"
	"github.com/indicamais/internal/queue"
	"github.com/indicamais/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles the async ranking tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates a consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register binds the task handlers.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCampaignRankingRecompute, c.handleCampaignRankingRecompute)
	mux.HandleFunc(queue.TaskMemberCountersRecompute, c.handleMemberCountersRecompute)
}

func (c *Consumer) handleCampaignRankingRecompute(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_campaign_ranking_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CampaignRankingPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_campaign_ranking_unmarshal_failed", "error", err)
		return err
	}
	if payload.CampaignID == 0 {
		logger.Debugw("worker_campaign_ranking_skip_invalid_payload", "campaign_id", payload.CampaignID)
		return nil
	}
	if err := c.RankingService.RecomputeCampaignRanking(payload.CampaignID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			logger.Debugw("worker_campaign_ranking_skip_not_found", "campaign_id", payload.CampaignID)
			return nil
		}
		logger.Warnw("worker_campaign_ranking_failed", "campaign_id", payload.CampaignID, "error", err)
		return err
	}
	if err := cache.DelRankingSnapshot(ctx, payload.CampaignID); err != nil {
		logger.Debugw("worker_ranking_snapshot_invalidate_failed", "campaign_id", payload.CampaignID, "error", err)
	}
	return nil
}

func (c *Consumer) handleMemberCountersRecompute(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_member_counters_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.MemberCountersPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_member_counters_unmarshal_failed", "error", err)
		return err
	}
	if payload.MemberID == 0 {
		logger.Debugw("worker_member_counters_skip_invalid_payload", "member_id", payload.MemberID)
		return nil
	}
	if err := c.RankingService.RecomputeMemberCounters(payload.MemberID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			logger.Debugw("worker_member_counters_skip_not_found", "member_id", payload.MemberID)
			return nil
		}
		logger.Warnw("worker_member_counters_failed", "member_id", payload.MemberID, "error", err)
		return err
	}
	return nil
}
