package worker

import (
	"context"
	"errors"
	"time"

	"github.com/indicamais/internal/config"
	"github.com/indicamais/internal/constants"
	"github.com/indicamais/internal/logger"
	"github.com/indicamais/internal/queue"
	"github.com/indicamais/internal/repository"

	"github.com/hibiken/asynq"
)

const (
	// Counters drift when a write lands between recompute and read; the
	// periodic pass converges them without operator action.
	rankingReconcileInterval = 15 * time.Minute
)

// Service runs the asynq server plus the periodic ranking reconcile loop.
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService creates the queue worker service.
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name returns the service name.
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the worker until the server shuts down.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.RankingService != nil {
		go s.runRankingReconcileLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the worker down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runRankingReconcileLoop periodically recomputes every active campaign.
func (s *Service) runRankingReconcileLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.RankingService == nil {
		return
	}
	runOnce := func() {
		campaigns, _, err := s.consumer.CampaignRepo.List(repository.CampaignListFilter{
			Status: constants.CampaignStatusActive,
		})
		if err != nil {
			logger.Warnw("worker_ranking_reconcile_list_failed", "error", err)
			return
		}
		for i := range campaigns {
			if err := s.consumer.RankingService.RecomputeCampaignRanking(campaigns[i].ID); err != nil {
				logger.Warnw("worker_ranking_reconcile_failed",
					"campaign_id", campaigns[i].ID,
					"error", err,
				)
			}
		}
	}
	runOnce()

	ticker := time.NewTicker(rankingReconcileInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
