package provider

import (
	"time"

	"github.com/indicamais/internal/cache"
	"github.com/indicamais/internal/config"
	"github.com/indicamais/internal/logger"
	"github.com/indicamais/internal/models"
	"github.com/indicamais/internal/queue"
	"github.com/indicamais/internal/repository"
	"github.com/indicamais/internal/service"
)

// Container wires repositories and services once at startup.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo        repository.AdminRepository
	MemberRepo       repository.MemberRepository
	FriendRepo       repository.FriendRepository
	CampaignRepo     repository.CampaignRepository
	PlanRepo         repository.PlanRepository
	LoginAccountRepo repository.LoginAccountRepository
	ReferralLinkRepo repository.ReferralLinkRepository

	// Services
	AuthService         *service.AuthService
	ReferrerService     *service.ReferrerService
	CapacityService     *service.CapacityService
	CredentialService   *service.CredentialService
	RankingService      *service.RankingService
	CepService          *service.CepService
	RegistrationService *service.RegistrationService
	DeletionService     *service.DeletionService
}

// NewContainer initializes the dependency graph.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.MemberRepo = repository.NewMemberRepository(db)
	c.FriendRepo = repository.NewFriendRepository(db)
	c.CampaignRepo = repository.NewCampaignRepository(db)
	c.PlanRepo = repository.NewPlanRepository(db)
	c.LoginAccountRepo = repository.NewLoginAccountRepository(db)
	c.ReferralLinkRepo = repository.NewReferralLinkRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.AdminRepo, c.Config.JWT.SecretKey, c.Config.JWT.ExpireHours)
	c.ReferrerService = service.NewReferrerService(c.MemberRepo, c.AdminRepo)
	c.CapacityService = service.NewCapacityService(c.CampaignRepo, c.MemberRepo, c.FriendRepo)
	c.CredentialService = service.NewCredentialService(c.LoginAccountRepo)
	c.RankingService = service.NewRankingService(
		c.MemberRepo,
		c.FriendRepo,
		c.CampaignRepo,
		c.Config.Ranking.TopCutoff,
		c.Config.Ranking.UseStoredProcedure,
	)
	c.CepService = service.NewCepService(time.Duration(c.Config.Cep.TimeoutSeconds) * time.Second)
	c.RegistrationService = service.NewRegistrationService(
		c.MemberRepo,
		c.FriendRepo,
		c.CampaignRepo,
		c.ReferralLinkRepo,
		c.ReferrerService,
		c.CapacityService,
		c.CredentialService,
		c.RankingService,
		c.CepService,
		c.QueueClient,
	)
	c.DeletionService = service.NewDeletionService(
		c.MemberRepo,
		c.FriendRepo,
		c.LoginAccountRepo,
		c.ReferralLinkRepo,
		c.RankingService,
		c.QueueClient,
	)
}
