package router

import (
	"fmt"
	"strings"

	"github.com/indicamais/internal/cache"
	"github.com/indicamais/internal/config"
	adminhandlers "github.com/indicamais/internal/http/handlers/admin"
	publichandlers "github.com/indicamais/internal/http/handlers/public"
	"github.com/indicamais/internal/logger"
	"github.com/indicamais/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware and routes.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "im"
	}
	redisClient := cache.Client()
	registerRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:register", redisPrefix),
		WindowSeconds: cfg.Security.RegisterRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.RegisterRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.RegisterRateLimit.BlockSeconds,
		Message:       "muitos cadastros deste endereço",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "muitas tentativas de login",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		public := apiV1.Group("/public")
		{
			public.POST("/members", RateLimitMiddleware(redisClient, registerRule, KeyByIPAndJSONField("phone")), publicHandler.RegisterMember)
			public.POST("/friends", RateLimitMiddleware(redisClient, registerRule, KeyByIPAndJSONField("phone")), publicHandler.RegisterFriend)
			public.GET("/referral-links/:token", publicHandler.GetReferralLink)
			public.GET("/cep/:cep", publicHandler.GetCep)
			public.GET("/ranking", publicHandler.GetRanking)
		}

		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authorized.GET("/members", adminHandler.ListMembers)
				authorized.GET("/members/:id", adminHandler.GetMember)
				authorized.DELETE("/members/:id", adminHandler.DeleteMember)
				authorized.POST("/members/:id/recompute", adminHandler.RecomputeMember)

				authorized.GET("/friends", adminHandler.ListFriends)
				authorized.DELETE("/friends/:id", adminHandler.DeleteFriend)
				authorized.PATCH("/friends/:id/verification", adminHandler.UpdateFriendVerification)

				authorized.GET("/campaigns", adminHandler.ListCampaigns)
				authorized.POST("/campaigns", adminHandler.CreateCampaign)
				authorized.PUT("/campaigns/:id", adminHandler.UpdateCampaign)
				authorized.GET("/campaigns/:id/capacity", adminHandler.GetCapacity)
				authorized.POST("/campaigns/:id/ranking/recompute", adminHandler.RecomputeRanking)

				authorized.GET("/plans", adminHandler.ListPlans)
				authorized.POST("/plans", adminHandler.CreatePlan)
				authorized.PUT("/plans/:id", adminHandler.UpdatePlan)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
