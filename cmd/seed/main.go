package main

import (
	"fmt"

	"github.com/indicamais/internal/config"
	"github.com/indicamais/internal/constants"
	"github.com/indicamais/internal/logger"
	"github.com/indicamais/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	plans := []models.Plan{
		{Name: "Plano Gratuito", Price: decimal.Zero},
		{Name: "Plano Essencial", Price: decimal.NewFromFloat(99.90)},
		{Name: "Plano Profissional", Price: decimal.NewFromFloat(249.90)},
		{Name: "Plano Avançado", Price: decimal.NewFromFloat(499.90)},
	}
	planIDs := map[string]uint{}
	for _, plan := range plans {
		var existing models.Plan
		if err := models.DB.Where("name = ?", plan.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&plan).Error; err != nil {
				stdLog.Printf("Failed to create plan %s: %v", plan.Name, err)
				continue
			}
			stdLog.Printf("Created plan: %s", plan.Name)
			planIDs[plan.Name] = plan.ID
		} else {
			stdLog.Printf("Plan already exists: %s", plan.Name)
			planIDs[existing.Name] = existing.ID
		}
	}

	campaigns := []models.Campaign{
		{
			Name:   "Campanha Demonstração",
			Slug:   "demo",
			PlanID: planIDs["Plano Gratuito"],
			Status: constants.CampaignStatusActive,
		},
		{
			Name:               "Campanha Indica Mais 2026",
			Slug:               "indica-mais-2026",
			PlanID:             planIDs["Plano Profissional"],
			Status:             constants.CampaignStatusActive,
			PaidContractsPhase: true,
		},
	}
	for _, campaign := range campaigns {
		var existing models.Campaign
		if err := models.DB.Where("slug = ?", campaign.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&campaign).Error; err != nil {
				stdLog.Printf("Failed to create campaign %s: %v", campaign.Slug, err)
			} else {
				stdLog.Printf("Created campaign: %s", campaign.Slug)
			}
		} else {
			stdLog.Printf("Campaign already exists: %s", campaign.Slug)
		}
	}

	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to seed default admin: %v", err)
	}

	fmt.Println("\nSeed data created:")
	fmt.Println("- 4 Plans")
	fmt.Println("- 2 Campaigns (demo, indica-mais-2026)")
	fmt.Println("- Default admin account")
}
