package repository

import (
	"errors"

	"github.com/indicamais/internal/models"

	"gorm.io/gorm"
)

// CampaignRepository is the campaign data-access interface.
type CampaignRepository interface {
	GetByID(id uint) (*models.Campaign, error)
	GetBySlug(slug string) (*models.Campaign, error)
	Create(campaign *models.Campaign) error
	Update(campaign *models.Campaign) error
	List(filter CampaignListFilter) ([]models.Campaign, int64, error)
}

// GormCampaignRepository is the GORM implementation.
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a campaign repository.
func NewCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// GetByID fetches a campaign with its plan preloaded.
func (r *GormCampaignRepository) GetByID(id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.Preload("Plan").First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// GetBySlug fetches a campaign by its public slug.
func (r *GormCampaignRepository) GetBySlug(slug string) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.Preload("Plan").Where("slug = ?", slug).First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// Create inserts a campaign.
func (r *GormCampaignRepository) Create(campaign *models.Campaign) error {
	return r.db.Create(campaign).Error
}

// Update saves a campaign.
func (r *GormCampaignRepository) Update(campaign *models.Campaign) error {
	return r.db.Save(campaign).Error
}

// List lists campaigns for the dashboard.
func (r *GormCampaignRepository) List(filter CampaignListFilter) ([]models.Campaign, int64, error) {
	query := r.db.Model(&models.Campaign{})

	if filter.Keyword != "" {
		like := "%" + escapeLike(filter.Keyword) + "%"
		query = query.Where(`name LIKE ? ESCAPE '\' OR slug LIKE ? ESCAPE '\'`, like, like)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var campaigns []models.Campaign
	if err := query.Preload("Plan").Order("id DESC").Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}
