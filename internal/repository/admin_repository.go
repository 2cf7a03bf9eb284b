package repository

import (
	"errors"
	"time"

	"github.com/indicamais/internal/models"

	"gorm.io/gorm"
)

// AdminRepository is the dashboard-operator data-access interface.
type AdminRepository interface {
	GetByID(id uint) (*models.Admin, error)
	GetByUsername(username string) (*models.Admin, error)
	// FindByExactName supports referrer resolution: an admin can appear as
	// the inviting referrer of a member.
	FindByExactName(campaignID uint, name string) ([]models.Admin, error)
	UpdateLastLogin(id uint, at time.Time) error
}

// GormAdminRepository is the GORM implementation.
type GormAdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates an admin repository.
func NewAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// GetByID fetches one admin.
func (r *GormAdminRepository) GetByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// GetByUsername fetches one admin by login name.
func (r *GormAdminRepository) GetByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// FindByExactName finds admins by display name, scoped to the campaign or
// unscoped admins (campaign_id NULL), ordered by ascending id.
func (r *GormAdminRepository) FindByExactName(campaignID uint, name string) ([]models.Admin, error) {
	var admins []models.Admin
	if err := r.db.Where("name = ?", name).
		Where("campaign_id IS NULL OR campaign_id = ?", campaignID).
		Order("id ASC").
		Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// UpdateLastLogin stamps the last successful login.
func (r *GormAdminRepository) UpdateLastLogin(id uint, at time.Time) error {
	return r.db.Model(&models.Admin{}).Where("id = ?", id).Update("last_login_at", at).Error
}
