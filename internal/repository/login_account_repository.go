package repository

import (
	"errors"

	"github.com/indicamais/internal/models"

	"gorm.io/gorm"
)

// LoginAccountRepository is the issued-credential data-access interface.
type LoginAccountRepository interface {
	Create(account *models.LoginAccount) error
	GetByUsername(username string) (*models.LoginAccount, error)
	UsernameExists(username string) (bool, error)
	// DeleteByNameAndRole hard-deletes the login record matched by display
	// name and role within a campaign. Hard delete is intentional: a removed
	// member's credentials must stop working immediately.
	DeleteByNameAndRole(campaignID uint, name, role string) (int64, error)
	Delete(id uint) error
}

// GormLoginAccountRepository is the GORM implementation.
type GormLoginAccountRepository struct {
	db *gorm.DB
}

// NewLoginAccountRepository creates a login account repository.
func NewLoginAccountRepository(db *gorm.DB) *GormLoginAccountRepository {
	return &GormLoginAccountRepository{db: db}
}

// Create inserts a login account.
func (r *GormLoginAccountRepository) Create(account *models.LoginAccount) error {
	return r.db.Create(account).Error
}

// GetByUsername fetches one login account.
func (r *GormLoginAccountRepository) GetByUsername(username string) (*models.LoginAccount, error) {
	var account models.LoginAccount
	if err := r.db.Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// UsernameExists reports whether the username is taken.
func (r *GormLoginAccountRepository) UsernameExists(username string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.LoginAccount{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete hard-deletes one login account by id.
func (r *GormLoginAccountRepository) Delete(id uint) error {
	return r.db.Delete(&models.LoginAccount{}, id).Error
}

// DeleteByNameAndRole hard-deletes matching login records.
func (r *GormLoginAccountRepository) DeleteByNameAndRole(campaignID uint, name, role string) (int64, error) {
	result := r.db.Where("campaign_id = ? AND name = ? AND role = ?", campaignID, name, role).
		Delete(&models.LoginAccount{})
	return result.RowsAffected, result.Error
}
