package repository

import (
	"errors"

	"github.com/indicamais/internal/models"

	"gorm.io/gorm"
)

// ReferralLinkRepository is the referral-link data-access interface.
type ReferralLinkRepository interface {
	Create(link *models.ReferralLink) error
	GetByToken(token string) (*models.ReferralLink, error)
	// DeleteByMemberID hard-deletes every link of a member so the public
	// link endpoint answers 404 for removed members.
	DeleteByMemberID(memberID uint) (int64, error)
}

// GormReferralLinkRepository is the GORM implementation.
type GormReferralLinkRepository struct {
	db *gorm.DB
}

// NewReferralLinkRepository creates a referral link repository.
func NewReferralLinkRepository(db *gorm.DB) *GormReferralLinkRepository {
	return &GormReferralLinkRepository{db: db}
}

// Create inserts a referral link.
func (r *GormReferralLinkRepository) Create(link *models.ReferralLink) error {
	return r.db.Create(link).Error
}

// GetByToken fetches a link by its token.
func (r *GormReferralLinkRepository) GetByToken(token string) (*models.ReferralLink, error) {
	var link models.ReferralLink
	if err := r.db.Where("token = ?", token).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// DeleteByMemberID hard-deletes the member's links.
func (r *GormReferralLinkRepository) DeleteByMemberID(memberID uint) (int64, error) {
	result := r.db.Where("member_id = ?", memberID).Delete(&models.ReferralLink{})
	return result.RowsAffected, result.Error
}
