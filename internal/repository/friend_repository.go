package repository

import (
	"errors"
	"time"

	"github.com/indicamais/internal/constants"
	"github.com/indicamais/internal/models"

	"gorm.io/gorm"
)

// FriendRepository is the friend data-access interface.
type FriendRepository interface {
	GetByID(id uint) (*models.Friend, error)
	Create(friend *models.Friend) error
	Update(friend *models.Friend) error
	List(filter FriendListFilter) ([]models.Friend, int64, error)

	CountActiveByMember(memberID uint) (int64, error)
	CountActive(campaignID uint) (int64, error)
	ActivePhoneExists(campaignID uint, phone string) (bool, error)
	ActiveInstagramExists(campaignID uint, instagram string) (bool, error)

	SoftDelete(id uint, at time.Time) error
}

// GormFriendRepository is the GORM implementation.
type GormFriendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a friend repository.
func NewFriendRepository(db *gorm.DB) *GormFriendRepository {
	return &GormFriendRepository{db: db}
}

func (r *GormFriendRepository) activeScope(campaignID uint) *gorm.DB {
	return r.db.Model(&models.Friend{}).
		Where("campaign_id = ?", campaignID).
		Where("deleted_at IS NULL").
		Where("status = ?", constants.RecordStatusActive)
}

// GetByID fetches one friend, deleted or not.
func (r *GormFriendRepository) GetByID(id uint) (*models.Friend, error) {
	var friend models.Friend
	if err := r.db.First(&friend, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &friend, nil
}

// Create inserts a friend row.
func (r *GormFriendRepository) Create(friend *models.Friend) error {
	return r.db.Create(friend).Error
}

// Update saves a friend row.
func (r *GormFriendRepository) Update(friend *models.Friend) error {
	return r.db.Save(friend).Error
}

// List lists friends for the dashboard.
func (r *GormFriendRepository) List(filter FriendListFilter) ([]models.Friend, int64, error) {
	query := r.db.Model(&models.Friend{})

	if filter.CampaignID != 0 {
		query = query.Where("campaign_id = ?", filter.CampaignID)
	}
	if filter.MemberID != 0 {
		query = query.Where("member_id = ?", filter.MemberID)
	}
	if !filter.IncludeDeleted {
		query = query.Where("deleted_at IS NULL")
	}
	if filter.Keyword != "" {
		like := "%" + escapeLike(filter.Keyword) + "%"
		query = query.Where(
			`name LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\' OR instagram LIKE ? ESCAPE '\'`,
			like, like, like,
		)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OnlyUnverified {
		query = query.Where("print_verified = ? OR post_verified = ?", false, false)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var friends []models.Friend
	if err := query.Order("created_at DESC, id DESC").Find(&friends).Error; err != nil {
		return nil, 0, err
	}
	return friends, total, nil
}

// CountActiveByMember counts a member's alive friends. This count is the
// source of truth for contracts_completed.
func (r *GormFriendRepository) CountActiveByMember(memberID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Friend{}).
		Where("member_id = ?", memberID).
		Where("deleted_at IS NULL").
		Where("status = ?", constants.RecordStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActive counts active friends in a campaign.
func (r *GormFriendRepository) CountActive(campaignID uint) (int64, error) {
	var count int64
	if err := r.activeScope(campaignID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ActivePhoneExists reports whether an active friend holds the phone.
func (r *GormFriendRepository) ActivePhoneExists(campaignID uint, phone string) (bool, error) {
	var count int64
	if err := r.activeScope(campaignID).Where("phone = ?", phone).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ActiveInstagramExists reports whether an active friend holds the handle.
func (r *GormFriendRepository) ActiveInstagramExists(campaignID uint, instagram string) (bool, error) {
	var count int64
	if err := r.activeScope(campaignID).Where("instagram = ?", instagram).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SoftDelete marks the friend deleted.
func (r *GormFriendRepository) SoftDelete(id uint, at time.Time) error {
	return r.db.Model(&models.Friend{}).Where("id = ?", id).Updates(map[string]interface{}{
		"deleted_at": at,
		"status":     constants.RecordStatusInactive,
		"updated_at": at,
	}).Error
}
