package repository

import (
	"errors"
	"time"

	"github.com/indicamais/internal/constants"
	"github.com/indicamais/internal/models"

	"gorm.io/gorm"
)

// MemberRepository is the member data-access interface.
type MemberRepository interface {
	GetByID(id uint) (*models.Member, error)
	Create(member *models.Member) error
	Update(member *models.Member) error
	List(filter MemberListFilter) ([]models.Member, int64, error)

	// Active-scope queries: deleted_at IS NULL and status Ativo.
	FindActiveByExactName(campaignID uint, name string) ([]models.Member, error)
	FindActiveByNameLike(campaignID uint, name string) ([]models.Member, error)
	CountActive(campaignID uint) (int64, error)
	ActivePhoneExists(campaignID uint, phone string) (bool, error)
	ActiveInstagramExists(campaignID uint, instagram string) (bool, error)

	// Ranking engine support.
	ListActiveForRanking(campaignID uint) ([]models.Member, error)
	UpdateCounters(id uint, contractsCompleted int, rankingStatus string) error
	UpdateRanking(id uint, position int, isTop bool) error
	CallUpdateCompleteRanking(campaignID uint) error

	SoftDelete(id uint, at time.Time) error
}

// GormMemberRepository is the GORM implementation.
type GormMemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a member repository.
func NewMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

func (r *GormMemberRepository) activeScope(campaignID uint) *gorm.DB {
	return r.db.Model(&models.Member{}).
		Where("campaign_id = ?", campaignID).
		Where("deleted_at IS NULL").
		Where("status = ?", constants.RecordStatusActive)
}

// GetByID fetches one member, deleted or not.
func (r *GormMemberRepository) GetByID(id uint) (*models.Member, error) {
	var member models.Member
	if err := r.db.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// Create inserts a member row.
func (r *GormMemberRepository) Create(member *models.Member) error {
	return r.db.Create(member).Error
}

// Update saves a member row.
func (r *GormMemberRepository) Update(member *models.Member) error {
	return r.db.Save(member).Error
}

// List lists members for the dashboard.
func (r *GormMemberRepository) List(filter MemberListFilter) ([]models.Member, int64, error) {
	query := r.db.Model(&models.Member{})

	if filter.CampaignID != 0 {
		query = query.Where("campaign_id = ?", filter.CampaignID)
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
	if filter.RankingStatus != "" {
		query = query.Where("ranking_status = ?", filter.RankingStatus)
	}
	if filter.Referrer != "" {
		query = query.Where("referrer = ?", filter.Referrer)
	}
	if filter.OnlyTop {
		query = query.Where("is_top1500 = ?", true)
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

	var members []models.Member
	if err := query.Order("contracts_completed DESC, created_at ASC, id ASC").Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

// FindActiveByExactName finds active members by exact name, ordered by
// ascending id so ambiguous referrers resolve deterministically.
func (r *GormMemberRepository) FindActiveByExactName(campaignID uint, name string) ([]models.Member, error) {
	var members []models.Member
	if err := r.activeScope(campaignID).
		Where("name = ?", name).
		Order("id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// FindActiveByNameLike finds active members whose name contains the given
// fragment, case-insensitive, ordered by ascending id.
func (r *GormMemberRepository) FindActiveByNameLike(campaignID uint, name string) ([]models.Member, error) {
	var members []models.Member
	if err := r.activeScope(campaignID).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(name)+"%").
		Order("id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// CountActive counts active members in a campaign.
func (r *GormMemberRepository) CountActive(campaignID uint) (int64, error) {
	var count int64
	if err := r.activeScope(campaignID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ActivePhoneExists reports whether an active member holds the phone.
func (r *GormMemberRepository) ActivePhoneExists(campaignID uint, phone string) (bool, error) {
	var count int64
	if err := r.activeScope(campaignID).Where("phone = ?", phone).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ActiveInstagramExists reports whether an active member holds the handle.
// Handles are stored normalized (lower-case, no '@').
func (r *GormMemberRepository) ActiveInstagramExists(campaignID uint, instagram string) (bool, error) {
	var count int64
	if err := r.activeScope(campaignID).Where("instagram = ?", instagram).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListActiveForRanking fetches the full active set in ranking order:
// contracts descending, earliest creation first, id as the final tie-break.
func (r *GormMemberRepository) ListActiveForRanking(campaignID uint) ([]models.Member, error) {
	var members []models.Member
	if err := r.activeScope(campaignID).
		Order("contracts_completed DESC, created_at ASC, id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// UpdateCounters persists derived counter columns for one member.
func (r *GormMemberRepository) UpdateCounters(id uint, contractsCompleted int, rankingStatus string) error {
	return r.db.Model(&models.Member{}).Where("id = ?", id).Updates(map[string]interface{}{
		"contracts_completed": contractsCompleted,
		"ranking_status":      rankingStatus,
		"updated_at":          time.Now(),
	}).Error
}

// UpdateRanking persists the ordinal position and top-N flag for one member.
func (r *GormMemberRepository) UpdateRanking(id uint, position int, isTop bool) error {
	return r.db.Model(&models.Member{}).Where("id = ?", id).Updates(map[string]interface{}{
		"ranking_position": position,
		"is_top1500":       isTop,
		"updated_at":       time.Now(),
	}).Error
}

// CallUpdateCompleteRanking delegates the full recompute to the
// update_complete_ranking() stored procedure. Only available on postgres;
// behavior matches the client-side recompute.
func (r *GormMemberRepository) CallUpdateCompleteRanking(campaignID uint) error {
	return r.db.Exec("SELECT update_complete_ranking(?)", campaignID).Error
}

// SoftDelete marks the member deleted and inactive. Friends are not cascaded.
func (r *GormMemberRepository) SoftDelete(id uint, at time.Time) error {
	return r.db.Model(&models.Member{}).Where("id = ?", id).Updates(map[string]interface{}{
		"deleted_at": at,
		"status":     constants.RecordStatusInactive,
		"updated_at": at,
	}).Error
}
