package models

import "time"

// Member is a primary registrant inside a campaign. Counter and ranking
// columns are derived: only the ranking engine writes them.
//
// DeletedAt is a plain nullable timestamp instead of gorm.DeletedAt because
// soft-deleted rows must stay visible to admin listings and audit reports;
// active-scope filtering is always explicit in the repositories.
type Member struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	CampaignID uint   `gorm:"index;not null" json:"campaign_id"`
	Name       string `gorm:"index;not null" json:"name"`
	Phone      string `gorm:"index;not null" json:"phone"`
	Instagram  string `gorm:"index;not null" json:"instagram"`
	Cep        string `gorm:"size:8" json:"cep"`
	City       string `json:"city"`
	Sector     string `json:"sector"`
	Referrer   string `gorm:"index" json:"referrer"` // display name of the inviting member/admin
	Role       string `gorm:"default:'Membro'" json:"role"`
	Status     string `gorm:"default:'Ativo';index" json:"status"`
	IsFriend   bool   `gorm:"default:false" json:"is_friend"`

	// Mandatory partner ("couple") sub-record.
	PartnerName      string `json:"partner_name"`
	PartnerPhone     string `json:"partner_phone"`
	PartnerInstagram string `json:"partner_instagram"`
	PartnerCity      string `json:"partner_city"`
	PartnerSector    string `json:"partner_sector"`

	// Derived by the ranking engine.
	ContractsCompleted int    `gorm:"default:0" json:"contracts_completed"`
	RankingPosition    *int   `json:"ranking_position"`
	RankingStatus      string `gorm:"default:'Vermelho'" json:"ranking_status"`
	IsTop1500          bool   `gorm:"column:is_top1500;default:false" json:"is_top_1500"`

	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`
}

// TableName sets the table name.
func (Member) TableName() string {
	return "members"
}

// IsDeleted reports whether the member was soft-deleted.
func (m *Member) IsDeleted() bool {
	return m != nil && m.DeletedAt != nil
}
