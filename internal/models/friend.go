package models

import "time"

// Friend is a referral recorded against a Member. Alive friends count toward
// the owning member's contracts_completed.
type Friend struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	CampaignID uint   `gorm:"index;not null" json:"campaign_id"`
	MemberID   uint   `gorm:"index;not null" json:"member_id"`
	Name       string `gorm:"index;not null" json:"name"`
	Phone      string `gorm:"index;not null" json:"phone"`
	Instagram  string `gorm:"index;not null" json:"instagram"`
	Cep        string `gorm:"size:8" json:"cep"`
	City       string `json:"city"`
	Sector     string `json:"sector"`
	Referrer   string `gorm:"index" json:"referrer"`
	Status     string `gorm:"default:'Ativo';index" json:"status"`

	PartnerName      string `json:"partner_name"`
	PartnerPhone     string `json:"partner_phone"`
	PartnerInstagram string `json:"partner_instagram"`
	PartnerCity      string `json:"partner_city"`
	PartnerSector    string `json:"partner_sector"`

	// Manual social-proof audit flags; stored only, never derived.
	PrintVerified   bool   `gorm:"default:false" json:"print_verified"`
	PostVerified    bool   `gorm:"default:false" json:"post_verified"`
	PrintProofURL   string `json:"print_proof_url"`
	PostProofURL    string `json:"post_proof_url"`

	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`
}

// TableName sets the table name.
func (Friend) TableName() string {
	return "friends"
}

// IsDeleted reports whether the friend was soft-deleted.
func (f *Friend) IsDeleted() bool {
	return f != nil && f.DeletedAt != nil
}
