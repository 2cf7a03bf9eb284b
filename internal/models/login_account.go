package models

import "time"

// LoginAccount is an issued credential record for a registered member.
// It is hard-deleted when the member is soft-deleted: access must stop
// immediately while the member row stays around for reporting.
type LoginAccount struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CampaignID   uint      `gorm:"index;not null" json:"campaign_id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `gorm:"index;not null" json:"name"`
	Role         string    `gorm:"index;not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (LoginAccount) TableName() string {
	return "login_accounts"
}
