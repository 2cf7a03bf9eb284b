package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin is a dashboard operator. Admin display names also participate in
// referrer resolution (a member referred by an admin keeps the Membro role).
type Admin struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"index" json:"name"`
	CampaignID   *uint          `gorm:"index" json:"campaign_id"` // nil = all campaigns
	IsSuper      bool           `gorm:"default:false" json:"is_super"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Admin) TableName() string {
	return "admins"
}
