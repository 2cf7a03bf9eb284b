package models

import "time"

// ReferralLink is the shareable token a member hands out. Hard-deleted
// together with the login account when the member is soft-deleted, so a
// deleted member's link resolves to nothing.
type ReferralLink struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CampaignID uint      `gorm:"index;not null" json:"campaign_id"`
	MemberID   uint      `gorm:"index;not null" json:"member_id"`
	Token      string    `gorm:"uniqueIndex;size:36;not null" json:"token"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName sets the table name.
func (ReferralLink) TableName() string {
	return "referral_links"
}
