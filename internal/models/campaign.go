package models

import (
	"time"

	"gorm.io/gorm"
)

// Campaign is the tenant boundary. Its plan determines member/friend capacity
// ceilings; the core only reads it.
type Campaign struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	Name   string `gorm:"uniqueIndex;not null" json:"name"`
	Slug   string `gorm:"uniqueIndex;not null" json:"slug"`
	PlanID uint   `gorm:"index;not null" json:"plan_id"`
	Status string `gorm:"default:'active'" json:"status"`

	// PaidContractsPhase switches member-referred registrations to the
	// "Amigo" role. Off by default.
	PaidContractsPhase bool `gorm:"default:false" json:"paid_contracts_phase"`

	// RankingCutoff overrides the configured top-N cutoff when > 0.
	RankingCutoff int `gorm:"default:0" json:"ranking_cutoff"`

	Plan *Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Campaign) TableName() string {
	return "campaigns"
}
