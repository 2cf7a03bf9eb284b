package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Plan holds a subscription tier. Capacity ceilings are resolved from the
// plan name by the capacity service; MaxMembers/MaxFriends here act as
// explicit overrides when non-zero. Zero means "use the name table".
type Plan struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	Name       string          `gorm:"uniqueIndex;not null" json:"name"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"price"`
	MaxMembers int             `gorm:"default:0" json:"max_members"`
	MaxFriends int             `gorm:"default:0" json:"max_friends"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Plan) TableName() string {
	return "plans"
}
