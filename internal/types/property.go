package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Property struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;index;not null;column:owner_user_id" json:"owner_user_id"`
	Owner       *User     `gorm:"constraint:OnDelete:RESTRICT;foreignKey:OwnerUserID;references:ID" json:"-"`
	Address     string    `gorm:"not null;column:address" json:"address"`
	City        string    `gorm:"column:city" json:"city"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Property) TableName() string {
	return "property"
}
