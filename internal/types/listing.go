package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ListingStatusPendingVerification = "pending_verification"
	ListingStatusVerified            = "verified"
	ListingStatusRejected            = "rejected"
)

type Listing struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PropertyID  uuid.UUID `gorm:"type:uuid;index;not null;column:property_id" json:"property_id"`
	Property    *Property `gorm:"constraint:OnDelete:CASCADE;foreignKey:PropertyID;references:ID" json:"-"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;index;not null;column:owner_user_id" json:"owner_user_id"`
	Owner       *User     `gorm:"constraint:OnDelete:RESTRICT;foreignKey:OwnerUserID;references:ID" json:"-"`
	Status      string    `gorm:"not null;default:'pending_verification';column:status;index" json:"status"`
	Price       float64   `gorm:"not null;column:price" json:"price"`
	Deposit     float64   `gorm:"not null;default:0;column:deposit" json:"deposit"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Listing) TableName() string {
	return "listing"
}
