package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ContractStatusDraft     = "draft"
	ContractStatusSigned    = "signed"
	ContractStatusCancelled = "cancelled"
)

type Contract struct {
	gorm.Model
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ListingID      uuid.UUID  `gorm:"type:uuid;index;not null;column:listing_id" json:"listing_id"`
	Listing        *Listing   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ListingID;references:ID" json:"-"`
	LandlordUserID uuid.UUID  `gorm:"type:uuid;index;not null;column:landlord_user_id" json:"landlord_user_id"`
	Landlord       *User      `gorm:"constraint:OnDelete:RESTRICT;foreignKey:LandlordUserID;references:ID" json:"-"`
	StartDate      time.Time  `gorm:"type:date;not null;column:start_date" json:"start_date"`
	EndDate        *time.Time `gorm:"type:date;column:end_date" json:"end_date,omitempty"`
	Rent           float64    `gorm:"not null;column:rent" json:"rent"`
	Deposit        float64    `gorm:"not null;default:0;column:deposit" json:"deposit"`
	Status         string     `gorm:"not null;default:'draft';column:status;index" json:"status"`
	SignedAt       *time.Time `gorm:"column:signed_at" json:"signed_at,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Contract) TableName() string {
	return "contract"
}
