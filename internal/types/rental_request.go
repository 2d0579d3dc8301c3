package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RentalRequestStatusPending   = "pending"
	RentalRequestStatusAccepted  = "accepted"
	RentalRequestStatusRejected  = "rejected"
	RentalRequestStatusCancelled = "cancelled"
)

type RentalRequest struct {
	gorm.Model
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ListingID       uuid.UUID  `gorm:"type:uuid;index;not null;column:listing_id" json:"listing_id"`
	Listing         *Listing   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ListingID;references:ID" json:"-"`
	RequesterUserID uuid.UUID  `gorm:"type:uuid;index;not null;column:requester_user_id" json:"requester_user_id"`
	Requester       *User      `gorm:"constraint:OnDelete:RESTRICT;foreignKey:RequesterUserID;references:ID" json:"-"`
	DesiredMoveIn   *time.Time `gorm:"type:date;column:desired_move_in" json:"desired_move_in,omitempty"`
	Message         string     `gorm:"column:message" json:"message"`
	Status          string     `gorm:"not null;default:'pending';column:status;index" json:"status"`
	CreatedAt       time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (RentalRequest) TableName() string {
	return "rental_request"
}

// Terminal reports whether no further status transition is allowed.
func (r *RentalRequest) Terminal() bool {
	return r != nil && r.Status != RentalRequestStatusPending
}
