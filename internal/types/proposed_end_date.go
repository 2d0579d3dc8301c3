package types

import (
	"time"

	"github.com/google/uuid"
)

// ProposedEndDate holds one user's current end-date proposal for a contract.
// Last write wins; no proposal history is retained.
type ProposedEndDate struct {
	ContractID      uuid.UUID `gorm:"type:uuid;primaryKey;column:contract_id" json:"contract_id"`
	Contract        *Contract `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContractID;references:ID" json:"-"`
	UserID          uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	User            *User     `gorm:"constraint:OnDelete:RESTRICT;foreignKey:UserID;references:ID" json:"-"`
	ProposedEndDate time.Time `gorm:"type:date;not null;column:proposed_end_date" json:"proposed_end_date"`
	UpdatedAt       time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ProposedEndDate) TableName() string {
	return "contract_proposed_end_date"
}

// DateString renders the proposal as a calendar date, which is the unit of
// comparison for agreement checks.
func (p *ProposedEndDate) DateString() string {
	return p.ProposedEndDate.Format("2006-01-02")
}
