package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const SignatureMethodCheckbox = "checkbox"

// ContractSignature rows are write-once per (contract_id, user_id) and never
// deleted. The composite unique index is what turns a double sign into a
// storage-level conflict.
type ContractSignature struct {
	gorm.Model
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ContractID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_contract_signer;column:contract_id" json:"contract_id"`
	Contract        *Contract `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContractID;references:ID" json:"-"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_contract_signer;column:user_id" json:"user_id"`
	User            *User     `gorm:"constraint:OnDelete:RESTRICT;foreignKey:UserID;references:ID" json:"-"`
	SignedAt        time.Time `gorm:"not null;column:signed_at" json:"signed_at"`
	SignatureMethod string    `gorm:"not null;default:'checkbox';column:signature_method" json:"signature_method"`
	CreatedAt       time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ContractSignature) TableName() string {
	return "contract_signature"
}
