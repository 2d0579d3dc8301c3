package types

import (
	"time"

	"github.com/google/uuid"
)

// ContractTenant is the membership set for a contract. The pair
// (contract_id, tenant_user_id) is unique; insertion order carries no meaning.
type ContractTenant struct {
	ContractID   uuid.UUID `gorm:"type:uuid;primaryKey;column:contract_id" json:"contract_id"`
	Contract     *Contract `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContractID;references:ID" json:"-"`
	TenantUserID uuid.UUID `gorm:"type:uuid;primaryKey;column:tenant_user_id" json:"tenant_user_id"`
	Tenant       *User     `gorm:"constraint:OnDelete:RESTRICT;foreignKey:TenantUserID;references:ID" json:"-"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ContractTenant) TableName() string {
	return "contract_tenant"
}
