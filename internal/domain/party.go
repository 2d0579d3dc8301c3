package domain

import (
	"github.com/google/uuid"

	"github.com/yungbote/rentline-backend/internal/types"
)

// PartyRelation classifies a caller's relationship to a contract. It is the
// single authorization primitive for the negotiation workflow; services never
// re-derive role logic ad hoc.
type PartyRelation string

const (
	PartyLandlord      PartyRelation = "landlord"
	PartyTenantMember  PartyRelation = "tenant_member"
	PartyAdminOverride PartyRelation = "admin_override"
	PartyUnauthorized  PartyRelation = "unauthorized"
)

// Caller is the authenticated identity an operation runs as.
type Caller struct {
	UserID uuid.UUID
	Role   string
}

func (c Caller) IsAdmin() bool {
	return c.Role == types.UserRoleAdmin
}

// ClassifyParty resolves the caller against already-loaded membership data.
// Landlord identity wins over tenant membership; the admin override only
// applies when the caller holds no direct relationship to the contract.
func ClassifyParty(caller Caller, landlordUserID uuid.UUID, tenantUserIDs []uuid.UUID) PartyRelation {
	if caller.UserID != uuid.Nil {
		if caller.UserID == landlordUserID {
			return PartyLandlord
		}
		for _, id := range tenantUserIDs {
			if caller.UserID == id {
				return PartyTenantMember
			}
		}
	}
	if caller.IsAdmin() {
		return PartyAdminOverride
	}
	return PartyUnauthorized
}

// IsParty reports whether the relation is a direct contract party, i.e. one of
// the required signers.
func (r PartyRelation) IsParty() bool {
	return r == PartyLandlord || r == PartyTenantMember
}

// MayAccess reports whether the relation grants read access to the contract.
func (r PartyRelation) MayAccess() bool {
	return r != PartyUnauthorized
}
