package domain

import (
	"time"
)

// ContractUpdateKind tags which authorization branch a contract field update
// takes. The end-date-only path is the negotiation route and is open to every
// contract party; everything else is a landlord/admin edit.
type ContractUpdateKind int

const (
	UpdateEndDateOnly ContractUpdateKind = iota
	UpdateFullEdit
)

// ContractUpdate is a structured field update set. Nil pointers mean "field
// absent", mirroring a partial PATCH body.
type ContractUpdate struct {
	StartDate *time.Time
	EndDate   *time.Time
	Rent      *float64
	Deposit   *float64
	Status    *string
}

// Kind classifies the update: EndDateOnly iff end_date is the only field
// present. An empty update is a FullEdit (it will no-op downstream).
func (u ContractUpdate) Kind() ContractUpdateKind {
	if u.EndDate != nil && u.StartDate == nil && u.Rent == nil && u.Deposit == nil && u.Status == nil {
		return UpdateEndDateOnly
	}
	return UpdateFullEdit
}

// Empty reports whether no field is present at all.
func (u ContractUpdate) Empty() bool {
	return u.StartDate == nil && u.EndDate == nil && u.Rent == nil && u.Deposit == nil && u.Status == nil
}

// AuthorizeContractUpdate applies the field-level mutation policy: the
// negotiation path admits any contract party, every other edit is restricted
// to the landlord or an admin.
func AuthorizeContractUpdate(relation PartyRelation, kind ContractUpdateKind) error {
	switch kind {
	case UpdateEndDateOnly:
		if relation.MayAccess() {
			return nil
		}
	default:
		if relation == PartyLandlord || relation == PartyAdminOverride {
			return nil
		}
	}
	return NewError(CodeForbidden, "contract.update", "you do not have permission to update this contract", nil)
}
