package domain

import (
	"github.com/google/uuid"

	"github.com/yungbote/rentline-backend/internal/types"
)

// AgreementState is the tri-state outcome of the end-date negotiation check.
// Undecided (a side has not proposed yet) is distinct from Disagreed (both
// sides proposed different dates).
type AgreementState string

const (
	AgreementUndecided AgreementState = "undecided"
	AgreementAgreed    AgreementState = "agreed"
	AgreementDisagreed AgreementState = "disagreed"
)

// NegotiationView is the per-contract proposal ledger reshaped for callers:
// the landlord's current proposal plus one entry per proposing tenant.
type NegotiationView struct {
	Landlord *string           `json:"landlord"`
	Tenants  map[string]string `json:"tenants"`
}

// BuildNegotiationView buckets raw proposal rows by the proposer's relation to
// the contract. Rows from users who are no longer landlord or tenant members
// are dropped.
func BuildNegotiationView(landlordUserID uuid.UUID, tenantUserIDs []uuid.UUID, proposals []*types.ProposedEndDate) NegotiationView {
	view := NegotiationView{Tenants: map[string]string{}}
	members := make(map[uuid.UUID]bool, len(tenantUserIDs))
	for _, id := range tenantUserIDs {
		members[id] = true
	}
	for _, p := range proposals {
		if p == nil {
			continue
		}
		date := p.DateString()
		if p.UserID == landlordUserID {
			view.Landlord = &date
			continue
		}
		if members[p.UserID] {
			view.Tenants[p.UserID.String()] = date
		}
	}
	return view
}

// EvaluateAgreement decides whether the two sides agree on an end date:
// Agreed iff a landlord proposal and at least one tenant proposal exist and
// every tenant proposal equals the landlord's date. Absence of either side is
// Undecided, never Disagreed.
func EvaluateAgreement(view NegotiationView) AgreementState {
	if view.Landlord == nil || len(view.Tenants) == 0 {
		return AgreementUndecided
	}
	for _, date := range view.Tenants {
		if date != *view.Landlord {
			return AgreementDisagreed
		}
	}
	return AgreementAgreed
}

// AgreedDate returns the agreed end date when the state is Agreed.
func AgreedDate(view NegotiationView) (string, bool) {
	if EvaluateAgreement(view) != AgreementAgreed {
		return "", false
	}
	return *view.Landlord, true
}
