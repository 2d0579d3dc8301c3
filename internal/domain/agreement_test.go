package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/rentline-backend/internal/types"
)

func proposal(contractID, userID uuid.UUID, date string) *types.ProposedEndDate {
	d, _ := time.Parse("2006-01-02", date)
	return &types.ProposedEndDate{ContractID: contractID, UserID: userID, ProposedEndDate: d}
}

func TestEvaluateAgreement(t *testing.T) {
	contractID := uuid.New()
	landlord := uuid.New()
	tenantA := uuid.New()
	tenantB := uuid.New()
	tenants := []uuid.UUID{tenantA, tenantB}

	t.Run("no proposals is undecided", func(t *testing.T) {
		view := BuildNegotiationView(landlord, tenants, nil)
		if got := EvaluateAgreement(view); got != AgreementUndecided {
			t.Fatalf("got %q want %q", got, AgreementUndecided)
		}
	})

	t.Run("landlord only is undecided", func(t *testing.T) {
		view := BuildNegotiationView(landlord, tenants, []*types.ProposedEndDate{
			proposal(contractID, landlord, "2027-06-30"),
		})
		if got := EvaluateAgreement(view); got != AgreementUndecided {
			t.Fatalf("got %q want %q", got, AgreementUndecided)
		}
	})

	t.Run("tenant only is undecided", func(t *testing.T) {
		view := BuildNegotiationView(landlord, tenants, []*types.ProposedEndDate{
			proposal(contractID, tenantA, "2027-06-30"),
		})
		if got := EvaluateAgreement(view); got != AgreementUndecided {
			t.Fatalf("got %q want %q", got, AgreementUndecided)
		}
	})

	t.Run("matching dates agree", func(t *testing.T) {
		view := BuildNegotiationView(landlord, tenants, []*types.ProposedEndDate{
			proposal(contractID, landlord, "2027-06-30"),
			proposal(contractID, tenantA, "2027-06-30"),
			proposal(contractID, tenantB, "2027-06-30"),
		})
		if got := EvaluateAgreement(view); got != AgreementAgreed {
			t.Fatalf("got %q want %q", got, AgreementAgreed)
		}
		date, ok := AgreedDate(view)
		if !ok || date != "2027-06-30" {
			t.Fatalf("AgreedDate: got %q ok=%v", date, ok)
		}
	})

	t.Run("one dissenting tenant disagrees", func(t *testing.T) {
		view := BuildNegotiationView(landlord, tenants, []*types.ProposedEndDate{
			proposal(contractID, landlord, "2027-06-30"),
			proposal(contractID, tenantA, "2027-06-30"),
			proposal(contractID, tenantB, "2027-07-31"),
		})
		if got := EvaluateAgreement(view); got != AgreementDisagreed {
			t.Fatalf("got %q want %q", got, AgreementDisagreed)
		}
		if _, ok := AgreedDate(view); ok {
			t.Fatal("AgreedDate must not report a date on disagreement")
		}
	})

	t.Run("subset of tenants can still agree", func(t *testing.T) {
		// Tenants who have not proposed do not block agreement.
		view := BuildNegotiationView(landlord, tenants, []*types.ProposedEndDate{
			proposal(contractID, landlord, "2027-06-30"),
			proposal(contractID, tenantA, "2027-06-30"),
		})
		if got := EvaluateAgreement(view); got != AgreementAgreed {
			t.Fatalf("got %q want %q", got, AgreementAgreed)
		}
	})
}

func TestBuildNegotiationView_DropsNonMembers(t *testing.T) {
	contractID := uuid.New()
	landlord := uuid.New()
	tenant := uuid.New()
	stranger := uuid.New()

	view := BuildNegotiationView(landlord, []uuid.UUID{tenant}, []*types.ProposedEndDate{
		proposal(contractID, landlord, "2027-06-30"),
		proposal(contractID, tenant, "2027-06-30"),
		proposal(contractID, stranger, "2027-01-01"),
	})
	if len(view.Tenants) != 1 {
		t.Fatalf("expected only member proposals, got %d", len(view.Tenants))
	}
	if _, ok := view.Tenants[stranger.String()]; ok {
		t.Fatal("stranger proposal must be dropped")
	}
}
