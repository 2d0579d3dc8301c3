package services

import (
	"context"
	"testing"

	"github.com/yungbote/rentline-backend/internal/domain"
	"github.com/yungbote/rentline-backend/internal/repos"
	"github.com/yungbote/rentline-backend/internal/repos/testutil"
	"github.com/yungbote/rentline-backend/internal/types"
)

// Full lifecycle: request -> accept -> draft contract -> negotiate end date
// -> both parties sign -> contract signed, and the request stays terminal.
func TestWorkflow_RequestToSignedContract(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	requestSvc := newRentalRequestService(t, tx)
	contractSvc := newContractService(t, tx)
	contractRepo := repos.NewContractRepo(tx, testutil.Logger(t))

	landlord := testutil.SeedUser(t, ctx, tx, types.UserRoleLandlord)
	tenant := testutil.SeedUser(t, ctx, tx, types.UserRoleTenant)
	listing := testutil.SeedListing(t, ctx, tx, landlord.ID, types.ListingStatusVerified)

	req, err := requestSvc.Create(ctx, asCaller(tenant), CreateRentalRequestInput{
		ListingID: listing.ID,
		Message:   "we would love to move in",
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	if _, err := requestSvc.Transition(ctx, req.ID, types.RentalRequestStatusAccepted, asCaller(landlord)); err != nil {
		t.Fatalf("accept: %v", err)
	}

	// Acceptance is terminal; a late rejection must bounce.
	if _, err := requestSvc.Transition(ctx, req.ID, types.RentalRequestStatusRejected, asCaller(landlord)); domain.CodeOf(err) != domain.CodeInvalidState {
		t.Fatalf("reject after accept: got %v want invalid_state", err)
	}

	// Acceptance produced the draft contract with the requester as tenant.
	var contract types.Contract
	if err := tx.WithContext(ctx).
		Where("listing_id = ? AND status = ?", listing.ID, types.ContractStatusDraft).
		First(&contract).Error; err != nil {
		t.Fatalf("load draft contract: %v", err)
	}
	view, err := contractSvc.GetByID(ctx, contract.ID, asCaller(tenant))
	if err != nil {
		t.Fatalf("tenant views contract: %v", err)
	}
	if len(view.Tenants) != 1 || view.Tenants[0].ID != tenant.ID {
		t.Fatalf("tenant roster: %v", view.Tenants)
	}
	if view.Rent != listing.Price {
		t.Fatalf("rent: got %v want %v", view.Rent, listing.Price)
	}

	// Negotiate the end date to agreement.
	if _, err := contractSvc.ProposeEndDate(ctx, contract.ID, asCaller(landlord), date(t, "2027-08-31")); err != nil {
		t.Fatalf("landlord proposes: %v", err)
	}
	if _, err := contractSvc.ProposeEndDate(ctx, contract.ID, asCaller(tenant), date(t, "2027-08-31")); err != nil {
		t.Fatalf("tenant proposes: %v", err)
	}
	state, negView, err := contractSvc.Agreement(ctx, contract.ID, asCaller(tenant))
	if err != nil {
		t.Fatalf("agreement: %v", err)
	}
	if state != domain.AgreementAgreed {
		t.Fatalf("agreement: got %q", state)
	}
	agreed, ok := domain.AgreedDate(negView)
	if !ok {
		t.Fatal("expected an agreed date")
	}
	agreedDate := date(t, agreed)
	if _, err := contractSvc.Update(ctx, contract.ID, asCaller(tenant), domain.ContractUpdate{EndDate: &agreedDate}); err != nil {
		t.Fatalf("apply agreed end date: %v", err)
	}

	// Both required signers sign; the second flip finalizes.
	if _, err := contractSvc.Sign(ctx, contract.ID, asCaller(tenant), ""); err != nil {
		t.Fatalf("tenant signs: %v", err)
	}
	if _, err := contractSvc.Sign(ctx, contract.ID, asCaller(landlord), ""); err != nil {
		t.Fatalf("landlord signs: %v", err)
	}

	final, err := contractRepo.GetByID(ctx, nil, contract.ID)
	if err != nil {
		t.Fatalf("reload contract: %v", err)
	}
	if final.Status != types.ContractStatusSigned || final.SignedAt == nil {
		t.Fatalf("final: status=%q signed_at=%v", final.Status, final.SignedAt)
	}
	if final.EndDate == nil || final.EndDate.Format("2006-01-02") != agreed {
		t.Fatalf("end date: got %v want %s", final.EndDate, agreed)
	}
}
