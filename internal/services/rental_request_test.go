package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/rentline-backend/internal/domain"
	"github.com/yungbote/rentline-backend/internal/repos"
	"github.com/yungbote/rentline-backend/internal/repos/testutil"
	"github.com/yungbote/rentline-backend/internal/types"
)

func newRentalRequestService(tb testing.TB, db *gorm.DB) RentalRequestService {
	tb.Helper()
	log := testutil.Logger(tb)
	return NewRentalRequestService(
		db,
		log,
		repos.NewRentalRequestRepo(db, log),
		repos.NewListingRepo(db, log),
		repos.NewContractRepo(db, log),
		repos.NewContractTenantRepo(db, log),
		NewNoopNotifier(),
	)
}

func asCaller(u *types.User) domain.Caller {
	return domain.Caller{UserID: u.ID, Role: u.Role}
}

func TestRentalRequestService_Create(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newRentalRequestService(t, tx)

	landlord := testutil.SeedUser(t, ctx, tx, types.UserRoleLandlord)
	tenant := testutil.SeedUser(t, ctx, tx, types.UserRoleTenant)
	listing := testutil.SeedListing(t, ctx, tx, landlord.ID, types.ListingStatusVerified)

	t.Run("tenant creates a pending request", func(t *testing.T) {
		req, err := svc.Create(ctx, asCaller(tenant), CreateRentalRequestInput{ListingID: listing.ID, Message: "hi"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if req.Status != types.RentalRequestStatusPending {
			t.Fatalf("status: got %q want pending", req.Status)
		}
		if req.RequesterUserID != tenant.ID {
			t.Fatalf("requester: got %s want %s", req.RequesterUserID, tenant.ID)
		}
	})

	t.Run("duplicate pending request conflicts", func(t *testing.T) {
		_, err := svc.Create(ctx, asCaller(tenant), CreateRentalRequestInput{ListingID: listing.ID})
		if domain.CodeOf(err) != domain.CodeConflict {
			t.Fatalf("got %v want conflict", err)
		}
	})

	t.Run("landlord cannot create requests", func(t *testing.T) {
		_, err := svc.Create(ctx, asCaller(landlord), CreateRentalRequestInput{ListingID: listing.ID})
		if domain.CodeOf(err) != domain.CodeForbidden {
			t.Fatalf("got %v want forbidden", err)
		}
	})

	t.Run("unverified listing rejects requests", func(t *testing.T) {
		pending := testutil.SeedListing(t, ctx, tx, landlord.ID, types.ListingStatusPendingVerification)
		_, err := svc.Create(ctx, asCaller(tenant), CreateRentalRequestInput{ListingID: pending.ID})
		if domain.CodeOf(err) != domain.CodeInvalidState {
			t.Fatalf("got %v want invalid_state", err)
		}
	})

	t.Run("unknown listing is not found", func(t *testing.T) {
		_, err := svc.Create(ctx, asCaller(tenant), CreateRentalRequestInput{ListingID: uuid.New()})
		if domain.CodeOf(err) != domain.CodeNotFound {
			t.Fatalf("got %v want not_found", err)
		}
	})
}

func TestRentalRequestService_Transition(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newRentalRequestService(t, tx)
	contractRepo := repos.NewContractRepo(tx, testutil.Logger(t))

	landlord := testutil.SeedUser(t, ctx, tx, types.UserRoleLandlord)
	tenant := testutil.SeedUser(t, ctx, tx, types.UserRoleTenant)
	admin := testutil.SeedUser(t, ctx, tx, types.UserRoleAdmin)

	t.Run("invalid target is rejected up front", func(t *testing.T) {
		_, err := svc.Transition(ctx, uuid.New(), "pending", asCaller(landlord))
		if domain.CodeOf(err) != domain.CodeInvalidInput {
			t.Fatalf("got %v want invalid_input", err)
		}
	})

	t.Run("owner accepts and a draft contract appears", func(t *testing.T) {
		listing := testutil.SeedListing(t, ctx, tx, landlord.ID, types.ListingStatusVerified)
		req := testutil.SeedRentalRequest(t, ctx, tx, listing.ID, tenant.ID, types.RentalRequestStatusPending)

		updated, err := svc.Transition(ctx, req.ID, types.RentalRequestStatusAccepted, asCaller(landlord))
		if err != nil {
			t.Fatalf("Transition: %v", err)
		}
		if updated.Status != types.RentalRequestStatusAccepted {
			t.Fatalf("status: got %q", updated.Status)
		}
		exists, err := contractRepo.ActiveExists(ctx, nil, listing.ID, landlord.ID)
		if err != nil || !exists {
			t.Fatalf("expected draft contract, exists=%v err=%v", exists, err)
		}
	})

	t.Run("terminal request admits no further transition", func(t *testing.T) {
		listing := testutil.SeedListing(t, ctx, tx, landlord.ID, types.ListingStatusVerified)
		req := testutil.SeedRentalRequest(t, ctx, tx, listing.ID, tenant.ID, types.RentalRequestStatusRejected)

		for _, target := range []string{"accepted", "rejected", "cancelled"} {
			caller := asCaller(landlord)
			if target == "cancelled" {
				caller = asCaller(tenant)
			}
			_, err := svc.Transition(ctx, req.ID, target, caller)
			if domain.CodeOf(err) != domain.CodeInvalidState {
				t.Fatalf("%s: got %v want invalid_state", target, err)
			}
			if domain.MessageOf(err) != "request is no longer pending" {
				t.Fatalf("%s: unexpected message %q", target, domain.MessageOf(err))
			}
		}
	})

	t.Run("only the requester cancels", func(t *testing.T) {
		listing := testutil.SeedListing(t, ctx, tx, landlord.ID, types.ListingStatusVerified)
		req := testutil.SeedRentalRequest(t, ctx, tx, listing.ID, tenant.ID, types.RentalRequestStatusPending)

		if _, err := svc.Transition(ctx, req.ID, types.RentalRequestStatusCancelled, asCaller(landlord)); domain.CodeOf(err) != domain.CodeForbidden {
			t.Fatalf("landlord cancel: got %v want forbidden", err)
		}
		if _, err := svc.Transition(ctx, req.ID, types.RentalRequestStatusCancelled, asCaller(admin)); domain.CodeOf(err) != domain.CodeForbidden {
			t.Fatalf("admin cancel: got %v want forbidden", err)
		}
		updated, err := svc.Transition(ctx, req.ID, types.RentalRequestStatusCancelled, asCaller(tenant))
		if err != nil {
			t.Fatalf("requester cancel: %v", err)
		}
		if updated.Status != types.RentalRequestStatusCancelled {
			t.Fatalf("status: got %q", updated.Status)
		}
	})

	t.Run("only the owner or an admin accepts", func(t *testing.T) {
		listing := testutil.SeedListing(t, ctx, tx, landlord.ID, types.ListingStatusVerified)
		req := testutil.SeedRentalRequest(t, ctx, tx, listing.ID, tenant.ID, types.RentalRequestStatusPending)

		if _, err := svc.Transition(ctx, req.ID, types.RentalRequestStatusAccepted, asCaller(tenant)); domain.CodeOf(err) != domain.CodeForbidden {
			t.Fatalf("tenant accept: got %v want forbidden", err)
		}
		if _, err := svc.Transition(ctx, req.ID, types.RentalRequestStatusRejected, asCaller(admin)); err != nil {
			t.Fatalf("admin reject: %v", err)
		}
	})

	t.Run("second acceptance on the listing reuses the contract", func(t *testing.T) {
		listing := testutil.SeedListing(t, ctx, tx, landlord.ID, types.ListingStatusVerified)
		tenantB := testutil.SeedUser(t, ctx, tx, types.UserRoleTenant)
		reqA := testutil.SeedRentalRequest(t, ctx, tx, listing.ID, tenant.ID, types.RentalRequestStatusPending)
		reqB := testutil.SeedRentalRequest(t, ctx, tx, listing.ID, tenantB.ID, types.RentalRequestStatusPending)

		if _, err := svc.Transition(ctx, reqA.ID, types.RentalRequestStatusAccepted, asCaller(landlord)); err != nil {
			t.Fatalf("first accept: %v", err)
		}
		if _, err := svc.Transition(ctx, reqB.ID, types.RentalRequestStatusAccepted, asCaller(landlord)); err != nil {
			t.Fatalf("second accept: %v", err)
		}
		var count int64
		if err := tx.WithContext(ctx).Model(&types.Contract{}).
			Where("listing_id = ? AND status <> ?", listing.ID, types.ContractStatusCancelled).
			Count(&count).Error; err != nil {
			t.Fatalf("count contracts: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected exactly one active contract, got %d", count)
		}
	})
}

// Concurrent transitions of one request must produce exactly one winner; this
// runs on the shared DB because row locks do not serialize within one tx.
func TestRentalRequestService_ConcurrentTransition(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	svc := newRentalRequestService(t, db)

	landlord := testutil.SeedUser(t, ctx, db, types.UserRoleLandlord)
	tenant := testutil.SeedUser(t, ctx, db, types.UserRoleTenant)
	listing := testutil.SeedListing(t, ctx, db, landlord.ID, types.ListingStatusVerified)
	req := testutil.SeedRentalRequest(t, ctx, db, listing.ID, tenant.ID, types.RentalRequestStatusPending)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			target := types.RentalRequestStatusAccepted
			if i%2 == 1 {
				target = types.RentalRequestStatusRejected
			}
			_, errs[i] = svc.Transition(ctx, req.ID, target, asCaller(landlord))
		}(i)
	}
	wg.Wait()

	wins := 0
	for i, err := range errs {
		switch {
		case err == nil:
			wins++
		case domain.CodeOf(err) == domain.CodeInvalidState:
		default:
			t.Fatalf("attempt %d: unexpected error: %v", i, err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winning transition, got %d", wins)
	}

	var stored types.RentalRequest
	if err := db.WithContext(ctx).First(&stored, "id = ?", req.ID).Error; err != nil {
		t.Fatalf("reload request: %v", err)
	}
	if stored.Status == types.RentalRequestStatusPending {
		t.Fatal("request must have left pending")
	}
}
