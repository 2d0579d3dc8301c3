package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/rentline-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, role string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8]),
		FullName: "Test " + role,
		Role:     role,
		Status:   "active",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProperty(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) *types.Property {
	tb.Helper()
	p := &types.Property{
		ID:          uuid.New(),
		OwnerUserID: ownerID,
		Address:     "1 Main St",
		City:        "Springfield",
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed property: %v", err)
	}
	return p
}

func SeedListing(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, status string) *types.Listing {
	tb.Helper()
	prop := SeedProperty(tb, ctx, tx, ownerID)
	l := &types.Listing{
		ID:          uuid.New(),
		PropertyID:  prop.ID,
		OwnerUserID: ownerID,
		Status:      status,
		Price:       1200,
		Deposit:     2400,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed listing: %v", err)
	}
	return l
}

func SeedRentalRequest(tb testing.TB, ctx context.Context, tx *gorm.DB, listingID, requesterID uuid.UUID, status string) *types.RentalRequest {
	tb.Helper()
	r := &types.RentalRequest{
		ID:              uuid.New(),
		ListingID:       listingID,
		RequesterUserID: requesterID,
		Status:          status,
		Message:         "interested",
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed rental request: %v", err)
	}
	return r
}

// SeedContract creates a draft contract with the given tenant memberships.
func SeedContract(tb testing.TB, ctx context.Context, tx *gorm.DB, listingID, landlordID uuid.UUID, tenantIDs ...uuid.UUID) *types.Contract {
	tb.Helper()
	c := &types.Contract{
		ID:             uuid.New(),
		ListingID:      listingID,
		LandlordUserID: landlordID,
		StartDate:      time.Now().UTC().Truncate(24 * time.Hour),
		Rent:           1200,
		Deposit:        2400,
		Status:         types.ContractStatusDraft,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed contract: %v", err)
	}
	for _, tenantID := range tenantIDs {
		ct := &types.ContractTenant{ContractID: c.ID, TenantUserID: tenantID}
		if err := tx.WithContext(ctx).Create(ct).Error; err != nil {
			tb.Fatalf("seed contract tenant: %v", err)
		}
	}
	return c
}
