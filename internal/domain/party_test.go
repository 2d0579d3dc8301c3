package domain

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/rentline-backend/internal/types"
)

func TestClassifyParty(t *testing.T) {
	landlord := uuid.New()
	tenantA := uuid.New()
	tenantB := uuid.New()
	outsider := uuid.New()
	admin := uuid.New()
	tenants := []uuid.UUID{tenantA, tenantB}

	cases := []struct {
		name   string
		caller Caller
		want   PartyRelation
	}{
		{"landlord", Caller{UserID: landlord, Role: types.UserRoleLandlord}, PartyLandlord},
		{"tenant member", Caller{UserID: tenantA, Role: types.UserRoleTenant}, PartyTenantMember},
		{"second tenant member", Caller{UserID: tenantB, Role: types.UserRoleTenant}, PartyTenantMember},
		{"outsider", Caller{UserID: outsider, Role: types.UserRoleTenant}, PartyUnauthorized},
		{"admin outsider", Caller{UserID: admin, Role: types.UserRoleAdmin}, PartyAdminOverride},
		{"nil caller", Caller{}, PartyUnauthorized},
	}
	for _, tc := range cases {
		if got := ClassifyParty(tc.caller, landlord, tenants); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestClassifyParty_LandlordWinsOverMembership(t *testing.T) {
	// A landlord who also shows up in the tenant set classifies as landlord.
	landlord := uuid.New()
	got := ClassifyParty(Caller{UserID: landlord, Role: types.UserRoleLandlord}, landlord, []uuid.UUID{landlord})
	if got != PartyLandlord {
		t.Fatalf("got %q want %q", got, PartyLandlord)
	}
}

func TestClassifyParty_AdminWhoIsPartyKeepsDirectRelation(t *testing.T) {
	// The admin override only fills in when no direct relation exists.
	adminTenant := uuid.New()
	got := ClassifyParty(Caller{UserID: adminTenant, Role: types.UserRoleAdmin}, uuid.New(), []uuid.UUID{adminTenant})
	if got != PartyTenantMember {
		t.Fatalf("got %q want %q", got, PartyTenantMember)
	}
}

func TestPartyRelation_Predicates(t *testing.T) {
	if !PartyLandlord.IsParty() || !PartyTenantMember.IsParty() {
		t.Fatal("landlord and tenant member must be parties")
	}
	if PartyAdminOverride.IsParty() {
		t.Fatal("admin override is not a signing party")
	}
	if PartyUnauthorized.MayAccess() {
		t.Fatal("unauthorized must not access")
	}
	if !PartyAdminOverride.MayAccess() {
		t.Fatal("admin override must grant read access")
	}
}
