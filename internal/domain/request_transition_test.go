package domain

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/rentline-backend/internal/types"
)

func TestValidRequestTarget(t *testing.T) {
	for _, target := range []string{"accepted", "rejected", "cancelled"} {
		if !ValidRequestTarget(target) {
			t.Fatalf("%q must be a valid target", target)
		}
	}
	for _, target := range []string{"pending", "", "signed", "ACCEPTED"} {
		if ValidRequestTarget(target) {
			t.Fatalf("%q must not be a valid target", target)
		}
	}
}

func TestAuthorizeRequestTransition(t *testing.T) {
	requester := uuid.New()
	owner := uuid.New()
	admin := Caller{UserID: uuid.New(), Role: types.UserRoleAdmin}

	t.Run("requester cancels", func(t *testing.T) {
		err := AuthorizeRequestTransition(Caller{UserID: requester, Role: types.UserRoleTenant}, "cancelled", requester, owner)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("owner cannot cancel", func(t *testing.T) {
		err := AuthorizeRequestTransition(Caller{UserID: owner, Role: types.UserRoleLandlord}, "cancelled", requester, owner)
		if CodeOf(err) != CodeForbidden {
			t.Fatalf("got %v want forbidden", err)
		}
	})

	t.Run("admin cannot cancel on behalf of requester", func(t *testing.T) {
		err := AuthorizeRequestTransition(admin, "cancelled", requester, owner)
		if CodeOf(err) != CodeForbidden {
			t.Fatalf("got %v want forbidden", err)
		}
	})

	t.Run("owner accepts and rejects", func(t *testing.T) {
		for _, target := range []string{"accepted", "rejected"} {
			if err := AuthorizeRequestTransition(Caller{UserID: owner, Role: types.UserRoleLandlord}, target, requester, owner); err != nil {
				t.Fatalf("%s: unexpected error: %v", target, err)
			}
		}
	})

	t.Run("requester cannot accept own request", func(t *testing.T) {
		err := AuthorizeRequestTransition(Caller{UserID: requester, Role: types.UserRoleTenant}, "accepted", requester, owner)
		if CodeOf(err) != CodeForbidden {
			t.Fatalf("got %v want forbidden", err)
		}
	})

	t.Run("admin may accept", func(t *testing.T) {
		if err := AuthorizeRequestTransition(admin, "accepted", requester, owner); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestRequirePending(t *testing.T) {
	if err := RequirePending(types.RentalRequestStatusPending); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, status := range []string{"accepted", "rejected", "cancelled"} {
		err := RequirePending(status)
		if CodeOf(err) != CodeInvalidState {
			t.Fatalf("%s: got %v want invalid_state", status, err)
		}
		if MessageOf(err) != "request is no longer pending" {
			t.Fatalf("%s: unexpected message %q", status, MessageOf(err))
		}
	}
}
