package domain

import (
	"github.com/google/uuid"

	"github.com/yungbote/rentline-backend/internal/types"
)

// ValidRequestTarget reports whether target is a legal transition target for
// a rental request. `pending` is the initial state only, never a target.
func ValidRequestTarget(target string) bool {
	switch target {
	case types.RentalRequestStatusAccepted,
		types.RentalRequestStatusRejected,
		types.RentalRequestStatusCancelled:
		return true
	}
	return false
}

// AuthorizeRequestTransition enforces who may drive a rental request out of
// pending: cancel belongs to the original requester, accept/reject to the
// listing owner or an admin.
func AuthorizeRequestTransition(caller Caller, target string, requesterUserID, listingOwnerUserID uuid.UUID) error {
	const op = "rental_request.transition"
	if target == types.RentalRequestStatusCancelled {
		if caller.UserID != requesterUserID {
			return NewError(CodeForbidden, op, "only the requester can cancel this request", nil)
		}
		return nil
	}
	if caller.UserID != listingOwnerUserID && !caller.IsAdmin() {
		return NewError(CodeForbidden, op, "only the listing owner can accept or reject requests", nil)
	}
	return nil
}

// RequirePending is the hard precondition on every transition: terminal
// states admit no further transition.
func RequirePending(current string) error {
	if current != types.RentalRequestStatusPending {
		return NewError(CodeInvalidState, "rental_request.transition", "request is no longer pending", nil)
	}
	return nil
}
