package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/rentline-backend/internal/domain"
	"github.com/yungbote/rentline-backend/internal/logger"
	"github.com/yungbote/rentline-backend/internal/repos"
	"github.com/yungbote/rentline-backend/internal/sse"
	"github.com/yungbote/rentline-backend/internal/types"
)

type CreateRentalRequestInput struct {
	ListingID     uuid.UUID
	Message       string
	DesiredMoveIn *time.Time
}

type RentalRequestService interface {
	List(ctx context.Context, caller domain.Caller, filter repos.RentalRequestFilter) ([]*repos.RentalRequestRow, error)
	GetByID(ctx context.Context, requestID uuid.UUID, caller domain.Caller) (*repos.RentalRequestRow, error)
	Create(ctx context.Context, caller domain.Caller, input CreateRentalRequestInput) (*types.RentalRequest, error)
	// Transition is the single write entry point of the request state
	// machine: pending -> accepted | rejected | cancelled, all terminal.
	Transition(ctx context.Context, requestID uuid.UUID, target string, caller domain.Caller) (*types.RentalRequest, error)
}

type rentalRequestService struct {
	db           *gorm.DB
	log          *logger.Logger
	requestRepo  repos.RentalRequestRepo
	listingRepo  repos.ListingRepo
	contractRepo repos.ContractRepo
	tenantRepo   repos.ContractTenantRepo
	notifier     Notifier
}

func NewRentalRequestService(
	db *gorm.DB,
	log *logger.Logger,
	requestRepo repos.RentalRequestRepo,
	listingRepo repos.ListingRepo,
	contractRepo repos.ContractRepo,
	tenantRepo repos.ContractTenantRepo,
	notifier Notifier,
) RentalRequestService {
	serviceLog := log.With("service", "RentalRequestService")
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	return &rentalRequestService{
		db:           db,
		log:          serviceLog,
		requestRepo:  requestRepo,
		listingRepo:  listingRepo,
		contractRepo: contractRepo,
		tenantRepo:   tenantRepo,
		notifier:     notifier,
	}
}

func (rs *rentalRequestService) List(ctx context.Context, caller domain.Caller, filter repos.RentalRequestFilter) ([]*repos.RentalRequestRow, error) {
	// Non-admin callers only ever see their own side of the marketplace.
	switch caller.Role {
	case types.UserRoleTenant:
		id := caller.UserID
		filter.RequesterID = &id
	case types.UserRoleLandlord:
		id := caller.UserID
		filter.OwnerID = &id
	}
	rows, err := rs.requestRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, domain.MapError("rental_request.list", err)
	}
	return rows, nil
}

func (rs *rentalRequestService) GetByID(ctx context.Context, requestID uuid.UUID, caller domain.Caller) (*repos.RentalRequestRow, error) {
	const op = "rental_request.get"

	row, err := rs.requestRepo.GetRowByID(ctx, nil, requestID)
	if err != nil {
		return nil, domain.MapError(op, err)
	}
	if caller.UserID != row.RequesterUserID && !caller.IsAdmin() {
		listing, err := rs.listingRepo.GetByID(ctx, nil, row.ListingID)
		if err != nil {
			return nil, domain.MapError(op, err)
		}
		if listing.OwnerUserID != caller.UserID {
			return nil, domain.NewError(domain.CodeForbidden, op, "you are not authorized to view this request", nil)
		}
	}
	return row, nil
}

func (rs *rentalRequestService) Create(ctx context.Context, caller domain.Caller, input CreateRentalRequestInput) (*types.RentalRequest, error) {
	const op = "rental_request.create"

	if caller.Role != types.UserRoleTenant {
		return nil, domain.NewError(domain.CodeForbidden, op, "only tenants can create rental requests", nil)
	}

	var created *types.RentalRequest
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing, err := rs.listingRepo.GetByID(ctx, tx, input.ListingID)
		if err != nil {
			return err
		}
		if listing.Status != types.ListingStatusVerified {
			return domain.NewError(domain.CodeInvalidState, op, "listing is not open for rental requests", nil)
		}

		exists, err := rs.requestRepo.PendingExists(ctx, tx, input.ListingID, caller.UserID)
		if err != nil {
			return err
		}
		if exists {
			return domain.NewError(domain.CodeConflict, op, "you already have a pending request for this listing", nil)
		}

		request := &types.RentalRequest{
			ListingID:       input.ListingID,
			RequesterUserID: caller.UserID,
			DesiredMoveIn:   input.DesiredMoveIn,
			Message:         input.Message,
			Status:          types.RentalRequestStatusPending,
		}
		created, err = rs.requestRepo.Create(ctx, tx, request)
		return err
	})
	if err != nil {
		return nil, domain.MapError(op, err)
	}

	listing, lerr := rs.listingRepo.GetByID(ctx, nil, created.ListingID)
	if lerr == nil {
		rs.notifier.Notify(sse.SSEEventRentalRequestCreated,
			[]uuid.UUID{listing.OwnerUserID, created.RequesterUserID}, created)
	}
	return created, nil
}

func (rs *rentalRequestService) Transition(ctx context.Context, requestID uuid.UUID, target string, caller domain.Caller) (*types.RentalRequest, error) {
	const op = "rental_request.transition"

	if !domain.ValidRequestTarget(target) {
		return nil, domain.NewError(domain.CodeInvalidInput, op, "invalid status, must be accepted, rejected, or cancelled", nil)
	}

	var (
		updated         *types.RentalRequest
		createdContract *types.Contract
		ownerUserID     uuid.UUID
	)
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The request row lock serializes concurrent transitions of the
		// same request.
		request, err := rs.requestRepo.GetByIDForUpdate(ctx, tx, requestID)
		if err != nil {
			return err
		}
		listing, err := rs.listingRepo.GetByID(ctx, tx, request.ListingID)
		if err != nil {
			return err
		}
		ownerUserID = listing.OwnerUserID

		if err := domain.AuthorizeRequestTransition(caller, target, request.RequesterUserID, listing.OwnerUserID); err != nil {
			return err
		}
		if err := domain.RequirePending(request.Status); err != nil {
			return err
		}

		flipped, err := rs.requestRepo.UpdateStatusIfPending(ctx, tx, requestID, target)
		if err != nil {
			return err
		}
		if !flipped {
			return domain.NewError(domain.CodeInvalidState, op, "request is no longer pending", nil)
		}

		if target == types.RentalRequestStatusAccepted {
			contract, err := rs.ensureContract(ctx, tx, request, listing)
			if err != nil {
				return err
			}
			createdContract = contract
		}

		request.Status = target
		updated = request
		return nil
	})
	if err != nil {
		return nil, domain.MapError(op, err)
	}

	recipients := []uuid.UUID{updated.RequesterUserID, ownerUserID}
	rs.notifier.Notify(transitionEvent(target), recipients, updated)
	if createdContract != nil {
		rs.notifier.Notify(sse.SSEEventContractCreated, recipients, createdContract)
	}
	return updated, nil
}

// ensureContract makes acceptance idempotent: at most one non-cancelled
// contract per (listing, landlord) pair, no matter how many accepted requests
// race. The listing row lock serializes the exists-check against concurrent
// acceptances for the same listing.
func (rs *rentalRequestService) ensureContract(ctx context.Context, tx *gorm.DB, request *types.RentalRequest, listing *types.Listing) (*types.Contract, error) {
	if _, err := rs.listingRepo.GetByIDForUpdate(ctx, tx, listing.ID); err != nil {
		return nil, err
	}
	exists, err := rs.contractRepo.ActiveExists(ctx, tx, listing.ID, listing.OwnerUserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	startDate := time.Now().UTC().Truncate(24 * time.Hour)
	if request.DesiredMoveIn != nil {
		startDate = *request.DesiredMoveIn
	}
	contract := &types.Contract{
		ListingID:      listing.ID,
		LandlordUserID: listing.OwnerUserID,
		StartDate:      startDate,
		Rent:           listing.Price,
		Deposit:        listing.Deposit,
		Status:         types.ContractStatusDraft,
	}
	if _, err := rs.contractRepo.Create(ctx, tx, contract); err != nil {
		return nil, err
	}
	if err := rs.tenantRepo.Add(ctx, tx, contract.ID, request.RequesterUserID); err != nil {
		return nil, err
	}
	return contract, nil
}

func transitionEvent(target string) sse.SSEEvent {
	switch target {
	case types.RentalRequestStatusAccepted:
		return sse.SSEEventRentalRequestAccepted
	case types.RentalRequestStatusRejected:
		return sse.SSEEventRentalRequestRejected
	default:
		return sse.SSEEventRentalRequestCancelled
	}
}
