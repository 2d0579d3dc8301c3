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

// ContractView is the assembled read model: base fields, landlord identity,
// tenant roster, signatures with signer names, and the current negotiation
// ledger.
type ContractView struct {
	repos.ContractRow
	Tenants          []*repos.TenantRow     `json:"tenants"`
	Signatures       []*repos.SignatureRow  `json:"signatures"`
	ProposedEndDates domain.NegotiationView `json:"proposed_end_dates"`
}

type CreateContractInput struct {
	RentalRequestID uuid.UUID
	StartDate       time.Time
	EndDate         *time.Time
	Rent            float64
	Deposit         float64
	TenantIDs       []uuid.UUID
}

type ContractService interface {
	List(ctx context.Context, caller domain.Caller, filter repos.ContractFilter) ([]*ContractView, error)
	GetByID(ctx context.Context, contractID uuid.UUID, caller domain.Caller) (*ContractView, error)
	CreateFromRequest(ctx context.Context, caller domain.Caller, input CreateContractInput) (*types.Contract, error)
	Update(ctx context.Context, contractID uuid.UUID, caller domain.Caller, update domain.ContractUpdate) (*types.Contract, error)
	ProposeEndDate(ctx context.Context, contractID uuid.UUID, caller domain.Caller, date time.Time) (*types.ProposedEndDate, error)
	Agreement(ctx context.Context, contractID uuid.UUID, caller domain.Caller) (domain.AgreementState, domain.NegotiationView, error)
	Sign(ctx context.Context, contractID uuid.UUID, caller domain.Caller, method string) (*types.ContractSignature, error)
}

type contractService struct {
	db            *gorm.DB
	log           *logger.Logger
	contractRepo  repos.ContractRepo
	tenantRepo    repos.ContractTenantRepo
	signatureRepo repos.ContractSignatureRepo
	proposalRepo  repos.ProposedEndDateRepo
	requestRepo   repos.RentalRequestRepo
	listingRepo   repos.ListingRepo
	notifier      Notifier
}

func NewContractService(
	db *gorm.DB,
	log *logger.Logger,
	contractRepo repos.ContractRepo,
	tenantRepo repos.ContractTenantRepo,
	signatureRepo repos.ContractSignatureRepo,
	proposalRepo repos.ProposedEndDateRepo,
	requestRepo repos.RentalRequestRepo,
	listingRepo repos.ListingRepo,
	notifier Notifier,
) ContractService {
	serviceLog := log.With("service", "ContractService")
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	return &contractService{
		db:            db,
		log:           serviceLog,
		contractRepo:  contractRepo,
		tenantRepo:    tenantRepo,
		signatureRepo: signatureRepo,
		proposalRepo:  proposalRepo,
		requestRepo:   requestRepo,
		listingRepo:   listingRepo,
		notifier:      notifier,
	}
}

func (cs *contractService) List(ctx context.Context, caller domain.Caller, filter repos.ContractFilter) ([]*ContractView, error) {
	const op = "contract.list"

	// Non-admin callers only ever see contracts they are party to.
	switch caller.Role {
	case types.UserRoleLandlord:
		id := caller.UserID
		filter.LandlordID = &id
	case types.UserRoleTenant:
		id := caller.UserID
		filter.TenantID = &id
	}

	rows, err := cs.contractRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, domain.MapError(op, err)
	}
	views := make([]*ContractView, 0, len(rows))
	for _, row := range rows {
		tenants, err := cs.tenantRepo.ListTenants(ctx, nil, row.ID)
		if err != nil {
			return nil, domain.MapError(op, err)
		}
		views = append(views, &ContractView{
			ContractRow: *row,
			Tenants:     tenants,
			Signatures:  []*repos.SignatureRow{},
		})
	}
	return views, nil
}

func (cs *contractService) GetByID(ctx context.Context, contractID uuid.UUID, caller domain.Caller) (*ContractView, error) {
	const op = "contract.get"

	row, err := cs.contractRepo.GetRowByID(ctx, nil, contractID)
	if err != nil {
		return nil, domain.MapError(op, err)
	}

	tenantIDs, err := cs.tenantRepo.ListTenantIDs(ctx, nil, contractID)
	if err != nil {
		return nil, domain.MapError(op, err)
	}
	relation := domain.ClassifyParty(caller, row.LandlordUserID, tenantIDs)
	if !relation.MayAccess() {
		return nil, domain.NewError(domain.CodeForbidden, op, "you are not authorized to view this contract", nil)
	}

	tenants, err := cs.tenantRepo.ListTenants(ctx, nil, contractID)
	if err != nil {
		return nil, domain.MapError(op, err)
	}
	signatures, err := cs.signatureRepo.ListByContract(ctx, nil, contractID)
	if err != nil {
		return nil, domain.MapError(op, err)
	}

	// The ledger is optional derived data; a read failure degrades to an
	// empty-but-valid view rather than failing the whole request.
	negotiation := domain.NegotiationView{Tenants: map[string]string{}}
	proposals, err := cs.proposalRepo.ListByContract(ctx, nil, contractID)
	if err != nil {
		cs.log.Warn("Proposed end date lookup failed, returning empty ledger", "contract_id", contractID, "error", err)
	} else {
		negotiation = domain.BuildNegotiationView(row.LandlordUserID, tenantIDs, proposals)
	}

	return &ContractView{
		ContractRow:      *row,
		Tenants:          tenants,
		Signatures:       signatures,
		ProposedEndDates: negotiation,
	}, nil
}

func (cs *contractService) CreateFromRequest(ctx context.Context, caller domain.Caller, input CreateContractInput) (*types.Contract, error) {
	const op = "contract.create"

	var created *types.Contract
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		request, err := cs.requestRepo.GetByID(ctx, tx, input.RentalRequestID)
		if err != nil {
			return err
		}
		if request.Status != types.RentalRequestStatusAccepted {
			return domain.NewError(domain.CodeNotFound, op, "accepted rental request not found", nil)
		}
		listing, err := cs.listingRepo.GetByIDForUpdate(ctx, tx, request.ListingID)
		if err != nil {
			return err
		}
		if listing.OwnerUserID != caller.UserID && !caller.IsAdmin() {
			return domain.NewError(domain.CodeForbidden, op, "you do not own this listing", nil)
		}
		exists, err := cs.contractRepo.ActiveExists(ctx, tx, listing.ID, listing.OwnerUserID)
		if err != nil {
			return err
		}
		if exists {
			return domain.NewError(domain.CodeConflict, op, "an active contract already exists for this listing", nil)
		}

		contract := &types.Contract{
			ListingID:      listing.ID,
			LandlordUserID: listing.OwnerUserID,
			StartDate:      input.StartDate,
			EndDate:        input.EndDate,
			Rent:           input.Rent,
			Deposit:        input.Deposit,
			Status:         types.ContractStatusDraft,
		}
		if _, err := cs.contractRepo.Create(ctx, tx, contract); err != nil {
			return err
		}

		// The requester always joins the tenant set, whatever was passed in.
		tenantIDs := append([]uuid.UUID{}, input.TenantIDs...)
		seen := map[uuid.UUID]bool{}
		hasRequester := false
		for _, id := range tenantIDs {
			if id == request.RequesterUserID {
				hasRequester = true
			}
		}
		if !hasRequester {
			tenantIDs = append(tenantIDs, request.RequesterUserID)
		}
		for _, id := range tenantIDs {
			if id == uuid.Nil || seen[id] {
				continue
			}
			seen[id] = true
			if err := cs.tenantRepo.Add(ctx, tx, contract.ID, id); err != nil {
				return err
			}
		}
		created = contract
		return nil
	})
	if err != nil {
		return nil, domain.MapError(op, err)
	}

	recipients := append([]uuid.UUID{created.LandlordUserID}, input.TenantIDs...)
	cs.notifier.Notify(sse.SSEEventContractCreated, recipients, created)
	return created, nil
}

func (cs *contractService) Update(ctx context.Context, contractID uuid.UUID, caller domain.Caller, update domain.ContractUpdate) (*types.Contract, error) {
	const op = "contract.update"

	var updated *types.Contract
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contract, err := cs.contractRepo.GetByIDForUpdate(ctx, tx, contractID)
		if err != nil {
			return err
		}
		tenantIDs, err := cs.tenantRepo.ListTenantIDs(ctx, tx, contractID)
		if err != nil {
			return err
		}
		relation := domain.ClassifyParty(caller, contract.LandlordUserID, tenantIDs)
		if err := domain.AuthorizeContractUpdate(relation, update.Kind()); err != nil {
			return err
		}
		if update.Empty() {
			updated = contract
			return nil
		}

		updates := map[string]any{}
		if update.StartDate != nil {
			updates["start_date"] = *update.StartDate
		}
		if update.EndDate != nil {
			updates["end_date"] = *update.EndDate
		}
		if update.Rent != nil {
			updates["rent"] = *update.Rent
		}
		if update.Deposit != nil {
			updates["deposit"] = *update.Deposit
		}
		if update.Status != nil {
			status := *update.Status
			switch status {
			case types.ContractStatusDraft, types.ContractStatusSigned, types.ContractStatusCancelled:
			default:
				return domain.NewError(domain.CodeInvalidInput, op, "invalid contract status", nil)
			}
			updates["status"] = status
			// Administrative override: setting signed directly stamps
			// signed_at without consulting the signature ledger.
			if status == types.ContractStatusSigned {
				updates["signed_at"] = time.Now().UTC()
			}
		}

		if err := cs.contractRepo.UpdateFields(ctx, tx, contractID, updates); err != nil {
			return err
		}
		updated, err = cs.contractRepo.GetByID(ctx, tx, contractID)
		return err
	})
	if err != nil {
		return nil, domain.MapError(op, err)
	}

	cs.notifyParties(ctx, sse.SSEEventContractUpdated, updated.ID, updated)
	return updated, nil
}

func (cs *contractService) ProposeEndDate(ctx context.Context, contractID uuid.UUID, caller domain.Caller, date time.Time) (*types.ProposedEndDate, error) {
	const op = "contract.propose_end_date"

	var proposal *types.ProposedEndDate
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contract, err := cs.contractRepo.GetByID(ctx, tx, contractID)
		if err != nil {
			return err
		}
		tenantIDs, err := cs.tenantRepo.ListTenantIDs(ctx, tx, contractID)
		if err != nil {
			return err
		}
		relation := domain.ClassifyParty(caller, contract.LandlordUserID, tenantIDs)
		if !relation.MayAccess() {
			return domain.NewError(domain.CodeForbidden, op, "you are not authorized to propose an end date for this contract", nil)
		}
		if date.Before(contract.StartDate) {
			return domain.NewError(domain.CodeInvalidInput, op, "end date must be after start date", nil)
		}
		proposal, err = cs.proposalRepo.Upsert(ctx, tx, contractID, caller.UserID, date)
		return err
	})
	if err != nil {
		return nil, domain.MapError(op, err)
	}
	return proposal, nil
}

func (cs *contractService) Agreement(ctx context.Context, contractID uuid.UUID, caller domain.Caller) (domain.AgreementState, domain.NegotiationView, error) {
	const op = "contract.agreement"

	empty := domain.NegotiationView{Tenants: map[string]string{}}

	contract, err := cs.contractRepo.GetByID(ctx, nil, contractID)
	if err != nil {
		return "", empty, domain.MapError(op, err)
	}
	tenantIDs, err := cs.tenantRepo.ListTenantIDs(ctx, nil, contractID)
	if err != nil {
		return "", empty, domain.MapError(op, err)
	}
	relation := domain.ClassifyParty(caller, contract.LandlordUserID, tenantIDs)
	if !relation.MayAccess() {
		return "", empty, domain.NewError(domain.CodeForbidden, op, "you are not authorized to view this contract", nil)
	}
	proposals, err := cs.proposalRepo.ListByContract(ctx, nil, contractID)
	if err != nil {
		return "", empty, domain.MapError(op, err)
	}
	view := domain.BuildNegotiationView(contract.LandlordUserID, tenantIDs, proposals)
	return domain.EvaluateAgreement(view), view, nil
}

// Sign appends one signature and runs the consensus gate. The contract row
// lock taken up front serializes the whole read-count-flip sequence per
// contract, so concurrent signers observe each other's committed signatures
// and exactly one of them performs the finalization.
func (cs *contractService) Sign(ctx context.Context, contractID uuid.UUID, caller domain.Caller, method string) (*types.ContractSignature, error) {
	const op = "contract.sign"

	if method == "" {
		method = types.SignatureMethodCheckbox
	}

	var (
		signature *types.ContractSignature
		finalized bool
	)
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contract, err := cs.contractRepo.GetByIDForUpdate(ctx, tx, contractID)
		if err != nil {
			return err
		}
		if contract.Status == types.ContractStatusCancelled {
			return domain.NewError(domain.CodeInvalidState, op, "contract is cancelled", nil)
		}
		tenantIDs, err := cs.tenantRepo.ListTenantIDs(ctx, tx, contractID)
		if err != nil {
			return err
		}
		relation := domain.ClassifyParty(caller, contract.LandlordUserID, tenantIDs)
		if !relation.IsParty() {
			return domain.NewError(domain.CodeForbidden, op, "you are not authorized to sign this contract", nil)
		}

		exists, err := cs.signatureRepo.ExistsFor(ctx, tx, contractID, caller.UserID)
		if err != nil {
			return err
		}
		if exists {
			return domain.NewError(domain.CodeConflict, op, "you have already signed this contract", nil)
		}

		now := time.Now().UTC()
		signature, err = cs.signatureRepo.Create(ctx, tx, &types.ContractSignature{
			ContractID:      contractID,
			UserID:          caller.UserID,
			SignedAt:        now,
			SignatureMethod: method,
		})
		if err != nil {
			return err
		}

		signedCount, err := cs.signatureRepo.CountDistinctSigners(ctx, tx, contractID)
		if err != nil {
			return err
		}
		totalParties := int64(len(tenantIDs)) + 1
		if signedCount == totalParties && contract.Status != types.ContractStatusSigned {
			if err := cs.contractRepo.MarkSigned(ctx, tx, contractID, now); err != nil {
				return err
			}
			finalized = true
		}
		return nil
	})
	if err != nil {
		return nil, domain.MapError(op, err)
	}

	cs.notifyParties(ctx, sse.SSEEventContractSigned, contractID, signature)
	if finalized {
		contract, gerr := cs.contractRepo.GetByID(ctx, nil, contractID)
		if gerr == nil {
			cs.notifyParties(ctx, sse.SSEEventContractFinalized, contractID, contract)
		}
	}
	return signature, nil
}

func (cs *contractService) notifyParties(ctx context.Context, event sse.SSEEvent, contractID uuid.UUID, payload any) {
	contract, err := cs.contractRepo.GetByID(ctx, nil, contractID)
	if err != nil {
		cs.log.Warn("Notify skipped, contract lookup failed", "contract_id", contractID, "error", err)
		return
	}
	tenantIDs, err := cs.tenantRepo.ListTenantIDs(ctx, nil, contractID)
	if err != nil {
		cs.log.Warn("Notify skipped, tenant lookup failed", "contract_id", contractID, "error", err)
		return
	}
	recipients := append([]uuid.UUID{contract.LandlordUserID}, tenantIDs...)
	cs.notifier.Notify(event, recipients, payload)
}
