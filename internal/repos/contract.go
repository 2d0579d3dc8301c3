package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/rentline-backend/internal/logger"
	"github.com/yungbote/rentline-backend/internal/types"
)

// ContractFilter narrows list queries; nil/empty fields are ignored.
type ContractFilter struct {
	LandlordID *uuid.UUID
	TenantID   *uuid.UUID
	Status     string
	Page       int
	Limit      int
}

// ContractRow is a contract joined with landlord identity and listing price
// for list/detail reads.
type ContractRow struct {
	types.Contract
	LandlordName  string  `json:"landlord_name"`
	LandlordEmail string  `json:"landlord_email"`
	ListingPrice  float64 `json:"listing_price"`
}

type ContractRepo interface {
	Create(ctx context.Context, tx *gorm.DB, contract *types.Contract) (*types.Contract, error)
	GetByID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.Contract, error)
	// GetByIDForUpdate locks the contract row; the signature consensus gate
	// runs its entire count-and-flip sequence under this lock.
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.Contract, error)
	GetRowByID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*ContractRow, error)
	List(ctx context.Context, tx *gorm.DB, filter ContractFilter) ([]*ContractRow, error)
	ActiveExists(ctx context.Context, tx *gorm.DB, listingID, landlordUserID uuid.UUID) (bool, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, updates map[string]any) error
	MarkSigned(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, signedAt time.Time) error
}

type contractRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractRepo(db *gorm.DB, baseLog *logger.Logger) ContractRepo {
	repoLog := baseLog.With("repo", "ContractRepo")
	return &contractRepo{db: db, log: repoLog}
}

func (cr *contractRepo) Create(ctx context.Context, tx *gorm.DB, contract *types.Contract) (*types.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if err := transaction.WithContext(ctx).Create(contract).Error; err != nil {
		return nil, err
	}
	return contract, nil
}

func (cr *contractRepo) GetByID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Contract
	if err := transaction.WithContext(ctx).
		Where("id = ?", contractID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *contractRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Contract
	if err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", contractID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *contractRepo) GetRowByID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*ContractRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result ContractRow
	if err := transaction.WithContext(ctx).
		Table(`contract AS c`).
		Select(`c.*, u.full_name AS landlord_name, u.email AS landlord_email, l.price AS listing_price`).
		Joins(`LEFT JOIN "user" u ON c.landlord_user_id = u.id`).
		Joins(`LEFT JOIN listing l ON c.listing_id = l.id`).
		Where("c.id = ?", contractID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *contractRepo) List(ctx context.Context, tx *gorm.DB, filter ContractFilter) ([]*ContractRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	q := transaction.WithContext(ctx).
		Table(`contract AS c`).
		Select(`c.*, u.full_name AS landlord_name, u.email AS landlord_email, l.price AS listing_price`).
		Joins(`LEFT JOIN "user" u ON c.landlord_user_id = u.id`).
		Joins(`LEFT JOIN listing l ON c.listing_id = l.id`)

	if filter.LandlordID != nil {
		q = q.Where("c.landlord_user_id = ?", *filter.LandlordID)
	}
	if filter.TenantID != nil {
		q = q.Where(`EXISTS (SELECT 1 FROM contract_tenant ct WHERE ct.contract_id = c.id AND ct.tenant_user_id = ?)`, *filter.TenantID)
	}
	if filter.Status != "" {
		q = q.Where("c.status = ?", filter.Status)
	}

	var results []*ContractRow
	if err := q.
		Order("c.created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *contractRepo) ActiveExists(ctx context.Context, tx *gorm.DB, listingID, landlordUserID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Contract{}).
		Where("listing_id = ? AND landlord_user_id = ? AND status != ?",
			listingID, landlordUserID, types.ContractStatusCancelled).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (cr *contractRepo) UpdateFields(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(updates) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.Contract{}).
		Where("id = ?", contractID).
		Updates(updates).Error
}

func (cr *contractRepo) MarkSigned(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, signedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Contract{}).
		Where("id = ?", contractID).
		Updates(map[string]any{
			"status":    types.ContractStatusSigned,
			"signed_at": signedAt,
		}).Error
}
