package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/rentline-backend/internal/logger"
	"github.com/yungbote/rentline-backend/internal/types"
)

// TenantRow is one tenant member joined with user identity.
type TenantRow struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}

type ContractTenantRepo interface {
	Add(ctx context.Context, tx *gorm.DB, contractID, tenantUserID uuid.UUID) error
	IsMember(ctx context.Context, tx *gorm.DB, contractID, tenantUserID uuid.UUID) (bool, error)
	ListTenantIDs(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]uuid.UUID, error)
	ListTenants(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]*TenantRow, error)
	Count(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (int64, error)
}

type contractTenantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractTenantRepo(db *gorm.DB, baseLog *logger.Logger) ContractTenantRepo {
	repoLog := baseLog.With("repo", "ContractTenantRepo")
	return &contractTenantRepo{db: db, log: repoLog}
}

func (tr *contractTenantRepo) Add(ctx context.Context, tx *gorm.DB, contractID, tenantUserID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	row := &types.ContractTenant{
		ContractID:   contractID,
		TenantUserID: tenantUserID,
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (tr *contractTenantRepo) IsMember(ctx context.Context, tx *gorm.DB, contractID, tenantUserID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ContractTenant{}).
		Where("contract_id = ? AND tenant_user_id = ?", contractID, tenantUserID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (tr *contractTenantRepo) ListTenantIDs(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.ContractTenant{}).
		Where("contract_id = ?", contractID).
		Pluck("tenant_user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (tr *contractTenantRepo) ListTenants(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]*TenantRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*TenantRow
	if err := transaction.WithContext(ctx).
		Table(`contract_tenant AS ct`).
		Select(`u.id, u.full_name, u.email`).
		Joins(`JOIN "user" u ON ct.tenant_user_id = u.id`).
		Where("ct.contract_id = ?", contractID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *contractTenantRepo) Count(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ContractTenant{}).
		Where("contract_id = ?", contractID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
