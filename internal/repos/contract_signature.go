package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/rentline-backend/internal/logger"
	"github.com/yungbote/rentline-backend/internal/types"
)

// SignatureRow is a signature joined with the signer's identity.
type SignatureRow struct {
	types.ContractSignature
	SignerName  string `json:"signer_name"`
	SignerEmail string `json:"signer_email"`
}

type ContractSignatureRepo interface {
	// Create inserts one signature. The unique (contract_id, user_id) index
	// turns a concurrent duplicate into a storage-level conflict.
	Create(ctx context.Context, tx *gorm.DB, signature *types.ContractSignature) (*types.ContractSignature, error)
	ExistsFor(ctx context.Context, tx *gorm.DB, contractID, userID uuid.UUID) (bool, error)
	ListByContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]*SignatureRow, error)
	CountDistinctSigners(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (int64, error)
}

type contractSignatureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractSignatureRepo(db *gorm.DB, baseLog *logger.Logger) ContractSignatureRepo {
	repoLog := baseLog.With("repo", "ContractSignatureRepo")
	return &contractSignatureRepo{db: db, log: repoLog}
}

func (sr *contractSignatureRepo) Create(ctx context.Context, tx *gorm.DB, signature *types.ContractSignature) (*types.ContractSignature, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if err := transaction.WithContext(ctx).Create(signature).Error; err != nil {
		return nil, err
	}
	return signature, nil
}

func (sr *contractSignatureRepo) ExistsFor(ctx context.Context, tx *gorm.DB, contractID, userID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ContractSignature{}).
		Where("contract_id = ? AND user_id = ?", contractID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (sr *contractSignatureRepo) ListByContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]*SignatureRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*SignatureRow
	if err := transaction.WithContext(ctx).
		Table(`contract_signature AS cs`).
		Select(`cs.*, u.full_name AS signer_name, u.email AS signer_email`).
		Joins(`JOIN "user" u ON cs.user_id = u.id`).
		Where("cs.contract_id = ?", contractID).
		Order("cs.signed_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *contractSignatureRepo) CountDistinctSigners(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ContractSignature{}).
		Where("contract_id = ?", contractID).
		Distinct("user_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
