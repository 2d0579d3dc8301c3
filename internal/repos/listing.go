package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/rentline-backend/internal/logger"
	"github.com/yungbote/rentline-backend/internal/types"
)

type ListingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, listings []*types.Listing) ([]*types.Listing, error)
	GetByID(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) (*types.Listing, error)
	// GetByIDForUpdate locks the listing row, serializing contract creation
	// for that listing within the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) (*types.Listing, error)
}

type listingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewListingRepo(db *gorm.DB, baseLog *logger.Logger) ListingRepo {
	repoLog := baseLog.With("repo", "ListingRepo")
	return &listingRepo{db: db, log: repoLog}
}

func (lr *listingRepo) Create(ctx context.Context, tx *gorm.DB, listings []*types.Listing) ([]*types.Listing, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	if len(listings) == 0 {
		return []*types.Listing{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&listings).Error; err != nil {
		return nil, err
	}

	return listings, nil
}

func (lr *listingRepo) GetByID(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) (*types.Listing, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var result types.Listing
	if err := transaction.WithContext(ctx).
		Where("id = ?", listingID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (lr *listingRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) (*types.Listing, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var result types.Listing
	if err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", listingID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}
