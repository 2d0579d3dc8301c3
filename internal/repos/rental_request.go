package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/rentline-backend/internal/logger"
	"github.com/yungbote/rentline-backend/internal/types"
)

// RentalRequestFilter narrows list queries; nil/empty fields are ignored.
type RentalRequestFilter struct {
	ListingID   *uuid.UUID
	RequesterID *uuid.UUID
	OwnerID     *uuid.UUID
	Status      string
	Page        int
	Limit       int
}

// RentalRequestRow is a request joined with its requester and listing for
// list/detail reads.
type RentalRequestRow struct {
	types.RentalRequest
	RequesterName  string  `json:"requester_name"`
	RequesterEmail string  `json:"requester_email"`
	ListingPrice   float64 `json:"listing_price"`
}

type RentalRequestRepo interface {
	Create(ctx context.Context, tx *gorm.DB, request *types.RentalRequest) (*types.RentalRequest, error)
	GetByID(ctx context.Context, tx *gorm.DB, requestID uuid.UUID) (*types.RentalRequest, error)
	// GetByIDForUpdate locks the request row so concurrent transitions of the
	// same request serialize.
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, requestID uuid.UUID) (*types.RentalRequest, error)
	GetRowByID(ctx context.Context, tx *gorm.DB, requestID uuid.UUID) (*RentalRequestRow, error)
	List(ctx context.Context, tx *gorm.DB, filter RentalRequestFilter) ([]*RentalRequestRow, error)
	PendingExists(ctx context.Context, tx *gorm.DB, listingID, requesterUserID uuid.UUID) (bool, error)
	// UpdateStatusIfPending flips the status only while the request is still
	// pending; the returned bool reports whether a row changed.
	UpdateStatusIfPending(ctx context.Context, tx *gorm.DB, requestID uuid.UUID, status string) (bool, error)
}

type rentalRequestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRentalRequestRepo(db *gorm.DB, baseLog *logger.Logger) RentalRequestRepo {
	repoLog := baseLog.With("repo", "RentalRequestRepo")
	return &rentalRequestRepo{db: db, log: repoLog}
}

func (rr *rentalRequestRepo) Create(ctx context.Context, tx *gorm.DB, request *types.RentalRequest) (*types.RentalRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if err := transaction.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (rr *rentalRequestRepo) GetByID(ctx context.Context, tx *gorm.DB, requestID uuid.UUID) (*types.RentalRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var result types.RentalRequest
	if err := transaction.WithContext(ctx).
		Where("id = ?", requestID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *rentalRequestRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, requestID uuid.UUID) (*types.RentalRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var result types.RentalRequest
	if err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", requestID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *rentalRequestRepo) GetRowByID(ctx context.Context, tx *gorm.DB, requestID uuid.UUID) (*RentalRequestRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var result RentalRequestRow
	if err := transaction.WithContext(ctx).
		Table(`rental_request AS rr`).
		Select(`rr.*, u.full_name AS requester_name, u.email AS requester_email, l.price AS listing_price`).
		Joins(`LEFT JOIN "user" u ON rr.requester_user_id = u.id`).
		Joins(`LEFT JOIN listing l ON rr.listing_id = l.id`).
		Where("rr.id = ?", requestID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *rentalRequestRepo) List(ctx context.Context, tx *gorm.DB, filter RentalRequestFilter) ([]*RentalRequestRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
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
		Table(`rental_request AS rr`).
		Select(`rr.*, u.full_name AS requester_name, u.email AS requester_email, l.price AS listing_price`).
		Joins(`LEFT JOIN "user" u ON rr.requester_user_id = u.id`).
		Joins(`LEFT JOIN listing l ON rr.listing_id = l.id`)

	if filter.OwnerID != nil {
		q = q.Where("l.owner_user_id = ?", *filter.OwnerID)
	}
	if filter.ListingID != nil {
		q = q.Where("rr.listing_id = ?", *filter.ListingID)
	}
	if filter.RequesterID != nil {
		q = q.Where("rr.requester_user_id = ?", *filter.RequesterID)
	}
	if filter.Status != "" {
		q = q.Where("rr.status = ?", filter.Status)
	}

	var results []*RentalRequestRow
	if err := q.
		Order("rr.created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *rentalRequestRepo) PendingExists(ctx context.Context, tx *gorm.DB, listingID, requesterUserID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.RentalRequest{}).
		Where("listing_id = ? AND requester_user_id = ? AND status = ?",
			listingID, requesterUserID, types.RentalRequestStatusPending).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (rr *rentalRequestRepo) UpdateStatusIfPending(ctx context.Context, tx *gorm.DB, requestID uuid.UUID, status string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.RentalRequest{}).
		Where("id = ? AND status = ?", requestID, types.RentalRequestStatusPending).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
