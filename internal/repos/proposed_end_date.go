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

type ProposedEndDateRepo interface {
	// Upsert stores the caller's current proposal; the previous one for the
	// same (contract_id, user_id) pair is overwritten, never duplicated.
	Upsert(ctx context.Context, tx *gorm.DB, contractID, userID uuid.UUID, date time.Time) (*types.ProposedEndDate, error)
	ListByContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]*types.ProposedEndDate, error)
}

type proposedEndDateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProposedEndDateRepo(db *gorm.DB, baseLog *logger.Logger) ProposedEndDateRepo {
	repoLog := baseLog.With("repo", "ProposedEndDateRepo")
	return &proposedEndDateRepo{db: db, log: repoLog}
}

func (pr *proposedEndDateRepo) Upsert(ctx context.Context, tx *gorm.DB, contractID, userID uuid.UUID, date time.Time) (*types.ProposedEndDate, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	row := &types.ProposedEndDate{
		ContractID:      contractID,
		UserID:          userID,
		ProposedEndDate: date,
		UpdatedAt:       time.Now().UTC(),
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "contract_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"proposed_end_date", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (pr *proposedEndDateRepo) ListByContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]*types.ProposedEndDate, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.ProposedEndDate
	if err := transaction.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
