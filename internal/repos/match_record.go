package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/stylecast-backend/internal/logger"
	"github.com/yungbote/stylecast-backend/internal/types"
)

type MatchRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.MatchRecord) ([]*types.MatchRecord, error)
	GetByIDAndMemberID(ctx context.Context, tx *gorm.DB, recordID, memberID int64) (*types.MatchRecord, error)
	Save(ctx context.Context, tx *gorm.DB, record *types.MatchRecord) error
	// FindRecentBroadcasted returns records that exclude a clothing id from
	// recommendation: status BROADCASTED with a broadcast date at or after since.
	FindRecentBroadcasted(ctx context.Context, tx *gorm.DB, memberID int64, clothingIDs []int64, since time.Time) ([]*types.MatchRecord, error)
	FindTopByPerformance(ctx context.Context, tx *gorm.DB, memberID int64, limit int) ([]*types.MatchRecord, error)
	ListRecent(ctx context.Context, tx *gorm.DB, memberID int64, limit int) ([]*types.MatchRecord, error)
	CountByMemberID(ctx context.Context, tx *gorm.DB, memberID int64) (int64, error)
}

type matchRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchRecordRepo(db *gorm.DB, baseLog *logger.Logger) MatchRecordRepo {
	return &matchRecordRepo{db: db, log: baseLog.With("repo", "MatchRecordRepo")}
}

func (rr *matchRecordRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.MatchRecord) ([]*types.MatchRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(records) == 0 {
		return []*types.MatchRecord{}, nil
	}
	for _, record := range records {
		if record != nil && record.CreatedAt.IsZero() {
			record.CreatedAt = time.Now()
		}
	}
	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (rr *matchRecordRepo) GetByIDAndMemberID(ctx context.Context, tx *gorm.DB, recordID, memberID int64) (*types.MatchRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var result types.MatchRecord
	err := transaction.WithContext(ctx).
		Where("id = ? AND member_id = ?", recordID, memberID).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (rr *matchRecordRepo) Save(ctx context.Context, tx *gorm.DB, record *types.MatchRecord) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).Save(record).Error
}

func (rr *matchRecordRepo) FindRecentBroadcasted(ctx context.Context, tx *gorm.DB, memberID int64, clothingIDs []int64, since time.Time) ([]*types.MatchRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.MatchRecord
	if len(clothingIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("member_id = ? AND clothing_id IN ? AND status = ? AND broadcast_date IS NOT NULL AND broadcast_date >= ?",
			memberID, clothingIDs, types.MatchRecordStatusBroadcasted, since).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *matchRecordRepo) FindTopByPerformance(ctx context.Context, tx *gorm.DB, memberID int64, limit int) ([]*types.MatchRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.MatchRecord
	if err := transaction.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("performance_score DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *matchRecordRepo) ListRecent(ctx context.Context, tx *gorm.DB, memberID int64, limit int) ([]*types.MatchRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.MatchRecord
	if err := transaction.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *matchRecordRepo) CountByMemberID(ctx context.Context, tx *gorm.DB, memberID int64) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.MatchRecord{}).
		Where("member_id = ?", memberID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
