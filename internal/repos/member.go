package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/stylecast-backend/internal/logger"
	"github.com/yungbote/stylecast-backend/internal/types"
)

type MemberRepo interface {
	Create(ctx context.Context, tx *gorm.DB, members []*types.Member) ([]*types.Member, error)
	GetActiveByID(ctx context.Context, tx *gorm.DB, memberID int64) (*types.Member, error)
	ListActive(ctx context.Context, tx *gorm.DB, page, size int) ([]*types.Member, int64, error)
	Update(ctx context.Context, tx *gorm.DB, member *types.Member) error
	SoftDelete(ctx context.Context, tx *gorm.DB, memberID int64) error
}

type memberRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMemberRepo(db *gorm.DB, baseLog *logger.Logger) MemberRepo {
	return &memberRepo{db: db, log: baseLog.With("repo", "MemberRepo")}
}

func (mr *memberRepo) Create(ctx context.Context, tx *gorm.DB, members []*types.Member) ([]*types.Member, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(members) == 0 {
		return []*types.Member{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (mr *memberRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, memberID int64) (*types.Member, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var result types.Member
	err := transaction.WithContext(ctx).
		Where("id = ? AND deleted = ?", memberID, false).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (mr *memberRepo) ListActive(ctx context.Context, tx *gorm.DB, page, size int) ([]*types.Member, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.Member
	var total int64
	query := transaction.WithContext(ctx).Model(&types.Member{}).Where("deleted = ?", false)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.
		Order("created_at DESC").
		Offset(page * size).
		Limit(size).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (mr *memberRepo) Update(ctx context.Context, tx *gorm.DB, member *types.Member) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).Save(member).Error
}

func (mr *memberRepo) SoftDelete(ctx context.Context, tx *gorm.DB, memberID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Member{}).
		Where("id = ?", memberID).
		Update("deleted", true).Error
}
