package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/stylecast-backend/internal/logger"
	"github.com/yungbote/stylecast-backend/internal/types"
)

type ClothingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.Clothing) ([]*types.Clothing, error)
	GetActiveByID(ctx context.Context, tx *gorm.DB, clothingID int64) (*types.Clothing, error)
	GetActiveByIDs(ctx context.Context, tx *gorm.DB, clothingIDs []int64) ([]*types.Clothing, error)
	GetOnShelfByIDs(ctx context.Context, tx *gorm.DB, clothingIDs []int64) ([]*types.Clothing, error)
	ListActive(ctx context.Context, tx *gorm.DB, status types.ClothingStatus, page, size int) ([]*types.Clothing, int64, error)
	Update(ctx context.Context, tx *gorm.DB, item *types.Clothing) error
	SoftDelete(ctx context.Context, tx *gorm.DB, clothingID int64) error
}

type clothingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClothingRepo(db *gorm.DB, baseLog *logger.Logger) ClothingRepo {
	return &clothingRepo{db: db, log: baseLog.With("repo", "ClothingRepo")}
}

func (cr *clothingRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.Clothing) ([]*types.Clothing, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(items) == 0 {
		return []*types.Clothing{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (cr *clothingRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, clothingID int64) (*types.Clothing, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.Clothing
	err := transaction.WithContext(ctx).
		Where("id = ? AND deleted = ?", clothingID, false).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (cr *clothingRepo) GetActiveByIDs(ctx context.Context, tx *gorm.DB, clothingIDs []int64) ([]*types.Clothing, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Clothing
	if len(clothingIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ? AND deleted = ?", clothingIDs, false).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *clothingRepo) GetOnShelfByIDs(ctx context.Context, tx *gorm.DB, clothingIDs []int64) ([]*types.Clothing, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Clothing
	if len(clothingIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ? AND status = ? AND deleted = ?", clothingIDs, types.ClothingStatusOnShelf, false).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *clothingRepo) ListActive(ctx context.Context, tx *gorm.DB, status types.ClothingStatus, page, size int) ([]*types.Clothing, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Clothing
	var total int64
	query := transaction.WithContext(ctx).Model(&types.Clothing{}).Where("deleted = ?", false)
	if status != "" {
		query = query.Where("status = ?", status)
	}
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

func (cr *clothingRepo) Update(ctx context.Context, tx *gorm.DB, item *types.Clothing) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).Save(item).Error
}

func (cr *clothingRepo) SoftDelete(ctx context.Context, tx *gorm.DB, clothingID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Clothing{}).
		Where("id = ?", clothingID).
		Update("deleted", true).Error
}
