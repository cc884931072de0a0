package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/stylecast-backend/internal/logger"
	"github.com/yungbote/stylecast-backend/internal/types"
)

type MatchTaskRepo interface {
	Create(ctx context.Context, tx *gorm.DB, task *types.MatchTask) error
	GetByID(ctx context.Context, tx *gorm.DB, taskID string) (*types.MatchTask, error)
	Save(ctx context.Context, tx *gorm.DB, task *types.MatchTask) error
	// UpdateStatusAndError writes only {status, error_message}. Last-resort
	// recovery path when the full Save fails, so a task never stays RUNNING.
	UpdateStatusAndError(ctx context.Context, tx *gorm.DB, taskID string, status types.TaskStatus, errorMessage string) error
	List(ctx context.Context, tx *gorm.DB, memberID *int64, page, size int) ([]*types.MatchTask, int64, error)
}

type matchTaskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchTaskRepo(db *gorm.DB, baseLog *logger.Logger) MatchTaskRepo {
	return &matchTaskRepo{db: db, log: baseLog.With("repo", "MatchTaskRepo")}
}

func (tr *matchTaskRepo) Create(ctx context.Context, tx *gorm.DB, task *types.MatchTask) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	return transaction.WithContext(ctx).Create(task).Error
}

func (tr *matchTaskRepo) GetByID(ctx context.Context, tx *gorm.DB, taskID string) (*types.MatchTask, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var result types.MatchTask
	err := transaction.WithContext(ctx).
		Where("id = ?", taskID).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (tr *matchTaskRepo) Save(ctx context.Context, tx *gorm.DB, task *types.MatchTask) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	task.UpdatedAt = time.Now()
	return transaction.WithContext(ctx).Save(task).Error
}

func (tr *matchTaskRepo) UpdateStatusAndError(ctx context.Context, tx *gorm.DB, taskID string, status types.TaskStatus, errorMessage string) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.MatchTask{}).
		Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"status":        status,
			"error_message": errorMessage,
			"updated_at":    time.Now(),
		}).Error
}

func (tr *matchTaskRepo) List(ctx context.Context, tx *gorm.DB, memberID *int64, page, size int) ([]*types.MatchTask, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var results []*types.MatchTask
	var total int64
	query := transaction.WithContext(ctx).Model(&types.MatchTask{})
	if memberID != nil {
		query = query.Where("member_id = ?", *memberID)
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
