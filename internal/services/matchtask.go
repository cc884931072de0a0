package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/stylecast-backend/internal/ai"
	"github.com/yungbote/stylecast-backend/internal/logger"
	"github.com/yungbote/stylecast-backend/internal/repos"
	"github.com/yungbote/stylecast-backend/internal/types"
	"github.com/yungbote/stylecast-backend/internal/workerpool"
)

const (
	// DedupWindow is the trailing span during which a broadcasted item is
	// excluded from re-recommendation.
	DedupWindow = 7 * 24 * time.Hour

	maxClothingIDsPerTask = 20
	maxErrorMessageLen    = 1000
)

// WornHistoryMessage names the dedup rule when filtering empties the set.
const WornHistoryMessage = "all selected clothing items were broadcasted for this member within the last 7 days"

type CreateTaskInput struct {
	MemberID    int64   `json:"memberId"`
	ClothingIDs []int64 `json:"clothingIds"`
	Scene       string  `json:"scene,omitempty"`
	Operator    string  `json:"-"`
	Language    ai.Language
}

// TaskView is the external task shape. Result is the flattened legacy view;
// Preview mirrors the first outfit's preview for legacy consumers.
type TaskView struct {
	TaskID       string                       `json:"taskId"`
	MemberID     int64                        `json:"memberId"`
	Status       types.TaskStatus             `json:"status"`
	StrategyName string                       `json:"strategyName,omitempty"`
	Scene        string                       `json:"scene,omitempty"`
	Outfits      []types.OutfitRecommendation `json:"outfits"`
	Result       []types.MatchResultItem      `json:"result"`
	Preview      *types.OutfitPreview         `json:"preview,omitempty"`
	ErrorMessage string                       `json:"errorMessage,omitempty"`
	CreatedAt    time.Time                    `json:"createdAt"`
	UpdatedAt    time.Time                    `json:"updatedAt"`
}

type MatchTaskService interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*TaskView, error)
	GetTask(ctx context.Context, taskID string) (*TaskView, error)
	ListTasks(ctx context.Context, memberID *int64, page, size int) ([]*TaskView, int64, error)
}

type matchTaskService struct {
	db              *gorm.DB
	log             *logger.Logger
	rateLimiter     RateLimiter
	memberRepo      repos.MemberRepo
	clothingRepo    repos.ClothingRepo
	matchTaskRepo   repos.MatchTaskRepo
	matchRecordRepo repos.MatchRecordRepo
	pool            *workerpool.Pool
	processor       *TaskProcessor
}

func NewMatchTaskService(
	db *gorm.DB,
	baseLog *logger.Logger,
	rateLimiter RateLimiter,
	memberRepo repos.MemberRepo,
	clothingRepo repos.ClothingRepo,
	matchTaskRepo repos.MatchTaskRepo,
	matchRecordRepo repos.MatchRecordRepo,
	pool *workerpool.Pool,
	processor *TaskProcessor,
) MatchTaskService {
	return &matchTaskService{
		db:              db,
		log:             baseLog.With("service", "MatchTaskService"),
		rateLimiter:     rateLimiter,
		memberRepo:      memberRepo,
		clothingRepo:    clothingRepo,
		matchTaskRepo:   matchTaskRepo,
		matchRecordRepo: matchRecordRepo,
		pool:            pool,
		processor:       processor,
	}
}

func (ts *matchTaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*TaskView, error) {
	if input.MemberID <= 0 {
		return nil, NewValidationError("memberId is required")
	}
	clothingIDs := dedupeIDs(input.ClothingIDs)
	if len(clothingIDs) == 0 {
		return nil, NewValidationError("clothingIds is required")
	}
	if len(clothingIDs) > maxClothingIDsPerTask {
		return nil, NewValidationError("at most %d clothing items per request", maxClothingIDsPerTask)
	}

	if !ts.rateLimiter.Allow(input.Operator) {
		return nil, &CapacityError{Message: "too many requests, please retry shortly"}
	}

	member, err := ts.memberRepo.GetActiveByID(ctx, nil, input.MemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	if member == nil {
		return nil, NewNotFoundError("member %d not found", input.MemberID)
	}

	candidates, err := ts.filterWornHistory(ctx, input.MemberID, clothingIDs)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, NewValidationError(WornHistoryMessage)
	}

	candidateJSON, err := json.Marshal(candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to encode candidate ids: %w", err)
	}

	task := &types.MatchTask{
		ID:                   uuid.NewString(),
		MemberID:             input.MemberID,
		OperatorUsername:     input.Operator,
		Scene:                strings.TrimSpace(input.Scene),
		Language:             string(input.Language),
		Status:               types.TaskStatusQueued,
		CandidateClothingIDs: datatypes.JSON(candidateJSON),
	}
	if err := ts.matchTaskRepo.Create(ctx, nil, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	taskID := task.ID
	if err := ts.pool.Submit(func(workerCtx context.Context) {
		ts.processor.Process(workerCtx, taskID)
	}); err != nil {
		// The task row exists; make sure it does not linger QUEUED forever.
		if uErr := ts.matchTaskRepo.UpdateStatusAndError(ctx, nil, taskID, types.TaskStatusFailed, "worker queue saturated"); uErr != nil {
			ts.log.Error("Failed to fail task after queue rejection", "taskID", taskID, "error", uErr)
		}
		return nil, &UnavailableError{Message: "recommendation workers are saturated, please retry later"}
	}

	ts.log.Info("Match task accepted", "taskID", taskID, "memberID", input.MemberID, "operator", input.Operator, "candidates", len(candidates))
	return buildTaskView(task), nil
}

// filterWornHistory drops candidates referenced by a BROADCASTED record with
// a broadcast date inside the dedup window.
func (ts *matchTaskService) filterWornHistory(ctx context.Context, memberID int64, clothingIDs []int64) ([]int64, error) {
	since := time.Now().Add(-DedupWindow)
	records, err := ts.matchRecordRepo.FindRecentBroadcasted(ctx, nil, memberID, clothingIDs, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load worn history: %w", err)
	}
	worn := make(map[int64]bool, len(records))
	for _, record := range records {
		worn[record.ClothingID] = true
	}
	filtered := make([]int64, 0, len(clothingIDs))
	for _, id := range clothingIDs {
		if !worn[id] {
			filtered = append(filtered, id)
		}
	}
	return filtered, nil
}

func (ts *matchTaskService) GetTask(ctx context.Context, taskID string) (*TaskView, error) {
	task, err := ts.matchTaskRepo.GetByID(ctx, nil, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	if task == nil {
		return nil, NewNotFoundError("task %s not found", taskID)
	}
	return buildTaskView(task), nil
}

func (ts *matchTaskService) ListTasks(ctx context.Context, memberID *int64, page, size int) ([]*TaskView, int64, error) {
	tasks, total, err := ts.matchTaskRepo.List(ctx, nil, memberID, page, size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	views := make([]*TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, buildTaskView(task))
	}
	return views, total, nil
}

func buildTaskView(task *types.MatchTask) *TaskView {
	outfits := decodeOutfits(task.Result)
	view := &TaskView{
		TaskID:       task.ID,
		MemberID:     task.MemberID,
		Status:       task.Status,
		StrategyName: task.StrategyName,
		Scene:        task.Scene,
		Outfits:      outfits,
		Result:       FlattenOutfits(outfits),
		ErrorMessage: task.ErrorMessage,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
	if len(outfits) > 0 {
		view.Preview = outfits[0].Preview
	}
	return view
}

func decodeOutfits(raw datatypes.JSON) []types.OutfitRecommendation {
	if len(raw) == 0 {
		return []types.OutfitRecommendation{}
	}
	var outfits []types.OutfitRecommendation
	if err := json.Unmarshal(raw, &outfits); err != nil {
		return []types.OutfitRecommendation{}
	}
	return outfits
}

// FlattenOutfits renders the legacy per-item view: two entries per outfit,
// each with a prefixed reason.
func FlattenOutfits(outfits []types.OutfitRecommendation) []types.MatchResultItem {
	items := make([]types.MatchResultItem, 0, len(outfits)*2)
	for _, outfit := range outfits {
		items = append(items,
			types.MatchResultItem{
				ClothingID: outfit.TopClothingID,
				Reason:     fmt.Sprintf("Outfit #%d TOP: %s", outfit.OutfitNo, outfit.Reason),
				Score:      outfit.Score,
			},
			types.MatchResultItem{
				ClothingID: outfit.BottomClothingID,
				Reason:     fmt.Sprintf("Outfit #%d BOTTOM: %s", outfit.OutfitNo, outfit.Reason),
				Score:      outfit.Score,
			},
		)
	}
	return items
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func truncateError(message string) string {
	if len(message) > maxErrorMessageLen {
		return message[:maxErrorMessageLen]
	}
	return message
}
