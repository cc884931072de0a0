package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/stylecast-backend/internal/ai"
	"github.com/yungbote/stylecast-backend/internal/logger"
	"github.com/yungbote/stylecast-backend/internal/repos"
	"github.com/yungbote/stylecast-backend/internal/sse"
	"github.com/yungbote/stylecast-backend/internal/types"
)

// progressPacing spaces checkpoint events so subscribers see movement even
// though the underlying work is one opaque provider call.
const progressPacing = 300 * time.Millisecond

// TaskProcessor drives one task from QUEUED to a terminal state on a worker
// goroutine. A task executes at most once; publish calls for its id come only
// from this goroutine.
type TaskProcessor struct {
	db              *gorm.DB
	log             *logger.Logger
	memberRepo      repos.MemberRepo
	clothingRepo    repos.ClothingRepo
	matchTaskRepo   repos.MatchTaskRepo
	matchRecordRepo repos.MatchRecordRepo
	router          *StrategyRouter
	hub             *sse.Hub
	sleep           func(time.Duration)
}

func NewTaskProcessor(
	db *gorm.DB,
	baseLog *logger.Logger,
	memberRepo repos.MemberRepo,
	clothingRepo repos.ClothingRepo,
	matchTaskRepo repos.MatchTaskRepo,
	matchRecordRepo repos.MatchRecordRepo,
	router *StrategyRouter,
	hub *sse.Hub,
) *TaskProcessor {
	return &TaskProcessor{
		db:              db,
		log:             baseLog.With("service", "TaskProcessor"),
		memberRepo:      memberRepo,
		clothingRepo:    clothingRepo,
		matchTaskRepo:   matchTaskRepo,
		matchRecordRepo: matchRecordRepo,
		router:          router,
		hub:             hub,
		sleep:           time.Sleep,
	}
}

func (tp *TaskProcessor) Process(ctx context.Context, taskID string) {
	task, err := tp.matchTaskRepo.GetByID(ctx, nil, taskID)
	if err != nil {
		tp.log.Error("Failed to load task for processing", "taskID", taskID, "error", err)
		return
	}
	if task == nil {
		tp.log.Error("Task vanished before processing", "taskID", taskID)
		return
	}
	if task.Status != types.TaskStatusQueued {
		tp.log.Warn("Skipping task not in QUEUED state", "taskID", taskID, "status", task.Status)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			tp.fail(ctx, task, fmt.Errorf("panic during task execution: %v", r))
		}
	}()

	task.Status = types.TaskStatusRunning
	if err := tp.matchTaskRepo.Save(ctx, nil, task); err != nil {
		tp.fail(ctx, task, fmt.Errorf("failed to mark task running: %w", err))
		return
	}
	tp.hub.Publish(taskID, sse.EventTaskStarted, map[string]any{
		"taskId": taskID,
		"status": types.TaskStatusRunning,
	})

	outfits, strategyName, err := tp.run(ctx, task)
	if err != nil {
		tp.fail(ctx, task, err)
		return
	}
	tp.succeed(ctx, task, outfits, strategyName)
}

func (tp *TaskProcessor) run(ctx context.Context, task *types.MatchTask) ([]types.OutfitRecommendation, string, error) {
	member, err := tp.memberRepo.GetActiveByID(ctx, nil, task.MemberID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load member: %w", err)
	}
	if member == nil {
		return nil, "", fmt.Errorf("member %d not found", task.MemberID)
	}

	var candidateIDs []int64
	if err := json.Unmarshal(task.CandidateClothingIDs, &candidateIDs); err != nil {
		return nil, "", fmt.Errorf("failed to decode candidate ids: %w", err)
	}

	candidates, err := tp.clothingRepo.GetOnShelfByIDs(ctx, nil, candidateIDs)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load candidates: %w", err)
	}
	// Missing or off-shelf items are a hard failure, never silently skipped.
	if len(candidates) != len(candidateIDs) {
		found := make(map[int64]bool, len(candidates))
		for _, item := range candidates {
			found[item.ID] = true
		}
		for _, id := range candidateIDs {
			if !found[id] {
				return nil, "", fmt.Errorf("clothing %d is missing or not on shelf", id)
			}
		}
	}

	tp.publishProgress(task.ID, 45)
	tp.sleep(progressPacing)

	history, err := tp.matchRecordRepo.ListRecent(ctx, nil, task.MemberID, 10)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load match history: %w", err)
	}
	historyCount, err := tp.matchRecordRepo.CountByMemberID(ctx, nil, task.MemberID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to count match history: %w", err)
	}

	strategy, err := tp.router.Select(historyCount == 0)
	if err != nil {
		return nil, "", err
	}

	outfits, warning, err := strategy.Recommend(ctx, RecommendRequest{
		Member:     member,
		Candidates: candidates,
		History:    history,
		Scene:      task.Scene,
		Language:   ai.FromCode(task.Language),
		ColdStart:  historyCount == 0,
	})
	if err != nil {
		return nil, "", err
	}
	if warning != "" {
		tp.log.Warn("Strategy produced a warning", "taskID", task.ID, "strategy", strategy.Name(), "warning", warning)
	}

	tp.publishProgress(task.ID, 85)
	tp.sleep(progressPacing)

	return outfits, strategy.Name(), nil
}

func (tp *TaskProcessor) succeed(ctx context.Context, task *types.MatchTask, outfits []types.OutfitRecommendation, strategyName string) {
	resultJSON, err := json.Marshal(outfits)
	if err != nil {
		tp.fail(ctx, task, fmt.Errorf("failed to encode result: %w", err))
		return
	}

	task.Status = types.TaskStatusSucceeded
	task.StrategyName = strategyName
	task.Result = datatypes.JSON(resultJSON)

	err = tp.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		records := draftRecords(task.MemberID, outfits)
		if _, err := tp.matchRecordRepo.Create(ctx, tx, records); err != nil {
			return fmt.Errorf("failed to write draft history: %w", err)
		}
		return tp.matchTaskRepo.Save(ctx, tx, task)
	})
	if err != nil {
		tp.fail(ctx, task, err)
		return
	}

	tp.hub.Publish(task.ID, sse.EventTaskCompleted, map[string]any{
		"taskId":       task.ID,
		"status":       types.TaskStatusSucceeded,
		"strategyName": strategyName,
		"outfits":      outfits,
		"result":       FlattenOutfits(outfits),
	})
	tp.log.Info("Match task succeeded", "taskID", task.ID, "strategy", strategyName, "outfits", len(outfits))
}

// fail persists FAILED with a truncated message. If the full save throws, the
// minimal status+error write keeps the task from sticking in RUNNING. The
// terminal event publish is best effort.
func (tp *TaskProcessor) fail(ctx context.Context, task *types.MatchTask, cause error) {
	message := truncateError(cause.Error())
	tp.log.Error("Match task failed", "taskID", task.ID, "error", message)

	task.Status = types.TaskStatusFailed
	task.ErrorMessage = message
	// A failed task serves no outfits; drop anything staged by a partial run.
	task.Result = nil
	task.StrategyName = ""
	if err := tp.matchTaskRepo.Save(ctx, nil, task); err != nil {
		tp.log.Error("Full failure write failed; falling back to minimal update", "taskID", task.ID, "error", err)
		if uErr := tp.matchTaskRepo.UpdateStatusAndError(ctx, nil, task.ID, types.TaskStatusFailed, message); uErr != nil {
			tp.log.Error("Minimal failure write failed as well", "taskID", task.ID, "error", uErr)
		}
	}

	tp.hub.Publish(task.ID, sse.EventTaskFailed, map[string]any{
		"taskId": task.ID,
		"status": types.TaskStatusFailed,
		"error":  message,
	})
}

func (tp *TaskProcessor) publishProgress(taskID string, percent int) {
	tp.hub.Publish(taskID, sse.EventTaskProgress, map[string]any{
		"taskId":   taskID,
		"progress": percent,
	})
}

func draftRecords(memberID int64, outfits []types.OutfitRecommendation) []*types.MatchRecord {
	records := make([]*types.MatchRecord, 0, len(outfits)*2)
	for _, outfit := range outfits {
		records = append(records,
			&types.MatchRecord{MemberID: memberID, ClothingID: outfit.TopClothingID, Status: types.MatchRecordStatusDraft},
			&types.MatchRecord{MemberID: memberID, ClothingID: outfit.BottomClothingID, Status: types.MatchRecordStatusDraft},
		)
	}
	return records
}
