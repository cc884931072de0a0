package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/stylecast-backend/internal/ai"
	"github.com/yungbote/stylecast-backend/internal/logger"
	"github.com/yungbote/stylecast-backend/internal/repos"
	"github.com/yungbote/stylecast-backend/internal/types"
)

// PreviewSkippedWarning is the fixed degradation message used when the
// provider is not called at all.
const PreviewSkippedWarning = "Preview skipped: missing member photo or clothing image"

type PreviewService interface {
	// GenerateOutfitPreview fills in one outfit's preview. Provider failures
	// degrade to a per-outfit warning; the task stays SUCCEEDED either way.
	GenerateOutfitPreview(ctx context.Context, taskID string, outfitNo int) (*TaskView, error)
}

type previewService struct {
	db            *gorm.DB
	log           *logger.Logger
	memberRepo    repos.MemberRepo
	clothingRepo  repos.ClothingRepo
	matchTaskRepo repos.MatchTaskRepo
	client        ai.Provider
}

func NewPreviewService(
	db *gorm.DB,
	baseLog *logger.Logger,
	memberRepo repos.MemberRepo,
	clothingRepo repos.ClothingRepo,
	matchTaskRepo repos.MatchTaskRepo,
	client ai.Provider,
) PreviewService {
	return &previewService{
		db:            db,
		log:           baseLog.With("service", "PreviewService"),
		memberRepo:    memberRepo,
		clothingRepo:  clothingRepo,
		matchTaskRepo: matchTaskRepo,
		client:        client,
	}
}

func (ps *previewService) GenerateOutfitPreview(ctx context.Context, taskID string, outfitNo int) (*TaskView, error) {
	task, err := ps.matchTaskRepo.GetByID(ctx, nil, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	if task == nil {
		return nil, NewNotFoundError("task %s not found", taskID)
	}
	if task.Status != types.TaskStatusSucceeded {
		return nil, &ConflictError{Message: fmt.Sprintf("task %s is %s; previews require a succeeded task", taskID, task.Status)}
	}

	outfits := decodeOutfits(task.Result)
	idx := -1
	for i := range outfits {
		if outfits[i].OutfitNo == outfitNo {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, NewNotFoundError("outfit %d not found on task %s", outfitNo, taskID)
	}

	preview, warning := ps.generate(ctx, task, &outfits[idx])
	outfits[idx].Preview = preview
	outfits[idx].Warning = warning

	resultJSON, err := json.Marshal(outfits)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	task.Result = datatypes.JSON(resultJSON)
	if outfits[0].Preview != nil {
		// Legacy consumers read the first outfit's preview off the task row.
		previewJSON, err := json.Marshal(outfits[0].Preview)
		if err != nil {
			return nil, fmt.Errorf("failed to encode preview: %w", err)
		}
		task.Preview = datatypes.JSON(previewJSON)
	}
	if warning != "" {
		task.ErrorMessage = truncateError(mergeWarnings(task.ErrorMessage, warning))
	}
	if err := ps.matchTaskRepo.Save(ctx, nil, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	return buildTaskView(task), nil
}

// generate returns either a preview or a warning, never both. The provider is
// only invoked when every required image reference is present.
func (ps *previewService) generate(ctx context.Context, task *types.MatchTask, outfit *types.OutfitRecommendation) (*types.OutfitPreview, string) {
	member, err := ps.memberRepo.GetActiveByID(ctx, nil, task.MemberID)
	if err != nil || member == nil {
		return nil, fmt.Sprintf("Preview failed: member %d unavailable", task.MemberID)
	}

	items, err := ps.clothingRepo.GetActiveByIDs(ctx, nil, []int64{outfit.TopClothingID, outfit.BottomClothingID})
	if err != nil {
		return nil, fmt.Sprintf("Preview failed: %s", truncateError(err.Error()))
	}

	if member.PhotoURL == "" || len(items) < 2 || anyMissingImage(items) {
		ps.log.Info("Preview degraded without provider call", "taskID", task.ID, "outfitNo", outfit.OutfitNo)
		return nil, PreviewSkippedWarning
	}

	preview, err := ps.client.GeneratePreview(ctx, ai.PreviewRequest{
		Member:   member,
		Items:    items,
		Scene:    task.Scene,
		Language: ai.FromCode(task.Language),
	})
	if err != nil {
		ps.log.Error("Preview generation failed", "taskID", task.ID, "outfitNo", outfit.OutfitNo, "error", err)
		return nil, fmt.Sprintf("Preview failed: %s", truncateError(err.Error()))
	}

	// The provider answered but produced unusable output; treat as a hard
	// failure, not a silent degrade.
	if strings.TrimSpace(preview.Title) == "" ||
		strings.TrimSpace(preview.OutfitDescription) == "" ||
		strings.TrimSpace(preview.ImagePrompt) == "" {
		ps.log.Error("Preview response missing required fields", "taskID", task.ID, "outfitNo", outfit.OutfitNo)
		return nil, "Preview failed: provider returned incomplete preview content"
	}
	return preview, ""
}

func anyMissingImage(items []*types.Clothing) bool {
	for _, item := range items {
		if item.ImageURL == "" {
			return true
		}
	}
	return false
}

// mergeWarnings appends a warning to the accumulated message, deduplicated
// and joined with "; ".
func mergeWarnings(existing, warning string) string {
	parts := []string{}
	seen := map[string]bool{}
	for _, part := range strings.Split(existing, "; ") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" && !seen[trimmed] {
			seen[trimmed] = true
			parts = append(parts, trimmed)
		}
	}
	if trimmed := strings.TrimSpace(warning); trimmed != "" && !seen[trimmed] {
		parts = append(parts, trimmed)
	}
	return strings.Join(parts, "; ")
}
