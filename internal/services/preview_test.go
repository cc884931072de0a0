package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/stylecast-backend/internal/ai"
	"github.com/yungbote/stylecast-backend/internal/repos"
	"github.com/yungbote/stylecast-backend/internal/types"
)

type stubProvider struct {
	preview      *types.OutfitPreview
	err          error
	previewCalls int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Suggest(ctx context.Context, req ai.SuggestRequest) ([]ai.Suggestion, error) {
	return nil, nil
}

func (s *stubProvider) GeneratePreview(ctx context.Context, req ai.PreviewRequest) (*types.OutfitPreview, error) {
	s.previewCalls++
	return s.preview, s.err
}

func seedSucceededTask(t *testing.T, theDB *gorm.DB, memberID int64, outfits []types.OutfitRecommendation) *types.MatchTask {
	t.Helper()
	resultJSON, err := json.Marshal(outfits)
	require.NoError(t, err)
	task := &types.MatchTask{
		ID:                   uuid.NewString(),
		MemberID:             memberID,
		OperatorUsername:     "alice",
		Status:               types.TaskStatusSucceeded,
		StrategyName:         "AI_ONLY",
		CandidateClothingIDs: datatypes.JSON([]byte("[]")),
		Result:               datatypes.JSON(resultJSON),
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}
	require.NoError(t, theDB.Create(task).Error)
	return task
}

func newPreviewServiceForTest(t *testing.T, theDB *gorm.DB, provider ai.Provider) PreviewService {
	t.Helper()
	log := newTestLogger(t)
	return NewPreviewService(
		theDB, log,
		repos.NewMemberRepo(theDB, log),
		repos.NewClothingRepo(theDB, log),
		repos.NewMatchTaskRepo(theDB, log),
		provider,
	)
}

func TestPreviewDegradesWithoutProviderCall(t *testing.T) {
	theDB := newTestDB(t)
	member := seedMember(t, theDB, "")
	top := seedClothing(t, theDB, types.ClothingTypeTop, "")
	bottom := seedClothing(t, theDB, types.ClothingTypeBottom, "https://img.example/b.jpg")

	provider := &stubProvider{}
	svc := newPreviewServiceForTest(t, theDB, provider)
	task := seedSucceededTask(t, theDB, member.ID, []types.OutfitRecommendation{
		{OutfitNo: 1, TopClothingID: top.ID, BottomClothingID: bottom.ID, Score: 90, Reason: "x"},
	})

	view, err := svc.GenerateOutfitPreview(context.Background(), task.ID, 1)
	require.NoError(t, err, "degradation is still a successful response")
	require.Nil(t, view.Outfits[0].Preview)
	require.Contains(t, view.Outfits[0].Warning, "missing member photo or clothing image")
	require.Equal(t, types.TaskStatusSucceeded, view.Status)
	require.Zero(t, provider.previewCalls, "provider must not be invoked for degraded inputs")
}

func TestPreviewSuccessMergesIntoOutfit(t *testing.T) {
	theDB := newTestDB(t)
	member := seedMember(t, theDB, "https://img.example/m.jpg")
	top := seedClothing(t, theDB, types.ClothingTypeTop, "https://img.example/t.jpg")
	bottom := seedClothing(t, theDB, types.ClothingTypeBottom, "https://img.example/b.jpg")

	provider := &stubProvider{preview: &types.OutfitPreview{
		Title:             "City stroll",
		OutfitDescription: "Relaxed layers",
		ImagePrompt:       "a person walking downtown",
	}}
	svc := newPreviewServiceForTest(t, theDB, provider)
	task := seedSucceededTask(t, theDB, member.ID, []types.OutfitRecommendation{
		{OutfitNo: 1, TopClothingID: top.ID, BottomClothingID: bottom.ID, Score: 90, Reason: "x"},
		{OutfitNo: 2, TopClothingID: top.ID, BottomClothingID: bottom.ID, Score: 80, Reason: "y"},
	})

	view, err := svc.GenerateOutfitPreview(context.Background(), task.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 1, provider.previewCalls)
	require.Nil(t, view.Outfits[0].Preview, "unrelated outfits are untouched")
	require.NotNil(t, view.Outfits[1].Preview)
	require.Equal(t, "City stroll", view.Outfits[1].Preview.Title)
	require.Empty(t, view.Outfits[1].Warning)

	// Legacy top-level preview mirrors the first outfit only.
	require.Nil(t, view.Preview)
}

func TestPreviewBlankFieldIsHardFailure(t *testing.T) {
	theDB := newTestDB(t)
	member := seedMember(t, theDB, "https://img.example/m.jpg")
	top := seedClothing(t, theDB, types.ClothingTypeTop, "https://img.example/t.jpg")
	bottom := seedClothing(t, theDB, types.ClothingTypeBottom, "https://img.example/b.jpg")

	provider := &stubProvider{preview: &types.OutfitPreview{Title: "ok", OutfitDescription: "", ImagePrompt: "p"}}
	svc := newPreviewServiceForTest(t, theDB, provider)
	task := seedSucceededTask(t, theDB, member.ID, []types.OutfitRecommendation{
		{OutfitNo: 1, TopClothingID: top.ID, BottomClothingID: bottom.ID, Score: 90, Reason: "x"},
	})

	view, err := svc.GenerateOutfitPreview(context.Background(), task.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 1, provider.previewCalls, "the provider was invoked; this is not a degrade")
	require.Nil(t, view.Outfits[0].Preview)
	require.Contains(t, view.Outfits[0].Warning, "incomplete preview content")
}

func TestPreviewWarningsAccumulateDeduplicated(t *testing.T) {
	theDB := newTestDB(t)
	member := seedMember(t, theDB, "")
	top := seedClothing(t, theDB, types.ClothingTypeTop, "")
	bottom := seedClothing(t, theDB, types.ClothingTypeBottom, "")

	svc := newPreviewServiceForTest(t, theDB, &stubProvider{})
	task := seedSucceededTask(t, theDB, member.ID, []types.OutfitRecommendation{
		{OutfitNo: 1, TopClothingID: top.ID, BottomClothingID: bottom.ID, Score: 90, Reason: "x"},
		{OutfitNo: 2, TopClothingID: top.ID, BottomClothingID: bottom.ID, Score: 80, Reason: "y"},
	})

	_, err := svc.GenerateOutfitPreview(context.Background(), task.ID, 1)
	require.NoError(t, err)
	_, err = svc.GenerateOutfitPreview(context.Background(), task.ID, 2)
	require.NoError(t, err)

	var stored types.MatchTask
	require.NoError(t, theDB.First(&stored, "id = ?", task.ID).Error)
	require.Equal(t, PreviewSkippedWarning, stored.ErrorMessage, "identical warnings collapse into one entry")
}

func TestPreviewRequiresSucceededTaskAndExistingOutfit(t *testing.T) {
	theDB := newTestDB(t)
	member := seedMember(t, theDB, "")
	svc := newPreviewServiceForTest(t, theDB, &stubProvider{})

	queued := seedQueuedTask(t, theDB, member.ID, []int64{1})
	_, err := svc.GenerateOutfitPreview(context.Background(), queued.ID, 1)
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)

	succeeded := seedSucceededTask(t, theDB, member.ID, []types.OutfitRecommendation{
		{OutfitNo: 1, TopClothingID: 1, BottomClothingID: 2, Score: 90, Reason: "x"},
	})
	_, err = svc.GenerateOutfitPreview(context.Background(), succeeded.ID, 7)
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)

	_, err = svc.GenerateOutfitPreview(context.Background(), "nope", 1)
	require.ErrorAs(t, err, &notFoundErr)
}

func TestMergeWarnings(t *testing.T) {
	require.Equal(t, "a", mergeWarnings("", "a"))
	require.Equal(t, "a; b", mergeWarnings("a", "b"))
	require.Equal(t, "a; b", mergeWarnings("a; b", "a"))
	require.Equal(t, "a", mergeWarnings("a", ""))
}
