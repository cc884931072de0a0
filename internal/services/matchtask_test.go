package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/stylecast-backend/internal/logger"
	"github.com/yungbote/stylecast-backend/internal/repos"
	"github.com/yungbote/stylecast-backend/internal/types"
	"github.com/yungbote/stylecast-backend/internal/workerpool"
)

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(string) bool { return true }

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }

func seedMember(t *testing.T, theDB *gorm.DB, photoURL string) *types.Member {
	t.Helper()
	member := &types.Member{Name: "Mei", StyleTags: "casual,street", PhotoURL: photoURL, CreatedAt: time.Now()}
	require.NoError(t, theDB.Create(member).Error)
	return member
}

func seedClothing(t *testing.T, theDB *gorm.DB, clothingType types.ClothingType, imageURL string) *types.Clothing {
	t.Helper()
	item := &types.Clothing{
		Name:         string(clothingType) + " item",
		ClothingType: clothingType,
		Status:       types.ClothingStatusOnShelf,
		ImageURL:     imageURL,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, theDB.Create(item).Error)
	return item
}

func newTaskServiceForTest(t *testing.T, theDB *gorm.DB, log *logger.Logger, limiter RateLimiter, pool *workerpool.Pool) MatchTaskService {
	t.Helper()
	return NewMatchTaskService(
		theDB, log, limiter,
		repos.NewMemberRepo(theDB, log),
		repos.NewClothingRepo(theDB, log),
		repos.NewMatchTaskRepo(theDB, log),
		repos.NewMatchRecordRepo(theDB, log),
		pool,
		nil,
	)
}

func TestCreateTaskRejectsWhenRateLimited(t *testing.T) {
	theDB := newTestDB(t)
	log := newTestLogger(t)
	svc := newTaskServiceForTest(t, theDB, log, denyAllLimiter{}, workerpool.NewPool(1, 10, log))

	_, err := svc.CreateTask(context.Background(), CreateTaskInput{
		MemberID: 1, ClothingIDs: []int64{1, 2}, Operator: "alice",
	})
	require.Error(t, err)
	var capacityErr *CapacityError
	require.ErrorAs(t, err, &capacityErr)
}

func TestCreateTaskDedupFiltersRecentBroadcasts(t *testing.T) {
	theDB := newTestDB(t)
	log := newTestLogger(t)
	member := seedMember(t, theDB, "")
	worn := seedClothing(t, theDB, types.ClothingTypeTop, "")

	broadcastDate := time.Now().Add(-2 * 24 * time.Hour)
	require.NoError(t, theDB.Create(&types.MatchRecord{
		MemberID:      member.ID,
		ClothingID:    worn.ID,
		Status:        types.MatchRecordStatusBroadcasted,
		BroadcastDate: &broadcastDate,
		CreatedAt:     time.Now(),
	}).Error)

	svc := newTaskServiceForTest(t, theDB, log, allowAllLimiter{}, workerpool.NewPool(1, 10, log))

	// Only the worn item: dedup empties the set and names the rule.
	_, err := svc.CreateTask(context.Background(), CreateTaskInput{
		MemberID: member.ID, ClothingIDs: []int64{worn.ID}, Operator: "alice",
	})
	require.Error(t, err)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Message, "broadcasted")

	// Adding a never-worn item succeeds; the worn item is filtered out.
	fresh := seedClothing(t, theDB, types.ClothingTypeBottom, "")
	view, err := svc.CreateTask(context.Background(), CreateTaskInput{
		MemberID: member.ID, ClothingIDs: []int64{worn.ID, fresh.ID}, Operator: "alice",
	})
	require.NoError(t, err)
	require.Equal(t, types.TaskStatusQueued, view.Status)

	var task types.MatchTask
	require.NoError(t, theDB.First(&task, "id = ?", view.TaskID).Error)
	require.JSONEq(t, `[`+strconv.FormatInt(fresh.ID, 10)+`]`, string(task.CandidateClothingIDs))
}

func TestCreateTaskIgnoresStaleAndNonBroadcastHistory(t *testing.T) {
	theDB := newTestDB(t)
	log := newTestLogger(t)
	member := seedMember(t, theDB, "")
	item := seedClothing(t, theDB, types.ClothingTypeTop, "")

	stale := time.Now().Add(-8 * 24 * time.Hour)
	require.NoError(t, theDB.Create(&types.MatchRecord{
		MemberID: member.ID, ClothingID: item.ID,
		Status: types.MatchRecordStatusBroadcasted, BroadcastDate: &stale,
		CreatedAt: time.Now(),
	}).Error)
	require.NoError(t, theDB.Create(&types.MatchRecord{
		MemberID: member.ID, ClothingID: item.ID,
		Status: types.MatchRecordStatusAccepted,
		CreatedAt: time.Now(),
	}).Error)

	svc := newTaskServiceForTest(t, theDB, log, allowAllLimiter{}, workerpool.NewPool(1, 10, log))
	view, err := svc.CreateTask(context.Background(), CreateTaskInput{
		MemberID: member.ID, ClothingIDs: []int64{item.ID}, Operator: "alice",
	})
	require.NoError(t, err)
	require.Equal(t, types.TaskStatusQueued, view.Status)
}

func TestCreateTaskRejectsSaturatedQueue(t *testing.T) {
	theDB := newTestDB(t)
	log := newTestLogger(t)
	member := seedMember(t, theDB, "")
	item := seedClothing(t, theDB, types.ClothingTypeTop, "")

	// Zero-capacity queue with no running workers rejects every submission.
	pool := workerpool.NewPool(1, 0, log)
	svc := newTaskServiceForTest(t, theDB, log, allowAllLimiter{}, pool)

	_, err := svc.CreateTask(context.Background(), CreateTaskInput{
		MemberID: member.ID, ClothingIDs: []int64{item.ID}, Operator: "alice",
	})
	require.Error(t, err)
	var unavailableErr *UnavailableError
	require.ErrorAs(t, err, &unavailableErr)

	// The persisted task must not linger QUEUED.
	var task types.MatchTask
	require.NoError(t, theDB.First(&task, "member_id = ?", member.ID).Error)
	require.Equal(t, types.TaskStatusFailed, task.Status)
}

func TestCreateTaskValidatesInput(t *testing.T) {
	theDB := newTestDB(t)
	log := newTestLogger(t)
	svc := newTaskServiceForTest(t, theDB, log, allowAllLimiter{}, workerpool.NewPool(1, 10, log))

	var validationErr *ValidationError

	_, err := svc.CreateTask(context.Background(), CreateTaskInput{MemberID: 0, ClothingIDs: []int64{1}})
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.CreateTask(context.Background(), CreateTaskInput{MemberID: 1})
	require.ErrorAs(t, err, &validationErr)

	tooMany := make([]int64, 21)
	for i := range tooMany {
		tooMany[i] = int64(i + 1)
	}
	_, err = svc.CreateTask(context.Background(), CreateTaskInput{MemberID: 1, ClothingIDs: tooMany})
	require.ErrorAs(t, err, &validationErr)
}

func TestFlattenOutfitsLegacyView(t *testing.T) {
	outfits := []types.OutfitRecommendation{
		{OutfitNo: 1, TopClothingID: 10, BottomClothingID: 20, Score: 91, Reason: "great contrast"},
		{OutfitNo: 2, TopClothingID: 11, BottomClothingID: 21, Score: 80, Reason: "clean lines"},
	}
	items := FlattenOutfits(outfits)
	require.Len(t, items, 4)
	require.Equal(t, int64(10), items[0].ClothingID)
	require.Equal(t, "Outfit #1 TOP: great contrast", items[0].Reason)
	require.Equal(t, "Outfit #1 BOTTOM: great contrast", items[1].Reason)
	require.Equal(t, "Outfit #2 TOP: clean lines", items[2].Reason)
	require.Equal(t, 80, items[3].Score)
}

func TestDedupeIDsDropsDuplicatesAndNonPositive(t *testing.T) {
	require.Equal(t, []int64{3, 1, 2}, dedupeIDs([]int64{3, 3, 1, 0, -4, 2, 1}))
}

func TestTruncateError(t *testing.T) {
	long := make([]byte, 1500)
	for i := range long {
		long[i] = 'x'
	}
	require.Len(t, truncateError(string(long)), maxErrorMessageLen)
	require.Equal(t, "short", truncateError("short"))
}
