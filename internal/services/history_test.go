package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/stylecast-backend/internal/repos"
	"github.com/yungbote/stylecast-backend/internal/types"
)

func newHistoryServiceForTest(t *testing.T, theDB *gorm.DB) MatchHistoryService {
	t.Helper()
	log := newTestLogger(t)
	return NewMatchHistoryService(
		theDB, log,
		repos.NewMemberRepo(theDB, log),
		repos.NewClothingRepo(theDB, log),
		repos.NewMatchRecordRepo(theDB, log),
	)
}

func TestCreateRecordStampsBroadcastDate(t *testing.T) {
	theDB := newTestDB(t)
	member := seedMember(t, theDB, "")
	item := seedClothing(t, theDB, types.ClothingTypeTop, "")
	svc := newHistoryServiceForTest(t, theDB)

	record, err := svc.CreateRecord(context.Background(), member.ID, CreateRecordInput{
		ClothingID: item.ID,
		Broadcast:  true,
	})
	require.NoError(t, err)
	require.Equal(t, types.MatchRecordStatusBroadcasted, record.Status)
	require.NotNil(t, record.BroadcastDate)

	plain, err := svc.CreateRecord(context.Background(), member.ID, CreateRecordInput{ClothingID: item.ID})
	require.NoError(t, err)
	require.Equal(t, types.MatchRecordStatusAccepted, plain.Status)
	require.Nil(t, plain.BroadcastDate)
}

func TestUpdateStatusRevertClearsBroadcastDate(t *testing.T) {
	theDB := newTestDB(t)
	member := seedMember(t, theDB, "")
	item := seedClothing(t, theDB, types.ClothingTypeTop, "")
	svc := newHistoryServiceForTest(t, theDB)

	record, err := svc.CreateRecord(context.Background(), member.ID, CreateRecordInput{
		ClothingID: item.ID,
		Broadcast:  true,
	})
	require.NoError(t, err)

	// Reverting off BROADCASTED clears the date so dedup stops seeing it.
	reverted, err := svc.UpdateStatus(context.Background(), member.ID, record.ID, UpdateRecordStatusInput{Status: "REJECTED"})
	require.NoError(t, err)
	require.Equal(t, types.MatchRecordStatusRejected, reverted.Status)
	require.Nil(t, reverted.BroadcastDate)

	var stored types.MatchRecord
	require.NoError(t, theDB.First(&stored, "id = ?", record.ID).Error)
	require.Nil(t, stored.BroadcastDate)

	// Marking broadcast again stamps a fresh date.
	again, err := svc.UpdateStatus(context.Background(), member.ID, record.ID, UpdateRecordStatusInput{Status: "BROADCASTED"})
	require.NoError(t, err)
	require.NotNil(t, again.BroadcastDate)
}

func TestUpdateStatusScopedToMember(t *testing.T) {
	theDB := newTestDB(t)
	member := seedMember(t, theDB, "")
	other := seedMember(t, theDB, "")
	item := seedClothing(t, theDB, types.ClothingTypeTop, "")
	svc := newHistoryServiceForTest(t, theDB)

	record, err := svc.CreateRecord(context.Background(), member.ID, CreateRecordInput{ClothingID: item.ID})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), other.ID, record.ID, UpdateRecordStatusInput{Status: "ACCEPTED"})
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestListTopPerformingOrdersByScore(t *testing.T) {
	theDB := newTestDB(t)
	member := seedMember(t, theDB, "")
	item := seedClothing(t, theDB, types.ClothingTypeTop, "")
	svc := newHistoryServiceForTest(t, theDB)

	for _, score := range []int{40, 90, 65} {
		s := score
		_, err := svc.CreateRecord(context.Background(), member.ID, CreateRecordInput{
			ClothingID:       item.ID,
			PerformanceScore: &s,
		})
		require.NoError(t, err)
	}

	records, err := svc.ListTopPerforming(context.Background(), member.ID, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, 90, *records[0].PerformanceScore)
	require.Equal(t, 65, *records[1].PerformanceScore)
	require.Equal(t, 40, *records[2].PerformanceScore)
}

func TestListRecentValidatesMember(t *testing.T) {
	theDB := newTestDB(t)
	svc := newHistoryServiceForTest(t, theDB)

	_, err := svc.ListRecent(context.Background(), 12345, 10)
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}
