package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/stylecast-backend/internal/logger"
	"github.com/yungbote/stylecast-backend/internal/repos"
	"github.com/yungbote/stylecast-backend/internal/types"
)

type CreateRecordInput struct {
	ClothingID       int64  `json:"clothingId"`
	Status           string `json:"status,omitempty"`
	Broadcast        bool   `json:"broadcast,omitempty"`
	PerformanceScore *int   `json:"performanceScore,omitempty"`
}

type UpdateRecordStatusInput struct {
	Status           string `json:"status"`
	PerformanceScore *int   `json:"performanceScore,omitempty"`
}

type MatchHistoryService interface {
	ListRecent(ctx context.Context, memberID int64, limit int) ([]*types.MatchRecord, error)
	// ListTopPerforming orders by performance score instead of recency, for
	// surfacing a member's proven looks.
	ListTopPerforming(ctx context.Context, memberID int64, limit int) ([]*types.MatchRecord, error)
	CreateRecord(ctx context.Context, memberID int64, input CreateRecordInput) (*types.MatchRecord, error)
	// UpdateStatus moves a record through its lifecycle. Marking BROADCASTED
	// stamps the broadcast date; leaving BROADCASTED clears it so the record
	// stops affecting dedup.
	UpdateStatus(ctx context.Context, memberID, recordID int64, input UpdateRecordStatusInput) (*types.MatchRecord, error)
}

type matchHistoryService struct {
	db              *gorm.DB
	log             *logger.Logger
	memberRepo      repos.MemberRepo
	clothingRepo    repos.ClothingRepo
	matchRecordRepo repos.MatchRecordRepo
}

func NewMatchHistoryService(
	db *gorm.DB,
	baseLog *logger.Logger,
	memberRepo repos.MemberRepo,
	clothingRepo repos.ClothingRepo,
	matchRecordRepo repos.MatchRecordRepo,
) MatchHistoryService {
	return &matchHistoryService{
		db:              db,
		log:             baseLog.With("service", "MatchHistoryService"),
		memberRepo:      memberRepo,
		clothingRepo:    clothingRepo,
		matchRecordRepo: matchRecordRepo,
	}
}

func parseRecordStatus(raw string) (types.MatchRecordStatus, error) {
	switch types.MatchRecordStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case types.MatchRecordStatusDraft:
		return types.MatchRecordStatusDraft, nil
	case types.MatchRecordStatusAccepted:
		return types.MatchRecordStatusAccepted, nil
	case types.MatchRecordStatusBroadcasted:
		return types.MatchRecordStatusBroadcasted, nil
	case types.MatchRecordStatusRejected:
		return types.MatchRecordStatusRejected, nil
	default:
		return "", NewValidationError("status must be DRAFT, ACCEPTED, BROADCASTED or REJECTED")
	}
}

func (hs *matchHistoryService) ListRecent(ctx context.Context, memberID int64, limit int) ([]*types.MatchRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	member, err := hs.memberRepo.GetActiveByID(ctx, nil, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	if member == nil {
		return nil, NewNotFoundError("member %d not found", memberID)
	}
	return hs.matchRecordRepo.ListRecent(ctx, nil, memberID, limit)
}

func (hs *matchHistoryService) ListTopPerforming(ctx context.Context, memberID int64, limit int) ([]*types.MatchRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	member, err := hs.memberRepo.GetActiveByID(ctx, nil, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	if member == nil {
		return nil, NewNotFoundError("member %d not found", memberID)
	}
	return hs.matchRecordRepo.FindTopByPerformance(ctx, nil, memberID, limit)
}

func (hs *matchHistoryService) CreateRecord(ctx context.Context, memberID int64, input CreateRecordInput) (*types.MatchRecord, error) {
	if input.ClothingID <= 0 {
		return nil, NewValidationError("clothingId is required")
	}
	member, err := hs.memberRepo.GetActiveByID(ctx, nil, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	if member == nil {
		return nil, NewNotFoundError("member %d not found", memberID)
	}
	item, err := hs.clothingRepo.GetActiveByID(ctx, nil, input.ClothingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load clothing: %w", err)
	}
	if item == nil {
		return nil, NewNotFoundError("clothing %d not found", input.ClothingID)
	}

	status := types.MatchRecordStatusAccepted
	if input.Status != "" {
		if status, err = parseRecordStatus(input.Status); err != nil {
			return nil, err
		}
	}
	if input.Broadcast {
		status = types.MatchRecordStatusBroadcasted
	}

	record := &types.MatchRecord{
		MemberID:         memberID,
		ClothingID:       input.ClothingID,
		Status:           status,
		PerformanceScore: input.PerformanceScore,
	}
	if status == types.MatchRecordStatusBroadcasted {
		now := time.Now()
		record.BroadcastDate = &now
	}

	created, err := hs.matchRecordRepo.Create(ctx, nil, []*types.MatchRecord{record})
	if err != nil {
		return nil, fmt.Errorf("failed to create match record: %w", err)
	}
	return created[0], nil
}

func (hs *matchHistoryService) UpdateStatus(ctx context.Context, memberID, recordID int64, input UpdateRecordStatusInput) (*types.MatchRecord, error) {
	status, err := parseRecordStatus(input.Status)
	if err != nil {
		return nil, err
	}

	record, err := hs.matchRecordRepo.GetByIDAndMemberID(ctx, nil, recordID, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load match record: %w", err)
	}
	if record == nil {
		return nil, NewNotFoundError("match record %d not found for member %d", recordID, memberID)
	}

	record.Status = status
	if status == types.MatchRecordStatusBroadcasted {
		now := time.Now()
		record.BroadcastDate = &now
	} else {
		record.BroadcastDate = nil
	}
	if input.PerformanceScore != nil {
		record.PerformanceScore = input.PerformanceScore
	}

	if err := hs.matchRecordRepo.Save(ctx, nil, record); err != nil {
		return nil, fmt.Errorf("failed to update match record: %w", err)
	}
	return record, nil
}
