package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/stylecast-backend/internal/logger"
	"github.com/yungbote/stylecast-backend/internal/repos"
	"github.com/yungbote/stylecast-backend/internal/types"
)

type ClothingInput struct {
	Name         string         `json:"name"`
	ImageURL     string         `json:"imageUrl,omitempty"`
	StyleTags    string         `json:"styleTags,omitempty"`
	Status       string         `json:"status,omitempty"`
	ClothingType string         `json:"clothingType"`
	SizeData     map[string]any `json:"sizeData,omitempty"`
}

type ClothingService interface {
	Create(ctx context.Context, input ClothingInput) (*types.Clothing, error)
	Get(ctx context.Context, clothingID int64) (*types.Clothing, error)
	List(ctx context.Context, status string, page, size int) ([]*types.Clothing, int64, error)
	Update(ctx context.Context, clothingID int64, input ClothingInput) (*types.Clothing, error)
	Delete(ctx context.Context, clothingID int64) error
}

type clothingService struct {
	db           *gorm.DB
	log          *logger.Logger
	clothingRepo repos.ClothingRepo
}

func NewClothingService(db *gorm.DB, baseLog *logger.Logger, clothingRepo repos.ClothingRepo) ClothingService {
	return &clothingService{
		db:           db,
		log:          baseLog.With("service", "ClothingService"),
		clothingRepo: clothingRepo,
	}
}

func parseClothingType(raw string) (types.ClothingType, error) {
	switch types.ClothingType(strings.ToUpper(strings.TrimSpace(raw))) {
	case types.ClothingTypeTop:
		return types.ClothingTypeTop, nil
	case types.ClothingTypeBottom:
		return types.ClothingTypeBottom, nil
	case types.ClothingTypeOnePiece:
		return types.ClothingTypeOnePiece, nil
	default:
		return "", NewValidationError("clothingType must be TOP, BOTTOM or ONE_PIECE")
	}
}

func parseClothingStatus(raw string) (types.ClothingStatus, error) {
	switch types.ClothingStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case types.ClothingStatusOnShelf:
		return types.ClothingStatusOnShelf, nil
	case types.ClothingStatusOffShelf:
		return types.ClothingStatusOffShelf, nil
	default:
		return "", NewValidationError("status must be ON_SHELF or OFF_SHELF")
	}
}

func marshalSizeData(sizeData map[string]any) (datatypes.JSON, error) {
	if len(sizeData) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(sizeData)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func (cs *clothingService) Create(ctx context.Context, input ClothingInput) (*types.Clothing, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, NewValidationError("clothing name is required")
	}
	clothingType, err := parseClothingType(input.ClothingType)
	if err != nil {
		return nil, err
	}
	status := types.ClothingStatusOnShelf
	if input.Status != "" {
		if status, err = parseClothingStatus(input.Status); err != nil {
			return nil, err
		}
	}
	sizeData, err := marshalSizeData(input.SizeData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode size data: %w", err)
	}

	item := &types.Clothing{
		Name:         name,
		ImageURL:     strings.TrimSpace(input.ImageURL),
		StyleTags:    strings.TrimSpace(input.StyleTags),
		Status:       status,
		ClothingType: clothingType,
		SizeData:     sizeData,
	}
	if _, err := cs.clothingRepo.Create(ctx, nil, []*types.Clothing{item}); err != nil {
		return nil, fmt.Errorf("failed to create clothing: %w", err)
	}
	return item, nil
}

func (cs *clothingService) Get(ctx context.Context, clothingID int64) (*types.Clothing, error) {
	item, err := cs.clothingRepo.GetActiveByID(ctx, nil, clothingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load clothing: %w", err)
	}
	if item == nil {
		return nil, NewNotFoundError("clothing %d not found", clothingID)
	}
	return item, nil
}

func (cs *clothingService) List(ctx context.Context, status string, page, size int) ([]*types.Clothing, int64, error) {
	var filter types.ClothingStatus
	if status != "" {
		parsed, err := parseClothingStatus(status)
		if err != nil {
			return nil, 0, err
		}
		filter = parsed
	}
	return cs.clothingRepo.ListActive(ctx, nil, filter, page, size)
}

func (cs *clothingService) Update(ctx context.Context, clothingID int64, input ClothingInput) (*types.Clothing, error) {
	item, err := cs.Get(ctx, clothingID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		item.Name = name
	}
	if input.ClothingType != "" {
		clothingType, err := parseClothingType(input.ClothingType)
		if err != nil {
			return nil, err
		}
		item.ClothingType = clothingType
	}
	if input.Status != "" {
		status, err := parseClothingStatus(input.Status)
		if err != nil {
			return nil, err
		}
		item.Status = status
	}
	if input.ImageURL != "" {
		item.ImageURL = strings.TrimSpace(input.ImageURL)
	}
	if input.StyleTags != "" {
		item.StyleTags = strings.TrimSpace(input.StyleTags)
	}
	if len(input.SizeData) > 0 {
		sizeData, err := marshalSizeData(input.SizeData)
		if err != nil {
			return nil, fmt.Errorf("failed to encode size data: %w", err)
		}
		item.SizeData = sizeData
	}

	if err := cs.clothingRepo.Update(ctx, nil, item); err != nil {
		return nil, fmt.Errorf("failed to update clothing: %w", err)
	}
	return item, nil
}

func (cs *clothingService) Delete(ctx context.Context, clothingID int64) error {
	if _, err := cs.Get(ctx, clothingID); err != nil {
		return err
	}
	if err := cs.clothingRepo.SoftDelete(ctx, nil, clothingID); err != nil {
		return fmt.Errorf("failed to delete clothing: %w", err)
	}
	return nil
}
