package types

import (
	"time"

	"gorm.io/datatypes"
)

type ClothingType string

const (
	ClothingTypeTop      ClothingType = "TOP"
	ClothingTypeBottom   ClothingType = "BOTTOM"
	ClothingTypeOnePiece ClothingType = "ONE_PIECE"
)

type ClothingStatus string

const (
	ClothingStatusOnShelf  ClothingStatus = "ON_SHELF"
	ClothingStatusOffShelf ClothingStatus = "OFF_SHELF"
)

// Clothing is a catalog item. SizeData holds free-form measurement fields
// (shoulderWidthCm, bustCm, waistCm, ...) surfaced to the AI prompt.
type Clothing struct {
	ID           int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	ImageURL     string         `gorm:"column:image_url" json:"image_url,omitempty"`
	StyleTags    string         `gorm:"column:style_tags" json:"style_tags,omitempty"`
	Status       ClothingStatus `gorm:"not null;default:'ON_SHELF'" json:"status"`
	ClothingType ClothingType   `gorm:"column:clothing_type" json:"clothing_type"`
	SizeData     datatypes.JSON `gorm:"column:size_data" json:"size_data,omitempty"`
	Deleted      bool           `gorm:"not null;default:false" json:"-"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (Clothing) TableName() string { return "clothing" }
