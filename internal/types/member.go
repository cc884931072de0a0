package types

import (
	"time"

	"gorm.io/datatypes"
)

// Member is a profiled person recommendations are generated for.
type Member struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	BodyData  datatypes.JSON `gorm:"column:body_data" json:"body_data,omitempty"`
	StyleTags string         `gorm:"column:style_tags" json:"style_tags,omitempty"`
	PhotoURL  string         `gorm:"column:photo_url" json:"photo_url,omitempty"`
	Deleted   bool           `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Member) TableName() string { return "member" }
