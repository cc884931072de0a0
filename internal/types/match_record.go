package types

import "time"

type MatchRecordStatus string

const (
	// Generated automatically when a task succeeds, not yet confirmed.
	MatchRecordStatusDraft MatchRecordStatus = "DRAFT"
	// Confirmed by an operator as a selected look.
	MatchRecordStatusAccepted MatchRecordStatus = "ACCEPTED"
	// Worn in an actual livestream; participates in dedup filtering.
	MatchRecordStatusBroadcasted MatchRecordStatus = "BROADCASTED"
	MatchRecordStatusRejected    MatchRecordStatus = "REJECTED"
)

// MatchRecord is one member+clothing history entry. Only BROADCASTED records
// with a broadcast date inside the trailing dedup window exclude an item from
// new recommendations.
type MatchRecord struct {
	ID               int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID         int64             `gorm:"column:member_id;not null;index" json:"member_id"`
	ClothingID       int64             `gorm:"column:clothing_id;not null;index" json:"clothing_id"`
	Status           MatchRecordStatus `gorm:"not null" json:"status"`
	BroadcastDate    *time.Time        `gorm:"column:broadcast_date" json:"broadcast_date,omitempty"`
	PerformanceScore *int              `gorm:"column:performance_score" json:"performance_score,omitempty"`
	CreatedAt        time.Time         `gorm:"not null" json:"created_at"`
}

func (MatchRecord) TableName() string { return "match_record" }
