package types

import (
	"time"

	"gorm.io/datatypes"
)

type TaskStatus string

const (
	TaskStatusQueued    TaskStatus = "QUEUED"
	TaskStatusRunning   TaskStatus = "RUNNING"
	TaskStatusSucceeded TaskStatus = "SUCCEEDED"
	TaskStatusFailed    TaskStatus = "FAILED"
)

// IsTerminal reports whether the status can no longer change.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusSucceeded || s == TaskStatusFailed
}

// MatchTask is the persistent aggregate for one asynchronous recommendation run.
// Candidate ids are fixed at creation; status moves QUEUED -> RUNNING -> terminal
// and never regresses. Tasks are never deleted.
type MatchTask struct {
	ID                   string         `gorm:"primaryKey;size:64" json:"id"`
	MemberID             int64          `gorm:"column:member_id;not null;index" json:"member_id"`
	OperatorUsername     string         `gorm:"column:operator_username;not null" json:"operator_username"`
	Scene                string         `json:"scene,omitempty"`
	Language             string         `gorm:"size:8" json:"language,omitempty"`
	Status               TaskStatus     `gorm:"not null" json:"status"`
	StrategyName         string         `gorm:"column:strategy_name" json:"strategy_name,omitempty"`
	CandidateClothingIDs datatypes.JSON `gorm:"column:candidate_clothing_ids;not null" json:"candidate_clothing_ids"`
	Result               datatypes.JSON `gorm:"column:result" json:"result,omitempty"`
	Preview              datatypes.JSON `gorm:"column:preview" json:"preview,omitempty"`
	ErrorMessage         string         `gorm:"column:error_message;size:1000" json:"error_message,omitempty"`
	CreatedAt            time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"not null" json:"updated_at"`
}

func (MatchTask) TableName() string { return "match_task" }
