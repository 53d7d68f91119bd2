package domain

import "time"

// TransitionRecord is an append-only audit entry for one status change.
// Rows are never updated or deleted.
type TransitionRecord struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SubmissionID string    `gorm:"column:submission_id;type:varchar(36);index" json:"submission_id"`
	ActorID      string    `gorm:"column:actor_id;type:varchar(36);index" json:"actor_id"`
	FromStatus   string    `gorm:"column:from_status;type:varchar(16)" json:"from_status"`
	ToStatus     string    `gorm:"column:to_status;type:varchar(16)" json:"to_status"`
	Note         string    `gorm:"column:note;type:text" json:"note,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name
func (TransitionRecord) TableName() string { return "submission_transitions" }
